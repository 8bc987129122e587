// Package seed provides the built-in CollabHub workspace and loads
// replacement workspaces from YAML files.
package seed

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/good-yellow-bee/collabhub/internal/store"
)

// DefaultPassword is the sign-in password of the built-in workspace.
const DefaultPassword = "collabhub"

//go:embed fixture.yaml
var fixture []byte

// File is the on-disk layout of a seed file. Password is a plain-text
// convenience for hand-written fixtures and is hashed on load; it is ignored
// when password_hash is set.
type File struct {
	store.Seed `yaml:",inline"`
	Password   string `yaml:"password,omitempty"`
}

var (
	defaultHashOnce sync.Once
	defaultHash     string
	defaultHashErr  error
)

// Default returns a fresh copy of the built-in workspace. The result shares
// nothing with earlier calls.
func Default() store.Seed {
	f, err := decode(fixture)
	if err != nil {
		panic(fmt.Sprintf("seed: built-in fixture: %v", err))
	}

	defaultHashOnce.Do(func() {
		defaultHash, defaultHashErr = store.HashPassword(f.Password)
	})
	if defaultHashErr != nil {
		panic(fmt.Sprintf("seed: hash default password: %v", defaultHashErr))
	}

	s := f.Seed
	s.PasswordHash = defaultHash
	return s
}
