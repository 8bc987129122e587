package store

import (
	"bytes"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

// MinPasswordLength is the shortest password ChangePassword accepts.
const MinPasswordLength = 8

func userID(u *models.User) string { return u.ID }

// User returns the workspace member with the given id.
func (s *Store) User(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.state.Users, id, userID)
	if i < 0 {
		return nil, notFound(KindUser, id)
	}
	return s.state.Users[i], nil
}

// Users returns every workspace member.
func (s *Store) Users() []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Users
}

// CurrentUser returns the signed-in user's profile record.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentUser
}

// UpdateCurrentUser merges upd into the current-user record. The record is
// separate from the users collection, which is left untouched.
func (s *Store) UpdateCurrentUser(upd UserUpdate) (*models.User, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, invalid("name", "is required")
	}
	if upd.Email != nil {
		if _, err := mail.ParseAddress(*upd.Email); err != nil {
			return nil, invalid("email", "must be a valid email")
		}
	}

	var updated *models.User
	err := s.mutate(func() (Change, error) {
		u := s.state.CurrentUser.Clone()
		if upd.Name != nil {
			u.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Role != nil {
			u.Role = *upd.Role
		}
		if upd.Phone != nil {
			u.Phone = *upd.Phone
		}
		if upd.University != nil {
			u.University = *upd.University
		}
		if upd.Avatar != nil {
			u.Avatar = *upd.Avatar
		}
		if upd.Online != nil {
			u.Online = *upd.Online
		}
		s.state.CurrentUser = u
		updated = u
		return Change{Kind: KindUser, Op: OpUpdate, ID: u.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangePassword replaces the current user's password. When no password has
// been set yet the current password is not checked.
func (s *Store) ChangePassword(current, next, confirm string) error {
	if next != confirm {
		return invalid("confirm", "does not match the new password")
	}
	if len(next) < MinPasswordLength {
		return invalid("new", "must be at least 8 characters")
	}

	s.mu.RLock()
	hash := s.passwordHash
	s.mu.RUnlock()
	if len(hash) > 0 {
		if err := bcrypt.CompareHashAndPassword(hash, []byte(current)); err != nil {
			return invalid("current", "is incorrect")
		}
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.mutate(func() (Change, error) {
		// Another change may have landed since the check above.
		if !bytes.Equal(s.passwordHash, hash) {
			if len(s.passwordHash) == 0 || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(current)) != nil {
				return Change{}, invalid("current", "is incorrect")
			}
		}
		s.passwordHash = newHash
		return Change{Kind: KindUser, Op: OpUpdate, ID: s.state.CurrentUser.ID}, nil
	})
}

// CheckPassword reports whether plain matches the current user's password.
func (s *Store) CheckPassword(plain string) bool {
	s.mu.RLock()
	hash := s.passwordHash
	s.mu.RUnlock()
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}

// HashPassword returns a bcrypt hash of plain suitable for Seed.PasswordHash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
