package models

// User is a workspace member. Users are referenced by id from project teams,
// task assignees, file uploaders and message senders.
type User struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Role       string `json:"role" yaml:"role"`
	Phone      string `json:"phone" yaml:"phone"`
	University string `json:"university" yaml:"university"`
	Avatar     string `json:"avatar" yaml:"avatar"`
	Online     bool   `json:"online" yaml:"online"`
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// Initials returns the first letter of each word in the user's name.
func (u *User) Initials() string {
	var out []rune
	start := true
	for _, r := range u.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
	}
	return string(out)
}
