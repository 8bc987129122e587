package api

import (
	"net/http"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/models"
)

// ProfileResponse is the profile page.
type ProfileResponse struct {
	User        *models.User            `json:"user"`
	Preferences coordinator.Preferences `json:"preferences"`
}

// AvatarRequest replaces the avatar.
type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

// PasswordRequest changes the password.
type PasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p := s.shell.Profile
	OK(w, ProfileResponse{User: p.User(), Preferences: p.Preferences()})
}

// updateProfile runs one edit cycle: fields missing from the body keep their
// current values. A rejected edit is discarded.
func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	p := s.shell.Profile
	p.BeginEdit()

	draft := p.Draft()
	if err := decodeJSON(w, r, &draft); err != nil {
		p.Cancel()
		JSONError(w, err)
		return
	}
	if err := p.SetDraft(draft); err != nil {
		p.Cancel()
		WriteError(w, err)
		return
	}
	u, err := p.Save()
	if err != nil {
		p.Cancel()
		WriteError(w, err)
		return
	}
	OK(w, u)
}

func (s *Server) setAvatar(w http.ResponseWriter, r *http.Request) {
	var req AvatarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, err)
		return
	}
	u, err := s.shell.Profile.SetAvatar(req.Avatar)
	if err != nil {
		WriteError(w, err)
		return
	}
	OK(w, u)
}

// setPreferences updates the switches present in the body.
func (s *Server) setPreferences(w http.ResponseWriter, r *http.Request) {
	p := s.shell.Profile
	prefs := p.Preferences()
	if err := decodeJSON(w, r, &prefs); err != nil {
		JSONError(w, err)
		return
	}
	p.SetPreferences(prefs)
	OK(w, prefs)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, err)
		return
	}
	if err := s.shell.Profile.ChangePassword(req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		WriteError(w, err)
		return
	}
	NoContent(w)
}
