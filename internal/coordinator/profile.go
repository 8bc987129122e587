package coordinator

import (
	"sync"

	"github.com/good-yellow-bee/collabhub/internal/metrics"
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// Preferences are the profile's notification and display switches.
type Preferences struct {
	DarkMode           bool `json:"dark_mode" yaml:"dark_mode"`
	EmailNotifications bool `json:"email" yaml:"email"`
	PushNotifications  bool `json:"push" yaml:"push"`
	TaskReminders      bool `json:"task_reminders" yaml:"task_reminders"`
	TaskAssignments    bool `json:"task_assignments" yaml:"task_assignments"`
	FileUploads        bool `json:"file_uploads" yaml:"file_uploads"`
	DeadlineAlerts     bool `json:"deadline_alerts" yaml:"deadline_alerts"`
	ChatMessages       bool `json:"chat_messages" yaml:"chat_messages"`
}

// DefaultPreferences has every switch on.
func DefaultPreferences() Preferences {
	return Preferences{
		DarkMode:           true,
		EmailNotifications: true,
		PushNotifications:  true,
		TaskReminders:      true,
		TaskAssignments:    true,
		FileUploads:        true,
		DeadlineAlerts:     true,
		ChatMessages:       true,
	}
}

// field returns a pointer to the switch with the given JSON name.
func (p *Preferences) field(name string) *bool {
	switch name {
	case "dark_mode":
		return &p.DarkMode
	case "email":
		return &p.EmailNotifications
	case "push":
		return &p.PushNotifications
	case "task_reminders":
		return &p.TaskReminders
	case "task_assignments":
		return &p.TaskAssignments
	case "file_uploads":
		return &p.FileUploads
	case "deadline_alerts":
		return &p.DeadlineAlerts
	case "chat_messages":
		return &p.ChatMessages
	}
	return nil
}

// Wants reports whether notifications of type t are switched on.
func (p Preferences) Wants(t models.NotificationType) bool {
	switch t {
	case models.NotificationTypeTask:
		return p.TaskAssignments
	case models.NotificationTypeFile:
		return p.FileUploads
	case models.NotificationTypeMessage:
		return p.ChatMessages
	case models.NotificationTypeDeadline:
		return p.DeadlineAlerts
	}
	return false
}

// Profile coordinates the profile and settings view.
type Profile struct {
	base

	editing bool
	draft   models.User

	// prefsMu is separate from mu so store subscribers can read
	// preferences while a save holds mu.
	prefsMu sync.Mutex
	prefs   Preferences
}

// NewProfile creates the profile coordinator.
func NewProfile(st *store.Store, cfg Config) *Profile {
	p := &Profile{prefs: DefaultPreferences()}
	p.init(st, cfg, "profile")
	return p
}

// User returns the stored current-user record.
func (p *Profile) User() *models.User {
	return p.store.CurrentUser()
}

// BeginEdit starts editing with a copy of the stored record.
func (p *Profile) BeginEdit() {
	u := p.store.CurrentUser()
	p.mu.Lock()
	p.editing = true
	p.draft = *u
	p.mu.Unlock()
}

// Editing reports whether edit mode is on.
func (p *Profile) Editing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.editing
}

// Draft returns the edited record.
func (p *Profile) Draft() models.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// SetDraft replaces the edited record. The id cannot be changed.
func (p *Profile) SetDraft(u models.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.editing {
		return ErrNoSelection
	}
	u.ID = p.draft.ID
	p.draft = u
	return nil
}

// Cancel leaves edit mode and discards the draft.
func (p *Profile) Cancel() {
	p.mu.Lock()
	p.editing = false
	p.draft = models.User{}
	p.mu.Unlock()
}

// Save writes the draft to the store and leaves edit mode. The name must be
// non-empty and the email well formed.
func (p *Profile) Save() (*models.User, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.editing {
		return nil, ErrNoSelection
	}
	if err := required("name", p.draft.Name); err != nil {
		return nil, err
	}

	d := p.draft
	u, err := p.store.UpdateCurrentUser(store.UserUpdate{
		Name:       &d.Name,
		Email:      &d.Email,
		Role:       &d.Role,
		Phone:      &d.Phone,
		University: &d.University,
		Avatar:     &d.Avatar,
	})
	if err != nil {
		return nil, err
	}
	p.editing = false
	p.draft = models.User{}
	return u, nil
}

// SetAvatar stores a new avatar (URL or data URI) immediately.
func (p *Profile) SetAvatar(avatar string) (*models.User, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	if err := required("avatar", avatar); err != nil {
		return nil, err
	}
	u, err := p.store.UpdateCurrentUser(store.UserUpdate{Avatar: &avatar})
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	if p.editing {
		p.draft.Avatar = avatar
	}
	p.mu.Unlock()
	return u, nil
}

// Preferences returns the current switches.
func (p *Profile) Preferences() Preferences {
	p.prefsMu.Lock()
	defer p.prefsMu.Unlock()
	return p.prefs
}

// SetPreferences replaces every switch.
func (p *Profile) SetPreferences(prefs Preferences) {
	p.prefsMu.Lock()
	p.prefs = prefs
	p.prefsMu.Unlock()
}

// SetPreference sets one switch by its JSON name.
func (p *Profile) SetPreference(name string, on bool) error {
	p.prefsMu.Lock()
	defer p.prefsMu.Unlock()
	f := p.prefs.field(name)
	if f == nil {
		return &store.ValidationError{Field: "preference", Reason: "unknown switch " + name}
	}
	*f = on
	return nil
}

// ChangePassword checks the confirmation and length, verifies the current
// password and stores the new one.
func (p *Profile) ChangePassword(current, next, confirm string) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if err := p.store.ChangePassword(current, next, confirm); err != nil {
		metrics.PasswordChangesTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.PasswordChangesTotal.WithLabelValues("success").Inc()
	return nil
}
