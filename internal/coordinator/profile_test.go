package coordinator

import (
	"errors"
	"testing"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/seed"
)

func TestProfile_Edit(t *testing.T) {
	st := newTestStore(t)
	p := NewProfile(st, testConfig())
	defer p.Close()

	if err := p.SetDraft(models.User{Name: "X"}); !errors.Is(err, ErrNoSelection) {
		t.Errorf("SetDraft() outside edit mode error = %v, want ErrNoSelection", err)
	}

	p.BeginEdit()
	d := p.Draft()
	d.ID = "99"
	d.Email = "not-an-email"
	if err := p.SetDraft(d); err != nil {
		t.Fatalf("SetDraft() error = %v", err)
	}
	if p.Draft().ID != "1" {
		t.Errorf("Draft().ID = %q, want id kept as 1", p.Draft().ID)
	}

	_, err := p.Save()
	wantValidation(t, err, "email")
	if !p.Editing() {
		t.Error("Editing() = false after failed save")
	}

	d = p.Draft()
	d.Email = "alex.j@university.edu"
	d.University = "MIT"
	_ = p.SetDraft(d)
	u, err := p.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if u.Email != "alex.j@university.edu" || u.University != "MIT" {
		t.Errorf("saved user = %+v", u)
	}
	if p.Editing() {
		t.Error("Editing() = true after save")
	}
	if st.CurrentUser().University != "MIT" {
		t.Error("store current user not updated")
	}
}

func TestProfile_CancelDiscards(t *testing.T) {
	st := newTestStore(t)
	p := NewProfile(st, testConfig())
	defer p.Close()

	p.BeginEdit()
	d := p.Draft()
	d.Name = "Someone Else"
	_ = p.SetDraft(d)
	p.Cancel()

	if p.Editing() {
		t.Error("Editing() = true after Cancel")
	}
	if st.CurrentUser().Name != "Alex Johnson" {
		t.Errorf("CurrentUser().Name = %q, want unchanged", st.CurrentUser().Name)
	}
}

func TestProfile_SaveRequiresName(t *testing.T) {
	p := NewProfile(newTestStore(t), testConfig())
	defer p.Close()

	p.BeginEdit()
	d := p.Draft()
	d.Name = " "
	_ = p.SetDraft(d)
	_, err := p.Save()
	wantValidation(t, err, "name")
}

func TestProfile_Avatar(t *testing.T) {
	p := NewProfile(newTestStore(t), testConfig())
	defer p.Close()

	p.BeginEdit()
	u, err := p.SetAvatar("data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("SetAvatar() error = %v", err)
	}
	if u.Avatar != "data:image/png;base64,AAAA" || p.Draft().Avatar != u.Avatar {
		t.Errorf("avatar = %q, draft %q", u.Avatar, p.Draft().Avatar)
	}
}

func TestProfile_Preferences(t *testing.T) {
	p := NewProfile(newTestStore(t), testConfig())
	defer p.Close()

	if p.Preferences() != DefaultPreferences() {
		t.Error("initial preferences are not the defaults")
	}
	if err := p.SetPreference("file_uploads", false); err != nil {
		t.Fatalf("SetPreference() error = %v", err)
	}
	wantValidation(t, p.SetPreference("sms", true), "preference")

	prefs := p.Preferences()
	tests := []struct {
		typ  models.NotificationType
		want bool
	}{
		{models.NotificationTypeTask, true},
		{models.NotificationTypeFile, false},
		{models.NotificationTypeMessage, true},
		{models.NotificationTypeDeadline, true},
		{"other", false},
	}
	for _, tt := range tests {
		if got := prefs.Wants(tt.typ); got != tt.want {
			t.Errorf("Wants(%s) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestProfile_ChangePassword(t *testing.T) {
	st := newTestStore(t)
	p := NewProfile(st, testConfig())
	defer p.Close()

	tests := []struct {
		name                   string
		current, next, confirm string
		field                  string
	}{
		{"mismatch", seed.DefaultPassword, "newpassword1", "newpassword2", "confirm"},
		{"too short", seed.DefaultPassword, "short", "short", "new"},
		{"wrong current", "nope", "newpassword1", "newpassword1", "current"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantValidation(t, p.ChangePassword(tt.current, tt.next, tt.confirm), tt.field)
		})
	}

	if err := p.ChangePassword(seed.DefaultPassword, "newpassword1", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if !st.CheckPassword("newpassword1") {
		t.Error("CheckPassword(new) = false after change")
	}
}
