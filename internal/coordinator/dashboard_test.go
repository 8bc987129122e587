package coordinator

import (
	"testing"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

func TestDashboard_Filter(t *testing.T) {
	d := NewDashboard(newTestStore(t), nil, testConfig())
	defer d.Close()

	if got := len(d.Projects()); got != 3 {
		t.Fatalf("len(Projects()) = %d, want 3", got)
	}

	d.SetSearch("HEALTH")
	got := d.Projects()
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Projects() with search = %v, want project 1", got)
	}

	d.SetSearch("")
	if err := d.SetStatusFilter("completed"); err != nil {
		t.Fatalf("SetStatusFilter() error = %v", err)
	}
	if got := len(d.Projects()); got != 0 {
		t.Errorf("len(Projects()) completed = %d, want 0", got)
	}

	wantValidation(t, d.SetStatusFilter("paused"), "status")
	if q := d.Query(); q.Status != "completed" {
		t.Errorf("Query().Status = %q, want unchanged %q", q.Status, "completed")
	}
}

func TestDashboard_Overdue(t *testing.T) {
	d := NewDashboard(newTestStore(t), nil, testConfig())
	defer d.Close()

	p, _ := d.store.Project("3") // deadline 2025-11-30
	if d.Overdue(p) {
		t.Error("Overdue(project 3) = true, want false")
	}
	if got := len(d.Team(p)); got != 3 {
		t.Errorf("len(Team()) = %d, want 3", got)
	}
}

func TestDashboard_SubmitProject(t *testing.T) {
	st := newTestStore(t)
	d := NewDashboard(st, nil, testConfig())
	defer d.Close()

	d.OpenCreate()
	d.SetDraft(ProjectDraft{Title: "Robotics Lab"})

	_, err := d.SubmitProject()
	wantValidation(t, err, "deadline")
	if !d.DialogOpen() {
		t.Error("DialogOpen() = false after failed submit, want true")
	}
	if d.Draft().Title != "Robotics Lab" {
		t.Error("draft lost after failed submit")
	}

	d.SetDraft(ProjectDraft{Title: "Robotics Lab", Deadline: "2026-01-31", Team: []string{"1", "3"}})
	p, err := d.SubmitProject()
	if err != nil {
		t.Fatalf("SubmitProject() error = %v", err)
	}
	if p.ID != "4" || p.Status != models.ProjectStatusOngoing || p.Progress != 0 {
		t.Errorf("project = %+v, want id 4, ongoing, progress 0", p)
	}
	if d.DialogOpen() {
		t.Error("DialogOpen() = true after submit, want false")
	}
	if d.Draft().Title != "" {
		t.Error("draft not reset after submit")
	}
	if got := len(st.Snapshot().Projects); got != 4 {
		t.Errorf("len(Projects) = %d, want 4", got)
	}
}

func TestDashboard_SubmitProjectUnknownMember(t *testing.T) {
	d := NewDashboard(newTestStore(t), nil, testConfig())
	defer d.Close()

	d.SetDraft(ProjectDraft{Title: "X", Deadline: "2026-01-31", Team: []string{"42"}})
	_, err := d.SubmitProject()
	wantValidation(t, err, "team")
}

func TestDashboard_SelectProject(t *testing.T) {
	nav := &recordingNavigator{}
	d := NewDashboard(newTestStore(t), nav, testConfig())
	defer d.Close()

	if err := d.SelectProject("99"); !store.IsNotFound(err) {
		t.Errorf("SelectProject(99) error = %v, want NotFoundError", err)
	}
	if len(nav.visited()) != 0 {
		t.Errorf("navigated on failed select: %v", nav.visited())
	}

	if err := d.SelectProject("2"); err != nil {
		t.Fatalf("SelectProject() error = %v", err)
	}
	if got := nav.visited(); len(got) != 1 || got[0] != TasksView {
		t.Errorf("visited = %v, want [%s]", got, TasksView)
	}
	p, ok := d.Selected()
	if !ok || p.ID != "2" {
		t.Errorf("Selected() = %v, %v, want project 2", p, ok)
	}
}

func TestDashboard_Closed(t *testing.T) {
	d := NewDashboard(newTestStore(t), nil, testConfig())
	d.Close()

	if !d.Closed() {
		t.Error("Closed() = false, want true")
	}
	d.SetDraft(ProjectDraft{Title: "X", Deadline: "2026-01-01"})
	if _, err := d.SubmitProject(); err != ErrClosed {
		t.Errorf("SubmitProject() after Close error = %v, want ErrClosed", err)
	}
	if q := d.Query(); q.Status != views.All {
		t.Errorf("Query().Status = %q, want %q", q.Status, views.All)
	}
}
