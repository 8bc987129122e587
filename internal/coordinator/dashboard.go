package coordinator

import (
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// ProjectDraft is the create-project form.
type ProjectDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline"`
	Team        []string `json:"team"`
}

// Dashboard coordinates the project overview.
type Dashboard struct {
	base
	nav Navigator

	search     string
	status     string
	dialogOpen bool
	draft      ProjectDraft
	selectedID string
}

// NewDashboard creates the dashboard coordinator. nav may be nil.
func NewDashboard(st *store.Store, nav Navigator, cfg Config) *Dashboard {
	d := &Dashboard{nav: nav, status: views.All}
	d.init(st, cfg, "dashboard")
	return d
}

// SetSearch sets the project search text.
func (d *Dashboard) SetSearch(q string) {
	d.mu.Lock()
	d.search = q
	d.mu.Unlock()
}

// SetStatusFilter sets the status filter; views.All shows every status.
func (d *Dashboard) SetStatusFilter(status string) error {
	if err := checkProjectStatus(status); err != nil {
		return err
	}
	d.mu.Lock()
	d.status = status
	d.mu.Unlock()
	return nil
}

// Query returns the current filter.
func (d *Dashboard) Query() views.ProjectQuery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return views.ProjectQuery{Search: d.search, Status: d.status}
}

// Projects returns the filtered project list.
func (d *Dashboard) Projects() []*models.Project {
	return views.FilterProjects(d.store.Snapshot().Projects, d.Query())
}

// Matching filters the projects by q without changing the dashboard filter.
func (d *Dashboard) Matching(q views.ProjectQuery) ([]*models.Project, error) {
	if err := checkProjectStatus(q.Status); err != nil {
		return nil, err
	}
	return views.FilterProjects(d.store.Snapshot().Projects, q), nil
}

func checkProjectStatus(status string) error {
	if status != views.All && !models.ProjectStatus(status).IsValid() {
		return &store.ValidationError{Field: "status", Reason: "must be one of: all ongoing completed archived"}
	}
	return nil
}

// Overdue reports whether the project is past its deadline.
func (d *Dashboard) Overdue(p *models.Project) bool {
	return views.IsProjectOverdue(p, d.cfg.Now())
}

// Team resolves the project's member ids.
func (d *Dashboard) Team(p *models.Project) []*models.User {
	return views.TeamMembers(d.store.Users(), p.Team)
}

// OpenCreate opens the create dialog.
func (d *Dashboard) OpenCreate() {
	d.mu.Lock()
	d.dialogOpen = true
	d.mu.Unlock()
}

// CloseCreate closes the create dialog and keeps the draft.
func (d *Dashboard) CloseCreate() {
	d.mu.Lock()
	d.dialogOpen = false
	d.mu.Unlock()
}

// DialogOpen reports whether the create dialog is open.
func (d *Dashboard) DialogOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dialogOpen
}

// Draft returns the create form.
func (d *Dashboard) Draft() ProjectDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// SetDraft replaces the create form.
func (d *Dashboard) SetDraft(draft ProjectDraft) {
	d.mu.Lock()
	d.draft = draft
	d.mu.Unlock()
}

// SubmitProject creates a project from the draft. On success the draft is
// cleared and the dialog closed; on failure both are kept.
func (d *Dashboard) SubmitProject() (*models.Project, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := required("title", d.draft.Title); err != nil {
		return nil, err
	}
	if err := required("deadline", d.draft.Deadline); err != nil {
		return nil, err
	}

	p, err := d.store.CreateProject(store.CreateProjectParams{
		Title:       d.draft.Title,
		Description: d.draft.Description,
		Deadline:    d.draft.Deadline,
		Team:        d.draft.Team,
	})
	if err != nil {
		return nil, err
	}

	d.draft = ProjectDraft{}
	d.dialogOpen = false
	return p, nil
}

// SelectProject records the selection and switches to the task board.
func (d *Dashboard) SelectProject(id string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if _, err := d.store.Project(id); err != nil {
		return err
	}

	d.mu.Lock()
	d.selectedID = id
	d.mu.Unlock()

	if d.nav != nil {
		return d.nav.Navigate(TasksView)
	}
	return nil
}

// Selected returns the selected project, re-read from the store.
func (d *Dashboard) Selected() (*models.Project, bool) {
	d.mu.Lock()
	id := d.selectedID
	d.mu.Unlock()
	if id == "" {
		return nil, false
	}
	p, err := d.store.Project(id)
	if err != nil {
		return nil, false
	}
	return p, true
}
