package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/query"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// ProjectResponse is a project card: the project plus its derived flags.
type ProjectResponse struct {
	*models.Project
	Overdue bool           `json:"overdue"`
	Members []*models.User `json:"members"`
}

// ProjectListResponse is the dashboard grid.
type ProjectListResponse struct {
	Query    views.ProjectQuery `json:"query"`
	Projects []*ProjectResponse `json:"projects"`
}

func (s *Server) projectResponse(p *models.Project) *ProjectResponse {
	d := s.shell.Dashboard
	return &ProjectResponse{Project: p, Overdue: d.Overdue(p), Members: d.Team(p)}
}

// listProjects lists the dashboard. ?search= and ?status= override the
// session filter for this request only; ?where= narrows the result further.
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	d := s.shell.Dashboard
	q := d.Query()
	params := r.URL.Query()
	if params.Has("search") {
		q.Search = params.Get("search")
	}
	if params.Has("status") {
		q.Status = params.Get("status")
	}
	matching, err := d.Matching(q)
	if err != nil {
		WriteError(w, err)
		return
	}

	where, apiErr := whereClause(r, s.projectQuery)
	if apiErr != nil {
		JSONError(w, apiErr)
		return
	}
	now := s.config.Now()
	projects, apiErr := applyWhere(matching, where, func(p *models.Project) map[string]any {
		return query.ProjectRecord(p, now)
	})
	if apiErr != nil {
		JSONError(w, apiErr)
		return
	}

	resp := ProjectListResponse{Query: q, Projects: make([]*ProjectResponse, len(projects))}
	for i, p := range projects {
		resp.Projects[i] = s.projectResponse(p)
	}
	OK(w, resp)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var draft coordinator.ProjectDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		JSONError(w, err)
		return
	}

	d := s.shell.Dashboard
	d.OpenCreate()
	d.SetDraft(draft)
	p, err := d.SubmitProject()
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, s.projectResponse(p))
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.shell.Store().Project(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	OK(w, s.projectResponse(p))
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var upd store.ProjectUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		JSONError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.shell.Store().UpdateProject(id, upd); err != nil {
		WriteError(w, err)
		return
	}
	s.getProject(w, r)
}

// selectProject opens the task board for a project.
func (s *Server) selectProject(w http.ResponseWriter, r *http.Request) {
	if err := s.shell.Dashboard.SelectProject(chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	OK(w, s.shell.State())
}

func (s *Server) selectedProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.shell.Dashboard.Selected()
	if !ok {
		JSONError(w, NewNotFound("no project selected"))
		return
	}
	OK(w, s.projectResponse(p))
}
