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

// TaskResponse is a task card.
type TaskResponse struct {
	*models.Task
	Overdue bool `json:"overdue"`
}

// ColumnResponse is one board column.
type ColumnResponse struct {
	Status models.TaskStatus `json:"status"`
	Title  string            `json:"title"`
	Tasks  []*TaskResponse   `json:"tasks"`
}

// BoardResponse is the kanban board.
type BoardResponse struct {
	Scope   views.Scope      `json:"scope"`
	Columns []ColumnResponse `json:"columns"`
}

// SelectedTaskResponse is the task detail view.
type SelectedTaskResponse struct {
	Task         *TaskResponse `json:"task"`
	CommentDraft string        `json:"comment_draft"`
}

// StatusRequest moves a task between columns.
type StatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// SubtaskRequest adds a checklist item.
type SubtaskRequest struct {
	Title string `json:"title"`
}

// CommentRequest posts a comment as the current user.
type CommentRequest struct {
	Text string `json:"text"`
}

func (s *Server) taskResponse(t *models.Task) *TaskResponse {
	return &TaskResponse{Task: t, Overdue: s.shell.Tasks.Overdue(t)}
}

// taskBoard returns the board. ?scope= overrides the session scope for this
// request only.
func (s *Server) taskBoard(w http.ResponseWriter, r *http.Request) {
	b := s.shell.Tasks
	scope := b.Scope()
	if v := r.URL.Query().Get("scope"); v != "" {
		scope = views.ParseScope(v)
	}

	where, apiErr := whereClause(r, s.taskQuery)
	if apiErr != nil {
		JSONError(w, apiErr)
		return
	}
	now := s.config.Now()
	record := func(t *models.Task) map[string]any { return query.TaskRecord(t, now) }

	cols := b.BoardFor(scope)
	resp := BoardResponse{Scope: scope, Columns: make([]ColumnResponse, len(cols))}
	for i, col := range cols {
		tasks, apiErr := applyWhere(col.Tasks, where, record)
		if apiErr != nil {
			JSONError(w, apiErr)
			return
		}
		out := ColumnResponse{Status: col.Status, Title: col.Title, Tasks: make([]*TaskResponse, len(tasks))}
		for j, t := range tasks {
			out.Tasks[j] = s.taskResponse(t)
		}
		resp.Columns[i] = out
	}
	OK(w, resp)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var draft coordinator.TaskDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		JSONError(w, err)
		return
	}

	b := s.shell.Tasks
	b.OpenCreate()
	b.SetDraft(draft)
	t, err := b.SubmitTask()
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, s.taskResponse(t))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.shell.Store().Task(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	OK(w, s.taskResponse(t))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var upd store.TaskUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		JSONError(w, err)
		return
	}
	if _, err := s.shell.Store().UpdateTask(chi.URLParam(r, "id"), upd); err != nil {
		WriteError(w, err)
		return
	}
	s.getTask(w, r)
}

func (s *Server) selectTask(w http.ResponseWriter, r *http.Request) {
	if err := s.shell.Tasks.Select(chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	s.selectedTask(w, r)
}

func (s *Server) selectedTask(w http.ResponseWriter, r *http.Request) {
	b := s.shell.Tasks
	t, ok := b.Selected()
	if !ok {
		JSONError(w, NewNotFound("no task selected"))
		return
	}
	OK(w, SelectedTaskResponse{Task: s.taskResponse(t), CommentDraft: b.CommentDraft()})
}

func (s *Server) clearSelectedTask(w http.ResponseWriter, r *http.Request) {
	s.shell.Tasks.ClearSelection()
	NoContent(w)
}

// openTask selects the task named in the path so detail-view actions apply
// to it. Reselecting the open task keeps its comment draft.
func (s *Server) openTask(w http.ResponseWriter, r *http.Request) bool {
	if err := s.shell.Tasks.Select(chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return false
	}
	return true
}

func (s *Server) setTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, err)
		return
	}
	if !s.openTask(w, r) {
		return
	}
	t, err := s.shell.Tasks.SetStatus(req.Status)
	if err != nil {
		WriteError(w, err)
		return
	}
	OK(w, s.taskResponse(t))
}

func (s *Server) addSubtask(w http.ResponseWriter, r *http.Request) {
	var req SubtaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, err)
		return
	}
	t, err := s.shell.Store().AddSubtask(chi.URLParam(r, "id"), req.Title)
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, s.taskResponse(t))
}

func (s *Server) toggleSubtask(w http.ResponseWriter, r *http.Request) {
	if !s.openTask(w, r) {
		return
	}
	t, err := s.shell.Tasks.ToggleSubtask(chi.URLParam(r, "subtaskID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	OK(w, s.taskResponse(t))
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, err)
		return
	}
	if !s.openTask(w, r) {
		return
	}
	b := s.shell.Tasks
	b.SetCommentDraft(req.Text)
	t, err := b.AddComment()
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, s.taskResponse(t))
}
