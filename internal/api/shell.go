package api

import (
	"net/http"

	"github.com/good-yellow-bee/collabhub/internal/query"
)

// NavigateRequest switches the active view.
type NavigateRequest struct {
	View string `json:"view"`
}

func (s *Server) getShell(w http.ResponseWriter, r *http.Request) {
	OK(w, s.shell.State())
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, err)
		return
	}
	if err := s.shell.Navigate(req.View); err != nil {
		WriteError(w, err)
		return
	}
	OK(w, s.shell.State())
}

// whereClause compiles the optional ?where= expression. A nil query means
// no filter was given.
func whereClause(r *http.Request, dsl *query.QueryDSL) (*query.ParsedQuery, *Error) {
	expr := r.URL.Query().Get("where")
	if expr == "" {
		return nil, nil
	}
	q, err := dsl.Parse(expr)
	if err != nil {
		return nil, NewValidationError("where", err.Error())
	}
	return q, nil
}

// applyWhere filters items through q when one was given.
func applyWhere[T any](items []T, q *query.ParsedQuery, record func(T) map[string]any) ([]T, *Error) {
	if q == nil {
		return items, nil
	}
	out, err := query.Filter(items, q, record)
	if err != nil {
		return nil, NewValidationError("where", err.Error())
	}
	return out, nil
}
