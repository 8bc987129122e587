package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/good-yellow-bee/collabhub/internal/query"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printRule writes a separator line under a table header.
func printRule(w io.Writer, width int) {
	fmt.Fprintln(w, strings.Repeat("-", width))
}

// truncate shortens s to max runes, marking the cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 2 {
		return string(r[:max])
	}
	return string(r[:max-2]) + ".."
}

// checkmark renders a boolean as a table cell.
func checkmark(b bool) string {
	if b {
		return "x"
	}
	return " "
}

// userName resolves a user id for display.
func userName(st *store.Store, id string) string {
	if u, err := st.User(id); err == nil {
		return u.Name
	}
	return id
}

// applyWhere narrows items by a --where expression.
func applyWhere[T any](items []T, dsl *query.QueryDSL, where string, record func(T) map[string]any) ([]T, error) {
	if where == "" {
		return items, nil
	}
	q, err := dsl.Parse(where)
	if err != nil {
		return nil, fmt.Errorf("invalid --where: %w", err)
	}
	return query.Filter(items, q, record)
}
