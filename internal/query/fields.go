// Package query compiles filter expressions over tasks, files and projects.
//
// Expressions use the expr language and are checked against a fixed field
// set per entity, e.g. `priority == "high" and not overdue` or
// `due_date < now() + duration("72h")`.
package query

// FieldType represents the data type of a queryable field.
type FieldType int

const (
	FieldTypeString FieldType = iota
	FieldTypeInt
	FieldTypeBool
	FieldTypeTime
	FieldTypeList
)

// FieldDef defines a queryable field with its allowed operators.
type FieldDef struct {
	Name      string
	Type      FieldType
	Operators []string
}

var (
	stringOps = []string{"==", "!=", "in", "contains", "startsWith", "endsWith", "matches"}
	enumOps   = []string{"==", "!=", "in"}
	numberOps = []string{"==", "!=", ">=", "<=", ">", "<", "in"}
	timeOps   = []string{">=", "<=", ">", "<"}
	boolOps   = []string{"==", "!="}
	listOps   = []string{} // lists only appear on the right of "in"
)

// TaskFields are the fields available when filtering tasks.
var TaskFields = fieldSet(
	FieldDef{Name: "id", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "title", Type: FieldTypeString, Operators: stringOps},
	FieldDef{Name: "description", Type: FieldTypeString, Operators: stringOps},
	FieldDef{Name: "project_id", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "assignee_id", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "priority", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "status", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "due_date", Type: FieldTypeTime, Operators: timeOps},
	FieldDef{Name: "overdue", Type: FieldTypeBool, Operators: boolOps},
	FieldDef{Name: "subtasks_total", Type: FieldTypeInt, Operators: numberOps},
	FieldDef{Name: "subtasks_done", Type: FieldTypeInt, Operators: numberOps},
	FieldDef{Name: "comments", Type: FieldTypeInt, Operators: numberOps},
	FieldDef{Name: "attachments", Type: FieldTypeList, Operators: listOps},
)

// FileFields are the fields available when filtering files.
var FileFields = fieldSet(
	FieldDef{Name: "id", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "name", Type: FieldTypeString, Operators: stringOps},
	FieldDef{Name: "type", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "uploader_id", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "project_id", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "upload_date", Type: FieldTypeTime, Operators: timeOps},
	FieldDef{Name: "version", Type: FieldTypeInt, Operators: numberOps},
)

// ProjectFields are the fields available when filtering projects.
var ProjectFields = fieldSet(
	FieldDef{Name: "id", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "title", Type: FieldTypeString, Operators: stringOps},
	FieldDef{Name: "description", Type: FieldTypeString, Operators: stringOps},
	FieldDef{Name: "status", Type: FieldTypeString, Operators: enumOps},
	FieldDef{Name: "progress", Type: FieldTypeInt, Operators: numberOps},
	FieldDef{Name: "deadline", Type: FieldTypeTime, Operators: timeOps},
	FieldDef{Name: "overdue", Type: FieldTypeBool, Operators: boolOps},
	FieldDef{Name: "team", Type: FieldTypeList, Operators: listOps},
)

func fieldSet(defs ...FieldDef) map[string]FieldDef {
	out := make(map[string]FieldDef, len(defs))
	for _, d := range defs {
		out[d.Name] = d
	}
	return out
}

// IsOperatorAllowed checks if an operator is valid for a field.
func (f FieldDef) IsOperatorAllowed(op string) bool {
	for _, allowed := range f.Operators {
		if allowed == op {
			return true
		}
	}
	return false
}

// AllowedFunctions lists functions allowed in expressions.
var AllowedFunctions = map[string]bool{
	"now":      true,
	"duration": true,
	"date":     true,
}
