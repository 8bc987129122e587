package models

import (
	"reflect"
	"testing"
)

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		status TaskStatus
		valid  bool
	}{
		{TaskStatusTodo, true},
		{TaskStatusInProgress, true},
		{TaskStatusCompleted, true},
		{TaskStatus("in_progress"), false},
		{TaskStatus("Todo"), false}, // case sensitive
		{TaskStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestBoardColumns_Order(t *testing.T) {
	want := []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted}
	if len(BoardColumns) != len(want) {
		t.Fatalf("len(BoardColumns) = %d, want %d", len(BoardColumns), len(want))
	}
	for i, s := range want {
		if BoardColumns[i] != s {
			t.Errorf("BoardColumns[%d] = %q, want %q", i, BoardColumns[i], s)
		}
	}
	if TaskStatusInProgress.Title() != "In Progress" {
		t.Errorf("Title() = %q, want %q", TaskStatusInProgress.Title(), "In Progress")
	}
}

func TestParsePriority(t *testing.T) {
	tests := map[string]Priority{
		"low":    PriorityLow,
		"medium": PriorityMedium,
		"high":   PriorityHigh,
		"urgent": PriorityMedium,
		"":       PriorityMedium,
	}
	for in, want := range tests {
		if got := ParsePriority(in); got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	if !ProjectStatusArchived.IsValid() || ProjectStatus("paused").IsValid() {
		t.Error("ProjectStatus.IsValid mismatch")
	}
	if !NotificationTypeDeadline.IsValid() || NotificationType("unread").IsValid() {
		t.Error("NotificationType.IsValid mismatch")
	}
	if !MilestoneStatusOverdue.IsValid() || MilestoneStatus("done").IsValid() {
		t.Error("MilestoneStatus.IsValid mismatch")
	}
	if ParseMilestoneStatus("bogus") != MilestoneStatusPending {
		t.Error("ParseMilestoneStatus should default to pending")
	}
	if ParseProjectStatus("bogus") != ProjectStatusOngoing {
		t.Error("ParseProjectStatus should default to ongoing")
	}
}

func TestTask_CloneIsIndependent(t *testing.T) {
	orig := &Task{
		ID:          "1",
		Subtasks:    []SubTask{{ID: "s1", Title: "a"}},
		Comments:    []Comment{{ID: "c1", Text: "hi"}},
		Attachments: []string{"spec.pdf"},
	}

	c := orig.Clone()
	c.Subtasks[0].Completed = true
	c.Comments[0].Text = "changed"
	c.Attachments[0] = "other.pdf"

	if orig.Subtasks[0].Completed {
		t.Error("clone shares subtasks with original")
	}
	if orig.Comments[0].Text != "hi" {
		t.Error("clone shares comments with original")
	}
	if orig.Attachments[0] != "spec.pdf" {
		t.Error("clone shares attachments with original")
	}
}

func TestClone_KeepsEmptyLists(t *testing.T) {
	task := &Task{ID: "7", Subtasks: []SubTask{}, Comments: []Comment{}, Attachments: []string{}}
	if got := task.Clone(); !reflect.DeepEqual(got, task) {
		t.Errorf("Task.Clone() = %+v, want %+v", got, task)
	}

	project := &Project{ID: "4", Team: []string{}}
	if got := project.Clone(); got.Team == nil {
		t.Error("Project.Clone() turned an empty team into nil")
	}

	msg := &Message{ID: "6", Attachments: []string{}, Reactions: []Reaction{{Emoji: "🎉", UserIDs: []string{}}}}
	if got := msg.Clone(); !reflect.DeepEqual(got, msg) {
		t.Errorf("Message.Clone() = %+v, want %+v", got, msg)
	}

	bare := &Task{ID: "8"}
	if got := bare.Clone(); got.Subtasks != nil || got.Attachments != nil {
		t.Errorf("Task.Clone() of nil lists = %+v, want nil lists", got)
	}
}

func TestMessage_CloneReactions(t *testing.T) {
	orig := &Message{ID: "1", Reactions: []Reaction{{Emoji: "👍", UserIDs: []string{"1"}}}}
	c := orig.Clone()
	c.Reactions[0].UserIDs[0] = "2"
	if orig.Reactions[0].UserIDs[0] != "1" {
		t.Error("clone shares reaction user ids with original")
	}
}

func TestUser_Initials(t *testing.T) {
	tests := map[string]string{
		"Sarah Johnson":   "SJ",
		"Alex":            "A",
		" Maria  Garcia ": "MG",
		"":                "",
	}
	for name, want := range tests {
		u := &User{Name: name}
		if got := u.Initials(); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestTask_CompletedSubtasks(t *testing.T) {
	task := &Task{Subtasks: []SubTask{{Completed: true}, {Completed: false}, {Completed: true}}}
	if got := task.CompletedSubtasks(); got != 2 {
		t.Errorf("CompletedSubtasks() = %d, want 2", got)
	}
}

func TestProject_HasMember(t *testing.T) {
	p := &Project{Team: []string{"1", "3"}}
	if !p.HasMember("3") || p.HasMember("2") {
		t.Error("HasMember mismatch")
	}
}

func TestFile_IsDocument(t *testing.T) {
	if !(&File{Type: "pdf"}).IsDocument() {
		t.Error("pdf should be a document")
	}
	if (&File{Type: "png"}).IsDocument() {
		t.Error("png should not be a document")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2025-11-15", true},
		{"2025-11-15T10:30:00Z", true},
		{"2025-11-15T10:30:00+02:00", true},
		{"15/11/2025", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, ok := ParseDate(tt.in)
			if ok != tt.ok {
				t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
		})
	}
}
