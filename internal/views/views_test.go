package views

import (
	"testing"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

var now = time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

func TestFilterProjects(t *testing.T) {
	projects := []*models.Project{
		{ID: "1", Title: "AI-Powered Healthcare App", Description: "Patient monitoring", Status: models.ProjectStatusOngoing},
		{ID: "2", Title: "E-Commerce Platform", Description: "Online store", Status: models.ProjectStatusOngoing},
		{ID: "3", Title: "Smart City IoT Project", Description: "Sensor network for traffic", Status: models.ProjectStatusCompleted},
	}

	tests := []struct {
		name  string
		query ProjectQuery
		want  []string
	}{
		{"empty query", ProjectQuery{}, []string{"1", "2", "3"}},
		{"search title case-insensitive", ProjectQuery{Search: "health"}, []string{"1"}},
		{"search upper", ProjectQuery{Search: "HEALTH"}, []string{"1"}},
		{"search description", ProjectQuery{Search: "traffic"}, []string{"3"}},
		{"status filter", ProjectQuery{Status: "ongoing"}, []string{"1", "2"}},
		{"all bypasses status", ProjectQuery{Status: All}, []string{"1", "2", "3"}},
		{"search and status", ProjectQuery{Search: "o", Status: "completed"}, []string{"3"}},
		{"no match", ProjectQuery{Search: "blockchain"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProjects(projects, tt.query)
			if ids := projectIDs(got); !equal(ids, tt.want) {
				t.Errorf("FilterProjects() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestFilterFiles_TypeKeepsOrder(t *testing.T) {
	files := []*models.File{
		{ID: "1", Name: "Requirements.pdf", Type: "pdf"},
		{ID: "2", Name: "design.fig", Type: "fig"},
		{ID: "3", Name: "budget.xlsx", Type: "xlsx"},
		{ID: "4", Name: "Report.pdf", Type: "pdf"},
		{ID: "5", Name: "notes.pdfx", Type: "pdfx"},
	}

	got := FilterFiles(files, FileQuery{Type: "pdf"})
	if ids := fileIDs(got); !equal(ids, []string{"1", "4"}) {
		t.Errorf("FilterFiles(pdf) = %v, want [1 4]", ids)
	}
	for _, f := range got {
		if f.Type != "pdf" {
			t.Errorf("FilterFiles(pdf) returned type %q", f.Type)
		}
	}

	got = FilterFiles(files, FileQuery{Search: "REPORT", Type: All})
	if ids := fileIDs(got); !equal(ids, []string{"4"}) {
		t.Errorf("FilterFiles(search) = %v, want [4]", ids)
	}

	if types := FileTypes(files); !equal(types, []string{"pdf", "fig", "xlsx", "pdfx"}) {
		t.Errorf("FileTypes() = %v", types)
	}
}

func TestBoard(t *testing.T) {
	tasks := []*models.Task{
		{ID: "1", AssigneeID: "1", Status: models.TaskStatusTodo},
		{ID: "2", AssigneeID: "2", Status: models.TaskStatusTodo},
		{ID: "3", AssigneeID: "1", Status: models.TaskStatusInProgress},
		{ID: "4", AssigneeID: "3", Status: models.TaskStatusCompleted},
		{ID: "5", AssigneeID: "1", Status: "blocked"},
	}

	tests := []struct {
		scope Scope
		want  [3][]string
	}{
		{ScopeAll, [3][]string{{"1", "2"}, {"3"}, {"4"}}},
		{ScopeMine, [3][]string{{"1"}, {"3"}, {}}},
		{ScopeTeam, [3][]string{{"2"}, {}, {"4"}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			cols := Board(tasks, BoardQuery{Scope: tt.scope, CurrentUserID: "1"})
			if len(cols) != 3 {
				t.Fatalf("len(Board()) = %d, want 3", len(cols))
			}
			for i, col := range cols {
				if col.Status != models.BoardColumns[i] {
					t.Errorf("cols[%d].Status = %q", i, col.Status)
				}
				if ids := taskIDs(col.Tasks); !equal(ids, tt.want[i]) {
					t.Errorf("cols[%d] = %v, want %v", i, ids, tt.want[i])
				}
			}
		})
	}
}

func TestParseScope(t *testing.T) {
	tests := map[string]Scope{"my": ScopeMine, "mine": ScopeMine, "team": ScopeTeam, "": ScopeAll, "x": ScopeAll}
	for in, want := range tests {
		if got := ParseScope(in); got != want {
			t.Errorf("ParseScope(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsTaskOverdue(t *testing.T) {
	tests := []struct {
		name   string
		due    string
		status models.TaskStatus
		want   bool
	}{
		{"past and open", "2025-04-01", models.TaskStatusTodo, true},
		{"past in progress", "2025-04-19", models.TaskStatusInProgress, true},
		{"past but completed", "2025-04-01", models.TaskStatusCompleted, false},
		{"future", "2025-05-01", models.TaskStatusTodo, false},
		{"rfc3339 past", "2025-04-20T11:00:00Z", models.TaskStatusTodo, true},
		{"unparseable", "soon", models.TaskStatusTodo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Task{DueDate: tt.due, Status: tt.status}
			if got := IsTaskOverdue(task, now); got != tt.want {
				t.Errorf("IsTaskOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsProjectOverdue(t *testing.T) {
	p := &models.Project{Deadline: "2025-03-01", Status: models.ProjectStatusOngoing}
	if !IsProjectOverdue(p, now) {
		t.Errorf("IsProjectOverdue(ongoing) = false, want true")
	}
	p.Status = models.ProjectStatusCompleted
	if IsProjectOverdue(p, now) {
		t.Errorf("IsProjectOverdue(completed) = true, want false")
	}
}

func TestNotifications(t *testing.T) {
	notifications := []*models.Notification{
		{ID: "1", Type: models.NotificationTypeTask},
		{ID: "2", Type: models.NotificationTypeFile, Read: true},
		{ID: "3", Type: models.NotificationTypeTask},
		{ID: "4", Type: models.NotificationTypeDeadline},
	}

	if got := UnreadCount(notifications); got != 3 {
		t.Errorf("UnreadCount() = %d, want 3", got)
	}
	if !HasUnread(notifications) {
		t.Errorf("HasUnread() = false")
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{All, []string{"1", "2", "3", "4"}},
		{"", []string{"1", "2", "3", "4"}},
		{Unread, []string{"1", "3", "4"}},
		{"task", []string{"1", "3"}},
		{"message", []string{}},
	}
	for _, tt := range tests {
		got := FilterNotifications(notifications, tt.filter)
		var ids []string
		for _, n := range got {
			ids = append(ids, n.ID)
		}
		if !equal(ids, tt.want) {
			t.Errorf("FilterNotifications(%q) = %v, want %v", tt.filter, ids, tt.want)
		}
	}

	counts := CountByType(notifications)
	if counts[models.NotificationTypeTask] != 2 || counts[models.NotificationTypeMessage] != 0 {
		t.Errorf("CountByType() = %v", counts)
	}
	if len(counts) != 4 {
		t.Errorf("len(CountByType()) = %d, want 4", len(counts))
	}
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		ts   string
		want string
	}{
		{"2025-04-20T11:45:00Z", "15 minutes ago"},
		{"2025-04-20T09:00:00Z", "3 hours ago"},
		{"2025-04-19T06:00:00Z", "Yesterday"},
		{"2025-04-10T06:00:00Z", "Apr 10"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := RelativeTime(tt.ts, now); got != tt.want {
			t.Errorf("RelativeTime(%q) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}

func TestTimelineProgress(t *testing.T) {
	if got := TimelineProgress(nil); got != 0 {
		t.Errorf("TimelineProgress(nil) = %v, want 0", got)
	}
	milestones := []*models.Milestone{
		{ID: "1", Week: 1, Status: models.MilestoneStatusCompleted},
		{ID: "2", Week: 3, Status: models.MilestoneStatusCompleted},
		{ID: "3", Week: 5, Status: models.MilestoneStatusInProgress},
		{ID: "4", Week: 5, Status: models.MilestoneStatusPending},
	}
	if got := TimelineProgress(milestones); got != 50 {
		t.Errorf("TimelineProgress() = %v, want 50", got)
	}
	if got := CompletedMilestones(milestones); got != 2 {
		t.Errorf("CompletedMilestones() = %d, want 2", got)
	}
	if got := MilestonesByWeek(milestones)[5]; len(got) != 2 || got[0].ID != "3" {
		t.Errorf("MilestonesByWeek()[5] = %v", got)
	}
}

func TestUsers(t *testing.T) {
	users := []*models.User{
		{ID: "1", Online: true},
		{ID: "2"},
		{ID: "3", Online: true},
	}
	if got := OnlineUsers(users); len(got) != 2 {
		t.Errorf("len(OnlineUsers()) = %d, want 2", len(got))
	}
	members := TeamMembers(users, []string{"3", "9", "1"})
	if len(members) != 2 || members[0].ID != "3" || members[1].ID != "1" {
		t.Errorf("TeamMembers() = %v", members)
	}
}

func TestSortStable(t *testing.T) {
	tasks := []*models.Task{
		{ID: "10", DueDate: "2025-05-01"},
		{ID: "2", DueDate: "2025-05-01"},
		{ID: "3", DueDate: "bad"},
		{ID: "4", DueDate: "2025-04-01"},
	}
	got := taskIDs(SortStable(tasks))
	if !equal(got, []string{"4", "2", "10", "3"}) {
		t.Errorf("SortStable() = %v", got)
	}
	if tasks[0].ID != "10" {
		t.Errorf("SortStable() reordered its input")
	}
}

func projectIDs(ps []*models.Project) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func fileIDs(fs []*models.File) []string {
	out := []string{}
	for _, f := range fs {
		out = append(out, f.ID)
	}
	return out
}

func taskIDs(ts []*models.Task) []string {
	out := []string{}
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
