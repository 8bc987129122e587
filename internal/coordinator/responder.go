package coordinator

import "strings"

// Canned assistant answers.
const (
	answerTasks = "You have 3 tasks due this week:\n" +
		"1. Design User Interface Mockups (Due Nov 15)\n" +
		"2. Conduct User Research (Due Nov 18)\n" +
		"3. Product Catalog Implementation (Due Nov 17)"
	answerStatus = "Project Status Summary:\n" +
		"• AI-Powered Healthcare App: 65% complete\n" +
		"• E-Commerce Platform: 40% complete\n" +
		"• Smart City IoT Project: 85% complete"
	answerSuggest = "Based on your current progress, I suggest:\n" +
		"• Complete UI mockups by end of week\n" +
		"• Schedule user research interviews\n" +
		"• Review and test authentication system"
	answerHelp = "I can help you with:\n" +
		"• Summarizing project updates\n" +
		"• Suggesting deadlines\n" +
		"• Showing tasks due this week\n" +
		"• Tracking team progress\n\n" +
		"Try asking: 'Show tasks due this week' or 'What's the project status?'"
)

// responses are checked in order; the first rule with a matching keyword
// wins.
var responses = []struct {
	keywords []string
	answer   string
}{
	{[]string{"task", "due"}, answerTasks},
	{[]string{"progress", "status"}, answerStatus},
	{[]string{"deadline", "suggest"}, answerSuggest},
}

// Respond returns the assistant's answer to a query.
func Respond(query string) string {
	q := strings.ToLower(query)
	for _, r := range responses {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.answer
			}
		}
	}
	return answerHelp
}
