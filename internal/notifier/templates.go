package notifier

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

//go:embed templates/*
var templateFS embed.FS

// Templates holds parsed email templates.
type Templates struct {
	html  *htmltemplate.Template
	plain *template.Template
}

// TemplateData contains data for template rendering.
type TemplateData struct {
	Title       string
	Description string
	Type        string
	TypeColor   string
	Timestamp   string
	Link        string
}

// LoadTemplates loads embedded email templates.
func LoadTemplates() (*Templates, error) {
	htmlTmpl, err := htmltemplate.New("notification.html").
		Funcs(htmltemplate.FuncMap{"upper": strings.ToUpper}).
		ParseFS(templateFS, "templates/notification.html")
	if err != nil {
		return nil, err
	}

	plainTmpl, err := template.New("notification.txt").
		Funcs(template.FuncMap{"upper": strings.ToUpper}).
		ParseFS(templateFS, "templates/notification.txt")
	if err != nil {
		return nil, err
	}

	return &Templates{
		html:  htmlTmpl,
		plain: plainTmpl,
	}, nil
}

// RenderHTML renders the HTML email body.
func (t *Templates) RenderHTML(data *TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := t.html.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPlain renders the plain text email body.
func (t *Templates) RenderPlain(data *TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := t.plain.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// typeColor returns the accent color for a notification type.
func typeColor(t models.NotificationType) string {
	switch t {
	case models.NotificationTypeTask:
		return "#1976d2" // blue
	case models.NotificationTypeFile:
		return "#388e3c" // green
	case models.NotificationTypeMessage:
		return "#7b1fa2" // purple
	case models.NotificationTypeDeadline:
		return "#d32f2f" // red
	default:
		return "#757575" // gray
	}
}

// NotificationToTemplateData converts a notification to template data.
// baseURL is prepended to relative links.
func NotificationToTemplateData(n *models.Notification, baseURL string) TemplateData {
	data := TemplateData{
		Title:       n.Title,
		Description: n.Description,
		Type:        string(n.Type),
		TypeColor:   typeColor(n.Type),
		Timestamp:   formatTime(n.Timestamp),
	}
	if n.Link != "" {
		data.Link = baseURL + n.Link
	}
	return data
}
