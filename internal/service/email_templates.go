package service

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/perfreview/goalflow/internal/markdown"
	"github.com/perfreview/goalflow/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.md
var emailTemplatesFS embed.FS

type emailData struct {
	AppName       string
	RecipientName string
	Message       string
	Description   string
	StatusLabel   string
	Priority      string
	Deadline      string
	Feedback      string
	GoalURL       string

	plainMessage string
}

type renderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

// emailRenderer turns the markdown templates under templates/ into HTML emails.
// The subject comes from the template's front matter.
type emailRenderer struct {
	parser    *markdown.Parser
	templates map[model.NotificationType]*template.Template
}

func newEmailRenderer() (*emailRenderer, error) {
	r := &emailRenderer{
		parser:    markdown.NewParser(),
		templates: make(map[model.NotificationType]*template.Template),
	}

	for _, typ := range []model.NotificationType{model.NotificationGoalSubmission, model.NotificationGoalStatusUpdate} {
		name := "templates/" + string(typ) + ".md"
		tmpl, err := template.ParseFS(emailTemplatesFS, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		r.templates[typ] = tmpl
	}

	return r, nil
}

func (r *emailRenderer) render(typ model.NotificationType, data emailData) (*renderedEmail, error) {
	tmpl, ok := r.templates[typ]
	if !ok {
		return nil, fmt.Errorf("no email template for notification type %q", typ)
	}

	var source bytes.Buffer
	err := tmpl.Execute(&source, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	doc, err := r.parser.Render(source.Bytes())
	if err != nil {
		return nil, fmt.Errorf("email template %s: %w", typ, err)
	}

	subject := doc.String("subject")
	if subject == "" {
		subject = data.AppName + ": goal update"
	}

	return &renderedEmail{
		Subject: subject,
		HTML:    string(doc.HTML),
		Text:    fmt.Sprintf("%s.\n\n%s", data.plainMessage, data.GoalURL),
	}, nil
}

func newEmailData(appName, appURL string, recipient *model.User, n *model.Notification, goal *model.Goal) emailData {
	data := emailData{
		AppName:       appName,
		RecipientName: markdownText(recipient.DisplayName()),
		Message:       markdownText(n.Message),
		Description:   markdownText(goal.Description),
		StatusLabel:   cases.Title(language.English).String(string(goal.Status)),
		Priority:      cases.Title(language.English).String(string(goal.Priority)),
		Deadline:      "none",
		GoalURL:       fmt.Sprintf("%s/goals/%s", strings.TrimRight(appURL, "/"), goal.ID),
		plainMessage:  n.Message,
	}
	if goal.Deadline != nil {
		data.Deadline = goal.Deadline.Format("Jan 2, 2006")
	}
	if goal.Feedback != nil {
		data.Feedback = markdownText(*goal.Feedback)
	}
	return data
}

// markdownText makes user text render literally: it is folded onto one line and every
// ASCII punctuation character is backslash-escaped, so links, emphasis and block markup
// (including autolinked URLs) stay plain text.
func markdownText(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
