package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names carried in EmailJob.Template.
const (
	VerifyEmail = "verify_email"
	Welcome     = "welcome"
)

var subjects = map[string]string{
	VerifyEmail: "Verify your email address",
	Welcome:     "Welcome aboard",
}

// Subject returns the default subject line for a template name.
func Subject(name string) string {
	if s, ok := subjects[name]; ok {
		return s
	}
	return "Notification"
}

// Render produces the text and HTML bodies for a named template.
func Render(name string, data map[string]any) (text string, html string, err error) {
	text, err = renderFile(name+".txt.tmpl", false, data)
	if err != nil {
		return "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", err
	}
	return text, html, nil
}

func renderFile(filename string, isHTML bool, data any) (string, error) {
	var buf bytes.Buffer
	if isHTML {
		t, err := htmpl.ParseFS(FS, filename)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", filename, err)
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("render %s: %w", filename, err)
		}
		return buf.String(), nil
	}
	t, err := texttpl.ParseFS(FS, filename)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filename, err)
	}
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", filename, err)
	}
	return buf.String(), nil
}
