package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"societyattendance/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer serves the subject, html, and text variants of each named
// mail template. All templates are parsed once at startup; a malformed
// embedded template is a programming error and panics.
type templateRenderer struct {
	html *htmltemplate.Template
	text *template.Template
}

// NewTemplateRenderer returns a renderer backed by the embedded templates
// directory. Template "otp" maps to otp_subject.txt, otp.html, and otp.txt.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{
		html: htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html")),
		text: template.Must(template.ParseFS(templateFS, "templates/*.txt")),
	}
}

func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subject, err = r.execText(templateName+"_subject.txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	textBody, err = r.execText(templateName+".txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	var buf bytes.Buffer
	if err := r.html.ExecuteTemplate(&buf, templateName+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	return strings.TrimSpace(subject), buf.String(), textBody, nil
}

func (r *templateRenderer) execText(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
