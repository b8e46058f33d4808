// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/devcollab/devcollab/internal/app/system/htmlsanitize"
)

// ProjectUpdateEmailData holds data for the change notification email.
type ProjectUpdateEmailData struct {
	SiteName    string // e.g. "DevCollab"
	ProjectName string
	Summary     string // generated; treated as untrusted
	RepoURL     string
}

// BuildProjectUpdateEmail creates the change notification sent to each
// collaborator. To is set by the caller.
func BuildProjectUpdateEmail(data ProjectUpdateEmailData) Email {
	if data.SiteName == "" {
		data.SiteName = "DevCollab"
	}
	return Email{
		Subject:  fmt.Sprintf("%s - New Updates Available", data.ProjectName),
		TextBody: buildProjectUpdateText(data),
		HTMLBody: buildProjectUpdateHTML(data),
	}
}

func buildProjectUpdateText(data ProjectUpdateEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s - Project Update\n\n", data.SiteName)
	fmt.Fprintf(&buf, "%s\n\n", data.ProjectName)
	buf.WriteString("New changes have been made to your project. Here's a summary:\n\n")
	buf.WriteString(data.Summary + "\n\n")
	if data.RepoURL != "" {
		fmt.Fprintf(&buf, "View on GitHub: %s\n\n", data.RepoURL)
	}
	fmt.Fprintf(&buf, "This email was sent by %s. You're receiving this because you're a collaborator on this project.\n", data.SiteName)
	return buf.String()
}

var projectUpdateHTML = template.Must(template.New("project_update").Parse(projectUpdateHTMLTemplate))

func buildProjectUpdateHTML(data ProjectUpdateEmailData) string {
	view := struct {
		ProjectUpdateEmailData
		SummaryHTML template.HTML
	}{data, htmlsanitize.PrepareForDisplay(data.Summary)}

	var buf bytes.Buffer
	_ = projectUpdateHTML.Execute(&buf, view)
	return buf.String()
}

const projectUpdateHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.ProjectName}} - Project Update</title>
</head>
<body style="margin: 0; padding: 0; background-color: #ffffff;">
  <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 24px;">
    <h2 style="color: #2563eb;">{{.SiteName}} - Project Update</h2>
    <h3>{{.ProjectName}}</h3>
    <p>New changes have been made to your project. Here's a summary:</p>
    <div style="background-color: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
      {{.SummaryHTML}}
    </div>
    {{- if .RepoURL}}
    <p>
      <a href="{{.RepoURL}}" style="color: #2563eb; text-decoration: none;">View on GitHub &rarr;</a>
    </p>
    {{- end}}
    <hr style="margin: 30px 0; border: none; border-top: 1px solid #e2e8f0;">
    <p style="color: #64748b; font-size: 14px;">
      This email was sent by {{.SiteName}}. You're receiving this because you're a collaborator on this project.
    </p>
  </div>
</body>
</html>`
