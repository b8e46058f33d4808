package gemini

import (
	"strings"
	"text/template"
)

var readmePrompt = template.Must(template.New("readme").Parse(`Generate a comprehensive and professional README.md file for a {{.ProjectType}} project with the following details:

Project Name: {{.ProjectName}}
Description: {{or .Description "No description provided"}}
GitHub Repository: {{or .GitHubRepo "Not specified"}}

Please create a well-structured README that includes:

1. # {{.ProjectName}}
2. A compelling project description
3. ## Features (list key features based on the description)
4. ## Installation
   - Prerequisites
   - Step-by-step installation instructions
5. ## Usage
   - Basic usage examples
   - Code snippets if applicable
6. ## API Documentation (if applicable)
7. ## Contributing
   - How to contribute
   - Code of conduct
8. ## License
9. ## Contact/Support

Make it professional, well-formatted in Markdown, and include relevant badges. Use modern development practices and assume this is a collaborative project. Make the content engaging and informative.

Focus on making it practical and useful for developers who want to understand and contribute to the project.`))

var summaryPrompt = template.Must(template.New("summary").Parse(`Analyze the following code changes and provide a concise summary for team members:

Project: {{.ProjectName}}
Repository: {{.GitHubRepo}}
Changes: {{.Changes}}

Please provide:
1. A brief summary of what was changed
2. Impact on the project
3. Any important notes for collaborators

Keep it professional and easy to understand.`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
