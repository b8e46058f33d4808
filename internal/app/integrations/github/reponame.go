// internal/app/integrations/github/reponame.go
package github

import "strings"

// RepoName derives a GitHub repository name from a project name:
// lowercase, every character outside [a-z0-9-] becomes "-", runs of "-"
// collapse to one, and leading/trailing "-" are dropped.
//
//	"My Cool App!!" -> "my-cool-app"
func RepoName(projectName string) string {
	var b strings.Builder
	b.Grow(len(projectName))

	lastHyphen := false
	for _, r := range strings.ToLower(projectName) {
		isAllowed := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAllowed {
			// "-" itself and anything replaced by it collapse into one.
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
			continue
		}
		b.WriteRune(r)
		lastHyphen = false
	}
	return strings.Trim(b.String(), "-")
}
