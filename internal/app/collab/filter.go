package collab

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/devcollab/devcollab/internal/domain/models"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// FilterProjects keeps the projects whose name or description contains q
// (case-insensitive) and whose status equals status. An empty q matches
// everything; an empty status or StatusAll keeps every status. Order is
// preserved and the input is not modified.
func FilterProjects(projects []models.Project, q, status string) []models.Project {
	needle := text.Fold(strings.TrimSpace(q))
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if status != "" && status != StatusAll && p.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(text.Fold(p.Name), needle) &&
			!strings.Contains(text.Fold(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Stats are the dashboard counters over a project list.
type Stats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	WithRepo   int `json:"withRepo"`
	WithReadme int `json:"withReadme"`
}

// ComputeStats counts projects by state.
func ComputeStats(projects []models.Project) Stats {
	s := Stats{Total: len(projects)}
	for _, p := range projects {
		if p.Status == models.ProjectStatusActive {
			s.Active++
		}
		if p.HasRepository() {
			s.WithRepo++
		}
		if p.Readme != "" {
			s.WithReadme++
		}
	}
	return s
}
