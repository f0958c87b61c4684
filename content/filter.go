package content

import (
	"slices"
	"strings"

	"portfolio/models"

	"github.com/scylladb/go-set/strset"
)

// Featured keeps the projects flagged for the home page.
func Featured(list []models.Project) []models.Project {
	out := []models.Project{}
	for _, p := range list {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Tags returns every tag used in list, sorted and distinct.
func Tags(list []models.Project) []string {
	set := strset.New()
	for _, p := range list {
		set.Add(p.Tags...)
	}
	tags := set.List()
	slices.Sort(tags)
	return tags
}

// Filter keeps projects carrying tag (when set) whose title or description
// contains query, case-insensitively (when set).
func Filter(list []models.Project, tag, query string) []models.Project {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []models.Project{}
	for _, p := range list {
		if tag != "" && !slices.Contains(p.Tags, tag) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
