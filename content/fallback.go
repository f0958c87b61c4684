// Package content turns gateway results into the lists the site renders,
// falling back to bundled data when the remote store has nothing to offer.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"portfolio/models"
)

//go:embed projects.json
var projectsJSON []byte

var fallback []models.Project

func init() {
	if err := json.Unmarshal(projectsJSON, &fallback); err != nil {
		panic(fmt.Sprintf("content: bad projects.json: %v", err))
	}
}

// Fallback returns a fresh copy of the bundled project snapshot.
func Fallback() []models.Project {
	return cloneProjects(fallback)
}

func cloneProjects(src []models.Project) []models.Project {
	out := make([]models.Project, len(src))
	for i, p := range src {
		p.Tags = append([]string{}, p.Tags...)
		out[i] = p
	}
	return out
}
