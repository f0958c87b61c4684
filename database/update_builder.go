package database

import (
	"fmt"
	"strings"
)

const (
	columnID          = "id"
	columnTitle       = "title"
	columnDescription = "description"
	columnTags        = "tags"
	columnStatus      = "status"
	columnGithubURL   = "github_url"
	columnLiveURL     = "live_url"
	columnImage       = "image"
	columnFeatured    = "featured"
)

// UpdateBuilder collects SET assignments for a partial update, numbering
// placeholders as it goes.
type UpdateBuilder struct {
	assignments []string
	args        []interface{}
	argCount    int
}

func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{
		assignments: []string{},
		args:        []interface{}{},
		argCount:    1,
	}
}

func (ub *UpdateBuilder) Set(column string, value interface{}) {
	ub.assignments = append(ub.assignments, fmt.Sprintf("%s = $%d", column, ub.argCount))
	ub.args = append(ub.args, value)
	ub.argCount++
}

func (ub *UpdateBuilder) Len() int {
	return len(ub.assignments)
}

func (ub *UpdateBuilder) SetClause() string {
	if len(ub.assignments) == 0 {
		return ""
	}
	return "SET " + strings.Join(ub.assignments, ", ")
}

func (ub *UpdateBuilder) Args() []interface{} {
	return ub.args
}

func (ub *UpdateBuilder) NextArgNum() int {
	return ub.argCount
}

// Helper functions

func validateLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
