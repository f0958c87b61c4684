package admin

import (
	"testing"

	"portfolio/models"

	"github.com/stretchr/testify/assert"
)

func TestForm_Tags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: []string{}},
		{raw: "Go", want: []string{"Go"}},
		{raw: " Go , Postgres,, ,gin ", want: []string{"Go", "Postgres", "gin"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Form{RawTags: tt.raw}.Tags(), tt.raw)
	}
}

func TestForm_Valid(t *testing.T) {
	assert.False(t, EmptyForm().Valid())
	assert.False(t, Form{Title: "t", Description: "   "}.Valid())
	assert.True(t, Form{Title: "t", Description: "d"}.Valid())
}

func TestFormFromProject_RoundTrip(t *testing.T) {
	github := "https://github.com/x/y"
	p := models.Project{
		ID:          "p1",
		Title:       "Title",
		Description: "Desc",
		Tags:        []string{"Go", "Redis"},
		Status:      models.StatusCompleted,
		GithubURL:   &github,
		Featured:    true,
	}

	f := FormFromProject(p)
	assert.Equal(t, "Go, Redis", f.RawTags)
	assert.Equal(t, github, f.GithubURL)
	assert.Empty(t, f.LiveURL)

	got := f.Project("p1", nil)
	assert.Equal(t, p, got)
}

func TestForm_ProjectDefaultsStatus(t *testing.T) {
	p := Form{Title: " t ", Description: " d "}.Project("", nil)
	assert.Equal(t, models.StatusInProgress, p.Status)
	assert.Equal(t, "t", p.Title)
	assert.Equal(t, "d", p.Description)
	assert.Nil(t, p.GithubURL)
}
