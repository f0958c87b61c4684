package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"portfolio/admin"
	"portfolio/content"
	"portfolio/events"
	"portfolio/models"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

const (
	actionStatus = "Edit status list"
	actionAdd    = "Add project"
	actionEdit   = "Edit project"
	actionDelete = "Delete project"
	actionImport = "Import bundled projects"
	actionLogout = "Log out"
	actionQuit   = "Quit"
)

// NewAdminCmd opens the interactive content editor.
func NewAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Edit the status list and projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), "admin", runAdmin)
		},
	}
}

func runAdmin(ctx context.Context, app *App) error {
	session := admin.NewSession(app.KV, app.Config.AdminPassword)
	if !session.LoggedIn() {
		password := ""
		if err := survey.AskOne(&survey.Password{Message: "Admin password:"}, &password); err != nil {
			return err
		}
		if err := session.Login(password); err != nil {
			return err
		}
		OK("Logged in")
	}

	fallback := content.Fallback()
	pub := app.Events()
	statusEditor := admin.NewStatusEditor(app.Gateway, app.KV, pub, app.Log)
	projectEditor := admin.NewProjectEditor(app.Gateway, fallback, pub, app.Log)
	projects := content.NewProjectsView(app.Gateway, fallback, app.Bus, app.Log)
	defer projects.Close()

	for {
		projects.Refresh(ctx)
		if hint := projects.Hint(); hint != "" {
			Fail("%s", hint)
		}

		action := ""
		options := []string{actionStatus}
		if app.Gateway.Configured() {
			options = append(options, actionAdd, actionEdit, actionDelete, actionImport)
		}
		options = append(options, actionLogout, actionQuit)
		if err := survey.AskOne(&survey.Select{Message: "What next?", Options: options}, &action); err != nil {
			return err
		}

		var err error
		switch action {
		case actionStatus:
			err = editStatus(ctx, statusEditor)
		case actionAdd:
			projectEditor.Cancel()
			err = submitProject(ctx, projectEditor)
		case actionEdit:
			err = editProject(ctx, projectEditor, projects)
		case actionDelete:
			err = deleteProject(ctx, projectEditor)
		case actionImport:
			n := admin.ImportFallback(ctx, app.Gateway, fallback, "", nil, nil)
			if n > 0 {
				pub.Emit(ctx, events.ProjectsUpdated)
			}
			OK("Imported %d of %d projects", n, len(fallback))
		case actionLogout:
			return session.Logout()
		case actionQuit:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func editStatus(ctx context.Context, e *admin.StatusEditor) error {
	e.Load(ctx)
	current := make([]string, 0, len(e.Items()))
	for _, item := range e.Items() {
		current = append(current, item.Text)
	}

	text := ""
	surveyQuestion := &survey.Multiline{
		Message: "One status per line (blank lines are dropped):",
		Default: strings.Join(current, "\n"),
	}
	if err := survey.AskOne(surveyQuestion, &text); err != nil {
		return err
	}

	for range current {
		e.Remove(0)
	}
	for i, line := range strings.Split(text, "\n") {
		e.Add()
		e.Update(i, line)
	}

	if e.Save(ctx) {
		OK("%s", e.Notice())
	} else {
		Fail("%s", e.Notice())
	}
	return nil
}

func editProject(ctx context.Context, e *admin.ProjectEditor, view *content.ProjectsView) error {
	list := view.Projects()
	if len(list) == 0 {
		Info("No projects yet")
		return nil
	}
	p, ok, err := pickProject(list, "Edit which project?")
	if err != nil || !ok {
		return err
	}
	e.StartEdit(p, view.FromFallback(p.ID))
	return submitProject(ctx, e)
}

func submitProject(ctx context.Context, e *admin.ProjectEditor) error {
	form := e.Form()
	answers := struct {
		Title       string
		Description string
		Tags        string
		Status      string
		GithubURL   string `survey:"github"`
		LiveURL     string `survey:"live"`
		Image       string
		Featured    bool
	}{}

	statuses := []string{string(models.StatusCompleted), string(models.StatusInProgress), string(models.StatusPlanned)}
	questions := []*survey.Question{
		{Name: "title", Prompt: &survey.Input{Message: "Title:", Default: form.Title}, Validate: survey.Required},
		{Name: "description", Prompt: &survey.Input{Message: "Description:", Default: form.Description}, Validate: survey.Required},
		{Name: "tags", Prompt: &survey.Input{Message: "Tags (comma separated):", Default: form.RawTags}},
		{Name: "status", Prompt: &survey.Select{Message: "Status:", Options: statuses, Default: string(form.Status)}},
		{Name: "github", Prompt: &survey.Input{Message: "GitHub URL:", Default: form.GithubURL}},
		{Name: "live", Prompt: &survey.Input{Message: "Live URL:", Default: form.LiveURL}},
		{Name: "image", Prompt: &survey.Input{Message: "New image file (blank keeps the current one):"}},
		{Name: "featured", Prompt: &survey.Confirm{Message: "Featured on the home page?", Default: form.Featured}},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	e.SetForm(admin.Form{
		Title:       answers.Title,
		Description: answers.Description,
		RawTags:     answers.Tags,
		Status:      models.ProjectStatus(answers.Status),
		GithubURL:   answers.GithubURL,
		LiveURL:     answers.LiveURL,
		Image:       form.Image,
		Featured:    answers.Featured,
	})

	if path := strings.TrimSpace(answers.Image); path != "" {
		f, err := openImage(path)
		if err != nil {
			Fail("%v", err)
			return nil
		}
		defer f.Close()
		e.SetImage(filepath.Base(path), f)
	}

	if e.Submit(ctx) {
		OK("%s", e.Notice())
	} else {
		Fail("%s", fallbackNotice(e.Notice()))
	}
	return nil
}

func deleteProject(ctx context.Context, e *admin.ProjectEditor) error {
	e.Load(ctx)
	list := e.Projects()
	if len(list) == 0 {
		Info("No stored projects to delete")
		return nil
	}
	p, ok, err := pickProject(list, "Delete which project?")
	if err != nil || !ok {
		return err
	}

	deleted := e.Delete(ctx, p.ID, func() bool {
		return Confirm(fmt.Sprintf("Delete %q?", p.Title))
	})
	if deleted {
		OK("Deleted %s", p.Title)
	} else if notice := e.Notice(); notice != "" {
		Fail("%s", notice)
	}
	return nil
}

func pickProject(list []models.Project, message string) (models.Project, bool, error) {
	const cancel = "(cancel)"
	options := make([]string, 0, len(list)+1)
	for i, p := range list {
		options = append(options, fmt.Sprintf("%d. %s", i+1, p.Title))
	}
	options = append(options, cancel)

	index := 0
	if err := survey.AskOne(&survey.Select{Message: message, Options: options}, &index); err != nil {
		return models.Project{}, false, err
	}
	if index >= len(list) {
		return models.Project{}, false, nil
	}
	return list[index], true, nil
}

func fallbackNotice(notice string) string {
	if notice == "" {
		return "Title and description are required"
	}
	return notice
}

var errNotAFile = errors.New("not a regular file")

func openImage(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, errNotAFile)
	}
	return os.Open(path)
}
