package cli

import (
	"context"
	"errors"

	"portfolio/admin"
	"portfolio/content"
	"portfolio/events"

	"github.com/spf13/cobra"
)

// NewImportCmd copies the bundled projects into the projects table.
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-projects",
		Short: "Import the bundled projects into the database",
		Long:  "Import the bundled projects into the database. Rows keep their ids, so running it again overwrites them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), "import", func(ctx context.Context, app *App) error {
				if !app.Gateway.Configured() {
					return errors.New("import-projects needs DATABASE_URL")
				}

				fallback := content.Fallback()
				n := admin.ImportFallback(ctx, app.Gateway, fallback, "", nil, nil)
				if n > 0 {
					app.Events().Emit(ctx, events.ProjectsUpdated)
				}
				if n < len(fallback) {
					Fail("Imported %d of %d projects", n, len(fallback))
					return errors.New("import incomplete")
				}
				OK("Imported %d projects", n)
				return nil
			})
		},
	}
}
