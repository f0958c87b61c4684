package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"portfolio/chat"
	"portfolio/identity"
	"portfolio/models"

	"github.com/AlecAivazis/survey/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewChatCmd opens the live chat in the terminal.
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Join the live chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), "chat", runChat)
		},
	}
}

func runChat(ctx context.Context, app *App) error {
	if !app.Gateway.Configured() {
		return errors.New("chat needs DATABASE_URL")
	}

	widget := chat.NewWidget(app.Gateway, identity.NewStore(app.KV), app.Config.ChatSendInterval, app.Log)
	if widget.Username() == "" {
		input := ""
		surveyQuestion := &survey.Input{
			Message: "Pick a chat name (leave blank for a random one):",
			Help:    "Whitespace is removed and names are cut to 24 characters.",
		}
		if err := survey.AskOne(surveyQuestion, &input); err != nil {
			return err
		}
		name, err := widget.ChooseUsername(input)
		if err != nil {
			return err
		}
		OK("You are %s", name)
	}

	var mu sync.Mutex
	printed := map[uuid.UUID]bool{}
	widget.OnChange(func(msgs []models.ChatMessage) {
		mu.Lock()
		defer mu.Unlock()
		for _, m := range msgs {
			if printed[m.ID] {
				continue
			}
			printed[m.ID] = true
			printMessage(m)
		}
	})

	if err := widget.Open(ctx); err != nil {
		return err
	}
	defer widget.Close()

	Info("Type a message and press enter. /quit to leave.")
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "/quit" {
				return nil
			}
			widget.SetDraft(line)
			if err := widget.Send(ctx); err != nil && !errors.Is(err, chat.ErrEmptyDraft) {
				Fail("%v", err)
			}
		}
	}
}

func printMessage(m models.ChatMessage) {
	timeColor.Printf("%s ", m.CreatedAt.Local().Format("15:04"))
	usernameColor.Printf("%s", m.Username)
	fmt.Printf(": %s\n", m.Message)
}
