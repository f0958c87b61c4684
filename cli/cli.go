// Package cli holds the cobra commands and terminal helpers.
package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
)

var (
	// Colors.
	usernameColor = color.New(color.Bold, color.FgCyan)
	timeColor     = color.New(color.FgHiBlack)
	okColor       = color.New(color.FgGreen)
	errColor      = color.New(color.FgRed)
	infoColor     = color.New(color.FgYellow)
)

// OK prints a success line.
func OK(text string, args ...any) {
	okColor.Printf("✓ %s\n", fmt.Sprintf(text, args...))
}

// Fail prints an error line.
func Fail(text string, args ...any) {
	errColor.Printf("✗ %s\n", fmt.Sprintf(text, args...))
}

// Info prints a neutral notice.
func Info(text string, args ...any) {
	infoColor.Printf("%s\n", fmt.Sprintf(text, args...))
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(message string) bool {
	confirm := false
	surveyQuestion := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(surveyQuestion, &confirm); err != nil {
		return false
	}
	return confirm
}
