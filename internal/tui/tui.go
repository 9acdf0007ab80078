// Package tui holds the terminal presentation of the yorlect client:
// lipgloss styles, the recording progress bar and the interactive
// confirmation prompt used before destructive admin operations.
package tui

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrUserQuit is returned when the prompt was left with q or ctrl+c.
var ErrUserQuit = errors.New("quit by user")

// Confirm asks question on out and reads the y/n answer from in.
func Confirm(question string, in io.Reader, out io.Writer) (bool, error) {
	finalModel, err := tea.NewProgram(
		newConfirmModel(question),
		tea.WithInput(in),
		tea.WithOutput(out),
	).Run()
	if err != nil {
		return false, err
	}

	result, ok := finalModel.(confirmModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	if result.quit {
		return false, ErrUserQuit
	}
	return result.confirmed, nil
}
