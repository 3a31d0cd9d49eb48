package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/redmonkez12/user-management-api/internal/apperror"
	"github.com/redmonkez12/user-management-api/internal/user"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// PrintTitle prints a section heading.
func PrintTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

// PrintSuccess prints a success message.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// PrintNote prints a dimmed informational line.
func PrintNote(w io.Writer, msg string) {
	fmt.Fprintln(w, subtleStyle.Render(msg))
}

// PrintError prints an error message. Validation failures are listed field
// by field.
func PrintError(w io.Writer, err error) {
	if appErr, ok := apperror.As(err); ok && len(appErr.Details) > 0 {
		fmt.Fprintln(w, errorStyle.Render("Error: "+appErr.Message))
		for _, d := range appErr.Details {
			fmt.Fprintf(w, "  %s: %s\n", d.Field, d.Message)
		}
		return
	}
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

// PrintUser prints the stored fields of u, never the password hash.
func PrintUser(w io.Writer, u *user.User) {
	fmt.Fprintf(w, "  ID:         %s\n", u.ID)
	fmt.Fprintf(w, "  Name:       %s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(w, "  Email:      %s\n", u.Email)
	fmt.Fprintf(w, "  Birth date: %s\n", u.BirthDate)
	fmt.Fprintln(w)
}
