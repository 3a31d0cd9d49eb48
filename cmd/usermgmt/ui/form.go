package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/redmonkez12/user-management-api/internal/user"
)

// CreateUserAnswers holds the create-user fields as typed on the command line
// or in the form.
type CreateUserAnswers struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	BirthDate string
}

// Complete reports whether every field has a value.
func (a *CreateUserAnswers) Complete() bool {
	return a.FirstName != "" && a.LastName != "" && a.Email != "" && a.Password != "" && a.BirthDate != ""
}

// Input converts the answers into a service request. Only the date is checked
// here; the service validates the rest.
func (a *CreateUserAnswers) Input() (user.CreateInput, error) {
	birth, err := user.ParseDate(strings.TrimSpace(a.BirthDate))
	if err != nil {
		return user.CreateInput{}, err
	}
	return user.CreateInput{
		FirstName: strings.TrimSpace(a.FirstName),
		LastName:  strings.TrimSpace(a.LastName),
		Email:     strings.TrimSpace(a.Email),
		Password:  a.Password,
		BirthDate: &birth,
	}, nil
}

// RunCreateUserForm asks for the new user's fields. Values already in a are
// shown as defaults.
func RunCreateUserForm(a *CreateUserAnswers) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First name").
				Value(&a.FirstName).
				Validate(minLength("first name", user.MinNameLength)),

			huh.NewInput().
				Title("Last name").
				Value(&a.LastName).
				Validate(minLength("last name", user.MinNameLength)),

			huh.NewInput().
				Title("Email").
				Placeholder("jane@example.com").
				Value(&a.Email).
				Validate(func(s string) error {
					if !user.IsValidEmail(strings.TrimSpace(s)) {
						return fmt.Errorf("enter a valid email address")
					}
					return nil
				}),

			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&a.Password).
				Validate(func(s string) error {
					if len(s) < user.MinPasswordLength || len(s) > user.MaxPasswordLength {
						return fmt.Errorf("password must be %d to %d characters", user.MinPasswordLength, user.MaxPasswordLength)
					}
					return nil
				}),

			huh.NewInput().
				Title("Birth date").
				Placeholder("YYYY-MM-DD").
				Value(&a.BirthDate).
				Validate(func(s string) error {
					_, err := user.ParseDate(strings.TrimSpace(s))
					return err
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())

	return form.Run()
}

func minLength(label string, n int) func(string) error {
	return func(s string) error {
		if len([]rune(strings.TrimSpace(s))) < n {
			return fmt.Errorf("%s must be at least %d characters", label, n)
		}
		return nil
	}
}
