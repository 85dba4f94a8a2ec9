// ABOUTME: Interactive login prompt built with huh
// ABOUTME: Asks for whatever of role, username and password is still missing

package loginform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/markalston/study-portal/internal/session"
)

// Answers holds the prompt's values. Pre-filled fields are not asked again.
type Answers struct {
	Username string
	Password string
	Role     session.Role
}

// Complete reports whether nothing needs prompting
func (a *Answers) Complete() bool {
	return a.Username != "" && a.Password != "" && a.Role != session.RoleUnknown
}

var roleOptions = []huh.Option[session.Role]{
	huh.NewOption("Student", session.RoleStudent),
	huh.NewOption("Teacher", session.RoleTeacher),
}

// Form prompts for login details
type Form struct {
	answers *Answers
}

// New creates a login prompt seeded with known answers
func New(answers *Answers) *Form {
	if answers.Role == session.RoleUnknown {
		answers.Role = session.RoleStudent
	}
	return &Form{answers: answers}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// fields returns the inputs still needing an answer
func (f *Form) fields(askRole bool) []huh.Field {
	var fields []huh.Field
	if askRole {
		fields = append(fields, huh.NewSelect[session.Role]().
			Title("Sign in as").
			Options(roleOptions...).
			Value(&f.answers.Role))
	}
	if f.answers.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Validate(required("username")).
			Value(&f.answers.Username))
	}
	if f.answers.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(required("password")).
			Value(&f.answers.Password))
	}
	return fields
}

// Run displays the prompt. askRole shows the role picker even when a
// default role is set.
func (f *Form) Run(askRole bool) (*Answers, error) {
	fields := f.fields(askRole)
	if len(fields) == 0 {
		return f.answers, nil
	}

	form := huh.NewForm(huh.NewGroup(fields...).Title("Study Abroad Service Platform")).
		WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return nil, err
	}
	return f.answers, nil
}
