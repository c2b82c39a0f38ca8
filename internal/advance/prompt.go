package advance

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// HuhPrompter asks on the terminal with a huh confirm field.
type HuhPrompter struct {
	// Accessible switches huh to plain line prompts.
	Accessible bool
}

// Confirm shows question with Yes/No. Ctrl-C counts as No.
func (p HuhPrompter) Confirm(question string, defaultYes bool) (bool, error) {
	title, description, _ := strings.Cut(question, "\n")
	if description != "" {
		title, description = description, title
	}

	answer := defaultYes
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)
	if description != "" {
		field = field.Description(description)
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huh.ThemeDracula()).
		WithAccessible(p.Accessible)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}
