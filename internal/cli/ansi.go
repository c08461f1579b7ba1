package cli

import "fmt"

// tone is a 256-color code for one kind of output, matching the TUI palette.
type tone int

const (
	toneAccent  tone = 208 // ttct prefix
	toneDone    tone = 42  // completed, diff add
	toneMissing tone = 196 // missing required, diff del
	toneNav     tone = 117 // navigation, diff hunk
	toneMuted   tone = 241 // labels, optional
	toneValue   tone = 255 // values
	toneTitle   tone = 205 // titles
)

// paint wraps text with the SGR sequence of t.
func paint(t tone, bold bool, text string) string {
	if bold {
		return fmt.Sprintf("\033[1;38;5;%dm%s\033[0m", int(t), text)
	}
	return fmt.Sprintf("\033[38;5;%dm%s\033[0m", int(t), text)
}
