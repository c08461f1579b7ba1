package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/alexander-akhmetov/ttct/internal/domain"
	"github.com/alexander-akhmetov/ttct/internal/progress"
	"github.com/alexander-akhmetov/ttct/internal/protocol"
	"github.com/alexander-akhmetov/ttct/internal/section"
)

// Writer prints command output. In TTY mode it colors output and renders
// markdown; otherwise it prints plain text. It also serves as router and
// notifier for controllers driven from the command line.
type Writer struct {
	out      io.Writer
	isTTY    bool
	width    int
	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

// NewWriter creates a Writer. If width is <= 0, defaults to 80.
func NewWriter(out io.Writer, isTTY bool, width int) *Writer {
	if width <= 0 {
		width = 80
	}

	w := &Writer{
		out:   out,
		isTTY: isTTY,
		width: width,
	}

	if isTTY {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(max(width-6, 40)),
		)
		if err == nil {
			w.renderer = r
		}
	}

	return w
}

// Show implements nav.Notifier.
func (w *Writer) Show(message string) {
	w.println(w.formatProg(message))
}

// NavTo implements nav.Router. There are no screens on the command line,
// so navigation is only reported.
func (w *Writer) NavTo(route string) error {
	target := "dashboard"
	if id, ok := protocol.SectionFromRoute(route); ok {
		target = "sezione " + id
	}
	w.println(w.style(toneNav, "-> "+target))
	return nil
}

// Printf prints a plain line.
func (w *Writer) Printf(format string, args ...any) {
	w.println(fmt.Sprintf(format, args...))
}

// Header prints a request header line.
func (w *Writer) Header(r *domain.Request) {
	status := string(r.Status)
	if r.IsSubmitted() {
		status = w.style(toneDone, status)
	}
	w.println(w.styleBold(toneTitle, requestLabel(r)) + w.style(toneMuted, "  "+r.ID+"  ") + status)
}

// Progress prints the section list of a tracker state.
func (w *Writer) Progress(state progress.State) {
	var b strings.Builder
	for _, cfg := range section.Catalog() {
		st := state.Sections[cfg.ID]
		var mark string
		switch {
		case st.Completed:
			mark = w.style(toneDone, "[x]")
		case st.Required:
			mark = w.style(toneMissing, "[ ]")
		default:
			mark = w.style(toneMuted, "[-]")
		}
		fmt.Fprintf(&b, "%s %2s. %s\n", mark, cfg.ID, w.style(toneValue, cfg.Title))
	}
	b.WriteString(w.styleBold(toneTitle, state.ProgressText))
	w.println(b.String())
}

// Markdown prints markdown, rendered in TTY mode.
func (w *Writer) Markdown(text string) {
	w.println(w.formatMarkdown(text))
}

// Diff prints a unified diff, colored by line kind in TTY mode.
func (w *Writer) Diff(text string) {
	var b strings.Builder
	for line := range strings.SplitSeq(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(w.styleBold(toneValue, line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(w.style(toneNav, line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(w.style(toneDone, line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(w.style(toneMissing, line))
		default:
			b.WriteString(w.style(toneMuted, line))
		}
		b.WriteString("\n")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprint(w.out, b.String())
}

func (w *Writer) println(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, line)
}

func (w *Writer) formatProg(text string) string {
	prefix := "ttct: "
	if w.isTTY {
		return paint(toneAccent, true, "▶ "+prefix) + text
	}
	return prefix + text
}

func (w *Writer) formatMarkdown(text string) string {
	if w.renderer != nil {
		if rendered, err := w.renderer.Render(text); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return strings.TrimRight(text, "\n")
}

// style wraps text with 256-color foreground in TTY mode, plain in non-TTY.
func (w *Writer) style(t tone, text string) string {
	if w.isTTY {
		return paint(t, false, text)
	}
	return text
}

// styleBold wraps text with 256-color foreground and bold in TTY mode.
func (w *Writer) styleBold(t tone, text string) string {
	if w.isTTY {
		return paint(t, true, text)
	}
	return text
}
