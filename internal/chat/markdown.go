package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// cursorMarker is appended to in-flight answers so the user can see the
// stream is still open. It never appears in a finished answer.
const cursorMarker = "▋"

// Markdown renders answer text for display. Partial gets the cursor
// marker appended; Final renders the text as-is.
type Markdown interface {
	Partial(text string) string
	Final(text string) string
}

// Renderer is the glamour-backed Markdown implementation.
type Renderer struct {
	tr *glamour.TermRenderer
}

// NewRenderer builds a terminal markdown renderer wrapped at the given
// width.
func NewRenderer(width int) (*Renderer, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{tr: tr}, nil
}

func (r *Renderer) Partial(text string) string {
	return r.render(text + cursorMarker)
}

func (r *Renderer) Final(text string) string {
	return r.render(text)
}

// render falls back to the raw text when glamour chokes on it, so a
// malformed chunk boundary never blanks the answer.
func (r *Renderer) render(text string) string {
	out, err := r.tr.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
