package chat

// Bubble roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleError     = "error"
)

// Bubble is one entry of a chat transcript. Content is the rendered
// form; Raw keeps the unrendered text for persistence.
type Bubble struct {
	Role      string
	Content   string
	Raw       string
	Streaming bool
}

// Transcript holds the ordered conversation and applies the streaming
// protocol to its last bubble: a placeholder appears on submit, chunks
// re-render it in place with the cursor marker, and completion renders
// the final text without the marker.
type Transcript struct {
	bubbles  []Bubble
	markdown Markdown
}

// NewTranscript creates an empty transcript rendering with md.
func NewTranscript(md Markdown) *Transcript {
	return &Transcript{markdown: md}
}

// AddUser appends the user's submitted query.
func (t *Transcript) AddUser(text string) {
	t.bubbles = append(t.bubbles, Bubble{Role: RoleUser, Content: text, Raw: text})
}

// BeginAnswer appends the streaming placeholder the chunks will fill.
func (t *Transcript) BeginAnswer() {
	t.bubbles = append(t.bubbles, Bubble{Role: RoleAssistant, Streaming: true})
}

// ApplyChunk re-renders the in-flight answer with the accumulated text.
func (t *Transcript) ApplyChunk(text string) {
	b := t.streamingBubble()
	if b == nil {
		return
	}
	b.Raw = text
	b.Content = t.markdown.Partial(text)
}

// Complete renders the finished answer. The cursor marker is gone from
// the final render.
func (t *Transcript) Complete(text string) {
	b := t.streamingBubble()
	if b == nil {
		return
	}
	b.Raw = text
	b.Content = t.markdown.Final(text)
	b.Streaming = false
}

// CancelStream settles a cancelled answer in place. Whatever partial
// text arrived stays visible; no error bubble is added.
func (t *Transcript) CancelStream(text string) {
	b := t.streamingBubble()
	if b == nil {
		return
	}
	if text != "" {
		b.Raw = text
	}
	b.Content = t.markdown.Final(b.Raw)
	b.Streaming = false
}

// Fail replaces the in-flight placeholder with an error bubble carrying
// the guidance text.
func (t *Transcript) Fail(guidance string) {
	if b := t.streamingBubble(); b != nil {
		t.bubbles = t.bubbles[:len(t.bubbles)-1]
	}
	t.bubbles = append(t.bubbles, Bubble{Role: RoleError, Content: guidance, Raw: guidance})
}

// Streaming reports whether an answer is currently in flight.
func (t *Transcript) Streaming() bool {
	return t.streamingBubble() != nil
}

// Bubbles returns the transcript in order.
func (t *Transcript) Bubbles() []Bubble {
	return t.bubbles
}

// Last returns the most recent bubble, or nil when empty.
func (t *Transcript) Last() *Bubble {
	if len(t.bubbles) == 0 {
		return nil
	}
	return &t.bubbles[len(t.bubbles)-1]
}

// Clear drops the whole conversation.
func (t *Transcript) Clear() {
	t.bubbles = nil
}

// streamingBubble returns the in-flight answer, which is always the
// last bubble when one exists.
func (t *Transcript) streamingBubble() *Bubble {
	if len(t.bubbles) == 0 {
		return nil
	}
	b := &t.bubbles[len(t.bubbles)-1]
	if b.Role != RoleAssistant || !b.Streaming {
		return nil
	}
	return b
}
