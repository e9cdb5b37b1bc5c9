// Package transcript is the node model of the chat area.
//
// A Transcript is an ordered list of bubbles; each bubble holds text runs and
// raw markup tags. The typing presenter grows assistant bubbles one node step
// at a time, and the terminal view renders the resulting markup.
package transcript

import (
	"iter"
	"strings"
)

// Role identifies what a bubble shows.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleNotice  // informational message from the client itself (welcome, not found)
	RoleError   // apology or failure notice
	RoleLoading // placeholder while a request is in flight
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleNotice:
		return "notice"
	case RoleError:
		return "error"
	case RoleLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// NodeKind distinguishes text runs from markup tags.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeTag
)

// Node is a text run or a complete tag such as "<strong>" or "<br>".
type Node struct {
	Kind NodeKind
	Text string
}

// Bubble is one message in the chat area.
type Bubble struct {
	Role  Role
	Nodes []Node
}

// NewBubble returns a bubble whose nodes are parsed from markup.
func NewBubble(role Role, markup string) *Bubble {
	b := &Bubble{Role: role}
	for n := range Segments(markup) {
		b.Nodes = append(b.Nodes, n)
	}
	return b
}

// InsertTag appends a tag node.
func (b *Bubble) InsertTag(tag string) {
	b.Nodes = append(b.Nodes, Node{Kind: NodeTag, Text: tag})
}

// StartText appends a new text node holding s.
func (b *Bubble) StartText(s string) {
	b.Nodes = append(b.Nodes, Node{Kind: NodeText, Text: s})
}

// AppendText extends the last text node with s, starting one if the last
// node is a tag or the bubble is empty.
func (b *Bubble) AppendText(s string) {
	if n := len(b.Nodes); n > 0 && b.Nodes[n-1].Kind == NodeText {
		b.Nodes[n-1].Text += s
		return
	}
	b.StartText(s)
}

// Markup returns the bubble's nodes joined back into markup.
func (b *Bubble) Markup() string {
	var sb strings.Builder
	for _, n := range b.Nodes {
		sb.WriteString(n.Text)
	}
	return sb.String()
}

// Empty reports whether the bubble has no visible content yet.
func (b *Bubble) Empty() bool {
	return len(b.Nodes) == 0
}

// Transcript is the ordered list of bubbles in the chat area.
type Transcript struct {
	bubbles []*Bubble
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds b at the end and returns it.
func (t *Transcript) Append(b *Bubble) *Bubble {
	t.bubbles = append(t.bubbles, b)
	return b
}

// Remove deletes b. It returns false when b is not in the transcript.
func (t *Transcript) Remove(b *Bubble) bool {
	for i, x := range t.bubbles {
		if x == b {
			t.bubbles = append(t.bubbles[:i], t.bubbles[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether b is in the transcript.
func (t *Transcript) Contains(b *Bubble) bool {
	for _, x := range t.bubbles {
		if x == b {
			return true
		}
	}
	return false
}

// Clear removes every bubble.
func (t *Transcript) Clear() {
	t.bubbles = nil
}

// Len returns the number of bubbles.
func (t *Transcript) Len() int {
	return len(t.bubbles)
}

// All iterates over the bubbles in order.
func (t *Transcript) All() iter.Seq[*Bubble] {
	return func(yield func(*Bubble) bool) {
		for _, b := range t.bubbles {
			if !yield(b) {
				return
			}
		}
	}
}

// Bubbles returns a copy of the bubble list.
func (t *Transcript) Bubbles() []*Bubble {
	return append([]*Bubble(nil), t.bubbles...)
}

// Last returns the last bubble with role, or nil.
func (t *Transcript) Last(role Role) *Bubble {
	for i := len(t.bubbles) - 1; i >= 0; i-- {
		if t.bubbles[i].Role == role {
			return t.bubbles[i]
		}
	}
	return nil
}

// Segments splits markup into whole text runs and tags. A tag is a "<"
// through the next ">"; a "<" with no closing ">" is ordinary text.
func Segments(markup string) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		rest := markup
		var text strings.Builder
		flush := func() bool {
			if text.Len() == 0 {
				return true
			}
			s := text.String()
			text.Reset()
			return yield(Node{Kind: NodeText, Text: s})
		}

		for rest != "" {
			open := strings.IndexByte(rest, '<')
			if open < 0 {
				text.WriteString(rest)
				break
			}
			closing := strings.IndexByte(rest[open:], '>')
			if closing < 0 {
				text.WriteString(rest)
				break
			}
			text.WriteString(rest[:open])
			if !flush() {
				return
			}
			if !yield(Node{Kind: NodeTag, Text: rest[open : open+closing+1]}) {
				return
			}
			rest = rest[open+closing+1:]
		}
		flush()
	}
}
