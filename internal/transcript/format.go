package transcript

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/zhubert/confide/internal/api"
)

// Texts shown by the client itself.
const (
	WelcomeText       = "Hello! I'm Yu Xiaozhi, your mental health companion. Is there anything I can help you with?"
	LoadingText       = "Listening to what's on your mind..."
	ApologyText       = "We can't connect right now. Please try again later, we're always here for you."
	NotFoundText      = "No history was found for this conversation yet~"
	HistoryFailedText = "Couldn't load this conversation. Please try again later."
	DeleteFailedText  = "Couldn't delete the conversation. Please try again later."
	InitFailedText    = "Couldn't start a session. Check your network or try again later."
)

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// FormatAssistant converts an assistant reply to markup: **x** becomes
// <strong>x</strong> and newlines become <br>. Markup already present in the
// reply is kept as is.
func FormatAssistant(text string) string {
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	return strings.ReplaceAll(text, "\n", "<br>")
}

// FormatUser converts user input to markup like FormatAssistant, after
// escaping it so typed angle brackets stay literal text.
func FormatUser(text string) string {
	return FormatAssistant(html.EscapeString(text))
}

// Welcome replaces the transcript with the welcome message.
func (t *Transcript) Welcome() {
	t.Clear()
	t.Append(NewBubble(RoleAssistant, WelcomeText))
}

// RenderNotice replaces the transcript with a single notice.
func (t *Transcript) RenderNotice(text string) {
	t.Clear()
	t.Append(NewBubble(RoleNotice, text))
}

// RenderError replaces the transcript with a single error notice.
func (t *Transcript) RenderError(text string) {
	t.Clear()
	t.Append(NewBubble(RoleError, text))
}

// RenderHistory replaces the transcript with history. An empty history shows
// the welcome message; roles other than user and assistant are skipped.
func (t *Transcript) RenderHistory(history []api.Message) {
	if len(history) == 0 {
		t.Welcome()
		return
	}

	t.Clear()
	for _, msg := range history {
		switch msg.Role {
		case api.RoleUser:
			t.Append(NewBubble(RoleUser, FormatUser(msg.Content)))
		case api.RoleAssistant:
			t.Append(NewBubble(RoleAssistant, FormatAssistant(msg.Content)))
		}
	}
}

// PlainText returns the text of markup with tags dropped, <br> as newlines
// and entities decoded.
func PlainText(markup string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				sb.WriteByte('\n')
			}
		}
	}
}

// PlainText returns the bubble's visible text.
func (b *Bubble) PlainText() string {
	return PlainText(b.Markup())
}
