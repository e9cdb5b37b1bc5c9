package devserver

import (
	"context"
	"strings"

	"github.com/zhubert/confide/internal/api"
)

// Responder produces the assistant's answer to a question.
type Responder interface {
	Respond(ctx context.Context, question string, history []api.Message) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, question string, history []api.Message) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, question string, history []api.Message) (string, error) {
	return f(ctx, question, history)
}

// ReflectiveResponder answers by reflecting the question back, the way a
// listener paraphrases before asking for more.
type ReflectiveResponder struct{}

func (ReflectiveResponder) Respond(_ context.Context, question string, history []api.Message) (string, error) {
	q := strings.TrimSpace(question)

	var b strings.Builder
	if len(history) == 0 {
		b.WriteString("Thank you for reaching out.\n")
	}
	b.WriteString("It sounds like **")
	b.WriteString(q)
	b.WriteString("** is on your mind.\n")
	b.WriteString("Would you like to tell me more about how that feels?")
	return b.String(), nil
}
