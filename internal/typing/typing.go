// Package typing reveals markup into a transcript bubble one step at a time.
//
// Steps turns markup into a lazy sequence of mutations: a whole tag is
// inserted in one step, text appears one rune per step. A Presenter pulls
// those steps on demand, so the caller owns pacing (a timer tick per step in
// the UI, a plain loop in tests).
package typing

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/zhubert/confide/internal/transcript"
)

// StepKind is the mutation a step applies.
type StepKind int

const (
	// InsertTag appends a complete tag node.
	InsertTag StepKind = iota
	// StartText begins a new text node with one rune.
	StartText
	// AppendText adds one rune to the last text node.
	AppendText
)

func (k StepKind) String() string {
	switch k {
	case InsertTag:
		return "InsertTag"
	case StartText:
		return "StartText"
	case AppendText:
		return "AppendText"
	default:
		return "Unknown"
	}
}

// Step is one mutation of the target bubble.
type Step struct {
	Kind StepKind
	Text string
}

// Steps returns the mutations that reveal markup.
func Steps(markup string) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for node := range transcript.Segments(markup) {
			if node.Kind == transcript.NodeTag {
				if !yield(Step{Kind: InsertTag, Text: node.Text}) {
					return
				}
				continue
			}
			kind := StartText
			for _, r := range node.Text {
				if !yield(Step{Kind: kind, Text: string(r)}) {
					return
				}
				kind = AppendText
			}
		}
	}
}

// Apply performs step on b.
func Apply(b *transcript.Bubble, step Step) {
	switch step.Kind {
	case InsertTag:
		b.InsertTag(step.Text)
	case StartText:
		b.StartText(step.Text)
	case AppendText:
		b.AppendText(step.Text)
	}
}

var lastID atomic.Uint64

// Presenter reveals one markup string into one bubble. It is not
// restartable; a new reveal needs a new Presenter.
type Presenter struct {
	id      uint64
	target  *transcript.Bubble
	next    func() (Step, bool)
	stop    func()
	pending Step
	hasNext bool

	applied   int
	cancelled bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewPresenter prepares a reveal of markup into target. Nothing is applied
// until the first Advance. Empty markup yields a presenter that is already done.
func NewPresenter(target *transcript.Bubble, markup string) *Presenter {
	next, stop := iter.Pull(Steps(markup))
	p := &Presenter{
		id:     lastID.Add(1),
		target: target,
		next:   next,
		stop:   stop,
		done:   make(chan struct{}),
	}
	p.pending, p.hasNext = p.next()
	if !p.hasNext {
		p.finish()
	}
	return p
}

// ID distinguishes this presenter from earlier ones, so timer messages
// addressed to a replaced presenter can be ignored.
func (p *Presenter) ID() uint64 {
	return p.id
}

// Target returns the bubble being revealed into.
func (p *Presenter) Target() *transcript.Bubble {
	return p.target
}

// Advance applies the next step. It returns false, without changing the
// bubble, once the reveal is finished or cancelled.
func (p *Presenter) Advance() bool {
	if !p.hasNext {
		return false
	}
	Apply(p.target, p.pending)
	p.applied++

	p.pending, p.hasNext = p.next()
	if !p.hasNext {
		p.finish()
	}
	return true
}

// Finish applies every remaining step at once.
func (p *Presenter) Finish() {
	for p.Advance() {
	}
}

// Cancel stops the reveal where it is. Further advances are inert.
func (p *Presenter) Cancel() {
	if !p.hasNext {
		return
	}
	p.hasNext = false
	p.cancelled = true
	p.finish()
}

// Done is closed exactly once, when the last step has been applied or the
// presenter was cancelled.
func (p *Presenter) Done() <-chan struct{} {
	return p.done
}

// Finished reports whether Done has been closed.
func (p *Presenter) Finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Cancelled reports whether the reveal was stopped before completing.
func (p *Presenter) Cancelled() bool {
	return p.cancelled
}

// Applied returns the number of steps applied so far.
func (p *Presenter) Applied() int {
	return p.applied
}

func (p *Presenter) finish() {
	p.closeOnce.Do(func() {
		p.stop()
		close(p.done)
	})
}
