package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/confide/internal/api"
	"github.com/zhubert/confide/internal/errors"
	"github.com/zhubert/confide/internal/keys"
	"github.com/zhubert/confide/internal/transcript"
	"github.com/zhubert/confide/internal/ui"
)

type stepRecorder struct {
	steps []int
}

func (r *stepRecorder) RecordTypingSteps(_ context.Context, steps int) {
	r.steps = append(r.steps, steps)
}

func TestSend_RevealsReply(t *testing.T) {
	backend := newFakeBackend(conv("A", "Work stress"))
	h := started(t, backend)
	rec := &stepRecorder{}
	h.m.recorder = rec

	h.m.chat.SetInput("hello")
	_, cmd := h.m.Update(keyPress(keys.Enter))

	// While the request is in flight
	if h.m.Task() != TaskSending {
		t.Fatalf("Task() = %v, want Sending", h.m.Task())
	}
	if !h.m.chat.IsDisabled() {
		t.Error("input should be disabled while sending")
	}
	if h.m.chat.GetInput() != "" {
		t.Error("input should be cleared on submit")
	}
	if last := h.lastBubble(); last == nil || last.Role != transcript.RoleLoading {
		t.Fatal("a loading placeholder should be shown")
	}

	h.drain(cmd)

	got := h.markups()
	want := []string{"user:hello", "assistant:<strong>hi</strong> there"}
	if len(got) < 2 || got[len(got)-2] != want[0] || got[len(got)-1] != want[1] {
		t.Fatalf("transcript = %q, want it to end with %q", got, want)
	}
	if h.m.transcript.Last(transcript.RoleLoading) != nil {
		t.Error("placeholder should be removed")
	}
	if !h.m.IsIdle() || h.m.chat.IsDisabled() {
		t.Error("input should be re-enabled after the reveal")
	}
	if len(rec.steps) != 1 || rec.steps[0] != 10 {
		t.Errorf("recorded steps = %v, want [10]", rec.steps)
	}

	typingTicks := 0
	for _, d := range h.delays {
		if d == h.cfg.TypingInterval() {
			typingTicks++
		}
	}
	if typingTicks != 10 {
		t.Errorf("scheduled %d typing ticks, want 10", typingTicks)
	}

	// The refresh after the reveal picks up the server's counts.
	active, _ := h.m.Store().Active()
	if active.MessageCount != 2 || active.LastMessagePreview != "**hi** there" {
		t.Errorf("active conversation not refreshed: %+v", active)
	}
	if backend.asked[0] != "hello" {
		t.Errorf("asked %q", backend.asked)
	}
}

func TestSend_TrimsQuestion(t *testing.T) {
	backend := newFakeBackend(conv("A", ""))
	h := started(t, backend)

	h.submit("  hello\n")

	if len(backend.asked) != 1 || backend.asked[0] != "hello" {
		t.Errorf("asked = %q, want [hello]", backend.asked)
	}
}

func TestSend_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "   \n ",
			want:  EmptyInputText,
		},
		{
			name:  "busy",
			setup: func(h *harness) { h.m.task = TaskCreating },
			input: "hello",
			want:  BusyText,
		},
		{
			name:  "no active conversation",
			setup: func(h *harness) { h.m.store.Apply(nil, "") },
			input: "hello",
			want:  NoSessionText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(conv("A", "Work stress"))
			h := started(t, backend)
			if tt.setup != nil {
				tt.setup(h)
			}
			before := h.m.transcript.Len()

			h.submit(tt.input)

			if h.flashText() != tt.want {
				t.Errorf("flash = %q, want %q", h.flashText(), tt.want)
			}
			if len(backend.asked) != 0 {
				t.Error("backend should not be asked")
			}
			if h.m.chat.GetInput() != "" {
				t.Error("input should be cleared even when rejected")
			}
			if h.m.transcript.Len() != before {
				t.Error("transcript should not change")
			}
		})
	}
}

func TestSend_FailureShowsApology(t *testing.T) {
	backend := newFakeBackend(conv("A", "Work stress"))
	backend.askErr = errors.UnexpectedStatus("api.Ask", 500)
	h := started(t, backend)

	h.submit("hello")

	last := h.lastBubble()
	if last == nil || last.Role != transcript.RoleError || last.PlainText() != transcript.ApologyText {
		t.Fatalf("last bubble = %+v, want the apology", last)
	}
	if h.m.transcript.Last(transcript.RoleUser) != nil {
		t.Error("a failed question should not be shown as sent")
	}
	if h.m.transcript.Last(transcript.RoleLoading) != nil {
		t.Error("placeholder should be removed")
	}
	if !h.m.IsIdle() || h.m.chat.IsDisabled() {
		t.Error("input should be re-enabled after a failure")
	}
}

func TestSend_UserTextIsEscaped(t *testing.T) {
	backend := newFakeBackend(conv("A", ""))
	h := started(t, backend)

	h.submit("<b>not bold</b>")

	user := h.m.transcript.Last(transcript.RoleUser)
	if user == nil || user.PlainText() != "<b>not bold</b>" {
		t.Fatalf("user bubble = %+v", user)
	}
	if !strings.Contains(user.Markup(), "&lt;b&gt;") {
		t.Errorf("markup should escape angle brackets: %q", user.Markup())
	}
}

func TestTypingTick_StaleIDIgnored(t *testing.T) {
	backend := newFakeBackend(conv("A", ""))
	h := newHarness(t, backend)
	h.drain(h.m.Init())

	// Deliver the answer but hold the ticks.
	h.m.chat.SetInput("hello")
	_, cmd := h.m.Update(keyPress(keys.Enter))
	msg := cmd().(AnswerMsg)
	h.m.Update(msg)

	target := h.lastBubble()
	id := h.m.presenter.ID()

	_, next := h.m.Update(TypingTickMsg{ID: id + 1000})
	if next != nil || !target.Empty() {
		t.Fatal("a tick for another presenter should be inert")
	}

	h.send(TypingTickMsg{ID: id})
	if target.Markup() != "<strong>hi</strong> there" {
		t.Errorf("Markup() = %q", target.Markup())
	}
	if !h.m.IsIdle() {
		t.Error("should be idle after the reveal")
	}
}

func TestSend_NotifiesWhenBlurred(t *testing.T) {
	backend := newFakeBackend(conv("A", "Work stress"))
	h := started(t, backend)
	h.cfg.SetNotificationsEnabled(true)

	h.send(tea.BlurMsg{})
	h.submit("hello")

	if len(h.notified) != 1 || h.notified[0] != "Work stress" {
		t.Errorf("notified = %q, want [Work stress]", h.notified)
	}

	h.send(tea.FocusMsg{})
	h.submit("again")
	if len(h.notified) != 1 {
		t.Error("should not notify while focused")
	}
}

func TestSend_NoNotificationWhenDisabled(t *testing.T) {
	h := started(t, newFakeBackend(conv("A", "")))

	h.send(tea.BlurMsg{})
	h.submit("hello")

	if len(h.notified) != 0 {
		t.Errorf("notified = %q, want none", h.notified)
	}
}

func TestRefreshFailure_KeepsState(t *testing.T) {
	backend := newFakeBackend(conv("A", "Work stress"), conv("B", ""))
	h := started(t, backend)
	before := h.m.Store().Conversations()

	backend.listErr = errors.RequestFailed("api.ListConversations", context.DeadlineExceeded)
	h.submit("hello")

	last := h.lastBubble()
	if last == nil || last.Role != transcript.RoleNotice || last.PlainText() != RefreshFailText {
		t.Fatalf("last bubble = %+v, want refresh notice", last)
	}
	if h.m.Store().ActiveID() != "A" || len(h.m.Store().Conversations()) != len(before) {
		t.Error("store should keep its previous list and active id")
	}
	if !h.m.IsIdle() {
		t.Error("should be idle")
	}
}

func TestFlash_ExpiresOnlyItsOwnAlert(t *testing.T) {
	h := started(t, newFakeBackend(conv("A", "")))

	h.submit("")
	if len(h.expired) != 1 {
		t.Fatalf("expected one pending dismissal, got %d", len(h.expired))
	}
	first := h.expired[0]

	h.m.task = TaskSending
	h.submit("x")
	second := h.expired[1]
	if h.flashText() != BusyText {
		t.Fatalf("flash = %q", h.flashText())
	}

	h.send(first)
	if h.flashText() != BusyText {
		t.Error("an old dismissal should not clear a newer alert")
	}
	h.send(second)
	if h.flashText() != "" {
		t.Error("the alert should be dismissed by its own timer")
	}
	for _, d := range h.delays {
		if d == FlashDuration {
			return
		}
	}
	t.Error("flash dismissals should use FlashDuration")
}

func TestCopyLastReply(t *testing.T) {
	h := started(t, newFakeBackend(conv("A", "")))
	h.submit("hello")

	h.press(keys.CtrlY)

	if len(h.copied) != 1 || h.copied[0] != "hi there" {
		t.Errorf("copied = %q, want [hi there]", h.copied)
	}
	if h.flashText() != "Reply copied" {
		t.Errorf("flash = %q", h.flashText())
	}
}

func TestCopyLastReply_NothingToCopy(t *testing.T) {
	backend := newFakeBackend()
	backend.listErr = errors.RequestFailed("api.ListConversations", context.Canceled)
	h := started(t, backend)

	h.press(keys.CtrlY)

	if len(h.copied) != 0 {
		t.Error("nothing should be copied")
	}
	if f := h.m.footer.Flash(); f == nil || f.Type != ui.FlashInfo {
		t.Errorf("expected an info flash, got %+v", f)
	}
}

func TestCtrlC_Quits(t *testing.T) {
	h := started(t, newFakeBackend(conv("A", "")))

	_, cmd := h.m.Update(keyPress(keys.CtrlC))
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestHistoryRecordsExchange(t *testing.T) {
	backend := newFakeBackend(conv("A", "Work stress")).
		withHistory("A", userMsg("hi"), assistantMsg("**hello**"))
	h := started(t, backend)

	active, _ := h.m.Store().Active()
	if active.MessageCount != 2 || active.LastMessagePreview != "**hello**" {
		t.Errorf("active = %+v", active)
	}
	if got := h.markups(); len(got) != 2 || got[1] != "assistant:<strong>hello</strong>" {
		t.Errorf("transcript = %q", got)
	}
}

func TestSend_RecordsExchangeWhenRefreshFails(t *testing.T) {
	backend := newFakeBackend(conv("A", "Work stress")).
		withHistory("A", userMsg("hi"), assistantMsg("hello"))
	h := started(t, backend)

	backend.listErr = errors.RequestFailed("api.ListConversations", context.DeadlineExceeded)
	h.submit("how are you")

	active, _ := h.m.Store().Active()
	if active.MessageCount != 4 || active.LastMessagePreview != "**hi** there" {
		t.Errorf("active = %+v, want count 4 and the new reply as preview", active)
	}
	if last := h.lastBubble(); last == nil || last.PlainText() != RefreshFailText {
		t.Errorf("last bubble = %+v, want the refresh notice", last)
	}
}

func TestRefresh_LateResultKeepsCurrentConversation(t *testing.T) {
	backend := newFakeBackend(conv("A", ""), conv("B", "")).
		withHistory("A", userMsg("from A")).
		withHistory("B", userMsg("from B"))
	h := started(t, backend)

	h.submit("hello")
	// A listing requested in A that only lands after the user moved on.
	late := h.m.refreshConversations()()

	h.press(keys.Tab)
	h.press(keys.Down)
	h.press(keys.Enter)
	if h.m.Store().ActiveID() != "B" {
		t.Fatalf("ActiveID() = %q, want B after the switch", h.m.Store().ActiveID())
	}

	h.send(late)

	if h.m.Store().ActiveID() != "B" || h.m.sidebar.ActiveID() != "B" {
		t.Errorf("active = %q, sidebar = %q, want B for both",
			h.m.Store().ActiveID(), h.m.sidebar.ActiveID())
	}
	if got := strings.Join(h.markups(), "|"); got != "user:from B" {
		t.Errorf("transcript = %q, want B's history", got)
	}
}

var _ Backend = (*api.Client)(nil)
