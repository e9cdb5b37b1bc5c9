package app

import (
	"github.com/zhubert/confide/internal/errors"
)

// Task is the single slot for the long-running operation in flight. A send,
// create, switch or delete is refused unless the slot is Idle.
type Task int

const (
	TaskIdle     Task = iota // Ready for user input
	TaskSending              // Asking the backend, then revealing the reply
	TaskCreating             // Creating a conversation
	TaskLoading              // Listing conversations or loading a history
	TaskDeleting             // Deleting a conversation, then re-listing
)

// String returns a human-readable name for the task
func (t Task) String() string {
	switch t {
	case TaskIdle:
		return "Idle"
	case TaskSending:
		return "Sending"
	case TaskCreating:
		return "Creating"
	case TaskLoading:
		return "Loading"
	case TaskDeleting:
		return "Deleting"
	default:
		return "Unknown"
	}
}

// IsIdle returns true if the app is ready for a new operation
func (m *Model) IsIdle() bool {
	return m.task == TaskIdle
}

// begin claims the slot for t and disables input.
func (m *Model) begin(t Task) error {
	if m.task != TaskIdle {
		return errors.Busy(t.String(), m.task.String())
	}
	m.setTask(t)
	m.chat.SetDisabled(true)
	return nil
}

// handover moves a slot the caller already holds to t, keeping input disabled.
func (m *Model) handover(t Task) {
	m.setTask(t)
	m.chat.SetDisabled(true)
}

// finish releases the slot and re-enables input. Every completion handler
// calls it, whatever the outcome.
func (m *Model) finish() {
	m.setTask(TaskIdle)
	m.chat.SetDisabled(false)
}

// setTask transitions to a new task with logging
func (m *Model) setTask(t Task) {
	if m.task != t {
		m.log.Debug("task transition", "from", m.task, "to", t)
		m.task = t
	}
}
