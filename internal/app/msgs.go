package app

import "github.com/zhubert/confide/internal/api"

// StartupLoadedMsg carries the first conversation listing.
type StartupLoadedMsg struct {
	Conversations []api.Conversation
	Err           error
}

// ChatCreatedMsg ends a create: the new id and the refreshed listing.
type ChatCreatedMsg struct {
	SessionID     string
	Conversations []api.Conversation
	Err           error
}

// HistoryLoadedMsg carries the messages of conversation ID.
type HistoryLoadedMsg struct {
	ID      string
	History []api.Message
	Err     error
}

// ConversationDeletedMsg ends a delete. Err is the delete failure;
// RefreshErr is a failure of the listing that follows a successful delete.
type ConversationDeletedMsg struct {
	ID            string
	WasActive     bool
	Conversations []api.Conversation
	Err           error
	RefreshErr    error
}

// AnswerMsg carries the reply to Question in SessionID.
type AnswerMsg struct {
	SessionID string
	Question  string
	Answer    string
	Err       error
}

// ConversationsRefreshedMsg carries a listing requested after a send.
type ConversationsRefreshedMsg struct {
	Conversations []api.Conversation
	Err           error
}

// TypingTickMsg advances the reveal with the matching presenter ID.
type TypingTickMsg struct {
	ID uint64
}

// FlashExpiredMsg dismisses the flash numbered Seq, if still shown.
type FlashExpiredMsg struct {
	Seq int
}

// NotifiedMsg reports the outcome of a desktop notification.
type NotifiedMsg struct {
	Err error
}
