package session

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/zhubert/confide/internal/api"
)

// MaxTitleLength is the number of characters a sidebar title keeps before
// it is shortened with TitleEllipsis.
const MaxTitleLength = 18

// TitleEllipsis marks a shortened title.
const TitleEllipsis = "..."

// Store is the local list of conversations plus the active id.
//
// The active id is either "" or the id of exactly one listed conversation;
// an empty list always has no active conversation. Store is owned by the
// UI goroutine and is not safe for concurrent use.
type Store struct {
	conversations []api.Conversation
	activeID      string
}

// NewStore returns an empty store with no active conversation.
func NewStore() *Store {
	return &Store{}
}

// Apply replaces the list with a fresh server listing and selects the
// active conversation: preferredID if listed, else the previously active id
// if still listed, else the first conversation, else none.
func (s *Store) Apply(list []api.Conversation, preferredID string) {
	s.conversations = append([]api.Conversation(nil), list...)

	switch {
	case preferredID != "" && s.Contains(preferredID):
		s.activeID = preferredID
	case s.activeID != "" && s.Contains(s.activeID):
		// keep
	case len(s.conversations) > 0:
		s.activeID = s.conversations[0].SessionID
	default:
		s.activeID = ""
	}
}

// SetActive switches to id. It returns false and leaves the store untouched
// when id is not listed.
func (s *Store) SetActive(id string) bool {
	if !s.Contains(id) {
		return false
	}
	s.activeID = id
	return true
}

// ActiveID returns the active conversation id, or "" when there is none.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Active returns the active conversation.
func (s *Store) Active() (api.Conversation, bool) {
	i := s.Index(s.activeID)
	if i < 0 {
		return api.Conversation{}, false
	}
	return s.conversations[i], true
}

// Conversations returns a copy of the list in server order.
func (s *Store) Conversations() []api.Conversation {
	return append([]api.Conversation(nil), s.conversations...)
}

// At returns the conversation at index i.
func (s *Store) At(i int) (api.Conversation, bool) {
	if i < 0 || i >= len(s.conversations) {
		return api.Conversation{}, false
	}
	return s.conversations[i], true
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	return len(s.conversations)
}

// Contains reports whether id is listed.
func (s *Store) Contains(id string) bool {
	return s.Index(id) >= 0
}

// Index returns the position of id, or -1.
func (s *Store) Index(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.conversations {
		if c.SessionID == id {
			return i
		}
	}
	return -1
}

// RecordExchange updates the count and preview of id after its history was
// loaded or a reply was received, ahead of the next server refresh.
func (s *Store) RecordExchange(id string, messageCount int, lastContent string) {
	i := s.Index(id)
	if i < 0 {
		return
	}
	s.conversations[i].MessageCount = messageCount
	s.conversations[i].LastMessagePreview = lastContent
}

// Title returns the sidebar label for conv at 0-based position index.
func Title(conv api.Conversation, index int) string {
	summary := strings.TrimSpace(conv.Summary)
	if summary == "" {
		return fmt.Sprintf("Conversation %d", index+1)
	}
	if uniseg.GraphemeClusterCount(summary) <= MaxTitleLength {
		return summary
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(summary)
	for n := 0; n < MaxTitleLength && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	b.WriteString(TitleEllipsis)
	return b.String()
}

// HasFullTitle reports whether conv has a summary worth showing in full
// when it is highlighted.
func HasFullTitle(conv api.Conversation) bool {
	return strings.TrimSpace(conv.Summary) != ""
}
