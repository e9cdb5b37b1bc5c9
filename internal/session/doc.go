// Package session tracks the conversations the backend knows about and which
// one the user is talking in.
//
// # Overview
//
// The backend owns conversations; the client only mirrors its listing. The
// Store is refreshed from GET /api/conversations after every send, create and
// delete, and between refreshes it is updated optimistically when a history
// load or a reply changes a conversation's count and preview.
//
// # Active Conversation
//
// After each refresh the active conversation is chosen by precedence:
//
//  1. The preferred id passed to Apply (e.g. a just-created session), if listed
//  2. The previously active id, if still listed
//  3. The first conversation in server order
//  4. None, when the list is empty
//
// A failed refresh never reaches the Store, so the previous list and active
// id stay in place.
//
// # Titles
//
// Title derives the sidebar label from the server summary: trimmed, with a
// positional "Conversation N" fallback for empty summaries, and shortened to
// MaxTitleLength grapheme clusters plus an ellipsis.
package session
