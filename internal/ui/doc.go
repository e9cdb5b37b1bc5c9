// Package ui provides the terminal components of confide.
//
// # Overview
//
// The ui package implements the visual pieces of the chat client using the
// Bubble Tea framework and Lipgloss styling library. Components are plain
// structs with Update/View methods; the app package owns them and decides
// what they show.
//
// # Layout System
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line): app name, highlighted summary      │
//	├──────────────┬──────────────────────────────────────┤
//	│              │                                      │
//	│ Conversation │  Transcript viewport                 │
//	│ list         │                                      │
//	│ (1/4 width,  ├──────────────────────────────────────┤
//	│ collapsible) │  Input textarea                      │
//	├──────────────┴──────────────────────────────────────┤
//	│ Footer (1 line): key bindings or flash alert        │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: singleton holding the layout math, including the collapsed
// sidebar state.
//
// Header: app name plus the full summary of the highlighted conversation,
// on a gradient background.
//
// Footer: context-aware key bindings. A flash alert replaces the bindings
// until it is cleared.
//
// Sidebar: the conversation list. Titles come from session.Title, the
// active conversation is marked, and the highlight moves with j/k or arrows.
//
// Chat: a viewport rendering the transcript bubbles and a textarea for
// input. Bubble markup is rendered with RenderMarkup.
//
// Modal: a popup hosting a ModalState. ConfirmDeleteState asks before a
// conversation is deleted.
package ui
