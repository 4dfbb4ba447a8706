// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses the gallery as nested lists:
//  1. [HeroView] : hero images of one site page (←/→ switch pages)
//  2. [CategoryView] : all categories
//  3. [AlbumView] : albums of the selected category
//  4. [ImageView] : images of the selected album
//
// Items are reordered by dragging them with the mouse or with shift+↑/↓. Each list row is one
// terminal line, so the row boxes handed to the gesture tracker are computed from the layout
// rather than measured. Every change goes through the sync adapter; its notices arrive on a
// channel and are shown in the status line, and a refetch after a failed replication
// re-renders the affected list.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving
// messages via the Msg union type.
package ui
