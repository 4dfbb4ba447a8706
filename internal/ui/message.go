package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vowfolio/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRefreshed MsgKind = iota
	MsgNotice
	MsgNoticesClosed
)

// refreshedMsg is the constructor for [MsgRefreshed]
func refreshedMsg(err error) Msg {
	return Msg{kind: MsgRefreshed, data: err}
}

// noticeMsg is the constructor for [MsgNotice]
func noticeMsg(n tasks.Notice) Msg {
	return Msg{kind: MsgNotice, data: n}
}

// noticesClosedMsg is the constructor for [MsgNoticesClosed]
func noticesClosedMsg() Msg {
	return Msg{kind: MsgNoticesClosed}
}
