package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytlikes/internal/tasks"
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
	MsgPlanFetched MsgKind = iota
	MsgProgressUpdate
	MsgSyncComplete
)

type planFetched struct {
	plan *tasks.PlanResult
	err  error
}

type syncComplete struct {
	result *tasks.RunResult
	err    error
}

// planFetchedMsg is the constructor for [MsgPlanFetched]
func planFetchedMsg(plan *tasks.PlanResult, err error) Msg {
	return Msg{kind: MsgPlanFetched, data: planFetched{plan, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// syncCompleteMsg is the constructor for [MsgSyncComplete]
func syncCompleteMsg(result *tasks.RunResult, err error) Msg {
	return Msg{kind: MsgSyncComplete, data: syncComplete{result, err}}
}
