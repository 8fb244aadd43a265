package app

import (
	"encoding/json"

	"opinio/internal/state"
	"opinio/pkg/types"
)

// Top-level state keys.
const (
	keyStatus            = "status"
	keyUser              = "user"
	keyNewNotifications  = "newNotifications"
	keyRoute             = "route"
	keyDebug             = "debug"
	keyIsNavOpen         = "isNavOpen"
	keyAccountOpen       = "accountOpen"
	keyNotificationOpen  = "notificationOpen"
	keyDeleteOpinionOpen = "deleteOpinionOpen"
	keyReportOpen        = "reportOpen"
	keyReport            = "report"
	keyInput             = "input"
	keyEntries           = "entries"
	keyVotes             = "votes"
	keyVoteLock          = "voteLock"
	keyNotifications     = "notifications"
	keyOpinions          = "opinions"
	keyTempOpinion       = "tempOpinion"
	keyNewEntry          = "newEntry"
	keyTempEntry         = "tempEntry"
	keySearch            = "search"
)

// InitialState returns the state a fresh App starts from.
func InitialState() state.Tree {
	return state.Tree{
		keyStatus:            toTree(types.Status{Type: types.StatusInfo, Message: "running"}),
		keyUser:              state.Tree{},
		keyNewNotifications:  []any{},
		keyRoute:             state.Tree{},
		keyDebug:             false,
		keyIsNavOpen:         false,
		keyAccountOpen:       false,
		keyNotificationOpen:  false,
		keyDeleteOpinionOpen: false,
		keyReportOpen:        false,
		keyReport:            state.Tree{},
		keyInput:             "",
		keyEntries:           state.Tree{},
		keyVotes:             state.Tree{},
		keyVoteLock:          false,
		keyNotifications:     state.Tree{},
		keyOpinions:          state.Tree{},
		keyTempOpinion:       state.Tree{},
		keyNewEntry:          toTree(types.NewEntryTemplate()),
		keyTempEntry:         state.Tree{},
		keySearch:            state.Tree{},
	}
}

// toTree converts typed payloads into the plain maps and slices the state
// tree holds. Values that are already plain pass through unchanged.
func toTree(v any) any {
	switch v.(type) {
	case nil, string, bool, float64, map[string]any, []any:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// fromTree decodes a plain state value into a typed value.
func fromTree[T any](v any) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}

// statusOf reads the current status line.
func statusOf(r state.Reader) types.Status {
	st, _ := fromTree[types.Status](r.Get(state.P(keyStatus)))
	return st
}
