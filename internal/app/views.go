package app

import (
	"encoding/json"

	"opinio/internal/api"
	"opinio/internal/router"
	"opinio/internal/state"
	"opinio/internal/view"
	"opinio/pkg/types"
)

// View names besides the per-key aliases.
const (
	ViewJSON      = "json"
	ViewSignInURL = "signInURL"
	ViewRoute     = "route"
)

var aliasKeys = []string{
	keyStatus, keyUser, keyNewNotifications, keyDebug,
	keyIsNavOpen, keyAccountOpen, keyNotificationOpen, keyDeleteOpinionOpen,
	keyReportOpen, keyReport, keyInput, keyEntries, keyVotes, keyVoteLock,
	keyNotifications, keyOpinions, keyTempOpinion, keyNewEntry, keyTempEntry, keySearch,
}

// registerViews installs the application's named views on reg.
func registerViews(reg *view.Registry, signIn func() string) {
	view.MustRegister(reg, ViewJSON, view.Func(func(r state.Reader) string {
		b, err := json.MarshalIndent(r.Get(nil), "", "  ")
		if err != nil {
			return "{}"
		}
		return string(b)
	}))
	view.MustRegister(reg, ViewSignInURL, view.Func(func(state.Reader) string { return signIn() }))
	view.MustRegister(reg, ViewRoute, view.Derive(p(keyRoute), func(v any) router.Match {
		m, _ := fromTree[router.Match](v)
		return m
	}))
	for _, k := range aliasKeys {
		view.MustRegister(reg, k, view.Derive(p(k), func(v any) any { return v }))
	}
}

// Typed accessors for in-process readers.
var (
	StatusView   = view.Func(statusOf)
	VoteLockView = view.Path[bool](p(keyVoteLock))
	UserView     = view.Derive(p(keyUser), func(v any) types.User {
		u, _ := fromTree[types.User](v)
		return u
	})
)

// VotesView returns the votes loaded for entry id.
func VotesView(id string) view.Accessor[[]types.Vote] {
	return view.Derive(p(keyVotes, id), func(v any) []types.Vote {
		out, _ := fromTree[[]types.Vote](seqOf(v))
		return out
	})
}

// OpinionsView returns the opinions of entry id.
func OpinionsView(id string) view.Accessor[[]types.Opinion] {
	return view.Derive(opinionsOf(id), func(v any) []types.Opinion {
		out, _ := fromTree[[]types.Opinion](seqOf(v))
		return out
	})
}

func signInFunc(clientID, redirect string) func() string {
	return func() string { return api.SignInURL(clientID, redirect, "") }
}
