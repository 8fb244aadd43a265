package app

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"opinio/internal/api"
	"opinio/internal/effect"
	"opinio/internal/event"
	"opinio/internal/router"
	"opinio/internal/state"
	"opinio/pkg/types"
)

// handlers holds what event handlers need besides the state they are given.
type handlers struct {
	router      *router.Router
	statusDelay time.Duration
}

func p(keys ...string) state.Path { return state.P(keys...) }

func info(msg string) event.Step {
	return event.Emit(SetStatus{Type: types.StatusInfo, Message: msg})
}

func success(msg string) event.Step {
	return event.Emit(SetStatus{Type: types.StatusSuccess, Message: msg, AutoClear: true})
}

func toggle(key string) event.Step {
	return event.Update(p(key), func(cur any) any {
		b, _ := cur.(bool)
		return !b
	})
}

func unset(key string) event.Step { return event.Set(p(key), false) }

// require fails with a descriptive error when v is empty.
func require(kind event.Kind, name, v string) error {
	if v == "" {
		return fmt.Errorf("%s: missing %s", kind, name)
	}
	return nil
}

// keyed builds base.key, rejecting an empty key.
func keyed(kind event.Kind, key string, base ...string) (state.Path, error) {
	if key == "" {
		return nil, fmt.Errorf("%s: missing key", kind)
	}
	return p(base...).Append(state.ParsePath(key)...), nil
}

func orEmpty(v any) any {
	if v == nil {
		return state.Tree{}
	}
	return toTree(v)
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

func (h *handlers) register(b *event.Bus) {
	flag := func(ev event.Event, step event.Step) {
		b.Register(ev.Kind(), func(state.Reader, event.Event) event.Result { return event.Now(step) })
	}
	flag(ToggleNav{}, toggle(keyIsNavOpen))
	flag(ToggleAccount{}, toggle(keyAccountOpen))
	flag(CloseAccount{}, unset(keyAccountOpen))
	flag(ToggleNotification{}, toggle(keyNotificationOpen))
	flag(CloseNotification{}, unset(keyNotificationOpen))
	flag(ToggleDeleteOpinion{}, toggle(keyDeleteOpinionOpen))
	flag(CloseDeleteOpinion{}, unset(keyDeleteOpinionOpen))
	flag(ToggleReport{}, toggle(keyReportOpen))
	flag(CloseReport{}, unset(keyReportOpen))
	flag(ToggleVoteLock{}, toggle(keyVoteLock))
	flag(ToggleDebug{}, toggle(keyDebug))

	event.Handle(b, h.setValue)
	event.Handle(b, h.updateValue)
	event.Handle(b, h.setStatus)
	event.Handle(b, h.done)
	event.Handle(b, h.onError)
	event.Handle(b, h.routeTo)
	event.Handle(b, h.navigate)
	event.Handle(b, h.setInput)

	event.Handle(b, h.setReport)
	event.Handle(b, h.setOpinionReport)
	event.Handle(b, h.createReport)
	event.Handle(b, h.createReportSuccess)

	event.Handle(b, h.getUser)
	event.Handle(b, h.receiveUser)
	event.Handle(b, h.getToken)
	event.Handle(b, h.receiveToken)
	event.Handle(b, h.signOut)
	event.Handle(b, h.signOutSuccess)

	h.registerEntries(b)
	h.registerOpinions(b)
	h.registerVotes(b)
	h.registerNotifications(b)
}

func (h *handlers) setValue(_ state.Reader, ev SetValue) event.Result {
	path := state.ParsePath(ev.Path)
	v := toTree(ev.Value)
	if path.IsRoot() {
		if _, ok := v.(map[string]any); !ok {
			return event.Fail(errors.New("SET_VALUE: root value must be an object"))
		}
	}
	return event.Now(event.Set(path, v))
}

func (h *handlers) updateValue(_ state.Reader, ev UpdateValue) event.Result {
	if ev.Fn == nil {
		return event.Fail(errors.New("UPDATE_VALUE: missing updater"))
	}
	return event.Now(event.Update(state.ParsePath(ev.Path), ev.Fn))
}

// setStatus stores the status line. An auto-clearing status other than DONE
// is reset to DONE after the configured delay unless it was replaced meanwhile.
func (h *handlers) setStatus(_ state.Reader, ev SetStatus) event.Result {
	st := types.Status(ev)
	if st.Type == "" {
		st.Type = types.StatusInfo
	}
	res := event.Now(event.Set(p(keyStatus), toTree(st)))
	if st.Type != types.StatusDone && st.AutoClear {
		res = res.Later(&event.Delay{
			Wait: h.statusDelay,
			When: func(r state.Reader) bool { return statusOf(r) == st },
			Then: Done{},
		})
	}
	return res
}

func (h *handlers) done(state.Reader, Done) event.Result {
	return event.Now(event.Emit(SetStatus{Type: types.StatusDone, Message: "done"}))
}

// onError shows the failure and sends the user to sign in when the backend
// rejected the session.
func (h *handlers) onError(_ state.Reader, ev Error) event.Result {
	steps := []event.Step{event.Emit(SetStatus{Type: types.StatusError, Message: ev.Message})}
	if effect.IsAuthMessage(ev.Message) {
		steps = append(steps, event.Emit(RouteTo{Route: router.SignIn}))
	}
	return event.Now(steps...)
}

func (h *handlers) routeTo(_ state.Reader, ev RouteTo) event.Result {
	rt, ok := h.router.Lookup(ev.Route)
	if !ok {
		return event.Fail(fmt.Errorf("ROUTE_TO: unknown route %q", ev.Route))
	}
	params := ev.Params
	if params == nil {
		params = map[string]string{}
	}
	return event.Now(event.Set(p(keyRoute), toTree(router.Match{ID: rt.ID, Params: params, Title: rt.Title})))
}

func (h *handlers) navigate(_ state.Reader, ev Navigate) event.Result {
	m := h.router.Match(ev.Fragment)
	steps := []event.Step{event.Emit(RouteTo{Route: m.ID, Params: m.Params})}
	if m.ID == router.GithubOAuthCB && m.Params["code"] != "" {
		steps = append(steps, event.Emit(GetToken{Code: m.Params["code"]}))
	}
	return event.Now(steps...)
}

func (h *handlers) setInput(_ state.Reader, ev SetInput) event.Result {
	return event.Now(event.Set(p(keyInput), cases.Lower(language.Und).String(ev.Input)))
}

func (h *handlers) setReport(_ state.Reader, ev SetReport) event.Result {
	path, err := keyed(ev.Kind(), ev.Key, keyReport)
	if err != nil {
		return event.Fail(err)
	}
	return event.Now(event.Set(path, toTree(ev.Value)))
}

func (h *handlers) setOpinionReport(_ state.Reader, ev SetOpinionReport) event.Result {
	return event.Now(
		event.Emit(ToggleReport{}),
		event.Emit(SetReport{Key: "type", Value: string(types.ReportOpinion)}),
		event.Emit(SetReport{Key: "context", Value: ev.Opinion}),
		event.Emit(SetReport{Key: "url", Value: ev.URL}),
	)
}

func (h *handlers) createReport(_ state.Reader, ev CreateReport) event.Result {
	return event.Now(info("reporting...")).
		Later(backend(fxCreateReport, ev.Data, func(api.Envelope) event.Event { return CreateReportSuccess{} }))
}

func (h *handlers) createReportSuccess(state.Reader, CreateReportSuccess) event.Result {
	return event.Now(success("reported successfully"), event.Emit(CloseReport{}))
}

func (h *handlers) getUser(state.Reader, GetUser) event.Result {
	return event.Now(info("getting user data...")).
		Later(backend(fxGetUser, nil, func(env api.Envelope) event.Event { return ReceiveUser{Data: env.Data} }))
}

func (h *handlers) receiveUser(_ state.Reader, ev ReceiveUser) event.Result {
	return event.Now(
		event.Set(p(keyUser), orEmpty(ev.Data)),
		success("user data successfully loaded"),
		event.Emit(GetNewNotifications{}),
	)
}

func (h *handlers) getToken(_ state.Reader, ev GetToken) event.Result {
	if err := require(ev.Kind(), "code", ev.Code); err != nil {
		return event.Fail(err)
	}
	return event.Now(info("getting token...")).
		Later(backend(fxGetToken, ev.Code, func(api.Envelope) event.Event { return ReceiveToken{} }))
}

func (h *handlers) receiveToken(state.Reader, ReceiveToken) event.Result {
	return event.Now(
		success("token successfully loaded"),
		event.Emit(RouteTo{Route: h.router.Default()}),
		event.Emit(GetUser{}),
	)
}

func (h *handlers) signOut(state.Reader, SignOut) event.Result {
	return event.Now(info("signing out...")).
		Later(backend(fxSignOut, nil, func(api.Envelope) event.Event { return SignOutSuccess{} }))
}

func (h *handlers) signOutSuccess(state.Reader, SignOutSuccess) event.Result {
	return event.Now(
		success("signed out successfully"),
		event.Emit(RouteTo{Route: h.router.Default()}),
		event.Set(p(keyUser), state.Tree{}),
	)
}
