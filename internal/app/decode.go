package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"opinio/internal/event"
)

// PayloadError reports a payload that does not decode into its event type.
type PayloadError struct {
	Kind event.Kind
	Err  error
}

func (e *PayloadError) Error() string { return fmt.Sprintf("event %s: bad payload: %v", e.Kind, e.Err) }
func (e *PayloadError) Unwrap() error { return e.Err }

type decoder struct {
	kind   event.Kind
	decode func(raw json.RawMessage) (event.Event, error)
}

func as[E event.Event]() decoder {
	var zero E
	kind := zero.Kind()
	return decoder{kind: kind, decode: func(raw json.RawMessage) (event.Event, error) {
		var ev E
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return ev, nil
		}
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, &PayloadError{Kind: kind, Err: err}
		}
		return ev, nil
	}}
}

var decoders = func() map[event.Kind]decoder {
	all := []decoder{
		as[ToggleNav](), as[ToggleAccount](), as[CloseAccount](),
		as[ToggleNotification](), as[CloseNotification](),
		as[ToggleDeleteOpinion](), as[CloseDeleteOpinion](),
		as[ToggleReport](), as[CloseReport](),
		as[ToggleVoteLock](), as[ToggleDebug](),

		as[SetValue](), as[UpdateValue](), as[SetStatus](), as[Done](), as[Error](),
		as[RouteTo](), as[Navigate](), as[SetInput](),

		as[SetReport](), as[SetOpinionReport](), as[CreateReport](), as[CreateReportSuccess](),

		as[GetUser](), as[ReceiveUser](), as[GetToken](), as[ReceiveToken](),
		as[SignOut](), as[SignOutSuccess](),

		as[GetEntry](), as[ReceiveEntry](),
		as[RouteToEntry](), as[RouteToNewEntry](), as[RouteToEditEntry](), as[RouteToSearchEntry](),
		as[SetNewEntry](), as[SetNewEntryTemplate](), as[SetTempEntry](), as[SetTempEntryTemplate](),
		as[GetWikiNew](), as[ReceiveWikiNew](), as[GetWikiTemp](), as[ReceiveWikiTemp](),
		as[CreateEntry](), as[CreateEntrySuccess](), as[UpdateEntry](), as[UpdateEntrySuccess](),
		as[SearchEntry](), as[SearchEntrySuccess](), as[RouteToSearchEntryPage](),
		as[GetEntryWithActivity](),

		as[SetOpinionTemplate](), as[SetOpinion](),
		as[CreateOpinion](), as[CreateOpinionSuccess](),
		as[AppendOpinion](), as[RemoveOpinion](),
		as[DeleteOpinion](), as[DeleteOpinionSuccess](),
		as[SetTempOpinion](), as[EditOpinion](), as[CancelEditOpinion](),
		as[UpdateOpinion](), as[UpdateOpinionSuccess](),

		as[GetVote](), as[ReceiveVote](),
		as[CreateVote](), as[CreateVoteSuccess](),
		as[DeleteVote](), as[DeleteVoteSuccess](), as[VoteFailed](),
		as[AppendVote](), as[RemoveVote](),

		as[GetNotification](), as[ReceiveNotification](),
		as[CreateNotification](), as[CreateNotificationSuccess](),
		as[UpdateNotification](), as[UpdateNotificationSuccess](),
		as[DeleteNotification](), as[DeleteNotificationSuccess](),
		as[AppendNotification](), as[RemoveNotification](),
		as[GetNewNotifications](), as[ReceiveNewNotifications](),
		as[MarkNewNotifications](), as[ViewNewNotifications](),
	}
	m := make(map[event.Kind]decoder, len(all))
	for _, d := range all {
		if _, dup := m[d.kind]; dup {
			panic("app: duplicate event kind " + string(d.kind))
		}
		m[d.kind] = d
	}
	return m
}()

// DecodeEvent builds the event for kind from a JSON payload. An empty payload
// yields the zero event. Unknown kinds come back as event.Raw so the bus can
// record them.
func DecodeEvent(kind event.Kind, payload json.RawMessage) (event.Event, error) {
	d, ok := decoders[kind]
	if !ok {
		return event.Raw{Name: kind, Payload: payload}, nil
	}
	return d.decode(payload)
}

// AllKinds lists every event kind the application defines, sorted.
func AllKinds() []event.Kind {
	out := make([]event.Kind, 0, len(decoders))
	for k := range decoders {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
