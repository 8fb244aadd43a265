package app

import (
	"strconv"

	"opinio/internal/api"
	"opinio/internal/event"
	"opinio/internal/router"
	"opinio/internal/state"
	"opinio/pkg/types"
)

func (h *handlers) registerEntries(b *event.Bus) {
	event.Handle(b, h.getEntry)
	event.Handle(b, h.receiveEntry)
	event.Handle(b, h.routeToEntry)
	event.Handle(b, h.routeToNewEntry)
	event.Handle(b, h.routeToEditEntry)
	event.Handle(b, h.routeToSearchEntry)
	event.Handle(b, h.setNewEntry)
	event.Handle(b, h.setNewEntryTemplate)
	event.Handle(b, h.setTempEntry)
	event.Handle(b, h.setTempEntryTemplate)
	event.Handle(b, h.getWikiNew)
	event.Handle(b, h.receiveWikiNew)
	event.Handle(b, h.getWikiTemp)
	event.Handle(b, h.receiveWikiTemp)
	event.Handle(b, h.createEntry)
	event.Handle(b, h.createEntrySuccess)
	event.Handle(b, h.updateEntry)
	event.Handle(b, h.updateEntrySuccess)
	event.Handle(b, h.searchEntry)
	event.Handle(b, h.searchEntrySuccess)
	event.Handle(b, h.routeToSearchEntryPage)
	event.Handle(b, h.getEntryWithActivity)
}

func (h *handlers) getEntry(_ state.Reader, ev GetEntry) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	return event.Now(info("getting entry data...")).
		Later(backend(fxGetEntry, ev.ID, func(env api.Envelope) event.Event {
			return ReceiveEntry{ID: ev.ID, Data: env.Data}
		}))
}

func (h *handlers) receiveEntry(_ state.Reader, ev ReceiveEntry) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	return event.Now(
		event.Set(p(keyEntries, ev.ID), orEmpty(ev.Data)),
		success("entry data successfully loaded"),
	)
}

func (h *handlers) routeToEntry(_ state.Reader, ev RouteToEntry) event.Result {
	return event.Now(event.Emit(RouteTo{Route: router.EntryDetail, Params: map[string]string{"id": ev.ID}}))
}

func (h *handlers) routeToNewEntry(_ state.Reader, ev RouteToNewEntry) event.Result {
	return event.Now(event.Emit(RouteTo{Route: router.NewEntry, Params: map[string]string{"id": ev.ID}}))
}

func (h *handlers) routeToEditEntry(_ state.Reader, ev RouteToEditEntry) event.Result {
	return event.Now(event.Emit(RouteTo{Route: router.EditEntry, Params: map[string]string{"id": ev.ID}}))
}

func (h *handlers) routeToSearchEntry(_ state.Reader, ev RouteToSearchEntry) event.Result {
	return event.Now(event.Emit(RouteTo{Route: router.Search, Params: map[string]string{
		"id":   ev.ID,
		"page": strconv.Itoa(ev.Page),
	}}))
}

func (h *handlers) setNewEntry(_ state.Reader, ev SetNewEntry) event.Result {
	path, err := keyed(ev.Kind(), ev.Key, keyNewEntry)
	if err != nil {
		return event.Fail(err)
	}
	return event.Now(event.Set(path, toTree(ev.Value)))
}

// setNewEntryTemplate replaces the creation form; no data resets it to the
// blank template.
func (h *handlers) setNewEntryTemplate(_ state.Reader, ev SetNewEntryTemplate) event.Result {
	data := ev.Data
	if data == nil {
		data = types.NewEntryTemplate()
	}
	return event.Now(event.Set(p(keyNewEntry), toTree(data)))
}

func (h *handlers) setTempEntry(_ state.Reader, ev SetTempEntry) event.Result {
	path, err := keyed(ev.Kind(), ev.Key, keyTempEntry)
	if err != nil {
		return event.Fail(err)
	}
	return event.Now(event.Set(path, toTree(ev.Value)))
}

func (h *handlers) setTempEntryTemplate(_ state.Reader, ev SetTempEntryTemplate) event.Result {
	return event.Now(event.Set(p(keyTempEntry), orEmpty(ev.Data)))
}

func (h *handlers) getWikiNew(_ state.Reader, ev GetWikiNew) event.Result {
	return event.Now(info("getting wikipedia data...")).
		Later(backend(fxGetWiki, types.WikiQuery(ev), func(env api.Envelope) event.Event {
			return ReceiveWikiNew{Data: env.Data}
		}))
}

func (h *handlers) receiveWikiNew(_ state.Reader, ev ReceiveWikiNew) event.Result {
	return event.Now(
		event.Set(p(keyNewEntry, "wikipedia"), orEmpty(ev.Data)),
		success("wikipedia data successfully loaded"),
	)
}

func (h *handlers) getWikiTemp(_ state.Reader, ev GetWikiTemp) event.Result {
	return event.Now(info("getting wikipedia data...")).
		Later(backend(fxGetWiki, types.WikiQuery(ev), func(env api.Envelope) event.Event {
			return ReceiveWikiTemp{Data: env.Data}
		}))
}

func (h *handlers) receiveWikiTemp(_ state.Reader, ev ReceiveWikiTemp) event.Result {
	return event.Now(
		event.Set(p(keyTempEntry, "wikipedia"), orEmpty(ev.Data)),
		success("wikipedia data successfully loaded"),
	)
}

func (h *handlers) createEntry(_ state.Reader, ev CreateEntry) event.Result {
	msg := types.EntryMessage(ev)
	return event.Now(info("submitting entry...")).
		Later(backend(fxCreateEntry, msg, func(env api.Envelope) event.Event {
			return CreateEntrySuccess{ID: firstNonEmpty(env.ID, msg.Data.ID, msg.ID)}
		}))
}

func (h *handlers) createEntrySuccess(_ state.Reader, ev CreateEntrySuccess) event.Result {
	return event.Now(
		event.Emit(RouteToEntry{ID: ev.ID}),
		success("entry submitted successfully"),
	)
}

func (h *handlers) updateEntry(_ state.Reader, ev UpdateEntry) event.Result {
	msg := types.EntryMessage(ev)
	if err := require(ev.Kind(), "id", msg.ID); err != nil {
		return event.Fail(err)
	}
	return event.Now(info("updating entry...")).
		Later(backend(fxUpdateEntry, msg, func(env api.Envelope) event.Event {
			return UpdateEntrySuccess{ID: firstNonEmpty(msg.ID, env.ID)}
		}))
}

// updateEntrySuccess drops the cached entry so the detail page reloads it.
func (h *handlers) updateEntrySuccess(_ state.Reader, ev UpdateEntrySuccess) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	return event.Now(
		event.Set(p(keyEntries, ev.ID), state.Tree{}),
		event.Emit(RouteToEntry{ID: ev.ID}),
		success("entry updated successfully"),
	)
}

func (h *handlers) searchEntry(_ state.Reader, ev SearchEntry) event.Result {
	return event.Now(info("searching entries...")).
		Later(backend(fxSearchEntry, types.SearchQuery(ev), func(env api.Envelope) event.Event {
			return SearchEntrySuccess{Data: env.Data}
		}))
}

func (h *handlers) searchEntrySuccess(_ state.Reader, ev SearchEntrySuccess) event.Result {
	return event.Now(
		event.Set(p(keySearch), orEmpty(ev.Data)),
		success("searched successfully"),
	)
}

func (h *handlers) routeToSearchEntryPage(_ state.Reader, ev RouteToSearchEntryPage) event.Result {
	return event.Now(
		event.Emit(SearchEntry(ev)),
		event.Emit(RouteToSearchEntry(ev)),
	)
}

func (h *handlers) getEntryWithActivity(_ state.Reader, ev GetEntryWithActivity) event.Result {
	return event.Now(
		event.Emit(GetNotification{ID: ev.ID}),
		event.Emit(GetVote{ID: ev.ID}),
		event.Emit(GetEntry{ID: ev.ID}),
	)
}
