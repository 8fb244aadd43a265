package app

import (
	"opinio/internal/api"
	"opinio/internal/event"
	"opinio/internal/state"
	"opinio/pkg/types"
)

func (h *handlers) registerOpinions(b *event.Bus) {
	event.Handle(b, h.setOpinionTemplate)
	event.Handle(b, h.setOpinion)
	event.Handle(b, h.createOpinion)
	event.Handle(b, h.createOpinionSuccess)
	event.Handle(b, h.appendOpinion)
	event.Handle(b, h.removeOpinion)
	event.Handle(b, h.deleteOpinion)
	event.Handle(b, h.deleteOpinionSuccess)
	event.Handle(b, h.setTempOpinion)
	event.Handle(b, h.editOpinion)
	event.Handle(b, h.cancelEditOpinion)
	event.Handle(b, h.updateOpinion)
	event.Handle(b, h.updateOpinionSuccess)
}

func opinionsOf(id string) state.Path { return p(keyEntries, id, "opinions") }

func (h *handlers) setOpinionTemplate(_ state.Reader, ev SetOpinionTemplate) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	return event.Now(event.Set(p(keyOpinions, ev.ID), orEmpty(ev.Data)))
}

func (h *handlers) setOpinion(_ state.Reader, ev SetOpinion) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	path, err := keyed(ev.Kind(), ev.Key, keyOpinions, ev.ID)
	if err != nil {
		return event.Fail(err)
	}
	return event.Now(event.Set(path, toTree(ev.Value)))
}

// createOpinion shows the opinion right away and submits it.
func (h *handlers) createOpinion(_ state.Reader, ev CreateOpinion) event.Result {
	msg := types.OpinionMessage(ev)
	return event.Now(info("submitting opinion..."), event.Emit(AppendOpinion(ev))).
		Later(backend(fxCreateOpinion, msg, func(api.Envelope) event.Event {
			return CreateOpinionSuccess(msg)
		}))
}

// createOpinionSuccess subscribes the author to activity on the entry.
func (h *handlers) createOpinionSuccess(_ state.Reader, ev CreateOpinionSuccess) event.Result {
	return event.Now(
		success("opinion submitted successfully"),
		event.Emit(CreateNotification{
			ID:   ev.ID,
			Data: types.Notification{EntryID: ev.ID, GithubHandle: ev.Data.GithubHandle},
		}),
	)
}

func (h *handlers) appendOpinion(_ state.Reader, ev AppendOpinion) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	if err := require(ev.Kind(), "github_handle", ev.Data.GithubHandle); err != nil {
		return event.Fail(err)
	}
	op := toTree(ev.Data)
	return event.Now(event.Update(opinionsOf(ev.ID), func(cur any) any {
		return upsert(seqOf(cur), op, opinionKey)
	}))
}

func (h *handlers) removeOpinion(_ state.Reader, ev RemoveOpinion) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	handle := firstNonEmpty(ev.Data.GithubHandle, ev.UserName)
	if err := require(ev.Kind(), "github_handle", handle); err != nil {
		return event.Fail(err)
	}
	return event.Now(event.Update(opinionsOf(ev.ID), func(cur any) any {
		return remove(seqOf(cur), handle, opinionKey)
	}))
}

func (h *handlers) deleteOpinion(_ state.Reader, ev DeleteOpinion) event.Result {
	msg := types.OpinionMessage(ev)
	return event.Now(info("deleting opinion..."), event.Emit(RemoveOpinion(ev))).
		Later(backend(fxDeleteOpinion, msg, func(api.Envelope) event.Event { return DeleteOpinionSuccess{} }))
}

func (h *handlers) deleteOpinionSuccess(state.Reader, DeleteOpinionSuccess) event.Result {
	return event.Now(success("opinion deleted successfully"), event.Emit(CloseDeleteOpinion{}))
}

func (h *handlers) setTempOpinion(_ state.Reader, ev SetTempOpinion) event.Result {
	return event.Now(event.Set(p(keyTempOpinion), orEmpty(ev.Data)))
}

// editOpinion moves an opinion out of the list and into the edit form. The
// original is kept in tempOpinion so the edit can be cancelled.
func (h *handlers) editOpinion(_ state.Reader, ev EditOpinion) event.Result {
	return event.Now(
		event.Emit(SetTempOpinion{Data: ev.Data}),
		event.Emit(SetOpinionTemplate{ID: ev.ID, Data: ev.Data}),
		event.Emit(RemoveOpinion(ev)),
	)
}

func (h *handlers) cancelEditOpinion(_ state.Reader, ev CancelEditOpinion) event.Result {
	return event.Now(
		event.Emit(AppendOpinion(ev)),
		event.Emit(SetOpinionTemplate{ID: ev.ID, Data: state.Tree{}}),
		event.Emit(SetTempOpinion{Data: state.Tree{}}),
	)
}

func (h *handlers) updateOpinion(_ state.Reader, ev UpdateOpinion) event.Result {
	msg := types.OpinionMessage(ev)
	return event.Now(info("updating opinion..."), event.Emit(AppendOpinion(ev))).
		Later(backend(fxUpdateOpinion, msg, func(api.Envelope) event.Event { return UpdateOpinionSuccess{} }))
}

func (h *handlers) updateOpinionSuccess(state.Reader, UpdateOpinionSuccess) event.Result {
	return event.Now(success("opinion updated successfully"))
}
