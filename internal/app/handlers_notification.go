package app

import (
	"opinio/internal/api"
	"opinio/internal/event"
	"opinio/internal/state"
	"opinio/pkg/types"
)

func (h *handlers) registerNotifications(b *event.Bus) {
	event.Handle(b, h.getNotification)
	event.Handle(b, h.receiveNotification)
	event.Handle(b, h.createNotification)
	event.Handle(b, h.createNotificationSuccess)
	event.Handle(b, h.updateNotification)
	event.Handle(b, h.updateNotificationSuccess)
	event.Handle(b, h.deleteNotification)
	event.Handle(b, h.deleteNotificationSuccess)
	event.Handle(b, h.appendNotification)
	event.Handle(b, h.removeNotification)
	event.Handle(b, h.getNewNotifications)
	event.Handle(b, h.receiveNewNotifications)
	event.Handle(b, h.markNewNotifications)
	event.Handle(b, h.viewNewNotifications)
}

func (h *handlers) getNotification(_ state.Reader, ev GetNotification) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	return event.Now().
		Later(backend(fxGetAllNotifications, ev.ID, func(env api.Envelope) event.Event {
			return ReceiveNotification{ID: ev.ID, Data: env.Data}
		}))
}

// receiveNotification keeps the list only when it holds notifications; the
// backend answers with an unrelated payload when the user watches nothing.
func (h *handlers) receiveNotification(_ state.Reader, ev ReceiveNotification) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	list := []any{}
	if seq, ok := toTree(ev.Data).([]any); ok && len(seq) > 0 && field(seq[0], "entry_id") != "" {
		list = seq
	}
	return event.Now(
		event.Set(p(keyNotifications, ev.ID), list),
		success("notification successfully loaded"),
	)
}

func (h *handlers) createNotification(_ state.Reader, ev CreateNotification) event.Result {
	msg := types.NotificationMessage(ev)
	if err := require(ev.Kind(), "id", msg.ID); err != nil {
		return event.Fail(err)
	}
	return event.Now(info("watching the entry...")).
		Later(backend(fxCreateNotification, msg, func(env api.Envelope) event.Event {
			list := decodeList[types.Notification](env)
			if len(list) == 0 {
				n := msg.Data
				n.ID = firstNonEmpty(n.ID, env.ID)
				list = []types.Notification{n}
			}
			return CreateNotificationSuccess{ID: msg.ID, Data: list}
		}))
}

func (h *handlers) createNotificationSuccess(_ state.Reader, ev CreateNotificationSuccess) event.Result {
	return event.Now(success("watched successfully"), event.Emit(AppendNotification(ev)))
}

func (h *handlers) updateNotification(_ state.Reader, ev UpdateNotification) event.Result {
	return event.Now(info("updating the notification...")).
		Later(backend(fxUpdateNotification, types.NotificationMessage(ev), func(api.Envelope) event.Event {
			return UpdateNotificationSuccess{}
		}))
}

func (h *handlers) updateNotificationSuccess(state.Reader, UpdateNotificationSuccess) event.Result {
	return event.Now(success("notification updated successfully"))
}

func (h *handlers) deleteNotification(_ state.Reader, ev DeleteNotification) event.Result {
	return event.Now(info("deleting notification..."), event.Emit(RemoveNotification(ev))).
		Later(backend(fxDeleteNotification, types.NotificationMessage(ev), func(api.Envelope) event.Event {
			return DeleteNotificationSuccess{}
		}))
}

func (h *handlers) deleteNotificationSuccess(state.Reader, DeleteNotificationSuccess) event.Result {
	return event.Now(success("notification deleted successfully"))
}

func (h *handlers) appendNotification(_ state.Reader, ev AppendNotification) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	items := treeSeq(ev.Data)
	return event.Now(event.Update(p(keyNotifications, ev.ID), func(cur any) any {
		return merge(seqOf(cur), items, notificationKey)
	}))
}

func (h *handlers) removeNotification(_ state.Reader, ev RemoveNotification) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	n := ev.Data
	n.EntryID = firstNonEmpty(n.EntryID, ev.ID)
	k := notificationKey(toTree(n))
	return event.Now(event.Update(p(keyNotifications, ev.ID), func(cur any) any {
		return remove(seqOf(cur), k, notificationKey)
	}))
}

func (h *handlers) getNewNotifications(state.Reader, GetNewNotifications) event.Result {
	return event.Now().
		Later(backend(fxGetNewNotifications, nil, func(env api.Envelope) event.Event {
			return ReceiveNewNotifications{Data: env.Data}
		}))
}

func (h *handlers) receiveNewNotifications(_ state.Reader, ev ReceiveNewNotifications) event.Result {
	data := toTree(ev.Data)
	if data == nil {
		data = []any{}
	}
	return event.Now(
		event.Set(p(keyNewNotifications), data),
		success("new notifications successfully loaded"),
	)
}

// markNewNotifications replaces the unseen notifications of entry ID with
// the given one.
func (h *handlers) markNewNotifications(_ state.Reader, ev MarkNewNotifications) event.Result {
	if err := require(ev.Kind(), "id", ev.ID); err != nil {
		return event.Fail(err)
	}
	var item any
	if ev.Data != (types.Notification{}) {
		item = toTree(ev.Data)
	}
	return event.Now(event.Update(p(keyNewNotifications), func(cur any) any {
		out := make([]any, 0)
		for _, n := range seqOf(cur) {
			if field(n, "entry_id") != ev.ID {
				out = append(out, n)
			}
		}
		if item != nil {
			out = append(out, item)
		}
		return out
	}))
}

// viewNewNotifications opens the entry a notification points at and marks
// it seen.
func (h *handlers) viewNewNotifications(_ state.Reader, ev ViewNewNotifications) event.Result {
	return event.Now(
		event.Emit(UpdateNotification(ev)),
		event.Emit(RouteToEntry{ID: ev.ID}),
		event.Emit(GetEntryWithActivity{ID: ev.ID}),
		event.Emit(MarkNewNotifications(ev)),
	)
}
