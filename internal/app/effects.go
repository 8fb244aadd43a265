package app

import (
	"context"

	"opinio/internal/api"
	"opinio/internal/effect"
	"opinio/internal/event"
)

// Backend effect ids.
const (
	fxGetUser             effect.ID = "GET_USER"
	fxGetToken            effect.ID = "GET_TOKEN"
	fxSignOut             effect.ID = "SIGN_OUT"
	fxGetEntry            effect.ID = "GET_ENTRY"
	fxCreateEntry         effect.ID = "CREATE_ENTRY"
	fxUpdateEntry         effect.ID = "UPDATE_ENTRY"
	fxCreateOpinion       effect.ID = "CREATE_OPINION"
	fxUpdateOpinion       effect.ID = "UPDATE_OPINION"
	fxDeleteOpinion       effect.ID = "DELETE_OPINION"
	fxGetWiki             effect.ID = "GET_WIKI"
	fxSearchEntry         effect.ID = "SEARCH_ENTRY"
	fxCreateReport        effect.ID = "CREATE_REPORT"
	fxGetVote             effect.ID = "GET_VOTE"
	fxCreateVote          effect.ID = "CREATE_VOTE"
	fxDeleteVote          effect.ID = "DELETE_VOTE"
	fxGetNotification     effect.ID = "GET_NOTIFICATION"
	fxCreateNotification  effect.ID = "CREATE_NOTIFICATION"
	fxUpdateNotification  effect.ID = "UPDATE_NOTIFICATION"
	fxDeleteNotification  effect.ID = "DELETE_NOTIFICATION"
	fxGetNewNotifications effect.ID = "GET_NEW_NOTIFICATIONS"
	fxGetAllNotifications effect.ID = "GET_ALL_NOTIFICATIONS"
)

type none = struct{}

// registerBackend binds every backend call of c to its effect id.
func registerBackend(reg *effect.Registry, c *api.Client) {
	effect.Register(reg, fxGetUser, func(ctx context.Context, _ none) (api.Envelope, error) { return c.User(ctx) })
	effect.Register(reg, fxGetToken, c.Token)
	effect.Register(reg, fxSignOut, func(ctx context.Context, _ none) (api.Envelope, error) { return c.SignOut(ctx) })
	effect.Register(reg, fxGetEntry, c.Entry)
	effect.Register(reg, fxCreateEntry, c.CreateEntry)
	effect.Register(reg, fxUpdateEntry, c.UpdateEntry)
	effect.Register(reg, fxCreateOpinion, c.CreateOpinion)
	effect.Register(reg, fxUpdateOpinion, c.UpdateOpinion)
	effect.Register(reg, fxDeleteOpinion, c.DeleteOpinion)
	effect.Register(reg, fxGetWiki, c.Wiki)
	effect.Register(reg, fxSearchEntry, c.SearchEntry)
	effect.Register(reg, fxCreateReport, c.CreateReport)
	effect.Register(reg, fxGetVote, c.Votes)
	effect.Register(reg, fxCreateVote, c.CreateVote)
	effect.Register(reg, fxDeleteVote, c.DeleteVote)
	effect.Register(reg, fxGetNotification, c.Notification)
	effect.Register(reg, fxCreateNotification, c.CreateNotification)
	effect.Register(reg, fxUpdateNotification, c.UpdateNotification)
	effect.Register(reg, fxDeleteNotification, c.DeleteNotification)
	effect.Register(reg, fxGetNewNotifications, func(ctx context.Context, _ none) (api.Envelope, error) { return c.NewNotifications(ctx) })
	effect.Register(reg, fxGetAllNotifications, c.AllNotifications)
}

// backend requests a backend effect. Failures are routed to ERROR.
func backend(id effect.ID, in any, ok func(env api.Envelope) event.Event) *event.Request {
	return event.Call(id, in, ok, nil)
}
