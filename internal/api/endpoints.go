package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"opinio/pkg/types"
)

// User fetches the signed-in user.
func (c *Client) User(ctx context.Context) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/user", nil, nil)
}

// Token exchanges an OAuth code for a session cookie.
func (c *Client) Token(ctx context.Context, code string) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/token", url.Values{"code": {code}}, nil)
}

// SignOut removes the session cookie on the backend.
func (c *Client) SignOut(ctx context.Context) (Envelope, error) {
	return c.do(ctx, http.MethodDelete, "/token", nil, nil)
}

// Entry fetches one entry with its opinions.
func (c *Client) Entry(ctx context.Context, id string) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/entries/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateEntry(ctx context.Context, m types.EntryMessage) (Envelope, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/entries", nil, m.Data)
}

func (c *Client) UpdateEntry(ctx context.Context, m types.EntryMessage) (Envelope, error) {
	return c.do(ctx, http.MethodPut, "/api/v1/entries/"+url.PathEscape(m.ID), nil, m.Data)
}

func (c *Client) CreateOpinion(ctx context.Context, m types.OpinionMessage) (Envelope, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/entries/"+url.PathEscape(m.ID), nil, m.Data)
}

func (c *Client) UpdateOpinion(ctx context.Context, m types.OpinionMessage) (Envelope, error) {
	return c.do(ctx, http.MethodPut, opinionPath(m), nil, m.Data)
}

func (c *Client) DeleteOpinion(ctx context.Context, m types.OpinionMessage) (Envelope, error) {
	return c.do(ctx, http.MethodDelete, opinionPath(m), nil, nil)
}

func opinionPath(m types.OpinionMessage) string {
	user := m.UserName
	if user == "" {
		user = m.Data.GithubHandle
	}
	return "/api/v1/entries/" + url.PathEscape(m.ID) + "/" + url.PathEscape(user)
}

// Wiki looks up Wikipedia pages.
func (c *Client) Wiki(ctx context.Context, q types.WikiQuery) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/wiki", url.Values{"language": {q.Language}, "titles": {q.Titles}}, nil)
}

// SearchEntry returns one page of search results.
func (c *Client) SearchEntry(ctx context.Context, q types.SearchQuery) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/search/entry", url.Values{"id": {q.ID}, "page": {strconv.Itoa(q.Page)}}, nil)
}

func (c *Client) CreateReport(ctx context.Context, r types.Report) (Envelope, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/report", nil, r)
}

// Votes lists every vote on an entry.
func (c *Client) Votes(ctx context.Context, entryID string) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/entries/"+url.PathEscape(entryID)+"/placeholder/vote/placeholder", nil, nil)
}

func (c *Client) CreateVote(ctx context.Context, m types.VoteMessage) (Envelope, error) {
	return c.do(ctx, http.MethodPost, votePath(m), nil, m.Data)
}

func (c *Client) DeleteVote(ctx context.Context, m types.VoteMessage) (Envelope, error) {
	voteID := m.VoteID
	if voteID == "" {
		voteID = m.Data.ID
	}
	return c.do(ctx, http.MethodDelete, votePath(m)+"/"+url.PathEscape(voteID), nil, m.Data)
}

func votePath(m types.VoteMessage) string {
	return "/api/v1/entries/" + url.PathEscape(m.ID) + "/" + url.PathEscape(m.Data.OpinionGithubHandle) + "/vote"
}

func (c *Client) Notification(ctx context.Context, id string) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/notification/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateNotification(ctx context.Context, m types.NotificationMessage) (Envelope, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/notification/"+url.PathEscape(m.ID), nil, m.Data)
}

func (c *Client) UpdateNotification(ctx context.Context, m types.NotificationMessage) (Envelope, error) {
	return c.do(ctx, http.MethodPut, "/api/v1/notification/"+url.PathEscape(m.ID), nil, m.Data)
}

func (c *Client) DeleteNotification(ctx context.Context, m types.NotificationMessage) (Envelope, error) {
	return c.do(ctx, http.MethodDelete, "/api/v1/notification/"+url.PathEscape(m.ID), nil, m.Data)
}

// NewNotifications lists unseen notifications of the signed-in user.
func (c *Client) NewNotifications(ctx context.Context) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/notifications/new", nil, nil)
}

// AllNotifications lists every notification on an entry.
func (c *Client) AllNotifications(ctx context.Context, entryID string) (Envelope, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/notifications/all/"+url.PathEscape(entryID), nil, nil)
}
