package types

import "encoding/json"

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// DispatchRequest is the body of POST /dispatch.
type DispatchRequest struct {
	// Wire name of the event kind.
	// example: CREATE_VOTE
	Kind string `json:"kind" example:"CREATE_VOTE"`
	// Event payload; its shape depends on the kind.
	Payload json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
}

// DispatchResponse is returned after the synchronous part of a dispatch completed.
type DispatchResponse struct {
	// example: CREATE_VOTE
	Kind string `json:"kind" example:"CREATE_VOTE"`
	// State version after the dispatch.
	// example: 12
	Version uint64 `json:"version" example:"12"`
}

// ViewsResponse lists the registered view names.
type ViewsResponse struct {
	// example: ["entries","status","user"]
	Views []string `json:"views"`
}

// ViewResponse carries one view value.
type ViewResponse struct {
	// example: status
	Name string `json:"name" example:"status"`
	// State version the value was read at.
	// example: 12
	Version uint64 `json:"version" example:"12"`
	Value   any    `json:"value" swaggertype:"object"`
}

// RouteMatch is the router's answer for a fragment.
type RouteMatch struct {
	// example: entry-detail
	ID string `json:"id" example:"entry-detail"`
	// example: {"id":"e1"}
	Params map[string]string `json:"params"`
	// example: Entry
	Title string `json:"title,omitempty" example:"Entry"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Current user-visible status line.
	Status Status `json:"status"`
	// example: 12
	Version uint64 `json:"version" example:"12"`
	// Number of effects currently running.
	// example: 1
	Inflight int64 `json:"inflight" example:"1"`
	// example: 40
	Dispatched uint64 `json:"dispatched" example:"40"`
	// example: 0
	UnknownKinds uint64 `json:"unknown_kinds" example:"0"`
	// example: 2
	HandlerErrors uint64 `json:"handler_errors" example:"2"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
