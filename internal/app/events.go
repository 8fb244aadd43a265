package app

import (
	"opinio/internal/event"
	"opinio/internal/state"
	"opinio/pkg/types"
)

// UI flags.

type ToggleNav struct{}
type ToggleAccount struct{}
type CloseAccount struct{}
type ToggleNotification struct{}
type CloseNotification struct{}
type ToggleDeleteOpinion struct{}
type CloseDeleteOpinion struct{}
type ToggleReport struct{}
type CloseReport struct{}
type ToggleVoteLock struct{}
type ToggleDebug struct{}

func (ToggleNav) Kind() event.Kind           { return "TOGGLE_NAV" }
func (ToggleAccount) Kind() event.Kind       { return "TOGGLE_ACCOUNT" }
func (CloseAccount) Kind() event.Kind        { return "CLOSE_ACCOUNT" }
func (ToggleNotification) Kind() event.Kind  { return "TOGGLE_NOTIFICATION" }
func (CloseNotification) Kind() event.Kind   { return "CLOSE_NOTIFICATION" }
func (ToggleDeleteOpinion) Kind() event.Kind { return "TOGGLE_DELETE_OPINION" }
func (CloseDeleteOpinion) Kind() event.Kind  { return "CLOSE_DELETE_OPINION" }
func (ToggleReport) Kind() event.Kind        { return "TOGGLE_REPORT" }
func (CloseReport) Kind() event.Kind         { return "CLOSE_REPORT" }
func (ToggleVoteLock) Kind() event.Kind      { return "TOGGLE_VOTE_LOCK" }
func (ToggleDebug) Kind() event.Kind         { return "TOGGLE_DEBUG" }

// Generic state and status events.

// SetValue writes Value at the dot-separated Path.
type SetValue struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// UpdateValue replaces the value at Path with Fn(current). In-process only.
type UpdateValue struct {
	Path string        `json:"path"`
	Fn   state.Updater `json:"-"`
}

type SetStatus types.Status

// Done resets the status line.
type Done struct{}

// Error reports a failure on the status line.
type Error struct {
	Message string `json:"message"`
}

type RouteTo struct {
	Route  string            `json:"route"`
	Params map[string]string `json:"params,omitempty"`
}

// Navigate resolves a URL fragment and routes to it. Landing on the OAuth
// callback with a code also exchanges the code for a session.
type Navigate struct {
	Fragment string `json:"fragment"`
}

// SetInput stores the search box contents lower-cased.
type SetInput struct {
	Input string `json:"input"`
}

func (SetValue) Kind() event.Kind    { return "SET_VALUE" }
func (UpdateValue) Kind() event.Kind { return "UPDATE_VALUE" }
func (SetStatus) Kind() event.Kind   { return "SET_STATUS" }
func (Done) Kind() event.Kind        { return "DONE" }
func (Error) Kind() event.Kind       { return "ERROR" }
func (RouteTo) Kind() event.Kind     { return "ROUTE_TO" }
func (Navigate) Kind() event.Kind    { return "NAVIGATE" }
func (SetInput) Kind() event.Kind    { return "SET_INPUT" }

// Reports.

type SetReport struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SetOpinionReport opens the report dialog for an opinion found at URL.
type SetOpinionReport struct {
	Opinion types.Opinion `json:"opinion"`
	URL     string        `json:"url"`
}

type CreateReport struct {
	Data types.Report `json:"data"`
}

type CreateReportSuccess struct{}

func (SetReport) Kind() event.Kind           { return "SET_REPORT" }
func (SetOpinionReport) Kind() event.Kind    { return "SET_OPINION_REPORT" }
func (CreateReport) Kind() event.Kind        { return "CREATE_REPORT" }
func (CreateReportSuccess) Kind() event.Kind { return "CREATE_REPORT_SUCCESS" }

// Session.

type GetUser struct{}

type ReceiveUser struct {
	Data any `json:"data"`
}

type GetToken struct {
	Code string `json:"code"`
}

type ReceiveToken struct{}
type SignOut struct{}
type SignOutSuccess struct{}

func (GetUser) Kind() event.Kind        { return "GET_USER" }
func (ReceiveUser) Kind() event.Kind    { return "RECEIVE_USER" }
func (GetToken) Kind() event.Kind       { return "GET_TOKEN" }
func (ReceiveToken) Kind() event.Kind   { return "RECEIVE_TOKEN" }
func (SignOut) Kind() event.Kind        { return "SIGN_OUT" }
func (SignOutSuccess) Kind() event.Kind { return "SIGN_OUT_SUCCESS" }

// Entries.

type GetEntry struct {
	ID string `json:"id"`
}

type ReceiveEntry struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

type RouteToEntry struct {
	ID string `json:"id"`
}

type RouteToNewEntry struct {
	ID string `json:"id"`
}

type RouteToEditEntry struct {
	ID string `json:"id"`
}

type RouteToSearchEntry types.SearchQuery

type SetNewEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type SetNewEntryTemplate struct {
	Data any `json:"data"`
}

type SetTempEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type SetTempEntryTemplate struct {
	Data any `json:"data"`
}

type GetWikiNew types.WikiQuery

type ReceiveWikiNew struct {
	Data any `json:"data"`
}

type GetWikiTemp types.WikiQuery

type ReceiveWikiTemp struct {
	Data any `json:"data"`
}

type CreateEntry types.EntryMessage

type CreateEntrySuccess struct {
	ID string `json:"id"`
}

type UpdateEntry types.EntryMessage

type UpdateEntrySuccess struct {
	ID string `json:"id"`
}

type SearchEntry types.SearchQuery

type SearchEntrySuccess struct {
	Data any `json:"data"`
}

// RouteToSearchEntryPage searches and routes to the results page.
type RouteToSearchEntryPage types.SearchQuery

// GetEntryWithActivity loads an entry together with its votes and notifications.
type GetEntryWithActivity struct {
	ID string `json:"id"`
}

func (GetEntry) Kind() event.Kind               { return "GET_ENTRY" }
func (ReceiveEntry) Kind() event.Kind           { return "RECEIVE_ENTRY" }
func (RouteToEntry) Kind() event.Kind           { return "ROUTE_TO_ENTRY" }
func (RouteToNewEntry) Kind() event.Kind        { return "ROUTE_TO_NEW_ENTRY" }
func (RouteToEditEntry) Kind() event.Kind       { return "ROUTE_TO_EDIT_ENTRY" }
func (RouteToSearchEntry) Kind() event.Kind     { return "ROUTE_TO_SEARCH_ENTRY" }
func (SetNewEntry) Kind() event.Kind            { return "SET_NEW_ENTRY" }
func (SetNewEntryTemplate) Kind() event.Kind    { return "SET_NEW_ENTRY_TEMPLATE" }
func (SetTempEntry) Kind() event.Kind           { return "SET_TEMP_ENTRY" }
func (SetTempEntryTemplate) Kind() event.Kind   { return "SET_TEMP_ENTRY_TEMPLATE" }
func (GetWikiNew) Kind() event.Kind             { return "GET_WIKI_NEW" }
func (ReceiveWikiNew) Kind() event.Kind         { return "RECEIVE_WIKI_NEW" }
func (GetWikiTemp) Kind() event.Kind            { return "GET_WIKI_TEMP" }
func (ReceiveWikiTemp) Kind() event.Kind        { return "RECEIVE_WIKI_TEMP" }
func (CreateEntry) Kind() event.Kind            { return "CREATE_ENTRY" }
func (CreateEntrySuccess) Kind() event.Kind     { return "CREATE_ENTRY_SUCCESS" }
func (UpdateEntry) Kind() event.Kind            { return "UPDATE_ENTRY" }
func (UpdateEntrySuccess) Kind() event.Kind     { return "UPDATE_ENTRY_SUCCESS" }
func (SearchEntry) Kind() event.Kind            { return "SEARCH_ENTRY" }
func (SearchEntrySuccess) Kind() event.Kind     { return "SEARCH_ENTRY_SUCCESS" }
func (RouteToSearchEntryPage) Kind() event.Kind { return "ROUTE_TO_SEARCH_ENTRY_PAGE" }
func (GetEntryWithActivity) Kind() event.Kind   { return "GET_ENTRY_W_ACTIVITY" }

// Opinions.

// SetOpinionTemplate replaces the draft opinion for entry ID.
type SetOpinionTemplate struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

// SetOpinion sets one field of the draft opinion for entry ID.
type SetOpinion struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type CreateOpinion types.OpinionMessage
type CreateOpinionSuccess types.OpinionMessage

// AppendOpinion adds an opinion to its entry, replacing one by the same handle.
type AppendOpinion types.OpinionMessage

type RemoveOpinion types.OpinionMessage
type DeleteOpinion types.OpinionMessage
type DeleteOpinionSuccess struct{}

type SetTempOpinion struct {
	Data any `json:"data"`
}

type EditOpinion types.OpinionMessage
type CancelEditOpinion types.OpinionMessage
type UpdateOpinion types.OpinionMessage
type UpdateOpinionSuccess struct{}

func (SetOpinionTemplate) Kind() event.Kind   { return "SET_OPINION_TEMPLATE" }
func (SetOpinion) Kind() event.Kind           { return "SET_OPINION" }
func (CreateOpinion) Kind() event.Kind        { return "CREATE_OPINION" }
func (CreateOpinionSuccess) Kind() event.Kind { return "CREATE_OPINION_SUCCESS" }
func (AppendOpinion) Kind() event.Kind        { return "APPEND_OPINION" }
func (RemoveOpinion) Kind() event.Kind        { return "REMOVE_OPINION" }
func (DeleteOpinion) Kind() event.Kind        { return "DELETE_OPINION" }
func (DeleteOpinionSuccess) Kind() event.Kind { return "DELETE_OPINION_SUCCESS" }
func (SetTempOpinion) Kind() event.Kind       { return "SET_TEMP_OPINION" }
func (EditOpinion) Kind() event.Kind          { return "EDIT_OPINION" }
func (CancelEditOpinion) Kind() event.Kind    { return "CANCEL_EDIT_OPINION" }
func (UpdateOpinion) Kind() event.Kind        { return "UPDATE_OPINION" }
func (UpdateOpinionSuccess) Kind() event.Kind { return "UPDATE_OPINION_SUCCESS" }

// Votes.

type GetVote struct {
	ID string `json:"id"`
}

type ReceiveVote struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

type CreateVote types.VoteMessage

type CreateVoteSuccess struct {
	ID   string       `json:"id"`
	Data []types.Vote `json:"data"`
}

type DeleteVote types.VoteMessage
type DeleteVoteSuccess struct{}

// VoteFailed releases the vote lock and reports the failure. Restore puts
// back votes that were removed optimistically under entry ID.
type VoteFailed struct {
	Message string       `json:"message"`
	ID      string       `json:"id,omitempty"`
	Restore []types.Vote `json:"restore,omitempty"`
}

// AppendVote adds votes under entry ID, skipping ids already present.
type AppendVote struct {
	ID   string       `json:"id"`
	Data []types.Vote `json:"data"`
}

// RemoveVote removes the vote with Data.ID from entry ID.
type RemoveVote types.VoteMessage

func (GetVote) Kind() event.Kind           { return "GET_VOTE" }
func (ReceiveVote) Kind() event.Kind       { return "RECEIVE_VOTE" }
func (CreateVote) Kind() event.Kind        { return "CREATE_VOTE" }
func (CreateVoteSuccess) Kind() event.Kind { return "CREATE_VOTE_SUCCESS" }
func (DeleteVote) Kind() event.Kind        { return "DELETE_VOTE" }
func (DeleteVoteSuccess) Kind() event.Kind { return "DELETE_VOTE_SUCCESS" }
func (VoteFailed) Kind() event.Kind        { return "VOTE_FAILED" }
func (AppendVote) Kind() event.Kind        { return "APPEND_VOTE" }
func (RemoveVote) Kind() event.Kind        { return "REMOVE_VOTE" }

// Notifications.

type GetNotification struct {
	ID string `json:"id"`
}

type ReceiveNotification struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

type CreateNotification types.NotificationMessage

type CreateNotificationSuccess struct {
	ID   string               `json:"id"`
	Data []types.Notification `json:"data"`
}

type UpdateNotification types.NotificationMessage
type UpdateNotificationSuccess struct{}
type DeleteNotification types.NotificationMessage
type DeleteNotificationSuccess struct{}

// AppendNotification adds notifications under entry ID, skipping ids already present.
type AppendNotification struct {
	ID   string               `json:"id"`
	Data []types.Notification `json:"data"`
}

type RemoveNotification types.NotificationMessage
type GetNewNotifications struct{}

type ReceiveNewNotifications struct {
	Data any `json:"data"`
}

// MarkNewNotifications replaces the unseen notifications of entry ID with Data.
type MarkNewNotifications types.NotificationMessage

// ViewNewNotifications opens an entry from the notification menu.
type ViewNewNotifications types.NotificationMessage

func (GetNotification) Kind() event.Kind           { return "GET_NOTIFICATION" }
func (ReceiveNotification) Kind() event.Kind       { return "RECEIVE_NOTIFICATION" }
func (CreateNotification) Kind() event.Kind        { return "CREATE_NOTIFICATION" }
func (CreateNotificationSuccess) Kind() event.Kind { return "CREATE_NOTIFICATION_SUCCESS" }
func (UpdateNotification) Kind() event.Kind        { return "UPDATE_NOTIFICATION" }
func (UpdateNotificationSuccess) Kind() event.Kind { return "UPDATE_NOTIFICATION_SUCCESS" }
func (DeleteNotification) Kind() event.Kind        { return "DELETE_NOTIFICATION" }
func (DeleteNotificationSuccess) Kind() event.Kind { return "DELETE_NOTIFICATION_SUCCESS" }
func (AppendNotification) Kind() event.Kind        { return "APPEND_NOTIFICATION" }
func (RemoveNotification) Kind() event.Kind        { return "REMOVE_NOTIFICATION" }
func (GetNewNotifications) Kind() event.Kind       { return "GET_NEW_NOTIFICATIONS" }
func (ReceiveNewNotifications) Kind() event.Kind   { return "RECEIVE_NEW_NOTIFICATIONS" }
func (MarkNewNotifications) Kind() event.Kind      { return "MARK_NEW_NOTIFICATIONS" }
func (ViewNewNotifications) Kind() event.Kind      { return "VIEW_NEW_NOTIFICATIONS" }
