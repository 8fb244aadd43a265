package types

// StatusType is the severity of the user-visible status line.
type StatusType string

const (
	StatusInfo    StatusType = "INFO"
	StatusSuccess StatusType = "SUCCESS"
	StatusError   StatusType = "ERROR"
	StatusDone    StatusType = "DONE"
)

// Status is the user-visible status line.
type Status struct {
	// Severity of the message.
	// example: SUCCESS
	Type StatusType `json:"type" example:"SUCCESS"`
	// Message shown to the user.
	// example: voted successfully
	Message string `json:"message" example:"voted successfully"`
	// When true and Type is not DONE, the status returns to DONE after a short delay.
	AutoClear bool `json:"auto_clear,omitempty"`
}

// User is the signed-in GitHub user as returned by the backend.
type User struct {
	// example: alice
	Login string `json:"login" example:"alice"`
	// example: Alice Liddell
	Name      string `json:"name,omitempty" example:"Alice Liddell"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// Entry is a dictionary entry that users write opinions about.
type Entry struct {
	// example: e1
	ID                   string         `json:"id" example:"e1"`
	Name                 string         `json:"name"`
	Alias                string         `json:"alias"`
	Album                string         `json:"album"`
	Author               string         `json:"author"`
	Category             string         `json:"category"`
	ConsensusTranslation string         `json:"consensus_translation"`
	Date                 string         `json:"date"`
	Group                string         `json:"group"`
	Language             string         `json:"language"`
	Romanization         string         `json:"romanization"`
	Wikipedia            map[string]any `json:"wikipedia"`
	Opinions             []Opinion      `json:"opinions"`
}

// NewEntryTemplate is the blank entry used to seed the creation form.
func NewEntryTemplate() Entry {
	return Entry{Language: "en", Opinions: []Opinion{}}
}

// Opinion is one user's translation and argument for an entry. Opinions of an
// entry are keyed by GithubHandle.
type Opinion struct {
	// example: alice
	GithubHandle  string `json:"github_handle" example:"alice"`
	UserName      string `json:"user_name,omitempty"`
	UserAvatarURL string `json:"user_avatar_url,omitempty"`
	UserBio       string `json:"user_bio,omitempty"`
	Translation   string `json:"translation"`
	Details       string `json:"details"`
}

// Vote is a vote on an opinion. Votes are identified by ID.
type Vote struct {
	// example: v-1
	ID string `json:"id" example:"v-1"`
	// Handle of the opinion's author.
	// example: alice
	OpinionGithubHandle string `json:"opinion_github_handle" example:"alice"`
	// Handle of the voter.
	GithubHandle string `json:"github_handle,omitempty"`
}

// Notification subscribes a user to activity on an entry. Notifications are
// identified by ID.
type Notification struct {
	// example: n-1
	ID string `json:"id" example:"n-1"`
	// example: e1
	EntryID      string `json:"entry_id" example:"e1"`
	GithubHandle string `json:"github_handle,omitempty"`
	Seen         bool   `json:"seen"`
}

// ReportType classifies what a report is about.
type ReportType string

const ReportOpinion ReportType = "OPINION"

// Report flags content for moderation.
type Report struct {
	Type    ReportType `json:"type"`
	Context any        `json:"context,omitempty"`
	URL     string     `json:"url,omitempty"`
	Details string     `json:"details,omitempty"`
}

// SearchQuery selects a page of entry search results.
type SearchQuery struct {
	// example: hello
	ID string `json:"id" example:"hello"`
	// example: 1
	Page int `json:"page" example:"1"`
}

// WikiQuery looks up Wikipedia pages for an entry.
type WikiQuery struct {
	// example: en
	Language string `json:"language" example:"en"`
	// example: Hello
	Titles string `json:"titles" example:"Hello"`
}

// EntryMessage addresses an entry and carries its data.
type EntryMessage struct {
	// example: e1
	ID   string `json:"id" example:"e1"`
	Data Entry  `json:"data"`
}

// OpinionMessage addresses one user's opinion on an entry.
type OpinionMessage struct {
	// Entry id.
	// example: e1
	ID string `json:"id" example:"e1"`
	// Author handle, used to address an existing opinion.
	// example: alice
	UserName string  `json:"userName,omitempty" example:"alice"`
	Data     Opinion `json:"data"`
}

// VoteMessage addresses a vote on an entry.
type VoteMessage struct {
	// Entry id.
	// example: e1
	ID string `json:"id" example:"e1"`
	// Vote id, required when deleting.
	VoteID string `json:"voteID,omitempty"`
	Data   Vote   `json:"data"`
}

// NotificationMessage addresses a notification on an entry.
type NotificationMessage struct {
	// Entry id.
	// example: e1
	ID   string       `json:"id" example:"e1"`
	Data Notification `json:"data"`
}
