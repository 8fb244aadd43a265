package router

// Route ids.
const (
	About         = "about"
	Contact       = "contact"
	Search        = "search"
	EntryDetail   = "entry-detail"
	NewEntry      = "new-entry"
	EditEntry     = "edit-entry"
	SignIn        = "sign-in"
	GithubOAuthCB = "github-oauth-cb"
	FAQ           = "faq"
)

// DefaultRoute is used for fragments no route matches.
const DefaultRoute = About

// Table is the application's route table.
var Table = []Route{
	{ID: About, Pattern: "/about", Title: "About"},
	{ID: Contact, Pattern: "/contact", Title: "Contact"},
	{ID: Search, Pattern: "/search/{id}/{page}", Title: "Search"},
	{ID: EntryDetail, Pattern: "/entries/{id}", Title: "Entry"},
	{ID: NewEntry, Pattern: "/new/{id}", Title: "New Entry"},
	{ID: EditEntry, Pattern: "/edit/{id}", Title: "Edit Entry"},
	{ID: SignIn, Pattern: "/sign-in", Title: "Sign In"},
	{ID: GithubOAuthCB, Pattern: "/oauth/callback", Title: "Signing In"},
	{ID: FAQ, Pattern: "/faq", Title: "FAQ"},
}
