// Package plan holds the wire types of the planning contract and the
// client-side transformations applied to a plan: grouping and filtering.
package plan

// Tool is an AI product recommended for a step. Name is its identity.
type Tool struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// Item is one step of a raw plan.
type Item struct {
	Task  string `json:"task"`
	Tools []Tool `json:"tools"`
}

// Group is a step with its deduplicated tools.
type Group struct {
	Title string `json:"title"`
	Tools []Tool `json:"tools"`
}

// Request is the body of POST /plan.
type Request struct {
	UserGoal string `json:"user_goal"`
	Language string `json:"language,omitempty"`
}

// Response is the body returned by POST /plan.
type Response struct {
	Goal   string  `json:"goal"`
	Plan   []Item  `json:"plan"`
	Groups []Group `json:"groups,omitempty"`
}
