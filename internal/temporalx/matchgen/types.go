package matchgen

const (
	WorkflowName     = "generate_introductions"
	ActivityGenerate = "generate_introductions_run"
)

// Input identifies the requester and how many suggestions to keep.
// MaxMatches <= 0 uses the pipeline default.
type Input struct {
	UserID     string `json:"user_id"`
	MaxMatches int    `json:"max_matches,omitempty"`
}

// Result summarizes one run. Ids are strings so the payload stays
// readable in workflow history.
type Result struct {
	UserID     string   `json:"user_id"`
	Suggested  int      `json:"suggested"`
	CreatedIDs []string `json:"created_ids"`
	Skipped    int      `json:"skipped"`
}
