package types

// SuccessEnvelope is the wire shape for successful responses. Results is
// only set on list responses and carries the number of items in the page.
type SuccessEnvelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data"`
}

// ErrorEnvelope is the wire shape for failed responses. Stack is only
// populated outside production.
type ErrorEnvelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Stack      string `json:"stack,omitempty"`
}
