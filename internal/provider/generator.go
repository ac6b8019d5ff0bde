package provider

import "context"

// Result is the provider's structured answer. Valid=false means the model
// judged the prompt unusable (gibberish, off-topic, prompt gaming); the
// caller surfaces that as a validation failure, not a rate limit.
type Result struct {
	Valid  bool   `json:"valid"`
	Tanka  string `json:"tanka"`
	Reason string `json:"reason,omitempty"`
}

// Generator turns a categorized worry into a tanka. Implementations must
// not touch the database; generation happens outside store transactions.
type Generator interface {
	GenerateTanka(ctx context.Context, category, worryText string) (*Result, error)
}
