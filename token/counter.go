package token

// Counter reports the token cost of a text span.
// Implementations must be safe for concurrent use.
type Counter interface {
	// Count returns the number of tokens in text. Implementations that
	// cannot count exactly return a deterministic estimate instead.
	Count(text string) int
}
