package sidekick

// tokenCharRatio is the assumed characters-per-token ratio. Exact
// tokenization depends on the loaded model and is out of scope.
const tokenCharRatio = 4

// Estimator converts text to an estimated token count.
type Estimator func(text string) int

// EstimateTokens provides a rough token count estimate for a text payload.
// Uses the approximation ~4 chars per token, rounding up so a payload just
// past a budget boundary is counted against it.
func EstimateTokens(text string) int {
	return (len(text) + tokenCharRatio - 1) / tokenCharRatio
}
