package report

// EstimateTokens approximates the token count of text as ceil(len/4).
// Good enough for cost estimation and for providers that omit usage.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
