package llm

// Usage reports the token consumption of one external-model call. Callers
// pass it to the usage meter as an explicit post-call step; nothing in this
// package records usage on its own.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Total returns the combined token count.
func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}
