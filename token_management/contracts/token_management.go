package contracts

// TokenSummary describes the size of one rendered digest.
type TokenSummary struct {
	Files  int
	Bytes  int
	Tokens int
	Budget int
}

// OverBudget reports whether a budget is set and the estimate exceeds it.
func (s TokenSummary) OverBudget() bool {
	return s.Budget > 0 && s.Tokens > s.Budget
}

type ITokenManagement interface {
	EstimateTokens(text string) int
	Summarize(digest string, files int) TokenSummary
	DisplaySummary(summary TokenSummary)
}
