package token_management

import (
	"fmt"
	"io"
	"os"

	"github.com/meysamhadeli/codigest/constants/lipgloss"
	"github.com/meysamhadeli/codigest/token_management/contracts"
)

// BytesPerToken is the rough ratio used for estimates.
const BytesPerToken = 4

type tokenManager struct {
	budget int
	out    io.Writer
}

// NewTokenManager creates a token manager that warns when a digest exceeds
// budget tokens. A budget of zero disables the warning.
func NewTokenManager(budget int) contracts.ITokenManagement {
	return &tokenManager{budget: budget, out: os.Stderr}
}

// EstimateTokens approximates the token count of text, rounding up.
func (tm *tokenManager) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + BytesPerToken - 1) / BytesPerToken
}

func (tm *tokenManager) Summarize(digest string, files int) contracts.TokenSummary {
	return contracts.TokenSummary{
		Files:  files,
		Bytes:  len(digest),
		Tokens: tm.EstimateTokens(digest),
		Budget: tm.budget,
	}
}

func (tm *tokenManager) DisplaySummary(summary contracts.TokenSummary) {
	info := fmt.Sprintf("Files: %d - Size: %s - Estimated Tokens: %d", summary.Files, humanBytes(summary.Bytes), summary.Tokens)
	if summary.Budget > 0 {
		info += fmt.Sprintf(" / %d", summary.Budget)
	}
	fmt.Fprintln(tm.out, lipgloss.BoxStyle.Render(info))

	if summary.OverBudget() {
		fmt.Fprintln(tm.out, lipgloss.Yellow.Render(fmt.Sprintf(
			"Warning: digest exceeds the token budget by %d tokens, consider lowering max_files or max_lines_per_file",
			summary.Tokens-summary.Budget)))
	}
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
