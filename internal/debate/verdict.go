package debate

import (
	"strings"

	"github.com/xiaot623/debate/internal/domain"
)

// ExtractVerdict derives a verdict from judge content. The trimmed first line
// names the winner; any string is accepted. The full content is the rationale.
func ExtractVerdict(content string, round int) domain.Verdict {
	first, _, _ := strings.Cut(content, "\n")
	return domain.Verdict{
		For:       strings.TrimSpace(first),
		Rationale: content,
		Round:     round,
	}
}
