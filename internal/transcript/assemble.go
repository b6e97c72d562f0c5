// Package transcript rewrites raw recognizer output into command text.
package transcript

import (
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/token"
)

// Assemble joins recognizer segments, collapses whitespace and applies the
// rewriter. A nil rewriter only normalizes case and spacing.
func Assemble(segments []string, rw *Rewriter) string {
	if len(segments) == 0 {
		return ""
	}

	joined := strings.Join(segments, " ")
	normalized := strings.Join(strings.Fields(joined), " ")
	if normalized == "" {
		return ""
	}

	if rw == nil {
		return token.Fold(normalized)
	}
	return rw.Rewrite(normalized)
}
