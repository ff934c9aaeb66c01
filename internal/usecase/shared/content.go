// Package shared holds helpers used by more than one usecase.
package shared

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Guyuepp/go-clean-social/domain"
)

// NormalizeContent trims surrounding whitespace from s and checks the result
// is non-empty and at most maxRunes long. The text is otherwise stored as
// written; escaping is left to whoever renders it.
func NormalizeContent(s string, maxRunes int) (string, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return "", fmt.Errorf("%w: content is required", domain.ErrBadParamInput)
	}
	if utf8.RuneCountInString(cleaned) > maxRunes {
		return "", fmt.Errorf("%w: content exceeds %d characters", domain.ErrBadParamInput, maxRunes)
	}
	return cleaned, nil
}
