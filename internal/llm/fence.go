package llm

import (
	"errors"
	"strings"
)

const fence = "```"

var errUnterminatedFence = errors.New("code fence opened but never closed")

// UnwrapFence returns the payload inside an optional Markdown code fence.
//
// Bare payloads are returned trimmed. A fence may carry a language tag
// ("```json") and may be surrounded by whitespace. An opening fence
// without a closing one is an error. Text before the opening fence is
// left in place, so prose-prefixed output fails the subsequent JSON parse.
func UnwrapFence(text string) (string, error) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, fence) {
		return s, nil
	}

	rest := s[len(fence):]
	i := 0
	for i < len(rest) && isFenceTagByte(rest[i]) {
		i++
	}
	rest = rest[i:]

	end := strings.LastIndex(rest, fence)
	if end < 0 {
		return "", errUnterminatedFence
	}
	return strings.TrimSpace(rest[:end]), nil
}

func isFenceTagByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-', b == '_', b == '+', b == '.':
		return true
	}
	return false
}
