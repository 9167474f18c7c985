package preproc

import (
	"strings"
	"unicode"
)

// expand replaces macro names outside string literals and line comments.
// A macro is not re-expanded inside its own replacement.
func (pp *preprocessor) expand(text string, hidden map[string]bool) string {
	if len(pp.defines) == 0 {
		return text
	}
	var sb strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '"' || r == '\'':
			j := i + 1
			for j < len(runes) && runes[j] != r {
				if runes[j] == '\\' {
					j++
				}
				j++
			}
			j = min(j+1, len(runes))
			sb.WriteString(string(runes[i:j]))
			i = j
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			sb.WriteString(string(runes[i:]))
			i = len(runes)
		case r == '_' || unicode.IsLetter(r):
			j := i + 1
			for j < len(runes) && (runes[j] == '_' || unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j])) {
				j++
			}
			word := string(runes[i:j])
			if value, ok := pp.defines[word]; ok && !hidden[word] {
				inner := make(map[string]bool, len(hidden)+1)
				for k := range hidden {
					inner[k] = true
				}
				inner[word] = true
				sb.WriteString(pp.expand(value, inner))
			} else {
				sb.WriteString(word)
			}
			i = j
		case unicode.IsDigit(r):
			j := i + 1
			for j < len(runes) && (unicode.IsDigit(runes[j]) || unicode.IsLetter(runes[j]) || runes[j] == '_') {
				j++
			}
			sb.WriteString(string(runes[i:j]))
			i = j
		default:
			sb.WriteRune(r)
			i++
		}
	}
	return sb.String()
}
