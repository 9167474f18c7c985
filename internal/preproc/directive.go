package preproc

import (
	"strings"
	"unicode"
)

type directive struct {
	name string
	rest string
	col  int // 1-based column of the signal
}

// parseDirective recognises "<ws><signal><ws>name rest". GCC line markers
// ("# 12 ...") pass through as text.
func parseDirective(line string, signal rune) (directive, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, string(signal)) {
		return directive{}, false
	}
	col := len([]rune(line[:len(line)-len(trimmed)])) + 1
	body := strings.TrimLeft(trimmed[len(string(signal)):], " \t")
	name, rest := splitWord(body)
	if name == "" || !isIdent(name) {
		return directive{}, false
	}
	return directive{name: name, rest: rest, col: col}, true
}

func splitWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func parseIncludeTarget(rest string) (path string, global, ok bool) {
	rest = strings.TrimSpace(rest)
	if len(rest) < 3 {
		return "", false, false
	}
	switch {
	case rest[0] == '"' && rest[len(rest)-1] == '"':
		return rest[1 : len(rest)-1], false, true
	case rest[0] == '<' && rest[len(rest)-1] == '>':
		return rest[1 : len(rest)-1], true, true
	}
	return "", false, false
}
