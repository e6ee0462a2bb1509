package cmdline

import "strings"

const exeSuffix = ".exe"

// SplitExecutable separates the executable path from the rest of a raw
// command line.
//
// A quoted path ends at the first quote not preceded by a backslash escape;
// escaped quotes inside it are unescaped. An unquoted path runs up to and
// including the first ".exe" (any case) that is followed by whitespace or
// the end of the text. The remainder has its leading whitespace trimmed.
func SplitExecutable(commandLine string) (exe, rest string, err error) {
	text := strings.TrimLeft(commandLine, whitespace)
	if text == "" {
		return "", "", malformed(commandLine, "empty command line")
	}

	if text[0] == '"' {
		escaped := false
		for i := 1; i < len(text); i++ {
			c := text[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				exe = strings.ReplaceAll(text[1:i], `\"`, `"`)
				return exe, strings.TrimLeft(text[i+1:], whitespace), nil
			}
		}
		return "", "", malformed(commandLine, "unterminated quoted executable path")
	}

	end := indexExe(text)
	if end < 0 {
		return "", "", malformed(commandLine, "no executable found")
	}
	return text[:end], strings.TrimLeft(text[end:], whitespace), nil
}

// indexExe returns the offset just past the first ".exe" (ASCII
// case-insensitive) that ends a word, or -1.
func indexExe(text string) int {
	for i := 0; i+len(exeSuffix) <= len(text); i++ {
		if !strings.EqualFold(text[i:i+len(exeSuffix)], exeSuffix) {
			continue
		}
		end := i + len(exeSuffix)
		if end == len(text) || strings.IndexByte(whitespace, text[end]) >= 0 {
			return end
		}
	}
	return -1
}
