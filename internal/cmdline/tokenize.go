// Package cmdline parses MSVC-style tool command lines: it splits off the
// executable, tokenizes the arguments, classifies them, and rebuilds a
// canonical command string.
package cmdline

import "strings"

const whitespace = " \t\r\n"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Tokenize splits argument text into tokens.
//
// Whitespace separates tokens except inside a double-quoted run. A backslash
// escapes a following '"' or '\', so an escaped quote never opens or closes a
// run. Token text is returned verbatim, quotes and backslashes included, so
// joining the tokens reproduces the original arguments.
func Tokenize(text string) []string {
	text = lineBreaks.Replace(text)

	var (
		tokens   []string
		curr     strings.Builder
		inQuotes bool
	)
	flush := func() {
		if curr.Len() > 0 {
			tokens = append(tokens, curr.String())
			curr.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text) && (text[i+1] == '"' || text[i+1] == '\\'):
			curr.WriteByte(c)
			curr.WriteByte(text[i+1])
			i++
		case c == '"':
			inQuotes = !inQuotes
			curr.WriteByte(c)
		case (c == ' ' || c == '\t') && !inQuotes:
			flush()
		default:
			curr.WriteByte(c)
		}
	}
	flush()

	return tokens
}

// Unquote returns the argument value of a token the way the Windows argv
// parser sees it: unescaped quotes are dropped, \" becomes a literal quote,
// and 2n backslashes before a quote become n. Backslashes not followed by a
// quote are literal.
func Unquote(token string) string {
	if !strings.ContainsRune(token, '"') {
		return token
	}

	var b strings.Builder
	b.Grow(len(token))
	for i := 0; i < len(token); {
		switch token[i] {
		case '\\':
			n := 0
			for i < len(token) && token[i] == '\\' {
				n++
				i++
			}
			if i < len(token) && token[i] == '"' {
				b.WriteString(strings.Repeat(`\`, n/2))
				if n%2 == 1 {
					b.WriteByte('"')
					i++
				}
			} else {
				b.WriteString(strings.Repeat(`\`, n))
			}
		case '"':
			i++
		default:
			b.WriteByte(token[i])
			i++
		}
	}
	return b.String()
}
