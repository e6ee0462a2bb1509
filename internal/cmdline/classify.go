package cmdline

import (
	"strings"

	"github.com/StinkyLord/msbuild-compdb/internal/model"
)

// Classification is the outcome of scanning one invocation's tokens.
type Classification struct {
	// Candidates are plain tokens that may name files, unquoted.
	Candidates []string
	// Sources were designated explicitly by /Tc or /Tp and bypass the
	// extension check. They are unquoted too.
	Sources []string
	// AllSources is set by /TC or /TP.
	AllSources bool
	// Stop is the index of a /link token that ended compile
	// classification, or -1.
	Stop int
}

// splitOption returns the option name of an option-like token.
func splitOption(token string) (string, bool) {
	if token == "" || (token[0] != '/' && token[0] != '-') {
		return "", false
	}
	return token[1:], true
}

// Classify walks tokens left to right and sorts them into file candidates,
// explicit sources and mode flags. Option matching uses the verbatim token
// text; file names are unquoted. Source designation flags and /link are
// honored for KindCompile only.
func Classify(kind model.Kind, tokens []string, table OptionTable) Classification {
	c := Classification{Stop: -1}
	compile := kind == model.KindCompile

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		option, isOption := splitOption(tok)

		switch {
		case isOption && table.TakesParam(option):
			i++
		case isOption && compile && (option == "Tc" || option == "Tp"):
			if i+1 < len(tokens) {
				c.Sources = append(c.Sources, Unquote(tokens[i+1]))
				i++
			}
		case isOption && compile && (strings.HasPrefix(option, "Tc") || strings.HasPrefix(option, "Tp")):
			c.Sources = append(c.Sources, Unquote(option[2:]))
		case isOption && compile && (option == "TC" || option == "TP"):
			c.AllSources = true
		case isOption && compile && option == "link":
			c.Stop = i
			return c
		case isOption:
			// other option
		default:
			name := Unquote(tok)
			if name == "" || strings.HasPrefix(name, "@") {
				// empty argument or response file
				continue
			}
			c.Candidates = append(c.Candidates, name)
		}
	}
	return c
}

// ResolveFiles returns the authoritative file list for a classified
// invocation: explicit sources first, then the candidates the profile
// accepts. With AllSources every compile candidate is kept.
func ResolveFiles(kind model.Kind, c Classification, profile Profile) []string {
	files := make([]string, 0, len(c.Sources)+len(c.Candidates))
	if kind == model.KindCompile {
		files = append(files, c.Sources...)
	}
	for _, name := range c.Candidates {
		if (kind == model.KindCompile && c.AllSources) || profile.Accepts(name) {
			files = append(files, name)
		}
	}
	return files
}

// IsLinkInvocation reports whether a compiler invocation carries a /link
// switch (any case), which hands the whole invocation to the linker.
func IsLinkInvocation(tokens []string) bool {
	for _, tok := range tokens {
		if option, ok := splitOption(tok); ok && strings.EqualFold(option, "link") {
			return true
		}
	}
	return false
}
