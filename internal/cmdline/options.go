package cmdline

import "strings"

// DefaultOptionsWithParam lists cl.exe options whose parameter may be given
// as the following token.
var DefaultOptionsWithParam = []string{
	"D", "I", "F", "U", "FI", "FU",
	"analyze:log", "analyze:stacksize", "analyze:max_paths",
	"analyze:ruleset", "analyze:plugin",
}

// DefaultSourceExtensions are the extensions treated as compile inputs.
var DefaultSourceExtensions = []string{"c", "cxx", "cpp"}

// DefaultLinkExtensions are the extensions treated as link inputs.
var DefaultLinkExtensions = []string{"obj", "lib", "dll"}

// OptionTable is the set of option names (case-sensitive, prefix character
// stripped) that consume the next token as their parameter.
type OptionTable map[string]struct{}

// NewOptionTable builds a table from option names.
func NewOptionTable(names ...string) OptionTable {
	t := make(OptionTable, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// TakesParam reports whether option consumes the following token.
func (t OptionTable) TakesParam(option string) bool {
	_, ok := t[option]
	return ok
}

// Profile is the classification rule set for one invocation kind.
type Profile struct {
	Options    OptionTable
	Extensions map[string]struct{} // lowercase, without the dot
}

// NewProfile builds a Profile from option names and file extensions.
func NewProfile(options, extensions []string) Profile {
	ext := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		ext[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return Profile{Options: NewOptionTable(options...), Extensions: ext}
}

// Accepts reports whether name carries one of the profile's extensions.
// Names without a '.' never match.
func (p Profile) Accepts(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return false
	}
	_, ok := p.Extensions[strings.ToLower(name[dot+1:])]
	return ok
}

// Profiles holds one Profile per invocation kind.
type Profiles struct {
	Compile Profile
	Link    Profile
}

// DefaultProfiles mirrors MSBuild's cl/link behavior. The link table reuses
// the compile option table.
func DefaultProfiles() Profiles {
	return Profiles{
		Compile: NewProfile(DefaultOptionsWithParam, DefaultSourceExtensions),
		Link:    NewProfile(DefaultOptionsWithParam, DefaultLinkExtensions),
	}
}
