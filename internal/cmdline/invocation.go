package cmdline

import (
	"strings"

	"github.com/StinkyLord/msbuild-compdb/internal/model"
)

// Invocation is one classified tool command line.
type Invocation struct {
	Tool       model.Tool `json:"-"`
	Kind       model.Kind `json:"kind"`
	Executable string     `json:"executable"`
	Tokens     []string   `json:"tokens"`
	Files      []string   `json:"files"`
	Command    string     `json:"command"`
	Directory  string     `json:"directory"`
}

// Parser runs the extraction, tokenization, classification and
// canonicalization steps for events. It holds no per-event state.
type Parser struct {
	Profiles Profiles
	Canon    *Canonicalizer
}

// Parse turns an event into an Invocation. It returns an
// UNSUPPORTED_TASK error for tasks other than cl, link and lib, and a
// MALFORMED_INVOCATION error when no executable can be found.
func (p *Parser) Parse(ev model.Event) (*Invocation, error) {
	tool := model.ParseTool(ev.TaskName)
	if tool == model.ToolUnknown {
		return nil, &InvocationError{Code: ErrCodeUnsupportedTask, Message: "task " + ev.TaskName + " is not recorded"}
	}

	exe, rest, err := SplitExecutable(ev.CommandLine)
	if err != nil {
		return nil, err
	}
	tokens := Tokenize(rest)
	if tokens == nil {
		tokens = []string{}
	}

	kind := model.KindLink
	if tool == model.ToolCompiler && !IsLinkInvocation(tokens) {
		kind = model.KindCompile
	}

	var profile Profile
	switch kind {
	case model.KindCompile:
		profile = p.Profiles.Compile
	case model.KindLink:
		profile = p.Profiles.Link
	}

	c := Classify(kind, tokens, profile.Options)
	return &Invocation{
		Tool:       tool,
		Kind:       kind,
		Executable: exe,
		Tokens:     tokens,
		Files:      ResolveFiles(kind, c, profile),
		Command:    p.Canon.Command(exe, tokens),
		Directory:  ProjectDir(ev.ProjectFile),
	}, nil
}

// ProjectDir returns the directory part of a project file path, accepting
// both '\' and '/' separators. A file directly under a root keeps the
// root's separator ("C:\", "/").
func ProjectDir(projectFile string) string {
	i := strings.LastIndexAny(projectFile, `\/`)
	switch {
	case i < 0:
		return ""
	case i == 0:
		return projectFile[:1]
	case i == 2 && projectFile[1] == ':':
		return projectFile[:3]
	default:
		return projectFile[:i]
	}
}
