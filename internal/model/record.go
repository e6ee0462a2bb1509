// Package model defines the data structures shared by the compilation database engine.
package model

import "strings"

// Event is one observed tool invocation during a build.
type Event struct {
	TaskName    string `json:"taskName"`    // MSBuild task that ran the tool (e.g., "CL", "Link", "Lib")
	CommandLine string `json:"commandLine"` // Raw command line, executable included
	ProjectFile string `json:"projectFile"` // Project that issued the task
}

// Tool identifies which build tool an event belongs to.
type Tool int

const (
	ToolUnknown Tool = iota
	ToolCompiler
	ToolLinker
	ToolLibrarian
)

// ParseTool resolves a task name to a Tool. Matching is case-insensitive;
// any name other than cl, link or lib yields ToolUnknown.
func ParseTool(taskName string) Tool {
	switch strings.ToLower(strings.TrimSpace(taskName)) {
	case "cl":
		return ToolCompiler
	case "link":
		return ToolLinker
	case "lib":
		return ToolLibrarian
	default:
		return ToolUnknown
	}
}

func (t Tool) String() string {
	switch t {
	case ToolCompiler:
		return "cl"
	case ToolLinker:
		return "link"
	case ToolLibrarian:
		return "lib"
	default:
		return "unknown"
	}
}

// Kind is the role an invocation plays in the database.
type Kind int

const (
	KindCompile Kind = iota + 1
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindCompile:
		return "compile"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as its lowercase name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CompileRecord is one entry of compile_commands.json. An invocation that
// compiles N sources produces N records sharing Command and Directory.
type CompileRecord struct {
	Command   string `json:"command"`
	Directory string `json:"directory"`
	File      string `json:"file"`
}

// LinkRecord is one entry of link_commands.json.
type LinkRecord struct {
	Command   string   `json:"command"`
	Directory string   `json:"directory"`
	Files     []string `json:"files"`
}
