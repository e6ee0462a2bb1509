package cmdline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPathCacheSize bounds the number of executable paths a
// Canonicalizer remembers.
const DefaultPathCacheSize = 256

// Canonicalizer rebuilds invocation commands with an absolute executable
// path. It is safe for concurrent use.
type Canonicalizer struct {
	workDir string
	paths   *lru.Cache[string, string]
}

// NewCanonicalizer resolves relative executable paths against workDir, or
// against the process working directory when workDir is empty.
func NewCanonicalizer(workDir string, cacheSize int) (*Canonicalizer, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
		workDir = wd
	}
	if cacheSize <= 0 {
		cacheSize = DefaultPathCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("cannot create path cache: %w", err)
	}
	return &Canonicalizer{workDir: workDir, paths: cache}, nil
}

// Resolve returns the absolute, cleaned form of exe. Existence is not checked.
func (c *Canonicalizer) Resolve(exe string) string {
	if abs, ok := c.paths.Get(exe); ok {
		return abs
	}
	abs := AbsPath(c.workDir, exe)
	c.paths.Add(exe, abs)
	return abs
}

// Command joins the resolved executable and the tokens with single spaces.
// Tokens are kept verbatim; the executable is quoted only when it contains
// whitespace.
func (c *Canonicalizer) Command(exe string, tokens []string) string {
	abs := c.Resolve(exe)
	if strings.ContainsAny(abs, " \t") {
		abs = `"` + abs + `"`
	}
	if len(tokens) == 0 {
		return abs
	}
	return abs + " " + strings.Join(tokens, " ")
}

// AbsPath makes p absolute relative to workDir. Windows drive and UNC paths
// are recognized on every host and cleaned with Windows rules; anything
// else goes through path/filepath. An already absolute path comes back
// cleaned, so AbsPath is idempotent.
func AbsPath(workDir, p string) string {
	if isWindowsAbs(p) {
		return cleanWindows(p)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if isWindowsAbs(workDir) {
		return cleanWindows(workDir + `\` + p)
	}
	rel := filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
	return filepath.Join(workDir, rel)
}

// isWindowsAbs reports drive paths and UNC paths. A leading "//" with no
// backslash anywhere is left to the host, where it may be a POSIX path.
func isWindowsAbs(p string) bool {
	if len(p) >= 3 && isDriveLetter(p[0]) && p[1] == ':' && isSlash(p[2]) {
		return true
	}
	return len(p) >= 2 && isSlash(p[0]) && isSlash(p[1]) && strings.ContainsRune(p, '\\')
}

func isDriveLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isSlash(b byte) bool {
	return b == '\\' || b == '/'
}

// cleanWindows normalizes separators to '\' and resolves "." and ".."
// elements. The volume (drive or \\server\share) is never removed.
func cleanWindows(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '\\' || r == '/' })

	var volume string
	if p[1] == ':' {
		volume = p[:2] + `\`
		parts = parts[1:]
	} else {
		volume = `\\`
		n := min(2, len(parts))
		volume += strings.Join(parts[:n], `\`)
		parts = parts[n:]
		if len(parts) > 0 {
			volume += `\`
		}
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, part)
		}
	}
	return volume + strings.Join(out, `\`)
}
