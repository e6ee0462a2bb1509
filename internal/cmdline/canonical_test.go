package cmdline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsPath_Windows(t *testing.T) {
	tests := []struct {
		workDir string
		input   string
		want    string
	}{
		{`C:\build`, `C:\VC\cl.exe`, `C:\VC\cl.exe`},
		{`C:\build`, `C:\VC\bin\..\.\cl.exe`, `C:\VC\cl.exe`},
		{`C:\build`, `c:/VC/bin/cl.exe`, `c:\VC\bin\cl.exe`},
		{`C:\build`, `C:\..\cl.exe`, `C:\cl.exe`},
		{`C:\build`, `\\srv\share\vc\.\cl.exe`, `\\srv\share\vc\cl.exe`},
		{`C:\build\proj`, `..\bin\cl.exe`, `C:\build\bin\cl.exe`},
		{`C:\build\proj`, `link.exe`, `C:\build\proj\link.exe`},
	}

	for _, tt := range tests {
		got := AbsPath(tt.workDir, tt.input)
		assert.Equal(t, tt.want, got, "AbsPath(%q, %q)", tt.workDir, tt.input)
		assert.Equal(t, got, AbsPath(tt.workDir, got), "AbsPath must be idempotent for %q", got)
	}
}

func TestAbsPath_HostRelative(t *testing.T) {
	dir := t.TempDir()
	got := AbsPath(dir, `tools\cl.exe`)
	assert.Equal(t, filepath.Join(dir, "tools", "cl.exe"), got)
	assert.Equal(t, got, AbsPath(dir, got))
}

func TestAbsPath_DoubleSlashWithoutBackslashIsHostPath(t *testing.T) {
	p := "//usr/bin/cl.exe"
	assert.Equal(t, filepath.Clean(p), AbsPath("/work", p))
	assert.Equal(t, `\\srv\share\cl.exe`, AbsPath("/work", `//srv/share\cl.exe`))
}

func TestCanonicalizer_Command(t *testing.T) {
	c, err := NewCanonicalizer(`C:\build`, 4)
	require.NoError(t, err)

	tokens := []string{`/I"inc dir"`, `/c`, `a.cpp`}

	first := c.Command(`C:\VC\bin\..\cl.exe`, tokens)
	assert.Equal(t, `C:\VC\cl.exe /I"inc dir" /c a.cpp`, first)
	assert.Equal(t, first, c.Command(`C:\VC\bin\..\cl.exe`, tokens))

	assert.Equal(t, `"C:\Program Files\VC\cl.exe" /c a.cpp`,
		c.Command(`C:\Program Files\VC\cl.exe`, []string{`/c`, `a.cpp`}))
	assert.Equal(t, `C:\build\lib.exe`, c.Command(`lib.exe`, nil))
}

func TestCanonicalizer_ResolveIsIdempotent(t *testing.T) {
	c, err := NewCanonicalizer(`D:\src`, 0)
	require.NoError(t, err)

	abs := c.Resolve(`..\tools\link.exe`)
	assert.Equal(t, `D:\tools\link.exe`, abs)
	assert.Equal(t, abs, c.Resolve(abs))
}

func TestNewCanonicalizer_DefaultsToWorkingDirectory(t *testing.T) {
	c, err := NewCanonicalizer("", 1)
	require.NoError(t, err)

	wd, err := filepath.Abs(".")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "cl.exe"), c.Resolve("cl.exe"))
}
