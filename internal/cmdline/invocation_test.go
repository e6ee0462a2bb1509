package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StinkyLord/msbuild-compdb/internal/model"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	canon, err := NewCanonicalizer(`C:\build`, 16)
	require.NoError(t, err)
	return &Parser{Profiles: DefaultProfiles(), Canon: canon}
}

func TestParse_QuotedCompilerWithTc(t *testing.T) {
	p := newTestParser(t)
	inv, err := p.Parse(model.Event{
		TaskName:    "CL",
		CommandLine: `"C:\VC\cl.exe" /I"inc dir" /Tc foo.c /Fosubdir\foo.obj`,
		ProjectFile: `C:\src\app\app.vcxproj`,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ToolCompiler, inv.Tool)
	assert.Equal(t, model.KindCompile, inv.Kind)
	assert.Equal(t, `C:\VC\cl.exe`, inv.Executable)
	assert.Equal(t, []string{`/I"inc dir"`, `/Tc`, `foo.c`, `/Fosubdir\foo.obj`}, inv.Tokens)
	assert.Equal(t, []string{"foo.c"}, inv.Files)
	assert.Equal(t, `C:\VC\cl.exe /I"inc dir" /Tc foo.c /Fosubdir\foo.obj`, inv.Command)
	assert.Equal(t, `C:\src\app`, inv.Directory)
}

func TestParse_Linker(t *testing.T) {
	p := newTestParser(t)
	inv, err := p.Parse(model.Event{
		TaskName:    "Link",
		CommandLine: `link.exe /OUT:app.exe a.obj b.obj mylib.lib`,
		ProjectFile: `C:\src\app\app.vcxproj`,
	})
	require.NoError(t, err)

	assert.Equal(t, model.KindLink, inv.Kind)
	assert.Equal(t, []string{"a.obj", "b.obj", "mylib.lib"}, inv.Files)
	assert.Equal(t, `C:\build\link.exe /OUT:app.exe a.obj b.obj mylib.lib`, inv.Command)
}

func TestParse_MultipleSources(t *testing.T) {
	p := newTestParser(t)
	inv, err := p.Parse(model.Event{TaskName: "cl", CommandLine: `cl.exe /c main.cpp util.cpp /Zi`})
	require.NoError(t, err)

	assert.Equal(t, model.KindCompile, inv.Kind)
	assert.Equal(t, []string{"main.cpp", "util.cpp"}, inv.Files)
	assert.Equal(t, `C:\build\cl.exe /c main.cpp util.cpp /Zi`, inv.Command)
	assert.Equal(t, "", inv.Directory)
}

func TestParse_QuotedFileNames(t *testing.T) {
	tests := []struct {
		name      string
		task      string
		line      string
		wantKind  model.Kind
		wantFiles []string
	}{
		{"quoted source with spaces", "cl", `cl.exe /c "C:\My Src\main.cpp" util.cpp`, model.KindCompile, []string{`C:\My Src\main.cpp`, "util.cpp"}},
		{"single quoted source", "cl", `cl.exe /c "C:\Src\one.cpp"`, model.KindCompile, []string{`C:\Src\one.cpp`}},
		{"joined Tc quoted", "cl", `cl.exe /c /Tc"C:\My Src\a.c"`, model.KindCompile, []string{`C:\My Src\a.c`}},
		{"TP with quoted file", "cl", `cl.exe /c /TP "C:\My Src\a.inc"`, model.KindCompile, []string{`C:\My Src\a.inc`}},
		{"quoted library", "link", `link.exe /OUT:app.exe "C:\My Lib\x.lib" a.obj`, model.KindLink, []string{`C:\My Lib\x.lib`, "a.obj"}},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := p.Parse(model.Event{TaskName: tt.task, CommandLine: tt.line})
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, inv.Kind)
			assert.Equal(t, tt.wantFiles, inv.Files)
			assert.Equal(t, `C:\build\`+tt.line, inv.Command)
		})
	}
}

func TestParse_CompilerWithLinkSwitchBecomesLink(t *testing.T) {
	p := newTestParser(t)
	inv, err := p.Parse(model.Event{TaskName: "cl", CommandLine: `cl.exe /Feapp.exe main.cpp /LINK util.obj user32.lib`})
	require.NoError(t, err)

	assert.Equal(t, model.KindLink, inv.Kind)
	assert.Equal(t, []string{"util.obj", "user32.lib"}, inv.Files)
}

func TestParse_LibrarianIsLink(t *testing.T) {
	p := newTestParser(t)
	inv, err := p.Parse(model.Event{TaskName: "LIB", CommandLine: `"C:\VC\lib.exe" /OUT:core.lib x.obj y.obj`})
	require.NoError(t, err)

	assert.Equal(t, model.ToolLibrarian, inv.Tool)
	assert.Equal(t, model.KindLink, inv.Kind)
	assert.Equal(t, []string{"x.obj", "y.obj"}, inv.Files)
}

func TestParse_LinkWithoutFilesStillResolves(t *testing.T) {
	p := newTestParser(t)
	inv, err := p.Parse(model.Event{TaskName: "link", CommandLine: `link.exe @C:\tmp\link.rsp`})
	require.NoError(t, err)

	assert.Equal(t, model.KindLink, inv.Kind)
	assert.NotNil(t, inv.Files)
	assert.Empty(t, inv.Files)
}

func TestParse_Errors(t *testing.T) {
	p := newTestParser(t)

	_, err := p.Parse(model.Event{TaskName: "Message", CommandLine: `cl.exe /c a.cpp`})
	require.Error(t, err)
	assert.True(t, IsUnsupportedTask(err))

	_, err = p.Parse(model.Event{TaskName: "cl", CommandLine: `"C:\VC\cl.exe /c a.cpp`})
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestProjectDir(t *testing.T) {
	tests := map[string]string{
		`C:\src\app\app.vcxproj`: `C:\src\app`,
		`C:\app.vcxproj`:         `C:\`,
		`/home/u/app.vcxproj`:    `/home/u`,
		`/app.vcxproj`:           `/`,
		`app.vcxproj`:            ``,
		`src/app\app.vcxproj`:    `src/app`,
	}
	for in, want := range tests {
		assert.Equal(t, want, ProjectDir(in), in)
	}
}
