package sources

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/StinkyLord/msbuild-compdb/internal/model"
)

// TlogSource replays MSBuild command tracking logs found under Dir:
//   - CL.command.<n>.tlog        (compiler)
//   - link.command.<n>.tlog      (linker)
//   - Lib[-link].command.<n>.tlog (librarian)
//
// Each file lists "^source|source" marker lines, each followed by the
// command line that built them. Tracking logs omit the executable, so the
// configured tool path is prepended.
type TlogSource struct {
	Dir        string
	Compiler   string
	Linker     string
	Librarian  string
	ProjectDir string // Directory recorded for every event (default: Dir)
	Logger     *log.Logger
}

func (s *TlogSource) Name() string { return "tlog:" + s.Dir }

func (s *TlogSource) Read(ctx context.Context, emit func(model.Event) error) error {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return fmt.Errorf("cannot read tlog directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", s.Dir)
	}

	return filepath.WalkDir(s.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".git") {
				return filepath.SkipDir
			}
			return nil
		}

		task, ok := tlogTask(d.Name())
		if !ok {
			return nil
		}
		return s.parseTlog(path, task, emit)
	})
}

// tlogTask maps a command tlog file name to the MSBuild task that wrote it.
func tlogTask(name string) (string, bool) {
	lname := strings.ToLower(name)
	if !strings.HasSuffix(lname, ".tlog") {
		return "", false
	}
	i := strings.Index(lname, ".command.")
	if i < 0 {
		return "", false
	}
	switch lname[:i] {
	case "cl":
		return "cl", true
	case "link":
		return "link", true
	case "lib", "lib-link":
		return "lib", true
	default:
		return "", false
	}
}

func (s *TlogSource) executable(task string) string {
	switch model.ParseTool(task) {
	case model.ToolCompiler:
		return s.Compiler
	case model.ToolLinker:
		return s.Linker
	default:
		return s.Librarian
	}
}

// projectFile names the project a tlog belongs to: MSBuild keeps tracking
// logs in "<IntDir>/<project>.tlog/".
func (s *TlogSource) projectFile(path string) string {
	dir := s.ProjectDir
	if dir == "" {
		dir = s.Dir
	}
	name := "project"
	if n, ok := strings.CutSuffix(filepath.Base(filepath.Dir(path)), ".tlog"); ok && n != "" {
		name = n
	}
	return filepath.Join(dir, name+".vcxproj")
}

func (s *TlogSource) parseTlog(path, task string, emit func(model.Event) error) error {
	f, err := os.Open(path)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn().Str("path", path).Err(err).Msg("cannot open tlog")
		}
		return nil
	}
	defer f.Close()

	if s.Logger != nil {
		s.Logger.Debug().Str("path", path).Str("task", task).Msg("parsing tlog")
	}

	exe := `"` + s.executable(task) + `"`
	project := s.projectFile(path)

	// Tracking logs are UTF-16LE with a BOM; fall back to UTF-8 without one.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(f, decoder))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "^") {
			continue
		}
		ev := model.Event{
			TaskName:    task,
			CommandLine: exe + " " + line,
			ProjectFile: project,
		}
		if err := emit(ev); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil && s.Logger != nil {
		s.Logger.Warn().Str("path", path).Err(err).Msg("tlog read incomplete")
	}
	return nil
}
