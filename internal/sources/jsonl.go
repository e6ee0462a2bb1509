// Package sources reads build tool invocation events from captured build
// artifacts.
package sources

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/phuslu/log"

	"github.com/StinkyLord/msbuild-compdb/internal/model"
)

// maxLineSize bounds a single event line. Response-file-free MSBuild
// command lines can run to hundreds of kilobytes.
const maxLineSize = 16 * 1024 * 1024

// JSONLSource reads one JSON event per line:
//
//	{"taskName":"CL","commandLine":"cl.exe /c a.cpp","projectFile":"C:\\src\\app.vcxproj"}
//
// Blank lines are skipped; lines that fail to decode are logged and skipped.
type JSONLSource struct {
	Path   string    // File to read; "-" reads Reader (or stdin when Reader is nil)
	Reader io.Reader // Optional explicit input
	Logger *log.Logger
}

func (s *JSONLSource) Name() string {
	if s.Path == "" || s.Path == "-" {
		return "jsonl:stdin"
	}
	return "jsonl:" + s.Path
}

func (s *JSONLSource) Read(ctx context.Context, emit func(model.Event) error) error {
	r := s.Reader
	if r == nil {
		if s.Path == "" || s.Path == "-" {
			r = os.Stdin
		} else {
			f, err := os.Open(s.Path)
			if err != nil {
				return fmt.Errorf("cannot open events file: %w", err)
			}
			defer f.Close()
			r = f
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev model.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			if s.Logger != nil {
				s.Logger.Warn().Str("source", s.Name()).Int("line", lineNo).Err(err).Msg("skipping undecodable event")
			}
			continue
		}
		if err := emit(ev); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading events at line %d: %w", lineNo+1, err)
	}
	return nil
}
