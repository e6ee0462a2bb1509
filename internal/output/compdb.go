// Package output serializes compilation databases.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/StinkyLord/msbuild-compdb/internal/compdb"
	"github.com/StinkyLord/msbuild-compdb/internal/model"
)

// WriteDatabase writes the compile records to compilePath and the link
// records to linkPath. Either path may be "-" for stdout; an empty
// linkPath skips the link database.
//
// Both files are JSON arrays, empty ones included:
//
//	[
//	  {
//	    "command": "C:\\VC\\cl.exe /c main.cpp",
//	    "directory": "C:\\src\\app",
//	    "file": "main.cpp"
//	  }
//	]
func WriteDatabase(snap compdb.Snapshot, compilePath, linkPath string) error {
	compile := snap.Compile
	if compile == nil {
		compile = []model.CompileRecord{}
	}
	if err := WriteJSON(compilePath, compile); err != nil {
		return fmt.Errorf("failed to write compile database: %w", err)
	}

	if linkPath == "" {
		return nil
	}
	link := snap.Link
	if link == nil {
		link = []model.LinkRecord{}
	}
	if err := WriteJSON(linkPath, link); err != nil {
		return fmt.Errorf("failed to write link database: %w", err)
	}
	return nil
}

// WriteJSON marshals v as indented JSON and writes it to outputPath (or
// stdout if "-"). Command lines are written without HTML escaping.
func WriteJSON(outputPath string, v any) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}

	if outputPath == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

// Encode writes v to w in the same format as WriteJSON.
func Encode(w io.Writer, v any) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}
