// Package compdb accumulates compile and link records for one build.
package compdb

import (
	"slices"
	"sync"

	"github.com/StinkyLord/msbuild-compdb/internal/model"
)

// Database is an append-only collection of compile and link records. Each
// Add call is atomic with respect to the others, so the records of one
// invocation are always contiguous.
type Database struct {
	mu      sync.Mutex
	compile []model.CompileRecord
	link    []model.LinkRecord
}

// Snapshot is a copy of the database contents in insertion order.
type Snapshot struct {
	Compile []model.CompileRecord
	Link    []model.LinkRecord
}

// New creates an empty Database.
func New() *Database {
	return &Database{}
}

// AddCompile appends one record per file, in order. Nothing is recorded
// when files is empty.
func (d *Database) AddCompile(command, directory string, files []string) int {
	if len(files) == 0 {
		return 0
	}
	records := make([]model.CompileRecord, len(files))
	for i, f := range files {
		records[i] = model.CompileRecord{Command: command, Directory: directory, File: f}
	}

	d.mu.Lock()
	d.compile = append(d.compile, records...)
	d.mu.Unlock()
	return len(records)
}

// AddLink appends exactly one record, even when files is empty.
func (d *Database) AddLink(command, directory string, files []string) {
	rec := model.LinkRecord{Command: command, Directory: directory, Files: slices.Clone(files)}
	if rec.Files == nil {
		rec.Files = []string{}
	}

	d.mu.Lock()
	d.link = append(d.link, rec)
	d.mu.Unlock()
}

// Len returns the number of compile and link records.
func (d *Database) Len() (compile, link int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.compile), len(d.link)
}

// Snapshot copies the current contents. Later additions do not affect it.
func (d *Database) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot{
		Compile: make([]model.CompileRecord, len(d.compile)),
		Link:    make([]model.LinkRecord, len(d.link)),
	}
	copy(s.Compile, d.compile)
	for i, rec := range d.link {
		rec.Files = slices.Clone(rec.Files)
		s.Link[i] = rec
	}
	return s
}
