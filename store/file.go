package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/lotbook"
)

// File is a lotbook.LotStore persisted in a JSONL file, one lot per line.
//
// The whole file is read when opened and rewritten after each mutation, so
// that it stays human-readable and diffs nicely under version control.
type File struct {
	*Memory
	path string
}

// OpenFile opens the lots file at path. A missing file is an empty store,
// it is created by the first mutation.
func OpenFile(path string) (*File, error) {
	lots, err := decodeFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	f := &File{Memory: NewMemory(lots...), path: path}
	f.Memory.onChange = f.write
	return f, nil
}

// Path returns the file the store persists to.
func (f *File) Path() string { return f.path }

func decodeFile(path string) ([]lotbook.Lot, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	lots, err := DecodeLots(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", path, err)
	}
	return lots, nil
}

// write replaces the file content atomically, through a temporary file.
func (f *File) write(lots []lotbook.Lot) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot write lots: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	// The temporary file is private, keep the mode of the file it replaces.
	mode := fs.FileMode(0644)
	if fi, err := os.Stat(f.path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write lots to %q: %w", tmp.Name(), err)
	}
	if err := EncodeLots(tmp, lots); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write lots to %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write lots to %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("cannot replace %q: %w", f.path, err)
	}
	return nil
}

// maxLineSize is the longest lot line DecodeLots accepts.
const maxLineSize = 16 << 20

// DecodeLots reads lots from a JSONL stream. Empty lines are ignored.
func DecodeLots(r io.Reader) ([]lotbook.Lot, error) {
	var lots []lotbook.Lot
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var l lotbook.Lot
		if err := json.Unmarshal(line, &l); err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", i, err)
		}
		lots = append(lots, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

// EncodeLots writes lots as JSONL, one lot per line.
func EncodeLots(w io.Writer, lots []lotbook.Lot) error {
	bw := bufio.NewWriter(w)
	for _, l := range lots {
		b, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("cannot encode lot %q: %w", l.ID, err)
		}
		bw.Write(b)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
