// Package vfs implements the in-memory file system behind the pseudocode
// file statements (OPENFILE, READFILE, WRITEFILE, SEEK, GETRECORD,
// PUTRECORD, CLOSEFILE).
//
// An FS owns named line buffers for the lifetime of an engine, so a host can
// seed fixtures before a run and inspect results after it. Each run opens
// files through its own Handles set; handles never outlive the run that
// opened them.
package vfs

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Sentinel errors returned (wrapped) by Handles operations.
var (
	ErrNotOpen     = errors.New("file is not open")
	ErrAlreadyOpen = errors.New("file is already open")
	ErrNotFound    = errors.New("file does not exist")
	ErrMode        = errors.New("operation not allowed in this file mode")
)

// Mode is the access mode a file was opened with.
type Mode int

const (
	ModeRead Mode = iota + 1
	ModeWrite
	ModeAppend
	ModeRandom
)

var modeNames = [...]string{
	ModeRead:   "READ",
	ModeWrite:  "WRITE",
	ModeAppend: "APPEND",
	ModeRandom: "RANDOM",
}

func (m Mode) String() string {
	if m <= 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode keyword (any case) to a Mode.
func ParseMode(s string) (Mode, bool) {
	for m := ModeRead; m <= ModeRandom; m++ {
		if strings.EqualFold(s, modeNames[m]) {
			return m, true
		}
	}
	return 0, false
}

// FS is a set of named line buffers. It is safe for concurrent use so a
// host may inspect buffers while a run is in progress.
type FS struct {
	mu    sync.Mutex
	files map[string][]string
}

// New creates an empty file system.
func New() *FS {
	return &FS{files: make(map[string][]string)}
}

// Get returns the contents of a buffer as newline-terminated lines.
func (fs *FS) Get(name string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	lines, ok := fs.files[name]
	if !ok {
		return "", false
	}
	return joinLines(lines), true
}

// Set replaces (or creates) a buffer. A trailing newline does not produce an
// extra empty line, and CRLF line endings are accepted.
func (fs *FS) Set(name, text string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[name] = splitLines(text)
}

// Remove deletes a buffer.
func (fs *FS) Remove(name string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, name)
}

// Names returns the names of all buffers, sorted.
func (fs *FS) Names() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	names := make([]string, 0, len(fs.files))
	for name := range fs.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Handles is the set of files open during one run. Buffer updates are
// written through to the FS immediately. Handles is not safe for concurrent
// use.
type Handles struct {
	fs   *FS
	open map[string]*handle
}

type handle struct {
	mode   Mode
	cursor int // 0-based index of the next line or record
}

// NewHandles creates an empty handle set over fs.
func NewHandles(fs *FS) *Handles {
	return &Handles{fs: fs, open: make(map[string]*handle)}
}

// Open opens name in the given mode.
//
// READ requires the buffer to exist. WRITE creates or truncates it. APPEND
// and RANDOM create it when missing; APPEND positions at the end, RANDOM at
// record 1.
func (h *Handles) Open(name string, mode Mode) error {
	if _, ok := h.open[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrAlreadyOpen)
	}

	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	lines, exists := h.fs.files[name]
	hd := &handle{mode: mode}
	switch mode {
	case ModeRead:
		if !exists {
			return fmt.Errorf("%q: %w", name, ErrNotFound)
		}
	case ModeWrite:
		h.fs.files[name] = []string{}
	case ModeAppend:
		if !exists {
			h.fs.files[name] = []string{}
		}
		hd.cursor = len(lines)
	case ModeRandom:
		if !exists {
			h.fs.files[name] = []string{}
		}
	default:
		return fmt.Errorf("%q: %w: %s", name, ErrMode, mode)
	}
	h.open[name] = hd
	return nil
}

// IsOpen reports whether name is open and in which mode.
func (h *Handles) IsOpen(name string) (Mode, bool) {
	hd, ok := h.open[name]
	if !ok {
		return 0, false
	}
	return hd.mode, true
}

func (h *Handles) get(name string, op string, modes ...Mode) (*handle, error) {
	hd, ok := h.open[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotOpen)
	}
	for _, m := range modes {
		if hd.mode == m {
			return hd, nil
		}
	}
	return nil, fmt.Errorf("%s %q: %w: opened for %s", op, name, ErrMode, hd.mode)
}

// ReadLine returns the next line of a file opened for READ. At the end of
// the file it returns io.EOF.
func (h *Handles) ReadLine(name string) (string, error) {
	hd, err := h.get(name, "READFILE", ModeRead)
	if err != nil {
		return "", err
	}

	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	lines := h.fs.files[name]
	if hd.cursor >= len(lines) {
		return "", io.EOF
	}
	line := lines[hd.cursor]
	hd.cursor++
	return line, nil
}

// WriteLine appends a line to a file opened for WRITE or APPEND.
func (h *Handles) WriteLine(name, line string) error {
	hd, err := h.get(name, "WRITEFILE", ModeWrite, ModeAppend)
	if err != nil {
		return err
	}

	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	h.fs.files[name] = append(h.fs.files[name], line)
	hd.cursor = len(h.fs.files[name])
	return nil
}

// Seek moves the cursor of a RANDOM file to the 1-based record address.
// Address len+1 positions after the last record, ready to append.
func (h *Handles) Seek(name string, address int64) error {
	hd, err := h.get(name, "SEEK", ModeRandom)
	if err != nil {
		return err
	}

	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	n := int64(len(h.fs.files[name]))
	if address < 1 || address > n+1 {
		return fmt.Errorf("SEEK %q: record address %d out of range 1..%d", name, address, n+1)
	}
	hd.cursor = int(address - 1)
	return nil
}

// GetRecord returns the record at the cursor of a RANDOM file and advances.
// Past the last record it returns io.EOF.
func (h *Handles) GetRecord(name string) (string, error) {
	hd, err := h.get(name, "GETRECORD", ModeRandom)
	if err != nil {
		return "", err
	}

	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	lines := h.fs.files[name]
	if hd.cursor >= len(lines) {
		return "", io.EOF
	}
	rec := lines[hd.cursor]
	hd.cursor++
	return rec, nil
}

// PutRecord overwrites the record at the cursor of a RANDOM file, or appends
// when the cursor is past the end, and advances.
func (h *Handles) PutRecord(name, record string) error {
	hd, err := h.get(name, "PUTRECORD", ModeRandom)
	if err != nil {
		return err
	}

	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	lines := h.fs.files[name]
	if hd.cursor < len(lines) {
		lines[hd.cursor] = record
	} else {
		lines = append(lines, record)
		h.fs.files[name] = lines
	}
	hd.cursor++
	return nil
}

// EOF reports whether no more lines or records can be read from name.
// Files opened for WRITE or APPEND are never at end of file.
func (h *Handles) EOF(name string) (bool, error) {
	hd, ok := h.open[name]
	if !ok {
		return false, fmt.Errorf("EOF %q: %w", name, ErrNotOpen)
	}
	if hd.mode == ModeWrite || hd.mode == ModeAppend {
		return false, nil
	}

	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()
	return hd.cursor >= len(h.fs.files[name]), nil
}

// Close invalidates the handle for name.
func (h *Handles) Close(name string) error {
	if _, ok := h.open[name]; !ok {
		return fmt.Errorf("CLOSEFILE %q: %w", name, ErrNotOpen)
	}
	delete(h.open, name)
	return nil
}

// CloseAll closes every open handle. Buffers are kept.
func (h *Handles) CloseAll() {
	h.open = make(map[string]*handle)
}

// OpenFiles returns the names of the open files, sorted.
func (h *Handles) OpenFiles() []string {
	names := make([]string, 0, len(h.open))
	for name := range h.open {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
