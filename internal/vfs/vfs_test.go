package vfs

import (
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestFSGetSet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		lines []string
	}{
		{"empty", "", "", []string{}},
		{"single no newline", "a", "a\n", []string{"a"}},
		{"trailing newline", "a\nb\n", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", "a\nb\n", []string{"a", "b"}},
		{"blank line kept", "a\n\nb", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := New()
			fs.Set("f", tt.input)
			got, ok := fs.Get("f")
			if !ok {
				t.Fatal("Get: file missing after Set")
			}
			if got != tt.want {
				t.Errorf("Get = %q, want %q", got, tt.want)
			}
			if !reflect.DeepEqual(fs.files["f"], tt.lines) {
				t.Errorf("lines = %q, want %q", fs.files["f"], tt.lines)
			}
		})
	}
}

func TestFSNamesRemove(t *testing.T) {
	fs := New()
	fs.Set("b.txt", "x")
	fs.Set("a.txt", "y")
	if got := fs.Names(); !reflect.DeepEqual(got, []string{"a.txt", "b.txt"}) {
		t.Errorf("Names = %v", got)
	}
	fs.Remove("a.txt")
	if _, ok := fs.Get("a.txt"); ok {
		t.Error("a.txt still present after Remove")
	}
}

func TestReadLines(t *testing.T) {
	fs := New()
	fs.Set("in.txt", "line1\nline2\n")
	h := NewHandles(fs)

	if err := h.Open("in.txt", ModeRead); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, want := range []string{"line1", "line2"} {
		eof, err := h.EOF("in.txt")
		if err != nil || eof {
			t.Fatalf("EOF before %q = %v, %v", want, eof, err)
		}
		got, err := h.ReadLine("in.txt")
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
	if eof, _ := h.EOF("in.txt"); !eof {
		t.Error("EOF = false after last line")
	}
	if _, err := h.ReadLine("in.txt"); err != io.EOF {
		t.Errorf("ReadLine past end: err = %v, want io.EOF", err)
	}
}

func TestOpenModes(t *testing.T) {
	fs := New()
	fs.Set("data.txt", "old\n")
	h := NewHandles(fs)

	if err := h.Open("missing.txt", ModeRead); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open READ missing: err = %v, want ErrNotFound", err)
	}

	// WRITE truncates.
	if err := h.Open("data.txt", ModeWrite); err != nil {
		t.Fatal(err)
	}
	if err := h.WriteLine("data.txt", "new"); err != nil {
		t.Fatal(err)
	}
	if got, _ := fs.Get("data.txt"); got != "new\n" {
		t.Errorf("after WRITE: %q", got)
	}
	if err := h.Close("data.txt"); err != nil {
		t.Fatal(err)
	}

	// APPEND keeps existing lines.
	if err := h.Open("data.txt", ModeAppend); err != nil {
		t.Fatal(err)
	}
	if err := h.WriteLine("data.txt", "more"); err != nil {
		t.Fatal(err)
	}
	if got, _ := fs.Get("data.txt"); got != "new\nmore\n" {
		t.Errorf("after APPEND: %q", got)
	}
	h.CloseAll()

	// APPEND creates a missing file.
	if err := h.Open("log.txt", ModeAppend); err != nil {
		t.Fatal(err)
	}
	if got, ok := fs.Get("log.txt"); !ok || got != "" {
		t.Errorf("APPEND on missing file: %q, %v", got, ok)
	}
}

func TestHandleErrors(t *testing.T) {
	fs := New()
	fs.Set("in.txt", "a\n")
	h := NewHandles(fs)

	if _, err := h.ReadLine("in.txt"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("ReadLine unopened: err = %v", err)
	}
	if err := h.Open("in.txt", ModeRead); err != nil {
		t.Fatal(err)
	}
	if err := h.Open("in.txt", ModeRead); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open: err = %v", err)
	}
	if err := h.WriteLine("in.txt", "x"); !errors.Is(err, ErrMode) {
		t.Errorf("WriteLine on READ file: err = %v", err)
	}
	if err := h.Seek("in.txt", 1); !errors.Is(err, ErrMode) {
		t.Errorf("Seek on READ file: err = %v", err)
	}
	if _, err := h.GetRecord("in.txt"); !errors.Is(err, ErrMode) {
		t.Errorf("GetRecord on READ file: err = %v", err)
	}
	if err := h.Close("in.txt"); err != nil {
		t.Fatal(err)
	}
	if err := h.Close("in.txt"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("second Close: err = %v", err)
	}
	if _, err := h.ReadLine("in.txt"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("ReadLine after Close: err = %v", err)
	}
	if _, err := h.EOF("in.txt"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("EOF after Close: err = %v", err)
	}
}

func TestRandomAccess(t *testing.T) {
	fs := New()
	h := NewHandles(fs)

	if err := h.Open("rec.dat", ModeRandom); err != nil {
		t.Fatal(err)
	}
	for _, r := range []string{"r1", "r2", "r3"} {
		if err := h.PutRecord("rec.dat", r); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.Seek("rec.dat", 2); err != nil {
		t.Fatal(err)
	}
	if err := h.PutRecord("rec.dat", "R2"); err != nil {
		t.Fatal(err)
	}
	got, err := h.GetRecord("rec.dat")
	if err != nil || got != "r3" {
		t.Errorf("GetRecord after overwrite = %q, %v; want r3", got, err)
	}
	if _, err := h.GetRecord("rec.dat"); err != io.EOF {
		t.Errorf("GetRecord past end: err = %v, want io.EOF", err)
	}
	if eof, _ := h.EOF("rec.dat"); !eof {
		t.Error("EOF = false at end of RANDOM file")
	}

	if err := h.Seek("rec.dat", 4); err != nil {
		t.Errorf("Seek to len+1: %v", err)
	}
	for _, addr := range []int64{0, 5, -1} {
		if err := h.Seek("rec.dat", addr); err == nil {
			t.Errorf("Seek(%d) succeeded, want range error", addr)
		}
	}

	if got, _ := fs.Get("rec.dat"); got != "r1\nR2\nr3\n" {
		t.Errorf("buffer = %q", got)
	}
}

func TestWriteModeNeverEOF(t *testing.T) {
	h := NewHandles(New())
	if err := h.Open("out.txt", ModeWrite); err != nil {
		t.Fatal(err)
	}
	if eof, err := h.EOF("out.txt"); err != nil || eof {
		t.Errorf("EOF on WRITE file = %v, %v", eof, err)
	}
	if mode, ok := h.IsOpen("out.txt"); !ok || mode != ModeWrite {
		t.Errorf("IsOpen = %v, %v", mode, ok)
	}
	if got := h.OpenFiles(); !reflect.DeepEqual(got, []string{"out.txt"}) {
		t.Errorf("OpenFiles = %v", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"READ", ModeRead, true},
		{"write", ModeWrite, true},
		{"Append", ModeAppend, true},
		{"RANDOM", ModeRandom, true},
		{"BINARY", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if s := ModeRandom.String(); s != "RANDOM" {
		t.Errorf("ModeRandom.String() = %q", s)
	}
}
