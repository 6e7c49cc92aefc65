package fingerprint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileMatchesSum(t *testing.T) {
	t.Parallel()

	payload := strings.Repeat("0,grade,A\n1,gpa,B\n", 20000) // spans several read chunks
	p := filepath.Join(t.TempDir(), "artifact")
	if err := os.WriteFile(p, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := File(p)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if want := Sum([]byte(payload)); got != want {
		t.Fatalf("File = %016x, Sum = %016x", got, want)
	}
}

func TestFileDistinguishesContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.WriteFile(a, []byte("0,A\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(b, []byte("0,B\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sa, err := File(a)
	if err != nil {
		t.Fatalf("File(a): %v", err)
	}
	sb, err := File(b)
	if err != nil {
		t.Fatalf("File(b): %v", err)
	}
	if sa == sb {
		t.Fatalf("distinct contents share digest %016x", sa)
	}
}

func TestFileMissing(t *testing.T) {
	t.Parallel()

	_, err := File(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want os.ErrNotExist", err)
	}
}
