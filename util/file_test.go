package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteToFile(path, "one", "two"); err != nil {
		t.Fatalf("WriteToFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("file content = %q, want %q", data, "one\ntwo\n")
	}

	if err := WriteToFile(path, "three"); err != nil {
		t.Fatalf("WriteToFile failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "three\n" {
		t.Errorf("rewrite left %q, want %q", data, "three\n")
	}
}

func TestAppendToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := AppendToFile(path, "one"); err != nil {
		t.Fatalf("AppendToFile failed: %v", err)
	}
	if err := AppendToFile(path, "two", "three"); err != nil {
		t.Fatalf("AppendToFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\ntwo\nthree\n" {
		t.Errorf("file content = %q, want %q", data, "one\ntwo\nthree\n")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory missing after EnsureDir: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on an existing directory failed: %v", err)
	}
}
