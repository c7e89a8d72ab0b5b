package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"text", []byte("hello world\n"), 0o644},
		{"empty", []byte{}, 0o644},
		{"binary", []byte{0x00, 0x01, 0x02, 0xFF}, 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewOsFs()
			path := filepath.Join(t.TempDir(), "out")

			if err := AtomicWriteFile(fsys, path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if gotPerm := info.Mode().Perm(); gotPerm != tt.perm {
				t.Errorf("permissions = %o, want %o", gotPerm, tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_OverwriteLeavesNoTemp(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/dest", 0o755); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(fsys, "/dest/a.properties", []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWriteFile(fsys, "/dest/a.properties", []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := afero.ReadFile(fsys, "/dest/a.properties")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	entries, err := afero.ReadDir(fsys, "/dest")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".twrp2neo-atomic-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAtomicWriteFile_DirectoryNotExists(t *testing.T) {
	fsys := afero.NewOsFs()
	path := filepath.Join(t.TempDir(), "missing", "file")

	if err := AtomicWriteFile(fsys, path, []byte("x"), 0o644); err == nil {
		t.Error("expected error when parent directory does not exist")
	}
}

func TestAtomicWriteJSON(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/out", 0o755); err != nil {
		t.Fatal(err)
	}

	v := struct {
		PackageName string `json:"packageName"`
		HasApk      bool   `json:"hasApk"`
	}{"com.example.app", true}

	if err := AtomicWriteJSON(fsys, "/out/p.properties", v); err != nil {
		t.Fatalf("AtomicWriteJSON() error = %v", err)
	}

	data, err := afero.ReadFile(fsys, "/out/p.properties")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"packageName\": \"com.example.app\",\n  \"hasApk\": true\n}\n"
	if string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}

	var back map[string]any
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
}

func TestAtomicWriteJSON_Unmarshalable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := AtomicWriteJSON(fsys, "/x.json", make(chan int)); err == nil {
		t.Error("expected error for channel value")
	}
}
