// Package testutil builds synthetic TWRP archives for tests.
package testutil

import (
	"archive/tar"
	"bytes"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// Epoch is the modification time given to entries that do not set one.
var Epoch = time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

// Entry describes one tar member. Directories are inferred from a
// trailing slash in Name when Type is zero.
type Entry struct {
	Name     string
	Type     byte
	Body     string
	Mode     int64
	UID, GID int
	Uname    string
	Gname    string
	Linkname string
	ModTime  time.Time
}

// File is shorthand for a regular file entry owned by an app uid.
func File(name, body string) Entry {
	return Entry{Name: name, Body: body, Mode: 0o660, UID: 10123, GID: 10123, Uname: "u0_a123", Gname: "u0_a123"}
}

// Dir is shorthand for a directory entry.
func Dir(name string) Entry {
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}
	return Entry{Name: name, Type: tar.TypeDir, Mode: 0o771, UID: 10123, GID: 10123, Uname: "u0_a123", Gname: "u0_a123"}
}

// Header converts the entry to a GNU tar header.
func (e Entry) Header() *tar.Header {
	typ := e.Type
	if typ == 0 {
		typ = tar.TypeReg
		if strings.HasSuffix(e.Name, "/") {
			typ = tar.TypeDir
		}
	}
	mtime := e.ModTime
	if mtime.IsZero() {
		mtime = Epoch
	}
	mode := e.Mode
	if mode == 0 {
		mode = 0o644
	}
	hdr := &tar.Header{
		Typeflag: typ,
		Name:     e.Name,
		Linkname: e.Linkname,
		Mode:     mode,
		Uid:      e.UID,
		Gid:      e.GID,
		Uname:    e.Uname,
		Gname:    e.Gname,
		ModTime:  mtime,
		Format:   tar.FormatGNU,
	}
	if typ == tar.TypeReg {
		hdr.Size = int64(len(e.Body))
	}
	return hdr
}

// Tar encodes entries into an in-memory tar stream.
func Tar(t testing.TB, entries ...Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := e.Header()
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("writing header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := io.WriteString(tw, e.Body); err != nil {
				t.Fatalf("writing body %s: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	return buf.Bytes()
}

// Volume frames a tar stream the way TWRP does: a gzip member whose
// 10-byte header precedes a raw deflate stream.
func Volume(t testing.TB, tarData []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(tarData); err != nil {
		t.Fatalf("compressing volume: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing volume: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes data to name on fsys, creating parents, and stamps it
// with mtime when mtime is non-zero.
func WriteFile(t testing.TB, fsys afero.Fs, name string, data []byte, mtime time.Time) {
	t.Helper()
	if err := fsys.MkdirAll(path.Dir(name), 0o755); err != nil {
		t.Fatalf("creating %s: %v", path.Dir(name), err)
	}
	if err := afero.WriteFile(fsys, name, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	if !mtime.IsZero() {
		if err := fsys.Chtimes(name, mtime, mtime); err != nil {
			t.Fatalf("stamping %s: %v", name, err)
		}
	}
}

// ReadTarGz decodes a gzip-compressed tar from fsys into its headers and
// regular file bodies keyed by name.
func ReadTarGz(t testing.TB, fsys afero.Fs, name string) ([]*tar.Header, map[string]string) {
	t.Helper()
	f, err := fsys.Open(name)
	if err != nil {
		t.Fatalf("opening %s: %v", name, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip header of %s: %v", name, err)
	}
	defer zr.Close()

	var headers []*tar.Header
	bodies := make(map[string]string)
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		headers = append(headers, hdr)
		if hdr.Typeflag == tar.TypeReg {
			b, err := io.ReadAll(tr)
			if err != nil {
				t.Fatalf("reading body %s: %v", hdr.Name, err)
			}
			bodies[hdr.Name] = string(b)
		}
	}
	return headers, bodies
}
