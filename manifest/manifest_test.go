package manifest_test

import (
	"errors"
	"github.com/SchnorcherSepp/filesplit/manifest"
	"testing"
	"time"
)

func TestNewAndAddPart(t *testing.T) {
	m := manifest.New("backup.tar", 7)

	// head fields
	if m.OriginalFilename != "backup.tar" || m.ChunkSizeBytes != 7 || m.TotalParts != 0 {
		t.Fatalf("%#v", m)
	}
	if m.Parts == nil || len(m.Parts) != 0 {
		t.Fatal("parts must be empty but not nil")
	}
	if _, err := time.Parse(manifest.TimeFormat, m.Timestamp); err != nil {
		t.Fatal(err)
	}

	// an empty manifest is valid (zero byte source file)
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	// add parts
	m.AddPart("backup.tar.part001", 7, "124bd1296bec0d9d93c7b52a71ad8d5b")
	m.AddPart("backup.tar.part002", 2, "2c9b682412689d6723e3b31653b5774c")
	if m.TotalParts != 2 || len(m.Parts) != 2 {
		t.Fatalf("%#v", m)
	}
	if m.TotalSize() != 9 {
		t.Fatal(m.TotalSize())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	// valid reference manifest
	valid := func() *manifest.Manifest {
		m := manifest.New("backup.tar", 7)
		m.AddPart("backup.tar.part001", 7, "124bd1296bec0d9d93c7b52a71ad8d5b")
		m.AddPart("backup.tar.part002", 2, "2c9b682412689d6723e3b31653b5774c")
		return m
	}
	if err := valid().Validate(); err != nil {
		t.Fatal(err)
	}

	// a single part may fill the whole chunk
	m := manifest.New("backup.tar", 7)
	m.AddPart("backup.tar.part001", 7, "124bd1296bec0d9d93c7b52a71ad8d5b")
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	// empty original filename
	m = valid()
	m.OriginalFilename = ""
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// path in original filename
	m = valid()
	m.OriginalFilename = "foo/backup.tar"
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// chunk size zero or negative
	m = valid()
	m.ChunkSizeBytes = 0
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}
	m = valid()
	m.ChunkSizeBytes = -7
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// missing timestamp
	m = valid()
	m.Timestamp = ""
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// nil part list
	m = valid()
	m.Parts = nil
	m.TotalParts = 0
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// total_parts does not match the list
	m = valid()
	m.TotalParts = 3
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// path in part filename
	m = valid()
	m.Parts[0].Filename = "../backup.tar.part001"
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}
	m = valid()
	m.Parts[0].Filename = `c:\backup.tar.part001`
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// part filename must not be the output name
	m = valid()
	m.Parts[0].Filename = "backup.tar"
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// bad md5: wrong length, uppercase, no hex
	m = valid()
	m.Parts[0].MD5 = "124bd1296bec0d9d93c7b52a71ad8d5"
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}
	m = valid()
	m.Parts[0].MD5 = "124BD1296BEC0D9D93C7B52A71AD8D5B"
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}
	m = valid()
	m.Parts[0].MD5 = "xx4bd1296bec0d9d93c7b52a71ad8d5b"
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// middle part with the wrong size
	m = valid()
	m.Parts[0].Size = 6
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}

	// last part too big or empty
	m = valid()
	m.Parts[1].Size = 8
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}
	m = valid()
	m.Parts[1].Size = 0
	if err := m.Validate(); !errors.Is(err, manifest.ErrFormat) {
		t.Fatal(err)
	}
}
