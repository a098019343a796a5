package core_test

import (
	"errors"
	"github.com/SchnorcherSepp/filesplit/core"
	"github.com/SchnorcherSepp/filesplit/manifest"
	"os"
	"path/filepath"
	"testing"
)

func TestVerify_ok(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "demo.bin")
	writeTestFile(t, src, 10000)
	outDir := filepath.Join(dir, "parts")

	_, manifestPath, err := core.Split(src, outDir, 4096, 0, nil, core.DebugOff)
	if err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}

	// VERIFY with reporter: the hashing is the work, so progress counts it
	rep := new(recordReporter)
	m, err := core.Verify(manifestPath, 0, rep, core.DebugOff)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.TotalParts != 3 || m.OriginalFilename != "demo.bin" {
		t.Fatalf("%#v", m)
	}
	if rep.op != "verify" || rep.totalBytes != 10000 || rep.progress != 10000 || len(rep.parts) != 3 {
		t.Fatalf("%#v", rep)
	}

	// verify never writes or removes anything
	after, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != len(after) {
		t.Fatalf("%v != %v", before, after)
	}
}

func TestVerify_corruptPart(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "demo.bin")
	writeTestFile(t, src, 10000)
	outDir := filepath.Join(dir, "parts")

	_, manifestPath, err := core.Split(src, outDir, 4096, 0, nil, core.DebugOff)
	if err != nil {
		t.Fatal(err)
	}

	// flip one byte in the middle part
	p2 := filepath.Join(outDir, "demo.bin.part002")
	b, err := os.ReadFile(p2)
	if err != nil {
		t.Fatal(err)
	}
	b[100] ^= 0xff
	if err := os.WriteFile(p2, b, 0666); err != nil {
		t.Fatal(err)
	}

	// VERIFY finds it
	if _, err := core.Verify(manifestPath, 0, nil, core.DebugOff); !errors.Is(err, core.ErrChecksumMismatch) {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestVerify_missingPart(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "demo.bin")
	writeTestFile(t, src, 10000)
	outDir := filepath.Join(dir, "parts")

	_, manifestPath, err := core.Split(src, outDir, 4096, 0, nil, core.DebugOff)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(outDir, "demo.bin.part001")); err != nil {
		t.Fatal(err)
	}

	// VERIFY finds it
	if _, err := core.Verify(manifestPath, 0, nil, core.DebugOff); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestVerify_manifestProblems(t *testing.T) {
	dir := t.TempDir()

	// manifest file missing
	if _, err := core.Verify(filepath.Join(dir, "nope.manifest.json"), 0, nil, core.DebugOff); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("wrong error: %v", err)
	}

	// manifest file with garbage
	bad := filepath.Join(dir, "bad.manifest.json")
	if err := os.WriteFile(bad, []byte(`{"original_filename":""}`), 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := core.Verify(bad, 0, nil, core.DebugOff); !errors.Is(err, manifest.ErrFormat) {
		t.Fatalf("wrong error: %v", err)
	}
}
