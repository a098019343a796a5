package manifest_test

import (
	"github.com/SchnorcherSepp/filesplit/manifest"
	"testing"
)

func TestPartFileName(t *testing.T) {
	if s := manifest.PartFileName("backup.tar", 1); s != "backup.tar.part001" {
		t.Fatal(s)
	}
	if s := manifest.PartFileName("backup.tar", 42); s != "backup.tar.part042" {
		t.Fatal(s)
	}
	// the counter grows past 999
	if s := manifest.PartFileName("backup.tar", 1000); s != "backup.tar.part1000" {
		t.Fatal(s)
	}
}

func TestFileName(t *testing.T) {
	if s := manifest.FileName("backup.tar"); s != "backup.tar.manifest.json" {
		t.Fatal(s)
	}
}

func TestSafeDirName(t *testing.T) {
	tests := map[string]string{
		"report.xlsx":     "report.xlsx",
		"my file (1).bin": "my_file__1_.bin",
		"äöü.bin":         "___.bin",
		`a/b\c`:           "a_b_c",
		"":                "",
	}
	for in, su := range tests {
		if is := manifest.SafeDirName(in); is != su {
			t.Errorf("'%s': is=%s, su=%s", in, is, su)
		}
	}

	// the nfc normal form unifies composed and decomposed unicode
	composed := "café.bin"    // é as one rune
	decomposed := "café.bin" // e + combining accent
	if manifest.SafeDirName(composed) != manifest.SafeDirName(decomposed) {
		t.Fatal("nfc fail")
	}
	if s := manifest.SafeDirName(composed); s != "caf_.bin" {
		t.Fatal(s)
	}
}

func TestSplitDirName(t *testing.T) {
	if s := manifest.SplitDirName("backup.tar"); s != "backup.tar_split" {
		t.Fatal(s)
	}
	if s := manifest.SplitDirName("my file.bin"); s != "my_file.bin_split" {
		t.Fatal(s)
	}
}
