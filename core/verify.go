package core

import (
	"crypto/md5"
	"errors"
	"fmt"
	"github.com/SchnorcherSepp/filesplit/manifest"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Verify checks all parts of a manifest without writing anything: every part
// file must exist next to the manifest and its md5 must match the manifest.
// The first problem stops the check. Parts and manifest are never changed.
// blockSize is the read buffer size (<= 0 uses DefaultBlockSize).
// rep can be nil. debugLvl is DebugOff, DebugLow or DebugHigh.
// Verify returns the loaded manifest.
func Verify(manifestPath string, blockSize int64, rep Reporter, debugLvl uint8) (*manifest.Manifest, error) {
	// debug (0=off, 1=debug, 2=high)
	debug := debugLvl >= DebugLow

	// input defaults
	if rep == nil {
		rep = NopReporter{}
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	// load manifest
	m, err := loadManifest(manifestPath)
	if err != nil {
		return nil, err // logging in sub function
	}

	baseDir := filepath.Dir(manifestPath)
	rep.Start("verify", m.OriginalFilename, m.TotalSize(), len(m.Parts))
	if debug {
		log.Printf("DEBUG: %s/Verify: '%s': %d parts, %d bytes", packageName, m.OriginalFilename, len(m.Parts), m.TotalSize())
	}

	// PART LOOP: hash and compare
	buf := make([]byte, blockSize)
	for _, p := range m.Parts {
		if err := checkPart(baseDir, p, rep, buf); err != nil {
			log.Printf("ERROR: %s/Verify: %v", packageName, err)
			return nil, err
		}
		rep.PartDone(p.Filename, p.Size)
		if debug {
			log.Printf("DEBUG: %s/Verify: part '%s' OK (%d bytes, md5=%s)", packageName, p.Filename, p.Size, p.MD5)
		}
	}

	// success
	return m, nil
}

// ----------  HELPER  -----------------------------------------------------------------------------------------------//

// loadManifest loads a manifest file and maps load problems to the error
// categories: a missing file is ErrNotFound, broken content keeps its
// manifest.ErrFormat and everything else is ErrIO.
func loadManifest(manifestPath string) (*manifest.Manifest, error) {
	m, err := manifest.FromFile(manifestPath)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("%w: manifest '%s'", ErrNotFound, manifestPath)
		case errors.Is(err, manifest.ErrFormat):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: read manifest '%s': %v", ErrIO, manifestPath, err)
		}
	}
	return m, nil
}

// checkPart hashes one part file and compares the md5 with the manifest.
// rep (can be nil) gets the read progress.
func checkPart(baseDir string, p manifest.Part, rep Reporter, buf []byte) error {
	partPath := filepath.Join(baseDir, p.Filename)

	// hash the full on-disk content
	md5sum, err := fileMD5(partPath, rep, buf)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: missing part '%s'", ErrNotFound, p.Filename)
		}
		return fmt.Errorf("%w: read part '%s': %v", ErrIO, p.Filename, err)
	}

	// compare
	if md5sum != p.MD5 {
		return fmt.Errorf("%w in '%s': expected %s, got %s", ErrChecksumMismatch, p.Filename, p.MD5, md5sum)
	}

	// success
	return nil
}

// fileMD5 calculates the lowercase hex md5 over the whole file content.
// rep (can be nil) gets the read progress.
func fileMD5(path string, rep Reporter, buf []byte) (string, error) {
	// open file
	fh, err := os.Open(path)
	if err != nil {
		return "", err // os error: the caller maps the category
	}
	defer fh.Close()

	// build reader
	var r io.Reader = fh
	if rep != nil {
		r = &progressReader{r: fh, rep: rep}
	}

	// hashing
	hh := md5.New()
	if _, err := io.CopyBuffer(hh, r, buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hh.Sum(nil)), nil
}
