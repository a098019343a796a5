package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Join rebuilds the original file from a manifest.
// The part files are read from the manifest folder, in manifest order. Every
// part is checked against its manifest md5 BEFORE it is appended, so no
// unchecked byte ever reaches the output file. The first bad part stops the
// join (the output file can stay behind incomplete in that case).
// The output file '<OriginalFilename>' is created in outDir and overwrites an
// existing file, but never the manifest itself. An empty outDir means the
// manifest folder.
// blockSize is the copy buffer size (<= 0 uses DefaultBlockSize).
// rep can be nil. debugLvl is DebugOff, DebugLow or DebugHigh.
// Join returns the path of the rebuilt file.
func Join(manifestPath, outDir string, blockSize int64, rep Reporter, debugLvl uint8) (string, error) {
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
		return "", err // logging in sub function
	}

	// resolve folders: parts live next to the manifest
	baseDir := filepath.Dir(manifestPath)
	if outDir == "" {
		outDir = baseDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Printf("ERROR: %s/Join: %v", packageName, err)
		return "", fmt.Errorf("%w: create output folder '%s': %v", ErrIO, outDir, err)
	}
	outPath := filepath.Join(outDir, m.OriginalFilename)

	// the output must never truncate the manifest itself
	if filepath.Clean(outPath) == filepath.Clean(manifestPath) {
		err := fmt.Errorf("%w: output file '%s' is the manifest itself", ErrInvalidArgument, outPath)
		log.Printf("ERROR: %s/Join: %v", packageName, err)
		return "", err
	}

	rep.Start("join", m.OriginalFilename, m.TotalSize(), len(m.Parts))
	if debug {
		log.Printf("DEBUG: %s/Join: '%s': %d parts, %d bytes -> '%s'", packageName, m.OriginalFilename, len(m.Parts), m.TotalSize(), outPath)
	}

	// create the output file (overwrites)
	out, err := os.Create(outPath)
	if err != nil {
		log.Printf("ERROR: %s/Join: %v", packageName, err)
		return "", fmt.Errorf("%w: create output file '%s': %v", ErrIO, outPath, err)
	}
	defer out.Close() // backstop for error paths

	// PART LOOP: check and append in manifest order
	buf := make([]byte, blockSize)
	for _, p := range m.Parts {

		// md5 check first: never append an unchecked part
		if err := checkPart(baseDir, p, nil, buf); err != nil {
			log.Printf("ERROR: %s/Join: %v", packageName, err)
			return "", err
		}

		// append
		if err := appendPart(out, filepath.Join(baseDir, p.Filename), p.Size, rep, buf); err != nil {
			log.Printf("ERROR: %s/Join: %v", packageName, err)
			return "", err
		}
		rep.PartDone(p.Filename, p.Size)
		if debug {
			log.Printf("DEBUG: %s/Join: merged '%s' (%d bytes)", packageName, p.Filename, p.Size)
		}
	}

	// final close flushes the last write
	if err := out.Close(); err != nil {
		log.Printf("ERROR: %s/Join: %v", packageName, err)
		return "", fmt.Errorf("%w: close output file '%s': %v", ErrIO, outPath, err)
	}

	// success
	return outPath, nil
}

// ----------  HELPER  -----------------------------------------------------------------------------------------------//

// appendPart copies one part file to the output writer.
// The byte count on disk must match the manifest size.
func appendPart(out io.Writer, partPath string, size int64, rep Reporter, buf []byte) error {
	// open part
	fh, err := os.Open(partPath)
	if err != nil {
		return fmt.Errorf("%w: open part '%s': %v", ErrIO, partPath, err)
	}
	defer fh.Close()

	// copy
	var r io.Reader = fh
	if rep != nil {
		r = &progressReader{r: fh, rep: rep}
	}
	n, err := io.CopyBuffer(out, r, buf)
	if err != nil {
		return fmt.Errorf("%w: append part '%s': %v", ErrIO, partPath, err)
	}

	// size check: the appended bytes must match the manifest
	if n != size {
		return fmt.Errorf("%w: part '%s' has %d bytes on disk, manifest says %d", ErrIO, partPath, n, size)
	}

	// success
	return nil
}
