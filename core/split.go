package core

import (
	"crypto/md5"
	"fmt"
	"github.com/SchnorcherSepp/filesplit/manifest"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Split cuts a file into parts of chunkSize bytes (only the last part can be
// smaller) and writes the part files plus a manifest file into outDir.
// An empty outDir means a folder '<name>_split' next to the source file
// (@see manifest.SplitDirName). The manifest is written at the very end:
// a folder with a readable manifest always holds a complete split.
// blockSize is the copy buffer size (<= 0 uses DefaultBlockSize); it bounds
// the memory use and never changes the part content.
// rep can be nil. debugLvl is DebugOff, DebugLow or DebugHigh.
// Split returns the manifest and the manifest file path.
func Split(srcPath, outDir string, chunkSize, blockSize int64, rep Reporter, debugLvl uint8) (*manifest.Manifest, string, error) {
	// debug (0=off, 1=debug, 2=high)
	debug := debugLvl >= DebugLow

	// input defaults
	if rep == nil {
		rep = NopReporter{}
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	// check the chunk size before any io (no default here: the caller must decide)
	if chunkSize <= 0 {
		err := fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidArgument, chunkSize)
		log.Printf("ERROR: %s/Split: %v", packageName, err)
		return nil, "", err
	}

	// get source basics
	srcSize, err := getFileSize(srcPath)
	if err != nil {
		log.Printf("ERROR: %s/Split: %v", packageName, err)
		return nil, "", err
	}
	srcName := filepath.Base(srcPath)

	// resolve the output folder
	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(srcPath), manifest.SplitDirName(srcName))
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Printf("ERROR: %s/Split: %v", packageName, err)
		return nil, "", fmt.Errorf("%w: create output folder '%s': %v", ErrIO, outDir, err)
	}

	// open source
	fh, err := os.Open(srcPath)
	if err != nil {
		log.Printf("ERROR: %s/Split: %v", packageName, err)
		return nil, "", fmt.Errorf("%w: open source '%s': %v", ErrIO, srcPath, err)
	}
	defer fh.Close()

	// part count is ceil(srcSize / chunkSize); a zero byte file has no parts
	// (no sum in the ceil: srcSize + chunkSize can exceed the int64 range)
	totalParts := int(srcSize / chunkSize)
	if srcSize%chunkSize != 0 {
		totalParts++
	}

	rep.Start("split", srcName, srcSize, totalParts)
	if debug {
		log.Printf("DEBUG: %s/Split: '%s': %d bytes into %d parts (chunk=%d, block=%d)", packageName, srcName, srcSize, totalParts, chunkSize, blockSize)
	}

	// PART LOOP
	m := manifest.New(srcName, chunkSize)
	src := &progressReader{r: fh, rep: rep}
	buf := make([]byte, blockSize)

	for no := 1; no <= totalParts; no++ {

		// size of this part (the last part takes the rest)
		partSize := chunkSize
		if rest := srcSize - int64(no-1)*chunkSize; rest < partSize {
			partSize = rest
		}

		// write the part file and hash it in one pass
		partName := manifest.PartFileName(srcName, no)
		md5sum, err := writePart(filepath.Join(outDir, partName), src, partSize, buf)
		if err != nil {
			log.Printf("ERROR: %s/Split: part %d: %v", packageName, no, err)
			return nil, "", err
		}

		// add the part to the manifest
		m.AddPart(partName, partSize, md5sum)
		rep.PartDone(partName, partSize)
		if debug {
			log.Printf("DEBUG: %s/Split: wrote '%s' (%d bytes, md5=%s)", packageName, partName, partSize, md5sum)
		}
	}

	// write the manifest at the very end: only a complete split has one
	manifestPath := filepath.Join(outDir, manifest.FileName(srcName))
	if err := manifest.ToFile(m, manifestPath); err != nil {
		return nil, "", fmt.Errorf("%w: write manifest '%s': %v", ErrIO, manifestPath, err) // logging in sub function
	}

	// success
	return m, manifestPath, nil
}

// ----------  HELPER  -----------------------------------------------------------------------------------------------//

// getFileSize reads the source file size and rejects folders.
func getFileSize(srcPath string) (int64, error) {
	st, err := os.Stat(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: source file '%s'", ErrNotFound, srcPath)
		}
		return 0, fmt.Errorf("%w: stat source '%s': %v", ErrIO, srcPath, err)
	}
	if st.IsDir() {
		return 0, fmt.Errorf("%w: source '%s' is a folder", ErrInvalidArgument, srcPath)
	}
	return st.Size(), nil
}

// writePart copies exactly partSize bytes from src to a new part file and
// returns the md5 of the written bytes. The digest is calculated while
// writing, in one pass over the data.
func writePart(partPath string, src io.Reader, partSize int64, buf []byte) (string, error) {
	// create the part file
	out, err := os.Create(partPath)
	if err != nil {
		return "", fmt.Errorf("%w: create part '%s': %v", ErrIO, partPath, err)
	}

	// copy and hash in one pass
	hh := md5.New()
	n, err := io.CopyBuffer(io.MultiWriter(out, hh), io.LimitReader(src, partSize), buf)
	if err != nil {
		_ = out.Close()
		return "", fmt.Errorf("%w: write part '%s': %v", ErrIO, partPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: close part '%s': %v", ErrIO, partPath, err)
	}

	// the source must deliver the full part (file shrunk while reading?)
	if n != partSize {
		return "", fmt.Errorf("%w: short read: part '%s' got %d of %d bytes", ErrIO, partPath, n, partSize)
	}

	// success
	return fmt.Sprintf("%x", hh.Sum(nil)), nil
}
