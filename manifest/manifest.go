package manifest

import (
	"fmt"
	"strings"
	"time"
)

// Manifest is the index of a completed split. It lists every part with size
// and md5 and is the only thing the join needs besides the part files.
//   Manifest -> Part
type Manifest struct {

	// OriginalFilename is the base name of the split file (never with a path).
	// The join writes the output file under this name.
	// Example: backup.tar
	OriginalFilename string `json:"original_filename"`

	// TotalParts is the number of parts and is always len(Parts).
	// A zero byte file has 0 parts.
	// Example: 3
	TotalParts int `json:"total_parts"`

	// ChunkSizeBytes is the part size the file was split with.
	// All parts except the last have exactly this size.
	// Example: 1073741824
	ChunkSizeBytes int64 `json:"chunk_size_bytes"`

	// Timestamp notes when the split was made (@see TimeFormat, local time).
	// The value is informational and never used for logic.
	// Example: 2026-08-25 14:03:07
	Timestamp string `json:"timestamp"`

	// Parts lists all parts in file order. This order is authoritative:
	// the join reassembles the parts exactly in list order.
	Parts []Part `json:"parts"`
}

// Part describes a single part file on disk.
type Part struct {

	// Filename is the part file name (never with a path).
	// Part files are always addressed relative to the manifest location.
	// Example: backup.tar.part001
	Filename string `json:"filename"`

	// Size is the part size in bytes.
	// Example: 1073741824
	Size int64 `json:"size"`

	// MD5 is the hex encoded md5 of the part content (32 chars, lowercase).
	// Example: 9e107d9d372bb6826bd81d3542a419d6
	MD5 string `json:"md5"`
}

// --------- build a manifest -----------------------------------------------------

// New returns an empty manifest for the given file.
// The parts are added with AddPart() while splitting.
func New(originalFilename string, chunkSizeBytes int64) *Manifest {
	return &Manifest{
		OriginalFilename: originalFilename,
		TotalParts:       0,
		ChunkSizeBytes:   chunkSizeBytes,
		Timestamp:        time.Now().Format(TimeFormat),
		Parts:            make([]Part, 0),
	}
}

// AddPart appends a part to the list and keeps TotalParts in sync.
func (m *Manifest) AddPart(filename string, size int64, md5 string) {
	m.Parts = append(m.Parts, Part{Filename: filename, Size: size, MD5: md5})
	m.TotalParts = len(m.Parts)
}

// TotalSize returns the sum of all part sizes (= the original file size).
func (m *Manifest) TotalSize() int64 {
	var sum int64
	for _, p := range m.Parts {
		sum += p.Size
	}
	return sum
}

// --------- check a manifest -----------------------------------------------------

// Validate checks the manifest against the format rules.
// All problems return an error that wraps ErrFormat.
func (m *Manifest) Validate() error {

	// head fields
	if !isBaseName(m.OriginalFilename) {
		return fmt.Errorf("%w: bad original_filename '%s'", ErrFormat, m.OriginalFilename)
	}
	if m.ChunkSizeBytes <= 0 {
		return fmt.Errorf("%w: chunk_size_bytes must be positive, got %d", ErrFormat, m.ChunkSizeBytes)
	}
	if m.Timestamp == "" {
		return fmt.Errorf("%w: missing timestamp", ErrFormat)
	}

	// part list
	if m.Parts == nil {
		return fmt.Errorf("%w: missing parts", ErrFormat)
	}
	if m.TotalParts != len(m.Parts) {
		return fmt.Errorf("%w: total_parts is %d but %d parts are listed", ErrFormat, m.TotalParts, len(m.Parts))
	}

	// single parts
	for i, p := range m.Parts {
		if !isBaseName(p.Filename) {
			return fmt.Errorf("%w: part %d: bad filename '%s'", ErrFormat, i+1, p.Filename)
		}
		if p.Filename == m.OriginalFilename {
			// the join writes a file under original_filename: a part with that
			// name would be overwritten by its own reassembly
			return fmt.Errorf("%w: part %d: filename equals original_filename '%s'", ErrFormat, i+1, p.Filename)
		}
		if !isMD5Hex(p.MD5) {
			return fmt.Errorf("%w: part %d: bad md5 '%s'", ErrFormat, i+1, p.MD5)
		}
		if last := i == len(m.Parts)-1; !last {
			// all parts except the last have exactly chunk size
			if p.Size != m.ChunkSizeBytes {
				return fmt.Errorf("%w: part %d: size is %d, chunk size is %d", ErrFormat, i+1, p.Size, m.ChunkSizeBytes)
			}
		} else {
			// the last part is never empty and never bigger than the chunk size
			if p.Size <= 0 || p.Size > m.ChunkSizeBytes {
				return fmt.Errorf("%w: last part: size %d not in 1..%d", ErrFormat, p.Size, m.ChunkSizeBytes)
			}
		}
	}

	// success
	return nil
}

// ----------  HELPER  -----------------------------------------------------------------------------------------------//

// isBaseName checks that name is a plain file name without any path information.
func isBaseName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return true
}

// isMD5Hex checks that s is a 32 char lowercase hex string.
func isMD5Hex(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
