package manifest

import (
	"fmt"
	"golang.org/x/text/unicode/norm"
	"strings"
)

// PartFileName returns the file name of part no (1-based).
// The counter has at least 3 digits and grows if needed.
// Example: PartFileName("backup.tar", 1) -> "backup.tar.part001"
func PartFileName(originalFilename string, no int) string {
	return fmt.Sprintf("%s.part%03d", originalFilename, no)
}

// FileName returns the manifest file name for a file (@see Suffix).
// Example: FileName("backup.tar") -> "backup.tar.manifest.json"
func FileName(originalFilename string) string {
	return originalFilename + Suffix
}

// SafeDirName converts any file name into a safe folder name.
// The name is normalized to NFC first, so composed and decomposed unicode
// give the same folder. Then every rune outside a-z, A-Z, 0-9, '.', '_'
// and '-' becomes '_'.
// Example: SafeDirName("my file (1).bin") -> "my_file__1_.bin"
func SafeDirName(name string) string {
	name = norm.NFC.String(name)

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// SplitDirName returns the default output folder name of a split (@see DirSuffix).
// Example: SplitDirName("backup.tar") -> "backup.tar_split"
func SplitDirName(originalFilename string) string {
	return SafeDirName(originalFilename + DirSuffix)
}
