package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// ErrFormat is wrapped by all errors for missing, malformed or inconsistent
// manifest content. Check with errors.Is(err, ErrFormat).
var ErrFormat = errors.New("invalid manifest")

// ToWriter validates a manifest and writes it as indented json.
// The output always ends with a newline.
func ToWriter(m *Manifest, w io.Writer) error {
	// input validation
	if m == nil {
		return fmt.Errorf("%w: manifest is nil", ErrFormat)
	}
	if err := m.Validate(); err != nil {
		return err // never write an invalid manifest
	}

	// encode
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		log.Printf("ERROR: %s/ToWriter: %v", packageName, err)
		return err
	}
	b = append(b, '\n')

	// write
	if _, err := w.Write(b); err != nil {
		log.Printf("ERROR: %s/ToWriter: %v", packageName, err)
		return err
	}

	// success
	return nil
}

// ToFile validates a manifest and writes it to path.
// The data goes to a temp file first and is renamed at the end, so there is
// never a half written manifest under the final name.
func ToFile(m *Manifest, path string) error {
	// temp file in the target folder (rename must not cross devices)
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		log.Printf("ERROR: %s/ToFile: %v", packageName, err)
		return err
	}
	_ = tmp.Chmod(0644) // CreateTemp files are 0600

	// write
	if err := ToWriter(m, tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err // logging in sub function
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		log.Printf("ERROR: %s/ToFile: %v", packageName, err)
		return err
	}

	// replace the target
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		log.Printf("ERROR: %s/ToFile: %v", packageName, err)
		return err
	}

	// success
	return nil
}

// ------------------------------------------------------------------------------------------------------------------ //

// FromFile loads and validates a manifest from a file.
// Open errors are returned unchanged, so the caller can check os.IsNotExist().
func FromFile(path string) (*Manifest, error) {
	// open file
	fh, err := os.Open(path)
	if err != nil {
		log.Printf("ERROR: %s/FromFile: %v", packageName, err)
		return nil, err
	}
	defer fh.Close()

	// read
	return FromReader(fh)
}

// FromReader loads and validates a manifest from a reader.
// The decoder is strict: unknown fields, trailing data or content that breaks
// the format rules return an ErrFormat error.
func FromReader(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	// decode
	m := new(Manifest)
	if err := dec.Decode(m); err != nil {
		err = fmt.Errorf("%w: %v", ErrFormat, err)
		log.Printf("ERROR: %s/FromReader: %v", packageName, err)
		return nil, err
	}

	// no second json document and no garbage after the manifest
	if dec.More() {
		err := fmt.Errorf("%w: trailing data after manifest", ErrFormat)
		log.Printf("ERROR: %s/FromReader: %v", packageName, err)
		return nil, err
	}

	// validate
	if err := m.Validate(); err != nil {
		log.Printf("ERROR: %s/FromReader: %v", packageName, err)
		return nil, err
	}

	// success
	return m, nil
}
