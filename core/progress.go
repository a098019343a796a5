package core

import "io"

// Reporter gets progress events from Split, Join and Verify.
// All calls come synchronous from the working loop: implementations should be
// fast, must not block and must never fail.
type Reporter interface {

	// Start is called once before the work begins.
	// op is "split", "join" or "verify". totalBytes is the number of bytes
	// the operation will process, totalParts the number of part files.
	Start(op string, name string, totalBytes int64, totalParts int)

	// Progress reports n more processed bytes. The sum of all calls reaches
	// totalBytes when the operation runs through.
	Progress(n int64)

	// PartDone is called after a part was fully written (split), checked and
	// appended (join) or checked (verify).
	PartDone(filename string, size int64)
}

// interface check
var _ Reporter = NopReporter{}

// NopReporter is a Reporter that does nothing.
// It is used when the caller passes rep = nil.
type NopReporter struct{}

func (NopReporter) Start(string, string, int64, int) {}
func (NopReporter) Progress(int64)                   {}
func (NopReporter) PartDone(string, int64)           {}

// progressReader wraps a reader and reports all read bytes to a Reporter.
type progressReader struct {
	r   io.Reader
	rep Reporter
}

// Read implements io.Reader.
func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.rep.Progress(int64(n))
	}
	return n, err
}
