package main

import (
	"fmt"
	"github.com/SchnorcherSepp/filesplit/core"
	"github.com/SchnorcherSepp/filesplit/manifest"
	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/mackerelio/go-osstat/memory"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"time"
)

// version is set by `go build`
var version = "<version>"

// CLI commands (see https://github.com/alecthomas/kong)
var CLI struct {
	Debug int `short:"v" type:"counter" help:"Enable debug mode (-v for DebugLow, -vv for DebugHigh)."`

	Version struct {
	} `cmd:"" help:"Show the program version."`

	Split struct {
		OutDir    string `short:"o" type:"path"  help:"Output folder for parts and manifest (default: folder '<FILE>_split' next to the source file)."`
		ChunkSize string `short:"s"  help:"Size of the parts like '500M', '2G' or plain bytes like '1048576' (default 1G)."`
		BlockSize string `short:"b"  help:"Copy buffer size (default 4M). Bounds the memory use, never the part boundaries."`
		//-----------------
		File string `arg:"" type:"existingfile"  help:"Path to the file to split."`
	} `cmd:"" help:"Split a file into parts and write a manifest file."`

	Join struct {
		OutDir    string `short:"o" type:"path"  help:"Output folder for the joined file (default: the manifest folder)."`
		BlockSize string `short:"b"  help:"Copy buffer size (default 4M)."`
		//-----------------
		Manifest string `arg:"" type:"existingfile"  help:"Path to the manifest file (*.manifest.json)."`
	} `cmd:"" help:"Check all parts and rebuild the original file."`

	Verify struct {
		BlockSize string `short:"b"  help:"Copy buffer size (default 4M)."`
		//-----------------
		Manifest string `arg:"" type:"existingfile"  help:"Path to the manifest file (*.manifest.json)."`
	} `cmd:"" help:"Check all parts against the manifest without writing the original file."`
}

func main() {
	description := "The program splits large files into parts with checksums and rebuilds them later."
	ctx := kong.Parse(&CLI, kong.UsageOnError(), kong.Description(description))
	switch ctx.Selected().Name {

	case "version":
		fmt.Printf("%s %s\n", path.Base(os.Args[0]), version)
		fmt.Printf("%s %s/%s (%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.Compiler)
		break

	case "split":
		debug := uint8(CLI.Debug)
		a := CLI.Split
		runSplit(debug, a.File, a.OutDir, a.ChunkSize, a.BlockSize)
		break

	case "join":
		debug := uint8(CLI.Debug)
		a := CLI.Join
		runJoin(debug, a.Manifest, a.OutDir, a.BlockSize)
		break

	case "verify":
		debug := uint8(CLI.Debug)
		a := CLI.Verify
		runVerify(debug, a.Manifest, a.BlockSize)
		break

	default:
		panic(fmt.Sprintf("command not implemented: '%s'", ctx.Command()))
	}
}

//-##################################################################################################################-//

func runSplit(debugLvl uint8, file, outDir, chunkStr, blockStr string) {

	// parse sizes
	var chunkSize int64 = manifest.DefaultChunkSize
	if chunkStr != "" {
		var err error
		chunkSize, err = core.ParseSize(chunkStr)
		exitOnErr(err)
	}
	blockSize := parseBlockSize(blockStr)
	checkFreeRam(int(blockSize / (1024 * 1024)))

	// SPLIT
	rep := newConsoleReporter(debugLvl)
	m, manifestPath, err := core.Split(file, outDir, chunkSize, blockSize, rep, debugLvl)
	rep.close()
	exitOnErr(err)

	// summary
	fmt.Printf("\nSplit complete!\n")
	fmt.Printf("+ %d parts, %s\n", m.TotalParts, humanize.IBytes(uint64(m.TotalSize())))
	fmt.Printf("Parts and manifest saved in:\n%s\n", filepath.Dir(manifestPath))
}

func runJoin(debugLvl uint8, manifestPath, outDir, blockStr string) {

	// parse sizes
	blockSize := parseBlockSize(blockStr)
	checkFreeRam(int(blockSize / (1024 * 1024)))

	// JOIN
	rep := newConsoleReporter(debugLvl)
	outPath, err := core.Join(manifestPath, outDir, blockSize, rep, debugLvl)
	rep.close()
	exitOnErr(err)

	// summary
	fmt.Printf("\nMerge complete! File saved to:\n%s\n", outPath)
}

func runVerify(debugLvl uint8, manifestPath, blockStr string) {

	// parse sizes
	blockSize := parseBlockSize(blockStr)
	checkFreeRam(int(blockSize / (1024 * 1024)))

	// VERIFY
	rep := newConsoleReporter(debugLvl)
	m, err := core.Verify(manifestPath, blockSize, rep, debugLvl)
	rep.close()
	exitOnErr(err)

	// summary
	fmt.Printf("\nVerify complete! All %d parts of '%s' are OK (%s).\n", m.TotalParts, m.OriginalFilename, humanize.IBytes(uint64(m.TotalSize())))
}

// ----------  HELPER  -----------------------------------------------------------------------------------------------//

// exitOnErr prints the error to stderr and stops the program.
// All problems are fatal (see the error categories in the core package).
func exitOnErr(err error) {
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// parseBlockSize parses the block size flag. Empty means DefaultBlockSize.
func parseBlockSize(s string) int64 {
	if s == "" {
		return core.DefaultBlockSize
	}
	n, err := core.ParseSize(s)
	exitOnErr(err)
	if n <= 0 {
		exitOnErr(fmt.Errorf("block size must be positive, got %d", n))
	}
	return n
}

// checkFreeRam check and print the ram usage.
// The program warns if the block size does not leave enough free memory.
// blockSizeMB + 20% is needed!
func checkFreeRam(blockSizeMB int) {
	// check free ram
	mem, err := memory.Get()
	if err == nil {
		// calc
		totalMB := int(mem.Total / (1024 * 1024))
		usedMB := int(mem.Used / (1024 * 1024))
		freeMB := int(mem.Free / (1024 * 1024))

		// limits
		limit1 := int(float64(blockSizeMB)*1.2 + 200)
		limit2 := blockSizeMB*2 + 200

		if freeMB < limit1 {
			// too small
			fmt.Printf("WARNING: NOT ENOUGH FREE MEMORY!\n")
		} else if freeMB < limit2 {
			// warning
			fmt.Printf("Keep an eye on memory usage!\n")
		} else {
			// OK
			return // print nothing
		}

		// print ram stats
		p := message.NewPrinter(language.German)
		_, _ = p.Printf("+ memory total: %d MB\n", totalMB)
		_, _ = p.Printf("+ memory used: %d MB\n", usedMB)
		_, _ = p.Printf("+ memory free: %d MB\n", freeMB)
		_, _ = p.Printf("+ block size: %d MB\n", blockSizeMB)
		_, _ = p.Printf("+ free memory after buffer: %d MB\n", freeMB-blockSizeMB)
	}
}

//-##################################################################################################################-//

// interface check
var _ core.Reporter = (*consoleReporter)(nil)

// consoleReporter shows the core progress events on the console: an overall
// progress bar on stderr and one notice per finished part on stdout.
// In debug mode the bar is off, it would fight with the log lines.
type consoleReporter struct {
	debug bool
	bar   *progressbar.ProgressBar
	verb  string
}

// newConsoleReporter returns a reporter for one operation.
func newConsoleReporter(debugLvl uint8) *consoleReporter {
	return &consoleReporter{debug: debugLvl >= core.DebugLow}
}

// Start prints the banner and builds the progress bar.
func (c *consoleReporter) Start(op, name string, totalBytes int64, totalParts int) {
	// banner
	barDesc := "Overall progress"
	switch op {
	case "split":
		fmt.Printf("\nSplitting '%s' (%s) into %d parts ...\n\n", name, humanize.IBytes(uint64(totalBytes)), totalParts)
		c.verb = "Wrote"
	case "join":
		fmt.Printf("\nMerging %d parts into '%s' (%s) ...\n\n", totalParts, name, humanize.IBytes(uint64(totalBytes)))
		c.verb = "Merged"
		barDesc = "Merging"
	case "verify":
		fmt.Printf("\nChecking %d parts of '%s' (%s) ...\n\n", totalParts, name, humanize.IBytes(uint64(totalBytes)))
		c.verb = "Verified"
		barDesc = "Checking"
	}

	// bar (not in debug mode, not for zero bytes)
	if !c.debug && totalBytes > 0 {
		c.bar = progressbar.NewOptions64(totalBytes,
			progressbar.OptionSetDescription(barDesc),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(65*time.Millisecond),
		)
	}
}

// Progress moves the bar.
func (c *consoleReporter) Progress(n int64) {
	if c.bar != nil {
		_ = c.bar.Add64(n)
	}
}

// PartDone prints a notice above the bar (like the banner prints, on stdout).
func (c *consoleReporter) PartDone(filename string, size int64) {
	if c.bar != nil {
		_ = c.bar.Clear()
	}
	fmt.Printf("%s %s (%s)\n", c.verb, filename, humanize.IBytes(uint64(size)))
}

// close stops the bar and ends its line. Must be called after the operation,
// on error too.
func (c *consoleReporter) close() {
	if c.bar != nil {
		_ = c.bar.Exit()
		_, _ = fmt.Fprintln(os.Stderr)
	}
}
