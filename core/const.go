package core

// packageName is used for debug and error messages
const packageName = "core"

// DefaultBlockSize is the copy buffer size of all read and write loops.
// It bounds the memory use of an operation and never changes part boundaries
// or checksums.
const DefaultBlockSize = 4 * 1024 * 1024 // 4194304 Byte (4 MiB)

// Debug levels for the debugLvl parameters.
const (
	DebugOff  uint8 = 0
	DebugLow  uint8 = 1
	DebugHigh uint8 = 2
)
