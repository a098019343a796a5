package manifest

// packageName is used for debug and error messages
const packageName = "manifest"

// DefaultChunkSize defines the size of the parts into which a file is split,
// if the user does not set a size. All parts except the last have this size.
const DefaultChunkSize = 1024 * 1024 * 1024 // 1073741824 Byte (1 GiB)

// Suffix is appended to the original filename to form the manifest filename.
// Example: backup.tar -> backup.tar.manifest.json
const Suffix = ".manifest.json"

// DirSuffix is appended to the original filename to form the default output
// folder of a split (@see SplitDirName).
const DirSuffix = "_split"

// TimeFormat is the layout of the Timestamp field.
const TimeFormat = "2006-01-02 15:04:05"
