package config

// Config holds the application configuration. It is built once from command
// line flags and threaded explicitly into each component; nothing reads
// ambient global state.
type Config struct {
	// Input/output settings
	OutputFile string
	Format     string // json, table or compact
	Quiet      bool
	Color      bool
	Summary    bool

	// Processing settings
	Recursive     bool
	Extensions    []string
	IncludeHidden bool
	ExtractText   bool
	ComputeHash   bool

	// External tool settings
	UseExifTool   bool
	ForceExifTool bool

	// Diagnostics
	Verbose bool
	Debug   bool
}
