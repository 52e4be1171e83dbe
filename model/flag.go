package model

// Flags holds the parsed command line options
type Flags struct {
	// Workflow selectors
	Provision  bool
	Deploy     bool
	Function   bool
	Network    bool
	MoveDevice bool

	// Common flags
	ConfigPath  string
	Region      string
	Profile     string
	Environment string
	DryRun      bool

	// Function deployment overrides
	FunctionName string
	MemorySize   int32
}
