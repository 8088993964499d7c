package assembler

// BinaryIncludeExcision describes a file range that a binary include directive
// references. The caller has to write the range to the file at Path.
type BinaryIncludeExcision struct {
	Offset int
	Length int
	Path   string
}

// GenerationResult is the result of a source generation pass.
type GenerationResult struct {
	Files     []string // output file paths, the first one is passed to the assembler
	Note      string   // optional note to display to the user
	Excisions []BinaryIncludeExcision
}

// InvocationResult is the result of an external assembler invocation.
type InvocationResult struct {
	CommandLine string
	ExitCode    int
	Stdout      string
	Stderr      string
	OutputFile  string // expected path of the assembled binary
}
