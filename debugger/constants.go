package debugger

// TUI Display Update Constants
const (
	// DisplayUpdateFrequency controls how often the TUI display updates during
	// continuous execution (every N cycles, to keep the display responsive
	// without overwhelming the terminal).
	DisplayUpdateFrequency = 100
)

// Code View Context Constants
const (
	// CodeContextWordsBefore is the default number of words to show before RPC
	// in the full disassembly view.
	CodeContextWordsBefore = 20

	// CodeContextWordsAfter is the default number of words to show after RPC
	// in the full disassembly view.
	CodeContextWordsAfter = 80

	// CodeContextWordsBeforeCompact is the number of words to show before RPC
	// in compact views.
	CodeContextWordsBeforeCompact = 5

	// CodeContextWordsAfterCompact is the number of words to show after RPC
	// in compact views.
	CodeContextWordsAfterCompact = 10
)

// Memory Display Constants
const (
	// MemoryDisplayRows is the number of rows to show in the memory dump view.
	MemoryDisplayRows = 16

	// MemoryDisplayWordsPerRow is the number of 32-bit words per row in the
	// memory dump view.
	MemoryDisplayWordsPerRow = 8
)

// Register Display Constants
const (
	// RegisterViewRows is the fixed height of the register view panel.
	RegisterViewRows = 9

	// RegisterGroupSize is the number of registers displayed per row.
	RegisterGroupSize = 5
)
