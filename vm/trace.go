package vm

import (
	"fmt"
	"io"
	"os"
)

// TraceEntry is one recorded instruction execution.
type TraceEntry struct {
	Sequence uint64
	RPC      uint32
	Word     uint32
}

// ExecutionTrace collects and optionally streams a record of every
// instruction the VM executes. There is no flags register to report here:
// unlike a CPSR-bearing ISA, this machine's only visible per-step state is
// RPC and the fetched word.
type ExecutionTrace struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries []TraceEntry
}

// NewExecutionTrace creates a trace that optionally streams each entry to
// writer as it is recorded; writer may be nil to only buffer in memory.
func NewExecutionTrace(writer io.Writer) *ExecutionTrace {
	return &ExecutionTrace{
		Enabled:    true,
		Writer:     writer,
		MaxEntries: 1_000_000,
		entries:    make([]TraceEntry, 0, 1024),
	}
}

// Record appends one trace entry and, if a writer is attached, streams it
// immediately rather than waiting for Flush.
func (t *ExecutionTrace) Record(sequence uint64, rpc, word uint32) {
	if !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}

	entry := TraceEntry{Sequence: sequence, RPC: rpc, Word: word}
	t.entries = append(t.entries, entry)

	if t.Writer != nil {
		_, _ = fmt.Fprintf(t.Writer, "[%08d] 0x%06X: 0x%08X\n", entry.Sequence, entry.RPC, entry.Word)
	}
}

// Entries returns every entry recorded so far.
func (t *ExecutionTrace) Entries() []TraceEntry {
	return t.entries
}

// Clear discards all recorded entries.
func (t *ExecutionTrace) Clear() {
	t.entries = t.entries[:0]
}

// OpenTraceFile opens a file for trace output, truncating any existing content.
func OpenTraceFile(path string) (*os.File, error) {
	return os.Create(path) // #nosec G304 -- path comes from a user-supplied -trace flag
}
