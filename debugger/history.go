package debugger

import (
	"sync"
)

// CommandHistory backs the debugger command line's recall behavior: every
// line a user enters at the (bregvm-dbg) prompt or the TUI command field is
// recorded here, and Previous/Next let Up/Down arrow keys walk back through
// it the way a shell history does.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []string
	maxSize  int
	position int // cursor into commands for Previous/Next navigation
}

// NewCommandHistory creates an empty history capped at 1000 entries.
func NewCommandHistory() *CommandHistory {
	return &CommandHistory{
		commands: make([]string, 0, 100),
		maxSize:  1000,
	}
}

// Add records cmd as the most recent command and resets the navigation
// cursor to the end. Blank lines and an immediate repeat of the last
// command are not recorded, so repeatedly pressing enter on "step" doesn't
// fill the history with 50 copies of "step".
func (h *CommandHistory) Add(cmd string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cmd == "" {
		return
	}

	if len(h.commands) > 0 && h.commands[len(h.commands)-1] == cmd {
		h.position = len(h.commands)
		return
	}

	h.commands = append(h.commands, cmd)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}

	h.position = len(h.commands)
}

// Previous moves the navigation cursor one entry back and returns the
// command found there, or "" if already at the oldest entry.
func (h *CommandHistory) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 || h.position == 0 {
		return ""
	}

	h.position--
	return h.commands[h.position]
}

// Next moves the navigation cursor one entry forward. Past the newest
// entry it returns "", matching a shell's behavior of clearing the line
// once you've paged back to the present.
func (h *CommandHistory) Next() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 {
		return ""
	}

	if h.position >= len(h.commands)-1 {
		h.position = len(h.commands)
		return ""
	}

	h.position++
	return h.commands[h.position]
}

// GetLast returns the most recently entered command without touching the
// navigation cursor; ExecuteCommand uses this to repeat the last command
// when the user submits a blank line.
func (h *CommandHistory) GetLast() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.commands) == 0 {
		return ""
	}

	return h.commands[len(h.commands)-1]
}

// GetAll returns every recorded command, oldest first, for the "history"
// debugger command.
func (h *CommandHistory) GetAll() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, len(h.commands))
	copy(result, h.commands)
	return result
}

// Search returns every recorded command sharing prefix, preserving order.
// Used by "history <prefix>" to find past breakpoint/watch invocations
// without scrolling the whole log.
func (h *CommandHistory) Search(prefix string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var results []string
	for _, cmd := range h.commands {
		if len(cmd) >= len(prefix) && cmd[:len(prefix)] == prefix {
			results = append(results, cmd)
		}
	}

	return results
}

// Clear empties the history and resets the navigation cursor.
func (h *CommandHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = h.commands[:0]
	h.position = 0
}

// Size reports how many commands are currently recorded.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.commands)
}
