package debugger

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/averlieren/bregvm/encoding"
	"github.com/averlieren/bregvm/vm"
)

// GUI represents the graphical user interface for the debugger
type GUI struct {
	// Core components
	Debugger *Debugger
	App      fyne.App
	Window   fyne.Window

	// View panels
	SourceView      *widget.TextGrid
	RegisterView    *widget.TextGrid
	MemoryView      *widget.TextGrid
	TraceView       *widget.TextGrid
	BreakpointsList *widget.List
	ConsoleOutput   *widget.TextGrid
	StatusLabel     *widget.Label

	// Controls
	Toolbar *widget.Toolbar

	// State
	CurrentAddress uint32
	MemoryAddress  uint32
	Running        bool

	// Source code cache
	SourceLines []string
	SourceFile  string

	// Breakpoints data
	breakpoints []string

	// Console output buffer
	consoleBuffer strings.Builder
	consoleMutex  sync.Mutex
}

// guiHost redirects VM I/O to the GUI console. Input is not wired to any
// on-screen widget yet, so ReadCodePoint always reports end-of-input.
type guiHost struct {
	gui *GUI
}

// ReadCodePoint implements vm.Host.
func (h *guiHost) ReadCodePoint() (int32, error) {
	return -1, nil
}

// WriteCodeUnit implements vm.Host.
func (h *guiHost) WriteCodeUnit(unit uint16) error {
	h.gui.consoleMutex.Lock()
	h.gui.consoleBuffer.WriteRune(rune(unit))
	h.gui.consoleMutex.Unlock()
	h.gui.updateConsole()
	return nil
}

// WriteString implements vm.Host.
func (h *guiHost) WriteString(s string) error {
	h.gui.consoleMutex.Lock()
	h.gui.consoleBuffer.WriteString(s)
	h.gui.consoleMutex.Unlock()
	h.gui.updateConsole()
	return nil
}

// ReadFile implements vm.Host by falling back to the standard host, so
// FLX/ILX still work when driven from the GUI.
func (h *guiHost) ReadFile(path string) ([]byte, error) {
	return vm.NewStdHost().ReadFile(path)
}

// RunGUI runs the GUI (Graphical User Interface) debugger
func RunGUI(dbg *Debugger) error {
	gui := newGUI(dbg)
	gui.Window.ShowAndRun()
	return nil
}

// newGUI creates a new graphical user interface
func newGUI(debugger *Debugger) *GUI {
	myApp := app.New()
	myWindow := myApp.NewWindow("bregvm Debugger")

	gui := &GUI{
		Debugger:       debugger,
		App:            myApp,
		Window:         myWindow,
		CurrentAddress: 0,
		MemoryAddress:  0,
		Running:        false,
		breakpoints:    []string{},
	}

	gui.initializeViews()
	gui.buildLayout()
	gui.setupToolbar()

	// Redirect VM output to the GUI console.
	debugger.VM.Host = &guiHost{gui: gui}

	// Set window size
	myWindow.Resize(fyne.NewSize(1400, 900))

	return gui
}

// initializeViews creates all the view panels
func (g *GUI) initializeViews() {
	// Source view
	g.SourceView = widget.NewTextGrid()
	g.SourceView.SetText("No source file loaded")

	// Register view
	g.RegisterView = widget.NewTextGrid()
	g.updateRegisters()

	// Memory view
	g.MemoryView = widget.NewTextGrid()
	g.updateMemory()

	// Trace view
	g.TraceView = widget.NewTextGrid()
	g.updateTrace()

	// Breakpoints list
	g.breakpoints = []string{}
	g.BreakpointsList = widget.NewList(
		func() int {
			return len(g.breakpoints)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(g.breakpoints[id])
		},
	)

	// Console output
	g.ConsoleOutput = widget.NewTextGrid()
	g.ConsoleOutput.SetText("")

	// Status label
	g.StatusLabel = widget.NewLabel("Ready")
}

// buildLayout creates the main layout
func (g *GUI) buildLayout() {
	// Create bordered panels for better visual separation
	sourcePanel := container.NewBorder(
		widget.NewLabel("Source"),
		nil, nil, nil,
		container.NewScroll(g.SourceView),
	)

	registerPanel := container.NewBorder(
		widget.NewLabel("Registers"),
		nil, nil, nil,
		container.NewScroll(g.RegisterView),
	)

	memoryPanel := container.NewBorder(
		widget.NewLabel("Memory"),
		nil, nil, nil,
		container.NewScroll(g.MemoryView),
	)

	tracePanel := container.NewBorder(
		widget.NewLabel("Instruction Trace"),
		nil, nil, nil,
		container.NewScroll(g.TraceView),
	)

	breakpointsPanel := container.NewBorder(
		widget.NewLabel("Breakpoints"),
		nil, nil, nil,
		container.NewScroll(g.BreakpointsList),
	)

	consolePanel := container.NewBorder(
		widget.NewLabel("Console Output"),
		nil, nil, nil,
		container.NewScroll(g.ConsoleOutput),
	)

	// Left side: source code (larger)
	leftPanel := container.NewMax(sourcePanel)

	// Right side: registers and breakpoints
	rightTop := container.NewVSplit(registerPanel, breakpointsPanel)
	rightTop.SetOffset(0.6) // 60% registers, 40% breakpoints

	// Bottom right: memory, trace, console
	bottomTabs := container.NewAppTabs(
		container.NewTabItem("Memory", memoryPanel),
		container.NewTabItem("Trace", tracePanel),
		container.NewTabItem("Console", consolePanel),
	)

	rightPanel := container.NewVSplit(rightTop, bottomTabs)
	rightPanel.SetOffset(0.5)

	// Main split: left (source) and right (info panels)
	mainSplit := container.NewHSplit(leftPanel, rightPanel)
	mainSplit.SetOffset(0.55) // 55% source, 45% info

	// Add status bar at bottom
	statusBar := container.NewBorder(nil, nil, nil, nil, g.StatusLabel)

	// Complete layout with toolbar at top
	content := container.NewBorder(
		g.Toolbar, // top
		statusBar, // bottom
		nil,       // left
		nil,       // right
		mainSplit, // center
	)

	g.Window.SetContent(content)
}

// setupToolbar creates the debugger control toolbar
func (g *GUI) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() {
			g.runProgram()
		}),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), func() {
			g.stepProgram()
		}),
		widget.NewToolbarAction(theme.MediaFastForwardIcon(), func() {
			g.continueProgram()
		}),
		widget.NewToolbarAction(theme.MediaStopIcon(), func() {
			g.stopProgram()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), func() {
			g.addBreakpoint()
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			g.clearBreakpoints()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			g.refreshViews()
		}),
	)
}

// updateViews refreshes all view panels
func (g *GUI) updateViews() {
	g.updateSource()
	g.updateRegisters()
	g.updateMemory()
	g.updateTrace()
	g.updateBreakpoints()
	g.updateConsole()
}

// updateSource updates the source code view
func (g *GUI) updateSource() {
	currentRPC := g.Debugger.VM.Registers.RPC()

	if len(g.SourceLines) > 0 {
		var sb strings.Builder

		currentSourceLine := ""
		if g.Debugger.SourceMap != nil {
			if line, ok := g.Debugger.SourceMap[currentRPC]; ok {
				currentSourceLine = line
			}
		}

		for i, line := range g.SourceLines {
			prefix := "  "
			if line == currentSourceLine {
				prefix = "> "
			}
			sb.WriteString(fmt.Sprintf("%s%4d: %s\n", prefix, i+1, line))
		}
		g.SourceView.SetText(sb.String())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Current RPC: 0x%06X\n\n", currentRPC))
	if source, ok := g.Debugger.SourceMap[currentRPC]; ok {
		sb.WriteString(fmt.Sprintf("> %s\n", source))
	} else {
		sb.WriteString("No source mapping available\n")
	}
	g.SourceView.SetText(sb.String())
}

// updateRegisters updates the register view
func (g *GUI) updateRegisters() {
	var sb strings.Builder

	regs := g.Debugger.VM.Registers

	sb.WriteString("General Purpose Registers:\n")
	sb.WriteString("---------------------------\n")
	for i := uint32(0); i < encoding.LNK; i++ {
		v := regs.Get(i)
		sb.WriteString(fmt.Sprintf("R%-2d: 0x%08X  (%d)\n", i, v, int32(v)))
	}

	sb.WriteString("\nSpecial Registers:\n")
	sb.WriteString("---------------------------\n")
	sb.WriteString(fmt.Sprintf("LNK: 0x%08X  (%d)\n", regs.LNK(), int32(regs.LNK())))
	sb.WriteString(fmt.Sprintf("RMD: 0x%08X  (%d)\n", regs.RMD(), int32(regs.RMD())))
	sb.WriteString(fmt.Sprintf("RPC: 0x%06X\n", regs.RPC()))

	g.RegisterView.SetText(sb.String())
}

// updateMemory updates the memory view
func (g *GUI) updateMemory() {
	var sb strings.Builder

	addr := g.MemoryAddress
	if addr == 0 {
		addr = g.Debugger.VM.Registers.RPC()
	}

	// Round down to an 8-word boundary
	addr &^= uint32(MemoryDisplayWordsPerRow - 1)

	sb.WriteString(fmt.Sprintf("Memory at 0x%06X:\n", addr))
	sb.WriteString("-----------------------------------------------------\n")

	for row := uint32(0); row < MemoryDisplayRows; row++ {
		lineAddr := addr + row*MemoryDisplayWordsPerRow
		sb.WriteString(fmt.Sprintf("%06X: ", lineAddr))

		for col := uint32(0); col < MemoryDisplayWordsPerRow; col++ {
			word, err := g.Debugger.VM.Memory.Read(lineAddr + col)
			if err == nil {
				sb.WriteString(fmt.Sprintf("%08X ", word))
			} else {
				sb.WriteString("???????? ")
			}
		}
		sb.WriteString("\n")
	}

	g.MemoryView.SetText(sb.String())
}

// updateTrace updates the instruction trace view
func (g *GUI) updateTrace() {
	var sb strings.Builder

	log := g.Debugger.VM.InstructionLog
	sb.WriteString("Recent Instruction Fetches:\n")
	sb.WriteString("---------------------------\n")

	start := 0
	const maxEntries = 32
	if len(log) > maxEntries {
		start = len(log) - maxEntries
	}

	for i := start; i < len(log); i++ {
		addr := log[i]
		word, err := g.Debugger.VM.Memory.Read(addr)
		prefix := "  "
		if i == len(log)-1 {
			prefix = "> "
		}
		if err == nil {
			sb.WriteString(fmt.Sprintf("%s%06X: %08X\n", prefix, addr, word))
		} else {
			sb.WriteString(fmt.Sprintf("%s%06X: ????????\n", prefix, addr))
		}
	}

	sb.WriteString(fmt.Sprintf("\nLNK: 0x%08X  Cycles: %d\n", g.Debugger.VM.Registers.LNK(), g.Debugger.VM.Cycles))

	g.TraceView.SetText(sb.String())
}

// updateBreakpoints updates the breakpoints list
func (g *GUI) updateBreakpoints() {
	breakpoints := g.Debugger.Breakpoints.GetAllBreakpoints()
	g.breakpoints = make([]string, 0, len(breakpoints))

	for _, bp := range breakpoints {
		// Try to resolve symbol name
		symbol := ""
		if g.Debugger.Symbols != nil {
			for name, addr := range g.Debugger.Symbols {
				if addr == bp.Address {
					symbol = fmt.Sprintf(" [%s]", name)
					break
				}
			}
		}

		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}

		g.breakpoints = append(g.breakpoints, fmt.Sprintf("0x%06X%s (%s)", bp.Address, symbol, status))
	}

	g.BreakpointsList.Refresh()
}

// updateConsole updates the console output view
func (g *GUI) updateConsole() {
	g.consoleMutex.Lock()
	defer g.consoleMutex.Unlock()

	g.ConsoleOutput.SetText(g.consoleBuffer.String())
}

// runProgram starts/restarts program execution
func (g *GUI) runProgram() {
	g.StatusLabel.SetText("Running...")
	g.Debugger.VM.Running = true

	// Execute program in goroutine to keep UI responsive
	go func() {
		for g.Debugger.VM.Running {
			if err := g.Debugger.VM.Step(); err != nil {
				g.StatusLabel.SetText(fmt.Sprintf("Error: %v", err))
				g.updateViews()
				return
			}

			if !g.Debugger.VM.Running {
				g.StatusLabel.SetText(fmt.Sprintf("Program halted at RPC=0x%06X", g.Debugger.VM.Registers.RPC()))
				g.updateViews()
				return
			}

			if shouldBreak, reason := g.Debugger.ShouldBreak(); shouldBreak {
				g.StatusLabel.SetText(fmt.Sprintf("Stopped: %s at RPC=0x%06X", reason, g.Debugger.VM.Registers.RPC()))
				g.Debugger.VM.Running = false
				g.updateViews()
				return
			}
		}
	}()
}

// stepProgram executes one instruction
func (g *GUI) stepProgram() {
	if !g.Debugger.VM.Running {
		g.StatusLabel.SetText("Program has halted")
		return
	}

	if err := g.Debugger.VM.Step(); err != nil {
		g.StatusLabel.SetText(fmt.Sprintf("Error: %v", err))
		g.updateViews()
		return
	}

	if !g.Debugger.VM.Running {
		g.StatusLabel.SetText(fmt.Sprintf("Program halted at RPC=0x%06X", g.Debugger.VM.Registers.RPC()))
	} else {
		g.StatusLabel.SetText(fmt.Sprintf("Stepped to RPC=0x%06X", g.Debugger.VM.Registers.RPC()))
	}

	g.updateViews()
}

// continueProgram continues execution until breakpoint
func (g *GUI) continueProgram() {
	g.runProgram()
}

// stopProgram stops execution
func (g *GUI) stopProgram() {
	g.Debugger.VM.Running = false
	g.StatusLabel.SetText("Stopped")
	g.updateViews()
}

// addBreakpoint adds a breakpoint at current RPC
func (g *GUI) addBreakpoint() {
	rpc := g.Debugger.VM.Registers.RPC()
	g.Debugger.Breakpoints.AddBreakpoint(rpc, false, "")
	g.updateBreakpoints()
	g.StatusLabel.SetText(fmt.Sprintf("Breakpoint added at 0x%06X", rpc))
}

// clearBreakpoints removes all breakpoints
func (g *GUI) clearBreakpoints() {
	g.Debugger.Breakpoints.Clear()
	g.updateBreakpoints()
	g.StatusLabel.SetText("All breakpoints cleared")
}

// refreshViews manually refreshes all views
func (g *GUI) refreshViews() {
	g.updateViews()
	g.StatusLabel.SetText("Views refreshed")
}
