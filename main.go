package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/averlieren/bregvm/assembler"
	"github.com/averlieren/bregvm/config"
	"github.com/averlieren/bregvm/debugger"
	"github.com/averlieren/bregvm/loader"
	"github.com/averlieren/bregvm/vm"
)

// Version information, overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")

		asmFile = flag.String("asm", "", "Assemble the given source file")
		outFile = flag.String("out", "", "Assembled image output path (used with -asm, default: <src>.bin)")
		runFile = flag.String("run", "", "Load and run the given assembled image")

		tuiMode = flag.Bool("tui", false, "Attach the TUI debugger instead of free-running")
		guiMode = flag.Bool("gui", false, "Attach the GUI debugger instead of free-running")

		enableTrace = flag.Bool("trace", false, "Enable execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log in the config log dir)")

		maxCycles  = flag.Uint64("max-cycles", 0, "Maximum cycle count before halting (0: use config default)")
		configPath = flag.String("config", "", "Configuration file path (default: platform config dir)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("bregvm %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *asmFile != "":
		runAssemble(*asmFile, *outFile)
		return

	case *runFile != "":
		machine := loadImage(*runFile)
		attachTrace(machine, cfg, *enableTrace, *traceFile)

		if *maxCycles > 0 {
			machine.MaxCycles = *maxCycles
		} else {
			machine.MaxCycles = cfg.Execution.MaxCycles
		}

		// The loaded image is ready to execute, so the debuggers can step
		// or continue it without a reset.
		machine.Running = true

		switch {
		case *tuiMode:
			dbg := debugger.NewDebugger(machine)
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
		case *guiMode:
			dbg := debugger.NewDebugger(machine)
			if err := debugger.RunGUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "GUI error: %v\n", err)
				os.Exit(1)
			}
		default:
			runFree(machine)
		}
		flushTrace(machine)
		os.Exit(0)

	default:
		printHelp()
		os.Exit(0)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func runAssemble(srcPath, outPath string) {
	source, err := os.ReadFile(srcPath) // #nosec G304 -- user-supplied source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source file: %v\n", err)
		os.Exit(1)
	}

	img, err := assembler.Assemble(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assemble error:\n%v\n", err)
		os.Exit(1)
	}

	if outPath == "" {
		outPath = srcPath + ".bin"
	}

	if err := loader.SaveFile(outPath, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Assembled %s -> %s (%d words, load address 0x%06X)\n", srcPath, outPath, len(img.Words), img.LoadAddress)
}

func loadImage(path string) *vm.VM {
	machine := vm.NewVM()
	if err := loader.LoadFileIntoVM(machine, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}
	return machine
}

func attachTrace(machine *vm.VM, cfg *config.Config, enabled bool, path string) {
	if !enabled && !cfg.Execution.EnableTrace {
		return
	}

	if path == "" {
		path = cfg.Execution.TraceFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(config.GetLogPath(), path)
		}
	}

	f, err := vm.OpenTraceFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trace file: %v\n", err)
		os.Exit(1)
	}

	machine.Trace = vm.NewExecutionTrace(f)
}

func flushTrace(machine *vm.VM) {
	if machine.Trace == nil {
		return
	}
	if closer, ok := machine.Trace.Writer.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func runFree(machine *vm.VM) {
	machine.Running = true
	if err := machine.Run(); err != nil {
		if machine.LastFault != nil {
			fmt.Fprintf(os.Stderr, "Runtime fault: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Halted after %d cycles at RPC=0x%06X\n", machine.Cycles, machine.Registers.RPC())
}

func printHelp() {
	fmt.Printf(`bregvm %s

Usage: bregvm -asm <source.asm> [-out image.bin]
       bregvm -run <image.bin> [-tui|-gui] [-trace] [-max-cycles N]

Options:
  -help               Show this help message
  -version            Show version information
  -asm FILE           Assemble FILE and write an image
  -out FILE           Assembled image output path (default: FILE.bin)
  -run FILE           Load and execute an assembled image
  -tui                Attach the TUI debugger
  -gui                Attach the GUI debugger
  -trace              Enable execution trace
  -trace-file FILE    Trace output file (default: config log dir)
  -max-cycles N       Maximum cycle count before halting
  -config FILE        Configuration file path (default: platform config dir)

Examples:
  bregvm -asm hello.asm
  bregvm -run hello.asm.bin
  bregvm -run hello.asm.bin -tui
  bregvm -run hello.asm.bin -trace -max-cycles 500000

Debugger commands (CLI/TUI, 'help' for the full list):
  run, r             Start/restart program execution
  step, s            Execute a single instruction
  break ADDR         Set a breakpoint at an address or label
  info registers     Show all registers
  print EXPR         Evaluate and print an expression
`, Version)
}
