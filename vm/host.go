package vm

import (
	"bufio"
	"io"
	"os"
)

// Host is the VM's only boundary to the outside world: the system calls
// INP/OUT/PNT read and write through it, and FLX/ILX read files through it.
// Tests and the TUI/GUI debugger inject their own Host so program I/O can
// be captured or redirected.
type Host interface {
	// ReadCodePoint returns the next UTF-16 code-unit value from input, or
	// -1 at end-of-input.
	ReadCodePoint() (int32, error)
	// WriteCodeUnit writes one UTF-16 code unit to output.
	WriteCodeUnit(unit uint16) error
	// WriteString writes a decoded host string to output (used by PNT).
	WriteString(s string) error
	// ReadFile returns the raw bytes of the host file at path.
	ReadFile(path string) ([]byte, error)
}

// StdHost is the default Host: stdin/stdout plus direct filesystem access.
type StdHost struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdHost creates a Host backed by os.Stdin and os.Stdout.
func NewStdHost() *StdHost {
	return &StdHost{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewStdHostWithIO creates a Host backed by the given reader/writer, for
// redirection under test or inside the TUI/GUI debugger.
func NewStdHostWithIO(in io.Reader, out io.Writer) *StdHost {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &StdHost{in: br, out: out}
}

// ReadCodePoint implements Host.
func (h *StdHost) ReadCodePoint() (int32, error) {
	r, _, err := h.in.ReadRune()
	if err != nil {
		return -1, nil
	}
	return int32(r), nil
}

// WriteCodeUnit implements Host.
func (h *StdHost) WriteCodeUnit(unit uint16) error {
	_, err := h.out.Write([]byte(string(rune(unit))))
	return err
}

// WriteString implements Host.
func (h *StdHost) WriteString(s string) error {
	_, err := io.WriteString(h.out, s)
	return err
}

// ReadFile implements Host.
func (h *StdHost) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) // #nosec G304 -- path comes from the guest program by design (FLX/ILX)
}
