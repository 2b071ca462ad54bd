package vm

import (
	"bufio"
	goIO "io"
	"log"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Console is the character device served by the trap routines and mapped
// into memory through KBSR/KBDR.
type Console interface {
	KeyboardDevice
	goIO.Writer

	// ReadKey blocks until a character is available.
	ReadKey() (byte, error)
	// Flush pushes buffered output to the host.
	Flush() error
}

// Terminal is a Console on the host's stdin/stdout.
type Terminal struct {
	in *os.File

	mu  sync.Mutex // guards out
	out *bufio.Writer

	originalTerminalConfig unix.Termios
	raw                    bool
	logger                 *log.Logger
}

var _ Console = (*Terminal)(nil)

// NewTerminal returns a console reading in and writing out. Mode changes
// are reported to logger, which may be nil.
func NewTerminal(in *os.File, out goIO.Writer, logger *log.Logger) *Terminal {
	if logger == nil {
		logger = log.New(goIO.Discard, "", 0)
	}
	return &Terminal{
		in:     in,
		out:    bufio.NewWriter(out),
		logger: logger,
	}
}

// Poll checks stdin for a pending character without blocking.
func (t *Terminal) Poll() (byte, bool) {
	fds := []unix.PollFd{{Fd: int32(t.in.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		return 0, false
	}
	ch, err := t.ReadKey()
	if err != nil {
		return 0, false
	}
	return ch, true
}

func (t *Terminal) ReadKey() (byte, error) {
	buf := make([]byte, 1)
	for {
		n, err := t.in.Read(buf)
		if n == 1 {
			return buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.out.Write(p)
}

// Flush may be called from another goroutine while the machine runs.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.out.Flush()
}

// EnableRawMode turns off line buffering and echo on the input terminal.
// It does nothing when stdin is not a terminal.
func (t *Terminal) EnableRawMode() error {
	fd := t.in.Fd()
	if !term.IsTerminal(int(fd)) {
		return nil
	}

	t.logger.Printf("enabling raw mode...")
	if err := termios.Tcgetattr(fd, &t.originalTerminalConfig); err != nil {
		return err
	}
	newTermios := t.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	newTermios.Cc[unix.VMIN] = 1
	newTermios.Cc[unix.VTIME] = 0
	if err := termios.Tcsetattr(fd, termios.TCSANOW, &newTermios); err != nil {
		return err
	}
	t.raw = true
	return nil
}

// Restore puts back the terminal settings saved by EnableRawMode. It is safe
// to call more than once.
func (t *Terminal) Restore() error {
	if !t.raw {
		return nil
	}
	t.logger.Printf("disabling raw mode...")
	t.raw = false
	return termios.Tcsetattr(t.in.Fd(), termios.TCSANOW, &t.originalTerminalConfig)
}
