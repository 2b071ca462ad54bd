package vm

const (
	TrapGETC  Word = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TrapOUT   Word = 0x21 /* output a character */
	TrapPUTS  Word = 0x22 /* output a word string */
	TrapIN    Word = 0x23 /* get character from keyboard, echoed onto the terminal */
	TrapPUTSP Word = 0x24 /* output a byte string */
	TrapHALT  Word = 0x25 /* halt the program */
)

const (
	inPrompt   = "Enter a character: "
	haltNotice = "HALT\n"
)

// trapRoutines are the service routines reachable through TRAP. Any other
// vector is a fault.
var trapRoutines = map[Word]func(*cpu) error{
	TrapGETC:  (*cpu).getc,
	TrapOUT:   (*cpu).out,
	TrapPUTS:  (*cpu).puts,
	TrapIN:    (*cpu).in,
	TrapPUTSP: (*cpu).putsp,
	TrapHALT:  (*cpu).halt,
}

func (cpu *cpu) getc() error {
	c, err := cpu.console.ReadKey()
	if err != nil {
		return err
	}
	cpu.reg.R[R0] = Word(c)
	cpu.reg.SetFlags(R0)
	return nil
}

func (cpu *cpu) out() error {
	if _, err := cpu.console.Write([]byte{byte(cpu.reg.R[R0])}); err != nil {
		return err
	}
	return cpu.console.Flush()
}

// puts writes one character per word, starting at R0, up to a zero word.
// Strings are read straight from the cells so KBSR is never polled.
func (cpu *cpu) puts() error {
	var buf []byte
	addr := cpu.reg.R[R0]
	for n := 0; n < MemorySize; n, addr = n+1, addr+1 {
		c := cpu.memory.cells[addr]
		if c == 0 {
			break
		}
		buf = append(buf, byte(c))
	}
	if _, err := cpu.console.Write(buf); err != nil {
		return err
	}
	return cpu.console.Flush()
}

func (cpu *cpu) in() error {
	if _, err := cpu.console.Write([]byte(inPrompt)); err != nil {
		return err
	}
	if err := cpu.console.Flush(); err != nil {
		return err
	}

	c, err := cpu.console.ReadKey()
	if err != nil {
		return err
	}

	if _, err := cpu.console.Write([]byte{c, '\n'}); err != nil {
		return err
	}
	cpu.reg.R[R0] = Word(c)
	cpu.reg.SetFlags(R0)
	return cpu.console.Flush()
}

// putsp writes two characters per word, low byte first, up to a zero byte.
func (cpu *cpu) putsp() error {
	var buf []byte
	addr := cpu.reg.R[R0]
	for n := 0; n < MemorySize; n, addr = n+1, addr+1 {
		w := cpu.memory.cells[addr]
		lo, hi := byte(w), byte(w>>8)
		if lo == 0 {
			break
		}
		buf = append(buf, lo)
		if hi == 0 {
			break
		}
		buf = append(buf, hi)
	}
	if _, err := cpu.console.Write(buf); err != nil {
		return err
	}
	return cpu.console.Flush()
}

func (cpu *cpu) halt() error {
	cpu.stop()
	if _, err := cpu.console.Write([]byte(haltNotice)); err != nil {
		return err
	}
	return cpu.console.Flush()
}
