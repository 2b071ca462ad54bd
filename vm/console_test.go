package vm

import (
	"bytes"
	goIO "io"
)

// bufferConsole is a Console backed by an input script and an output buffer.
type bufferConsole struct {
	input   []byte
	output  bytes.Buffer
	pending bytes.Buffer
	flushes int
}

var _ Console = (*bufferConsole)(nil)

func newBufferConsole(input string) *bufferConsole {
	return &bufferConsole{input: []byte(input)}
}

func (bc *bufferConsole) Poll() (byte, bool) {
	if len(bc.input) == 0 {
		return 0, false
	}
	ch := bc.input[0]
	bc.input = bc.input[1:]
	return ch, true
}

func (bc *bufferConsole) ReadKey() (byte, error) {
	ch, ok := bc.Poll()
	if !ok {
		return 0, goIO.EOF
	}
	return ch, nil
}

func (bc *bufferConsole) Write(p []byte) (int, error) {
	return bc.pending.Write(p)
}

func (bc *bufferConsole) Flush() error {
	bc.flushes++
	_, err := bc.pending.WriteTo(&bc.output)
	return err
}

// String is everything flushed so far.
func (bc *bufferConsole) String() string {
	return bc.output.String()
}

// instruction encoders

func encADD(dr, sr1, sr2 Word) Word { return 0x1000 | dr<<9 | sr1<<6 | sr2 }
func encADDi(dr, sr1 Word, imm int) Word {
	return 0x1000 | dr<<9 | sr1<<6 | 1<<5 | Word(imm)&0x1F
}
func encAND(dr, sr1, sr2 Word) Word { return 0x5000 | dr<<9 | sr1<<6 | sr2 }
func encANDi(dr, sr1 Word, imm int) Word {
	return 0x5000 | dr<<9 | sr1<<6 | 1<<5 | Word(imm)&0x1F
}
func encNOT(dr, sr Word) Word          { return 0x9000 | dr<<9 | sr<<6 | 0x3F }
func encBR(nzp Flag, off int) Word     { return Word(nzp)<<9 | Word(off)&0x1FF }
func encJMP(br Word) Word              { return 0xC000 | br<<6 }
func encJSR(off int) Word              { return 0x4800 | Word(off)&0x7FF }
func encJSRR(br Word) Word             { return 0x4000 | br<<6 }
func encLD(dr Word, off int) Word      { return 0x2000 | dr<<9 | Word(off)&0x1FF }
func encLDI(dr Word, off int) Word     { return 0xA000 | dr<<9 | Word(off)&0x1FF }
func encLDR(dr, br Word, off int) Word { return 0x6000 | dr<<9 | br<<6 | Word(off)&0x3F }
func encLEA(dr Word, off int) Word     { return 0xE000 | dr<<9 | Word(off)&0x1FF }
func encST(sr Word, off int) Word      { return 0x3000 | sr<<9 | Word(off)&0x1FF }
func encSTI(sr Word, off int) Word     { return 0xB000 | sr<<9 | Word(off)&0x1FF }
func encSTR(sr, br Word, off int) Word { return 0x7000 | sr<<9 | br<<6 | Word(off)&0x3F }
func encTRAP(vector Word) Word         { return 0xF000 | vector&0xFF }

// newTestVM returns a machine with program placed at the user space start.
func newTestVM(input string, program ...Word) (*VM, *bufferConsole) {
	console := newBufferConsole(input)
	vm := NewVM(WithConsole(console))
	for n, w := range program {
		vm.Memory().Write(UserSpaceStart+Word(n), w)
	}
	return vm, console
}
