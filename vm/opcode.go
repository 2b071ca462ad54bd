package vm

// Opcode is the top four bits of an instruction word.
type Opcode Word

// opcodes
const (
	OpBR   Opcode = iota /* branch */
	OpADD                /* add */
	OpLD                 /* load */
	OpST                 /* store */
	OpJSR                /* jump register */
	OpAND                /* bitwise and */
	OpLDR                /* load register */
	OpSTR                /* store register */
	OpRTI                /* unused */
	OpNOT                /* bitwise not */
	OpLDI                /* load indirect */
	OpSTI                /* store indirect */
	OpJMP                /* jump */
	OpRES                /* reserved (unused) */
	OpLEA                /* load effective address */
	OpTRAP               /* execute trap */
	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	"BR", "ADD", "LD", "ST", "JSR", "AND", "LDR", "STR",
	"RTI", "NOT", "LDI", "STI", "JMP", "RES", "LEA", "TRAP",
}

func (op Opcode) String() string {
	if op < opcodeCount {
		return opcodeNames[op]
	}
	return "???"
}

// Instruction is an undecoded instruction word. The accessors extract the
// operand fields; offsets and immediates come back sign extended.
type Instruction Word

func (in Instruction) Opcode() Opcode { return Opcode(in >> 12) }

// DR is the destination register, also SR for the store family.
func (in Instruction) DR() Word { return Word(in>>9) & 0b111 }

// SR1 is the first source register, also BaseR.
func (in Instruction) SR1() Word { return Word(in>>6) & 0b111 }

func (in Instruction) SR2() Word { return Word(in) & 0b111 }

// Immediate reports whether ADD/AND use imm5 instead of SR2.
func (in Instruction) Immediate() bool { return (in>>5)&0b1 == 1 }

func (in Instruction) Imm5() Word { return sext(Word(in), 5) }

func (in Instruction) Offset6() Word { return sext(Word(in), 6) }

func (in Instruction) PCOffset9() Word { return sext(Word(in), 9) }

func (in Instruction) PCOffset11() Word { return sext(Word(in), 11) }

// Long reports whether JSR uses PCoffset11 rather than a base register.
func (in Instruction) Long() bool { return (in>>11)&0b1 == 1 }

// NZP is the branch condition mask.
func (in Instruction) NZP() Flag { return Flag(in>>9) & 0b111 }

func (in Instruction) TrapVector() Word { return Word(in) & 0xFF }
