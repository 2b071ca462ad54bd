package vm

// Word is the machine's 16-bit unit of storage.
type Word uint16

// Flag is the condition code register. Exactly one bit is set after any
// flag-updating register write.
type Flag Word

// condition flags
const (
	FlagPos Flag = 0b001
	FlagZro Flag = 0b010
	FlagNeg Flag = 0b100
)

func (f Flag) String() string {
	switch f {
	case FlagPos:
		return "P"
	case FlagZro:
		return "Z"
	case FlagNeg:
		return "N"
	}
	return "?"
}

// general purpose registers
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	RegisterCount
)

// Registers is the register file: eight general purpose registers, the
// program counter and the condition code.
type Registers struct {
	R    [RegisterCount]Word
	PC   Word
	Cond Flag
}

// Reset puts the register file into its power-on state.
func (reg *Registers) Reset() {
	*reg = Registers{PC: UserSpaceStart, Cond: FlagZro}
}

// SetFlags updates the condition code from the value held in r.
func (reg *Registers) SetFlags(r Word) {
	v := reg.R[r&0b111]
	switch {
	case v == 0:
		reg.Cond = FlagZro
	case v>>15 != 0: // a 1 in the left-most bit indicates negative
		reg.Cond = FlagNeg
	default:
		reg.Cond = FlagPos
	}
}

// sext sign extends the low bitCount bits of x to 16 bits.
func sext(x Word, bitCount uint) Word {
	x &= 1<<bitCount - 1
	if (x>>(bitCount-1))&0b1 != 0 {
		x |= 0xFFFF << bitCount
	}
	return x
}
