package vm

// MemorySize is the number of addressable cells.
const MemorySize = 1 << 16

// memory map
const (
	TrapVectorTableStart       Word = 0x0000
	InterruptVectorTableStart  Word = 0x0100
	SystemSpaceStart           Word = 0x0200
	UserSpaceStart             Word = 0x3000
	MemoryMappedRegistersStart Word = 0xFE00
)

// memory mapped register addresses
const (
	KBSR = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

// kbsrReady is the KBSR bit set while a character waits in KBDR.
const kbsrReady Word = 0x8000

// KeyboardDevice is the input side seen through KBSR/KBDR.
type KeyboardDevice interface {
	// Poll returns a pending character without blocking.
	Poll() (ch byte, ok bool)
}

// Memory is the flat 16-bit address space.
type Memory struct {
	cells    [MemorySize]Word
	keyboard KeyboardDevice
}

// NewMemory returns zeroed memory with the keyboard mapped at KBSR/KBDR.
// A nil keyboard never reports a pending key.
func NewMemory(keyboard KeyboardDevice) *Memory {
	return &Memory{keyboard: keyboard}
}

// Read returns the word at addr. Reading KBSR polls the keyboard and
// refreshes KBSR and KBDR.
func (mem *Memory) Read(addr Word) Word {
	if addr == KBSR {
		mem.pollKeyboard()
	}
	return mem.cells[addr]
}

// Write stores value at addr.
func (mem *Memory) Write(addr, value Word) {
	mem.cells[addr] = value
}

func (mem *Memory) pollKeyboard() {
	if mem.keyboard != nil {
		if ch, ok := mem.keyboard.Poll(); ok {
			mem.cells[KBSR] = kbsrReady
			mem.cells[KBDR] = Word(ch)
			return
		}
	}
	mem.cells[KBSR] = 0
}
