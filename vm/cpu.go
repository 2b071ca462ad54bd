package vm

import (
	"log"
)

// handler executes one decoded instruction. PC already points past it.
type handler func(cpu *cpu, in Instruction) error

var handlers = [opcodeCount]handler{
	OpBR:   (*cpu).br,
	OpADD:  (*cpu).add,
	OpLD:   (*cpu).ld,
	OpST:   (*cpu).st,
	OpJSR:  (*cpu).jsr,
	OpAND:  (*cpu).and,
	OpLDR:  (*cpu).ldr,
	OpSTR:  (*cpu).str,
	OpRTI:  (*cpu).reserved,
	OpNOT:  (*cpu).not,
	OpLDI:  (*cpu).ldi,
	OpSTI:  (*cpu).sti,
	OpJMP:  (*cpu).jmp,
	OpRES:  (*cpu).reserved,
	OpLEA:  (*cpu).lea,
	OpTRAP: (*cpu).trap,
}

type cpu struct {
	running bool
	memory  *Memory
	reg     Registers
	count   uint64
	console Console
	trace   *log.Logger
}

func newCpu(memory *Memory, console Console) *cpu {
	cpu := &cpu{
		memory:  memory,
		console: console,
	}
	cpu.reset()
	return cpu
}

func (cpu *cpu) reset() {
	cpu.reg.Reset()
	cpu.count = 0
	cpu.running = true
}

func (cpu *cpu) stop() {
	cpu.running = false
}

// step fetches, decodes and executes a single instruction. Any error is
// fatal and leaves the cpu halted.
func (cpu *cpu) step() error {
	if !cpu.running {
		return ErrHalted
	}

	instruction := Instruction(cpu.memory.Read(cpu.reg.PC))
	cpu.reg.PC++
	cpu.count++

	if err := handlers[instruction.Opcode()](cpu, instruction); err != nil {
		cpu.stop()
		return err
	}
	return nil
}

// addr is the address of the instruction being executed.
func (cpu *cpu) addr() Word {
	return cpu.reg.PC - 1
}

func (cpu *cpu) tracef(format string, args ...any) {
	if cpu.trace == nil {
		return
	}
	cpu.trace.Printf("0x%04x "+format, append([]any{uint16(cpu.addr())}, args...)...)
}

func (cpu *cpu) add(in Instruction) error {
	dr, sr1 := in.DR(), in.SR1()

	if in.Immediate() {
		cpu.tracef("ADD: dr=%03b sr1=%03b imm5=0x%04x", dr, sr1, uint16(in.Imm5()))
		cpu.reg.R[dr] = cpu.reg.R[sr1] + in.Imm5()
	} else {
		sr2 := in.SR2()
		cpu.tracef("ADD: dr=%03b sr1=%03b sr2=%03b", dr, sr1, sr2)
		cpu.reg.R[dr] = cpu.reg.R[sr1] + cpu.reg.R[sr2]
	}

	cpu.reg.SetFlags(dr)
	return nil
}

func (cpu *cpu) and(in Instruction) error {
	dr, sr1 := in.DR(), in.SR1()

	if in.Immediate() {
		cpu.tracef("AND: dr=%03b sr1=%03b imm5=0x%04x", dr, sr1, uint16(in.Imm5()))
		cpu.reg.R[dr] = cpu.reg.R[sr1] & in.Imm5()
	} else {
		sr2 := in.SR2()
		cpu.tracef("AND: dr=%03b sr1=%03b sr2=%03b", dr, sr1, sr2)
		cpu.reg.R[dr] = cpu.reg.R[sr1] & cpu.reg.R[sr2]
	}

	cpu.reg.SetFlags(dr)
	return nil
}

func (cpu *cpu) not(in Instruction) error {
	dr, sr := in.DR(), in.SR1()
	cpu.tracef("NOT: dr=%03b sr=%03b", dr, sr)

	cpu.reg.R[dr] = ^cpu.reg.R[sr]
	cpu.reg.SetFlags(dr)
	return nil
}

func (cpu *cpu) br(in Instruction) error {
	nzp := in.NZP()
	cpu.tracef("BR: nzp=%03b pcoffset9=0x%04x cond=%v", nzp, uint16(in.PCOffset9()), cpu.reg.Cond)

	if nzp&cpu.reg.Cond != 0 {
		cpu.reg.PC += in.PCOffset9()
	}
	return nil
}

// jmp also serves RET (JMP R7).
func (cpu *cpu) jmp(in Instruction) error {
	br := in.SR1()
	cpu.tracef("JMP: br=%03b", br)

	cpu.reg.PC = cpu.reg.R[br]
	return nil
}

func (cpu *cpu) jsr(in Instruction) error {
	cpu.reg.R[R7] = cpu.reg.PC

	if in.Long() {
		cpu.tracef("JSR: pcoffset11=0x%04x", uint16(in.PCOffset11()))
		cpu.reg.PC += in.PCOffset11()
	} else {
		br := in.SR1()
		cpu.tracef("JSRR: br=%03b", br)
		cpu.reg.PC = cpu.reg.R[br]
	}
	return nil
}

func (cpu *cpu) ld(in Instruction) error {
	dr := in.DR()
	cpu.tracef("LD: dr=%03b pcoffset9=0x%04x", dr, uint16(in.PCOffset9()))

	cpu.reg.R[dr] = cpu.memory.Read(cpu.reg.PC + in.PCOffset9())
	cpu.reg.SetFlags(dr)
	return nil
}

func (cpu *cpu) ldi(in Instruction) error {
	dr := in.DR()
	cpu.tracef("LDI: dr=%03b pcoffset9=0x%04x", dr, uint16(in.PCOffset9()))

	cpu.reg.R[dr] = cpu.memory.Read(cpu.memory.Read(cpu.reg.PC + in.PCOffset9()))
	cpu.reg.SetFlags(dr)
	return nil
}

func (cpu *cpu) ldr(in Instruction) error {
	dr, br := in.DR(), in.SR1()
	cpu.tracef("LDR: dr=%03b br=%03b offset6=0x%04x", dr, br, uint16(in.Offset6()))

	cpu.reg.R[dr] = cpu.memory.Read(cpu.reg.R[br] + in.Offset6())
	cpu.reg.SetFlags(dr)
	return nil
}

func (cpu *cpu) lea(in Instruction) error {
	dr := in.DR()
	cpu.tracef("LEA: dr=%03b pcoffset9=0x%04x", dr, uint16(in.PCOffset9()))

	cpu.reg.R[dr] = cpu.reg.PC + in.PCOffset9()
	cpu.reg.SetFlags(dr)
	return nil
}

func (cpu *cpu) st(in Instruction) error {
	sr := in.DR()
	cpu.tracef("ST: sr=%03b pcoffset9=0x%04x", sr, uint16(in.PCOffset9()))

	cpu.memory.Write(cpu.reg.PC+in.PCOffset9(), cpu.reg.R[sr])
	return nil
}

func (cpu *cpu) sti(in Instruction) error {
	sr := in.DR()
	cpu.tracef("STI: sr=%03b pcoffset9=0x%04x", sr, uint16(in.PCOffset9()))

	cpu.memory.Write(cpu.memory.Read(cpu.reg.PC+in.PCOffset9()), cpu.reg.R[sr])
	return nil
}

func (cpu *cpu) str(in Instruction) error {
	sr, br := in.DR(), in.SR1()
	cpu.tracef("STR: sr=%03b br=%03b offset6=0x%04x", sr, br, uint16(in.Offset6()))

	cpu.memory.Write(cpu.reg.R[br]+in.Offset6(), cpu.reg.R[sr])
	return nil
}

func (cpu *cpu) trap(in Instruction) error {
	vector := in.TrapVector()
	cpu.tracef("TRAP: 0x%02x", uint16(vector))

	cpu.reg.R[R7] = cpu.reg.PC

	routine, ok := trapRoutines[vector]
	if !ok {
		return &ErrUnknownTrap{PC: cpu.addr(), Vector: vector}
	}
	if err := routine(cpu); err != nil {
		return &ErrTrap{PC: cpu.addr(), Vector: vector, Err: err}
	}
	return nil
}

// reserved serves RTI and RES, neither of which this machine implements.
func (cpu *cpu) reserved(in Instruction) error {
	cpu.tracef("%v: reserved opcode", in.Opcode())
	return &ErrReservedOpcode{PC: cpu.addr(), Instruction: in}
}
