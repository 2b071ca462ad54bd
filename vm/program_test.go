package vm_test

import (
	"bytes"
	"context"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aryanA101a/lulu/vm"
)

// image encodes origin and words the way the assembler writes them.
func image(origin vm.Word, words ...vm.Word) []byte {
	buf := make([]byte, 2*(len(words)+1))
	binary.BigEndian.PutUint16(buf, uint16(origin))
	for n, w := range words {
		binary.BigEndian.PutUint16(buf[2*(n+1):], uint16(w))
	}
	return buf
}

func chars(s string) []vm.Word {
	words := make([]vm.Word, 0, len(s)+1)
	for _, c := range []byte(s) {
		words = append(words, vm.Word(c))
	}
	return append(words, 0)
}

var _ = Describe("Program", func() {
	var (
		machine *vm.VM
		console *vm.BufferConsole
	)

	load := func(origin vm.Word, words ...vm.Word) {
		_, _, err := machine.Memory().LoadImage(bytes.NewReader(image(origin, words...)))
		Expect(err).NotTo(HaveOccurred())
	}

	run := func() error {
		return machine.Run(context.Background())
	}

	JustBeforeEach(func() {
		machine = vm.NewVM(vm.WithConsole(console))
	})

	Context("hello world", func() {
		BeforeEach(func() {
			console = vm.NewBufferConsole("")
		})

		It("should print a string with PUTS and halt", func() {
			program := []vm.Word{
				vm.EncLEA(vm.R0, 2),
				vm.EncTRAP(vm.TrapPUTS),
				vm.EncTRAP(vm.TrapHALT),
			}
			load(vm.UserSpaceStart, append(program, chars("Hello, World!\n")...)...)

			Expect(run()).To(Succeed())
			Expect(console.String()).To(Equal("Hello, World!\nHALT\n"))
			Expect(machine.Running()).To(BeFalse())
			Expect(machine.Registers().R[vm.R0]).To(Equal(vm.Word(0x3003)))
		})
	})

	Context("countdown loop", func() {
		BeforeEach(func() {
			console = vm.NewBufferConsole("")
		})

		It("should branch until the counter reaches zero", func() {
			// R1 = 5; loop: R2 = R2 + R1; R1--; BRp loop
			load(vm.UserSpaceStart,
				vm.EncANDi(vm.R1, vm.R1, 0),
				vm.EncADDi(vm.R1, vm.R1, 5),
				vm.EncADD(vm.R2, vm.R2, vm.R1),
				vm.EncADDi(vm.R1, vm.R1, -1),
				vm.EncBR(vm.FlagPos, -3),
				vm.EncTRAP(vm.TrapHALT),
			)

			Expect(run()).To(Succeed())
			Expect(machine.Registers().R[vm.R2]).To(Equal(vm.Word(15)))
			Expect(machine.Registers().R[vm.R1]).To(Equal(vm.Word(0)))
			Expect(machine.Registers().Cond).To(Equal(vm.FlagZro))
			Expect(machine.Steps()).To(Equal(uint64(2 + 5*3 + 1)))
		})
	})

	Context("keyboard polling", func() {
		BeforeEach(func() {
			console = vm.NewBufferConsole("q")
		})

		It("should read a key through KBSR and KBDR", func() {
			// R3 = KBSR; poll: LDR R1, R3, #0; BRzp poll; LDR R0, R3, #2; OUT; HALT
			load(vm.UserSpaceStart,
				vm.EncLD(vm.R3, 6),
				vm.EncLDR(vm.R1, vm.R3, 0),
				vm.EncBR(vm.FlagZro|vm.FlagPos, -2),
				vm.EncLDR(vm.R0, vm.R3, 2),
				vm.EncTRAP(vm.TrapOUT),
				vm.EncTRAP(vm.TrapHALT),
				vm.Word(0), // padding
				vm.KBSR,
			)

			Expect(run()).To(Succeed())
			Expect(console.String()).To(Equal("qHALT\n"))
			Expect(machine.Registers().R[vm.R1]).To(Equal(vm.Word(0x8000)))
		})
	})

	Context("subroutine call", func() {
		BeforeEach(func() {
			console = vm.NewBufferConsole("")
		})

		It("should return to the instruction after JSR", func() {
			load(vm.UserSpaceStart,
				vm.EncJSR(3),
				vm.EncTRAP(vm.TrapOUT),
				vm.EncTRAP(vm.TrapHALT),
				vm.Word(0),
				vm.EncANDi(vm.R0, vm.R0, 0),
				vm.EncADDi(vm.R0, vm.R0, 15),
				vm.EncADD(vm.R0, vm.R0, vm.R0),
				vm.EncADD(vm.R0, vm.R0, vm.R0),
				vm.EncADDi(vm.R0, vm.R0, 5),
				vm.EncJMP(vm.R7),
			)

			Expect(run()).To(Succeed())
			Expect(console.String()).To(Equal("AHALT\n"))
			Expect(machine.Registers().R[vm.R7]).To(Equal(vm.Word(0x3003)))
		})
	})

	Context("reserved opcode", func() {
		BeforeEach(func() {
			console = vm.NewBufferConsole("")
		})

		It("should stop with a fault", func() {
			load(vm.UserSpaceStart, vm.EncNOT(vm.R0, vm.R0), 0xD000, vm.EncTRAP(vm.TrapHALT))

			err := run()
			Expect(err).To(MatchError(vm.ErrIllegalOpcode))
			Expect(machine.Running()).To(BeFalse())
			Expect(console.String()).To(BeEmpty())
			Expect(machine.Registers().R[vm.R0]).To(Equal(vm.Word(0xFFFF)))
		})
	})
})
