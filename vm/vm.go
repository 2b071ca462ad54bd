// Package vm implements a 16-bit LC-3 virtual machine: memory with a
// memory-mapped keyboard, the register file, the fetch-decode-execute loop
// and the trap routines that stand in for an operating system.
package vm

import (
	"context"
	"log"
	"os"
)

// VM owns one machine: its memory, cpu and console.
type VM struct {
	memory  *Memory
	cpu     *cpu
	console Console
	trace   *log.Logger
}

// Option configures a VM.
type Option func(*VM)

// WithConsole sets the character device used by the traps and KBSR/KBDR.
func WithConsole(console Console) Option {
	return func(vm *VM) {
		vm.console = console
	}
}

// WithTrace logs every executed instruction to logger.
func WithTrace(logger *log.Logger) Option {
	return func(vm *VM) {
		vm.trace = logger
	}
}

// NewVM returns a machine in its reset state. Without WithConsole it talks
// to the process's stdin and stdout.
func NewVM(opts ...Option) *VM {
	vm := &VM{}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.console == nil {
		vm.console = NewTerminal(os.Stdin, os.Stdout, vm.trace)
	}

	vm.memory = NewMemory(vm.console)
	vm.cpu = newCpu(vm.memory, vm.console)
	vm.cpu.trace = vm.trace
	return vm
}

// Load loads each image file in order. It stops at the first failure.
func (vm *VM) Load(paths ...string) error {
	for _, path := range paths {
		origin, n, err := vm.memory.LoadImageFile(path)
		if err != nil {
			return err
		}
		if vm.trace != nil {
			vm.trace.Printf("loaded %v: origin=0x%04x words=%d", path, uint16(origin), n)
		}
	}
	return nil
}

func (vm *VM) Memory() *Memory { return vm.memory }

func (vm *VM) Registers() *Registers { return &vm.cpu.reg }

// Running reports whether the machine can still execute instructions.
func (vm *VM) Running() bool { return vm.cpu.running }

// Steps is the number of instructions executed since the last reset.
func (vm *VM) Steps() uint64 { return vm.cpu.count }

// Reset restores the power-on register state. Memory is left alone.
func (vm *VM) Reset() {
	vm.cpu.reset()
}

// Step executes one instruction.
func (vm *VM) Step() error {
	return vm.cpu.step()
}

// Run executes until HALT, a fault or cancellation of ctx. A normal halt
// returns nil.
func (vm *VM) Run(ctx context.Context) error {
	for vm.cpu.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := vm.cpu.step(); err != nil {
			return err
		}
	}

	if vm.trace != nil {
		vm.trace.Printf("halted after %d instructions", vm.cpu.count)
	}
	return nil
}
