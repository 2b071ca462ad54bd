package vm

import (
	"errors"

	"github.com/aryanA101a/lulu/internal/translate"
)

var f = translate.From

var (
	ErrIllegalOpcode = errors.New(f("illegal opcode"))
	ErrIllegalTrap   = errors.New(f("illegal trap vector"))
	ErrImageTooShort = errors.New(f("image too short"))
	ErrHalted        = errors.New(f("machine halted"))
)

// ErrReservedOpcode is returned when a reserved opcode is fetched.
type ErrReservedOpcode struct {
	PC          Word // address of the faulting instruction
	Instruction Instruction
}

func (err *ErrReservedOpcode) Error() string {
	return f("0x%04x: %v 0x%04x %v", uint16(err.PC), ErrIllegalOpcode, uint16(err.Instruction), err.Instruction.Opcode())
}

func (err *ErrReservedOpcode) Unwrap() error {
	return ErrIllegalOpcode
}

// ErrUnknownTrap is returned by TRAP with a vector that has no service routine.
type ErrUnknownTrap struct {
	PC     Word
	Vector Word
}

func (err *ErrUnknownTrap) Error() string {
	return f("0x%04x: %v 0x%02x", uint16(err.PC), ErrIllegalTrap, uint16(err.Vector))
}

func (err *ErrUnknownTrap) Unwrap() error {
	return ErrIllegalTrap
}

// ErrTrap wraps an I/O failure inside a trap service routine.
type ErrTrap struct {
	PC     Word
	Vector Word
	Err    error
}

func (err *ErrTrap) Error() string {
	return f("0x%04x: trap 0x%02x %v", uint16(err.PC), uint16(err.Vector), err.Err)
}

func (err *ErrTrap) Unwrap() error {
	return err.Err
}

// ErrLoad reports an image that could not be loaded.
type ErrLoad struct {
	Path string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("failed to load image: %v: %v", err.Path, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
