// Package evm implements a single-frame Ethereum Virtual Machine
// bytecode interpreter.
//
// The engine executes one contract's code against one input buffer,
// driving a 1024-deep word stack and a lazily grown byte memory through
// a fetch-decode-execute loop. Words are 256-bit with modular
// arithmetic: overflow wraps, division by zero yields zero, and signed
// operations reinterpret the same bits as two's-complement.
//
// Gas accounting, persistent state, sub-calls, and block data are not
// computed here. They enter through the collaborator hooks on Config;
// opcodes whose hook is absent terminate the run with
// ErrUnsupportedOperation. The engine has no intrinsic notion of "too
// much work": callers wanting a ceiling set MaxSteps and MaxMemory.
//
// A Bytecode and its jump analysis are immutable and may back any number
// of concurrent runs. Stack and memory belong to a single run.
package evm

import (
	"errors"
	"fmt"
)

// Terminal error kinds. Every fault stops the frame at the point of
// violation; none is retriable and a faulted VM may not be resumed.
var (
	// ErrInvalidOpcode is returned when the decoded byte has no handler.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrStackUnderflow is returned when an operation needs more
	// operands than the stack holds.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrStackOverflow is returned when a push would exceed 1024 words.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrInvalidJump is returned when a jump target is not a JUMPDEST
	// at an instruction boundary.
	ErrInvalidJump = errors.New("invalid jump destination")

	// ErrUnsupportedOperation is returned when an opcode requires a
	// collaborator hook that was not supplied.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrExecutionReverted marks a REVERT: a normal, caller-requested
	// unwind carrying output bytes, distinct from the fatal kinds.
	ErrExecutionReverted = errors.New("execution reverted")

	// ErrMemoryBounds is returned when a memory offset or length does
	// not fit the host range or exceeds the configured memory ceiling.
	ErrMemoryBounds = errors.New("memory access out of bounds")

	// ErrStepLimit is returned when the configured step ceiling is hit.
	ErrStepLimit = errors.New("step limit exceeded")
)

// Config carries the frame environment, the collaborator hooks, and the
// caller-imposed resource policies for one run. The zero value runs pure
// stack/memory/arithmetic code with every hook-gated opcode unsupported
// and no resource ceiling.
type Config struct {
	// Call and Block supply the environment words for the opcodes that
	// read frame and block fields.
	Call  CallContext
	Block BlockContext

	// Storage backs SLOAD/SSTORE; nil makes them unsupported.
	Storage Storage

	// World backs BALANCE, BLOCKHASH, EXTCODE*, and GAS; nil makes
	// them unsupported.
	World WorldState

	// Calls backs the CALL and CREATE families; nil makes them
	// unsupported.
	Calls Caller

	// Logs backs LOG0..LOG4; nil makes them unsupported.
	Logs Logger

	// Tracer observes each step; nil disables tracing.
	Tracer Tracer

	// MaxSteps bounds loop iterations; 0 means unbounded. The engine
	// does not meter gas, so an infinite loop runs forever without it.
	MaxSteps uint64

	// MaxMemory bounds the materialized memory size in bytes; 0 means
	// unbounded.
	MaxMemory uint64
}

// Result is the terminal outcome of one run.
//
// Err == nil means the frame returned normally: via RETURN (Output holds
// the designated memory slice), or via STOP or running off the end of
// the code (Output empty). Err == ErrExecutionReverted means an explicit
// REVERT, with Output holding the revert data. Any other Err is a fatal
// kind and Output is empty.
type Result struct {
	Output []byte
	Steps  uint64
	Err    error
}

// Reverted reports whether the frame ended in an explicit REVERT.
func (r *Result) Reverted() bool {
	return errors.Is(r.Err, ErrExecutionReverted)
}

// Fatal reports whether the frame ended in a fault rather than a normal
// return or revert.
func (r *Result) Fatal() bool {
	return r.Err != nil && !r.Reverted()
}

// String renders the outcome kind for logs and CLI output.
func (r *Result) String() string {
	switch {
	case r.Err == nil:
		return fmt.Sprintf("returned (%d bytes, %d steps)", len(r.Output), r.Steps)
	case r.Reverted():
		return fmt.Sprintf("reverted (%d bytes, %d steps)", len(r.Output), r.Steps)
	default:
		return fmt.Sprintf("fatal: %v (%d steps)", r.Err, r.Steps)
	}
}

// Run executes code against input under cfg and returns the outcome.
// It is the package entry point for one-shot execution; use NewBytecode
// and NewVM to amortize jump analysis across runs of the same code.
func Run(code, input []byte, cfg *Config) *Result {
	return NewVM(NewBytecode(code), input, cfg).Run()
}
