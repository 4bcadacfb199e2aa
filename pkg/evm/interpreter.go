package evm

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// VM is the mutable state of one execution frame. It is single-use:
// create one per run, drive it to completion with Run, and discard it.
// The Bytecode it references may be shared across concurrent VMs; the
// stack and memory are exclusively owned.
type VM struct {
	cfg   *Config
	code  *Bytecode
	table *jumpTable

	pc    uint64
	stack *Stack
	mem   *Memory
	input []byte

	// returnData holds the output of the most recent sub-call for
	// RETURNDATASIZE/RETURNDATACOPY, and the frame's own output once a
	// terminating opcode runs.
	returnData []byte
	output     []byte

	steps   uint64
	stopped bool
	jumped  bool
}

// NewVM creates a frame over analyzed code. cfg may be nil for a pure
// run with no hooks and no ceilings.
func NewVM(code *Bytecode, input []byte, cfg *Config) *VM {
	if cfg == nil {
		cfg = &Config{}
	}
	return &VM{
		cfg:   cfg,
		code:  code,
		table: newJumpTable(cfg),
		stack: NewStack(),
		mem:   NewMemory(),
		input: input,
	}
}

// Run drives the frame to a terminal outcome.
func (vm *VM) Run() *Result {
	result := vm.run()
	if vm.cfg.Tracer != nil {
		vm.cfg.Tracer.CaptureEnd(result)
	}
	return result
}

func (vm *VM) run() *Result {
	for {
		if vm.cfg.MaxSteps > 0 && vm.steps >= vm.cfg.MaxSteps {
			return &Result{Steps: vm.steps, Err: ErrStepLimit}
		}

		// Running off the end of the code is an implicit STOP. A PUSH
		// whose immediate is truncated by the end of the code leaves
		// the counter past the end, which stops here as well.
		b, ok := vm.code.ByteAt(vm.pc)
		if !ok {
			return &Result{Steps: vm.steps}
		}

		opcode := Opcode(b)
		entry := vm.table[opcode]
		if entry == nil {
			return &Result{Steps: vm.steps, Err: fmt.Errorf("%w: 0x%02x at pc %d", ErrInvalidOpcode, b, vm.pc)}
		}

		if depth := vm.stack.Depth(); depth < entry.minStack {
			return &Result{Steps: vm.steps, Err: fmt.Errorf("%w: %s needs %d operands, have %d", ErrStackUnderflow, opcode, entry.minStack, depth)}
		} else if depth > entry.maxStack {
			return &Result{Steps: vm.steps, Err: fmt.Errorf("%w: %s at depth %d", ErrStackOverflow, opcode, depth)}
		}

		if vm.cfg.Tracer != nil {
			vm.cfg.Tracer.CaptureStep(vm.pc, opcode, vm.stack.Depth(), vm.mem.Size())
		}
		vm.steps++

		if err := entry.execute(vm); err != nil {
			if errors.Is(err, ErrExecutionReverted) {
				return &Result{Output: vm.output, Steps: vm.steps, Err: err}
			}
			return &Result{Steps: vm.steps, Err: err}
		}

		if vm.stopped {
			return &Result{Output: vm.output, Steps: vm.steps}
		}

		if vm.jumped {
			vm.jumped = false
		} else {
			vm.pc += 1 + opcode.ImmediateLen()
		}
	}
}

// memRange validates a stack-supplied offset/length pair against the
// host range and the configured memory ceiling. A zero length is always
// valid and touches no memory, whatever the offset.
func (vm *VM) memRange(offset, length *uint256.Int) (uint64, uint64, error) {
	if length.IsZero() {
		return 0, 0, nil
	}
	if !offset.IsUint64() || !length.IsUint64() {
		return 0, 0, fmt.Errorf("%w: offset or length exceeds host range", ErrMemoryBounds)
	}
	off, n := offset.Uint64(), length.Uint64()
	end := off + n
	if end < off {
		return 0, 0, fmt.Errorf("%w: offset+length overflows", ErrMemoryBounds)
	}
	// The word-rounded size must fit the host range too, or expansion
	// would wrap and under-allocate.
	rounded := roundUpWord(end)
	if rounded < end {
		return 0, 0, fmt.Errorf("%w: offset+length overflows", ErrMemoryBounds)
	}
	if vm.cfg.MaxMemory > 0 && rounded > vm.cfg.MaxMemory {
		return 0, 0, fmt.Errorf("%w: %d bytes exceeds ceiling %d", ErrMemoryBounds, rounded, vm.cfg.MaxMemory)
	}
	return off, n, nil
}

// Stack exposes the frame's stack, chiefly for tests and tracers.
func (vm *VM) Stack() *Stack {
	return vm.stack
}

// Memory exposes the frame's memory, chiefly for tests and tracers.
func (vm *VM) Memory() *Memory {
	return vm.mem
}
