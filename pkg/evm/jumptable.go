package evm

import "fmt"

// executionFunc performs one opcode's effect on the VM. Handlers that
// branch set vm.pc and vm.jumped; everyone else leaves pc advancement to
// the loop.
type executionFunc func(vm *VM) error

// operation is one dispatch table entry. minStack is the depth required
// for the operands the opcode pops; maxStack is the largest depth at
// which the opcode's pushes still fit under the stack limit. Both are
// validated by the loop before execute runs.
type operation struct {
	execute  executionFunc
	minStack int
	maxStack int
}

// op builds an entry for an opcode that pops and pushes fixed counts.
func op(execute executionFunc, pops, pushes int) *operation {
	return &operation{
		execute:  execute,
		minStack: pops,
		maxStack: StackLimit + pops - pushes,
	}
}

// unsupported builds an entry for a recognized opcode whose collaborator
// hook was not supplied. It faults when reached, regardless of stack
// state, so callers can tell "unsupported" apart from "invalid byte".
func unsupported(opcode Opcode) *operation {
	return &operation{
		execute: func(vm *VM) error {
			return fmt.Errorf("%w: %s requires a hook", ErrUnsupportedOperation, opcode)
		},
		maxStack: StackLimit,
	}
}

// jumpTable maps each opcode byte to its operation. Undefined bytes stay
// nil and decode to ErrInvalidOpcode.
type jumpTable [256]*operation

// newJumpTable builds the dispatch table for one run. Hook-gated entries
// are decided here, once, from the hooks present in cfg.
func newJumpTable(cfg *Config) *jumpTable {
	var tbl jumpTable

	// Arithmetic.
	tbl[STOP] = op(opStop, 0, 0)
	tbl[ADD] = op(opAdd, 2, 1)
	tbl[MUL] = op(opMul, 2, 1)
	tbl[SUB] = op(opSub, 2, 1)
	tbl[DIV] = op(opDiv, 2, 1)
	tbl[SDIV] = op(opSDiv, 2, 1)
	tbl[MOD] = op(opMod, 2, 1)
	tbl[SMOD] = op(opSMod, 2, 1)
	tbl[ADDMOD] = op(opAddMod, 3, 1)
	tbl[MULMOD] = op(opMulMod, 3, 1)
	tbl[EXP] = op(opExp, 2, 1)
	tbl[SIGNEXTEND] = op(opSignExtend, 2, 1)

	// Comparison and bitwise.
	tbl[LT] = op(opLt, 2, 1)
	tbl[GT] = op(opGt, 2, 1)
	tbl[SLT] = op(opSlt, 2, 1)
	tbl[SGT] = op(opSgt, 2, 1)
	tbl[EQ] = op(opEq, 2, 1)
	tbl[ISZERO] = op(opIsZero, 1, 1)
	tbl[AND] = op(opAnd, 2, 1)
	tbl[OR] = op(opOr, 2, 1)
	tbl[XOR] = op(opXor, 2, 1)
	tbl[NOT] = op(opNot, 1, 1)
	tbl[BYTE] = op(opByte, 2, 1)
	tbl[SHL] = op(opSHL, 2, 1)
	tbl[SHR] = op(opSHR, 2, 1)
	tbl[SAR] = op(opSAR, 2, 1)

	// Hashing.
	tbl[KECCAK256] = op(opKeccak256, 2, 1)

	// Frame environment.
	tbl[ADDRESS] = op(opAddress, 0, 1)
	tbl[ORIGIN] = op(opOrigin, 0, 1)
	tbl[CALLER] = op(opCaller, 0, 1)
	tbl[CALLVALUE] = op(opCallValue, 0, 1)
	tbl[CALLDATALOAD] = op(opCallDataLoad, 1, 1)
	tbl[CALLDATASIZE] = op(opCallDataSize, 0, 1)
	tbl[CALLDATACOPY] = op(opCallDataCopy, 3, 0)
	tbl[CODESIZE] = op(opCodeSize, 0, 1)
	tbl[CODECOPY] = op(opCodeCopy, 3, 0)
	tbl[GASPRICE] = op(opGasPrice, 0, 1)
	tbl[RETURNDATASIZE] = op(opReturnDataSize, 0, 1)
	tbl[RETURNDATACOPY] = op(opReturnDataCopy, 3, 0)

	// Block context.
	tbl[COINBASE] = op(opCoinbase, 0, 1)
	tbl[TIMESTAMP] = op(opTimestamp, 0, 1)
	tbl[NUMBER] = op(opNumber, 0, 1)
	tbl[DIFFICULTY] = op(opDifficulty, 0, 1)
	tbl[GASLIMIT] = op(opGasLimit, 0, 1)
	tbl[CHAINID] = op(opChainID, 0, 1)

	// Stack, memory, and control flow.
	tbl[POP] = op(opPop, 1, 0)
	tbl[MLOAD] = op(opMload, 1, 1)
	tbl[MSTORE] = op(opMstore, 2, 0)
	tbl[MSTORE8] = op(opMstore8, 2, 0)
	tbl[JUMP] = op(opJump, 1, 0)
	tbl[JUMPI] = op(opJumpi, 2, 0)
	tbl[PC] = op(opPC, 0, 1)
	tbl[MSIZE] = op(opMsize, 0, 1)
	tbl[JUMPDEST] = op(opJumpdest, 0, 0)

	// Pushes, dups, swaps.
	tbl[PUSH0] = op(makePush(0), 0, 1)
	for i := 0; i < 32; i++ {
		tbl[PUSH1+Opcode(i)] = op(makePush(uint64(i)+1), 0, 1)
	}
	for i := 1; i <= 16; i++ {
		tbl[DUP1+Opcode(i-1)] = op(makeDup(i), i, i+1)
		tbl[SWAP1+Opcode(i-1)] = op(makeSwap(i), i+1, i+1)
	}

	// Termination.
	tbl[RETURN] = op(opReturn, 2, 0)
	tbl[REVERT] = op(opRevert, 2, 0)
	tbl[INVALID] = op(opInvalid, 0, 0)
	tbl[SELFDESTRUCT] = op(opSelfdestruct, 0, 0)

	// Storage hook.
	if cfg.Storage != nil {
		tbl[SLOAD] = op(opSload, 1, 1)
		tbl[SSTORE] = op(opSstore, 2, 0)
	} else {
		tbl[SLOAD] = unsupported(SLOAD)
		tbl[SSTORE] = unsupported(SSTORE)
	}

	// World-state hook.
	if cfg.World != nil {
		tbl[BALANCE] = op(opBalance, 1, 1)
		tbl[BLOCKHASH] = op(opBlockhash, 1, 1)
		tbl[EXTCODESIZE] = op(opExtCodeSize, 1, 1)
		tbl[EXTCODECOPY] = op(opExtCodeCopy, 4, 0)
		tbl[EXTCODEHASH] = op(opExtCodeHash, 1, 1)
		tbl[GAS] = op(opGas, 0, 1)
	} else {
		for _, o := range []Opcode{BALANCE, BLOCKHASH, EXTCODESIZE, EXTCODECOPY, EXTCODEHASH, GAS} {
			tbl[o] = unsupported(o)
		}
	}

	// Call hook.
	if cfg.Calls != nil {
		tbl[CALL] = op(makeCall(CallKindCall), 7, 1)
		tbl[CALLCODE] = op(makeCall(CallKindCallCode), 7, 1)
		tbl[DELEGATECALL] = op(makeCall(CallKindDelegateCall), 6, 1)
		tbl[STATICCALL] = op(makeCall(CallKindStaticCall), 6, 1)
		tbl[CREATE] = op(makeCreate(CallKindCreate), 3, 1)
		tbl[CREATE2] = op(makeCreate(CallKindCreate2), 4, 1)
	} else {
		for _, o := range []Opcode{CALL, CALLCODE, DELEGATECALL, STATICCALL, CREATE, CREATE2} {
			tbl[o] = unsupported(o)
		}
	}

	// Log hook.
	if cfg.Logs != nil {
		for i := 0; i <= 4; i++ {
			tbl[LOG0+Opcode(i)] = op(makeLog(i), i+2, 0)
		}
	} else {
		for i := 0; i <= 4; i++ {
			tbl[LOG0+Opcode(i)] = unsupported(LOG0 + Opcode(i))
		}
	}

	return &tbl
}
