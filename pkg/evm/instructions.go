package evm

import (
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/fortiblox/X1-EVM/internal/types"
)

// Opcode handlers. Binary operations pop the top operand and write the
// result through a peek at the second, avoiding a pop/push pair. The
// dispatch loop has validated stack depth before any handler runs.

func opStop(vm *VM) error {
	vm.stopped = true
	return nil
}

func opAdd(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.Add(&x, y)
	return nil
}

func opMul(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.Mul(&x, y)
	return nil
}

func opSub(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.Sub(&x, y)
	return nil
}

// Div sets the quotient to zero when the divisor is zero; the historical
// VM convention, preserved exactly. The uint256 primitives already
// behave this way for Div, Mod, SDiv, SMod, AddMod, and MulMod.
func opDiv(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.Div(&x, y)
	return nil
}

func opSDiv(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.SDiv(&x, y)
	return nil
}

func opMod(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.Mod(&x, y)
	return nil
}

func opSMod(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.SMod(&x, y)
	return nil
}

func opAddMod(vm *VM) error {
	x, y, m := vm.stack.pop(), vm.stack.pop(), vm.stack.peek()
	m.AddMod(&x, &y, m)
	return nil
}

func opMulMod(vm *VM) error {
	x, y, m := vm.stack.pop(), vm.stack.pop(), vm.stack.peek()
	m.MulMod(&x, &y, m)
	return nil
}

func opExp(vm *VM) error {
	base, exponent := vm.stack.pop(), vm.stack.peek()
	exponent.Exp(&base, exponent)
	return nil
}

// SIGNEXTEND treats the second operand's low k+1 bytes as a signed value
// and extends it to full width. k >= 31 leaves the value unchanged.
func opSignExtend(vm *VM) error {
	back, num := vm.stack.pop(), vm.stack.peek()
	if back.LtUint64(31) {
		num.ExtendSign(num, &back)
	}
	return nil
}

func opLt(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	boolToWord(y, x.Lt(y))
	return nil
}

func opGt(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	boolToWord(y, x.Gt(y))
	return nil
}

func opSlt(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	boolToWord(y, x.Slt(y))
	return nil
}

func opSgt(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	boolToWord(y, x.Sgt(y))
	return nil
}

func opEq(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	boolToWord(y, x.Eq(y))
	return nil
}

func opIsZero(vm *VM) error {
	v := vm.stack.peek()
	boolToWord(v, v.IsZero())
	return nil
}

func opAnd(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.And(&x, y)
	return nil
}

func opOr(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.Or(&x, y)
	return nil
}

func opXor(vm *VM) error {
	x, y := vm.stack.pop(), vm.stack.peek()
	y.Xor(&x, y)
	return nil
}

func opNot(vm *VM) error {
	v := vm.stack.peek()
	v.Not(v)
	return nil
}

// BYTE extracts the i-th most significant byte, or zero when i >= 32.
func opByte(vm *VM) error {
	i, val := vm.stack.pop(), vm.stack.peek()
	val.Byte(&i)
	return nil
}

func opSHL(vm *VM) error {
	shift, value := vm.stack.pop(), vm.stack.peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil
}

func opSHR(vm *VM) error {
	shift, value := vm.stack.pop(), vm.stack.peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil
}

// SAR shifts with sign fill: amounts of 256 or more collapse the value
// to zero or all-ones depending on its sign.
func opSAR(vm *VM) error {
	shift, value := vm.stack.pop(), vm.stack.peek()
	if !shift.LtUint64(256) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil
	}
	value.SRsh(value, uint(shift.Uint64()))
	return nil
}

func opKeccak256(vm *VM) error {
	offset, size := vm.stack.pop(), vm.stack.peek()
	off, n, err := vm.memRange(&offset, size)
	if err != nil {
		return err
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(vm.mem.Read(off, n))
	size.SetBytes(h.Sum(nil))
	return nil
}

func opAddress(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetBytes(vm.cfg.Call.Address.Bytes()))
	return nil
}

func opOrigin(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetBytes(vm.cfg.Call.Origin.Bytes()))
	return nil
}

func opCaller(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetBytes(vm.cfg.Call.Caller.Bytes()))
	return nil
}

func opCallValue(vm *VM) error {
	vm.stack.push(&vm.cfg.Call.Value)
	return nil
}

func opGasPrice(vm *VM) error {
	vm.stack.push(&vm.cfg.Call.GasPrice)
	return nil
}

// CALLDATALOAD reads a 32-byte window from the input buffer, zero-padded
// past its end. Offsets beyond the host range read as zero.
func opCallDataLoad(vm *VM) error {
	offset := vm.stack.peek()
	if !offset.IsUint64() {
		offset.Clear()
		return nil
	}
	offset.SetBytes(getData(vm.input, offset.Uint64(), 32))
	return nil
}

func opCallDataSize(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(uint64(len(vm.input))))
	return nil
}

func opCallDataCopy(vm *VM) error {
	return vm.dataCopy(vm.input)
}

func opCodeSize(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.code.Len()))
	return nil
}

func opCodeCopy(vm *VM) error {
	return vm.dataCopy(vm.code.Code())
}

func opReturnDataSize(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(uint64(len(vm.returnData))))
	return nil
}

func opReturnDataCopy(vm *VM) error {
	return vm.dataCopy(vm.returnData)
}

// dataCopy implements the shared convention of CALLDATACOPY, CODECOPY,
// and RETURNDATACOPY: copy length bytes from the source at srcOffset to
// memory at destOffset, zero-filling past the end of the source.
func (vm *VM) dataCopy(src []byte) error {
	destOffset, srcOffset, length := vm.stack.pop(), vm.stack.pop(), vm.stack.pop()
	off, n, err := vm.memRange(&destOffset, &length)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	var data []byte
	if srcOffset.IsUint64() {
		data = getData(src, srcOffset.Uint64(), n)
	}
	vm.mem.WriteZeroPadded(off, data, n)
	return nil
}

func opBalance(vm *VM) error {
	slot := vm.stack.peek()
	addr := wordToAddress(slot)
	slot.Set(vm.cfg.World.Balance(addr))
	return nil
}

func opBlockhash(vm *VM) error {
	num := vm.stack.peek()
	if !num.IsUint64() {
		num.Clear()
		return nil
	}
	h := vm.cfg.World.BlockHash(num.Uint64())
	num.SetBytes(h.Bytes())
	return nil
}

func opExtCodeSize(vm *VM) error {
	slot := vm.stack.peek()
	addr := wordToAddress(slot)
	slot.SetUint64(vm.cfg.World.CodeSize(addr))
	return nil
}

func opExtCodeCopy(vm *VM) error {
	target := vm.stack.pop()
	return vm.dataCopy(vm.cfg.World.Code(wordToAddress(&target)))
}

func opExtCodeHash(vm *VM) error {
	slot := vm.stack.peek()
	addr := wordToAddress(slot)
	h := vm.cfg.World.CodeHash(addr)
	slot.SetBytes(h.Bytes())
	return nil
}

func opGas(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.cfg.World.Gas()))
	return nil
}

func opCoinbase(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetBytes(vm.cfg.Block.Coinbase.Bytes()))
	return nil
}

func opTimestamp(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.cfg.Block.Timestamp))
	return nil
}

func opNumber(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.cfg.Block.Number))
	return nil
}

func opDifficulty(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.cfg.Block.Difficulty))
	return nil
}

func opGasLimit(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.cfg.Block.GasLimit))
	return nil
}

func opChainID(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.cfg.Block.ChainID))
	return nil
}

func opPop(vm *VM) error {
	vm.stack.pop()
	return nil
}

func opMload(vm *VM) error {
	offset := vm.stack.peek()
	length := uint256.NewInt(32)
	off, _, err := vm.memRange(offset, length)
	if err != nil {
		return err
	}
	offset.SetBytes(vm.mem.Read(off, 32))
	return nil
}

func opMstore(vm *VM) error {
	offset, value := vm.stack.pop(), vm.stack.pop()
	length := uint256.NewInt(32)
	off, _, err := vm.memRange(&offset, length)
	if err != nil {
		return err
	}
	b32 := value.Bytes32()
	vm.mem.Write(off, b32[:])
	return nil
}

func opMstore8(vm *VM) error {
	offset, value := vm.stack.pop(), vm.stack.pop()
	length := uint256.NewInt(1)
	off, _, err := vm.memRange(&offset, length)
	if err != nil {
		return err
	}
	vm.mem.Write(off, []byte{byte(value.Uint64())})
	return nil
}

func opSload(vm *VM) error {
	slot := vm.stack.peek()
	val, err := vm.cfg.Storage.Load(slot.Bytes32())
	if err != nil {
		return fmt.Errorf("sload: %w", err)
	}
	slot.SetBytes(val.Bytes())
	return nil
}

func opSstore(vm *VM) error {
	key, value := vm.stack.pop(), vm.stack.pop()
	if err := vm.cfg.Storage.Store(key.Bytes32(), value.Bytes32()); err != nil {
		return fmt.Errorf("sstore: %w", err)
	}
	return nil
}

// jump validates the destination against the precomputed jump set and
// moves the program counter. The byte at the target must be JUMPDEST at
// an instruction boundary; a JUMPDEST byte inside push data is invalid.
func (vm *VM) jump(dest *uint256.Int) error {
	if !dest.IsUint64() || !vm.code.IsValidJumpDest(dest.Uint64()) {
		return fmt.Errorf("%w: %s", ErrInvalidJump, dest.Hex())
	}
	vm.pc = dest.Uint64()
	vm.jumped = true
	return nil
}

func opJump(vm *VM) error {
	dest := vm.stack.pop()
	return vm.jump(&dest)
}

func opJumpi(vm *VM) error {
	dest, cond := vm.stack.pop(), vm.stack.pop()
	if cond.IsZero() {
		return nil
	}
	return vm.jump(&dest)
}

// PC pushes the offset of the PC opcode itself.
func opPC(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.pc))
	return nil
}

func opMsize(vm *VM) error {
	vm.stack.push(new(uint256.Int).SetUint64(vm.mem.Size()))
	return nil
}

func opJumpdest(vm *VM) error {
	return nil
}

// makePush builds the handler for PUSH0..PUSH32. The immediate is
// zero-extended on the left; a push truncated by the end of the code
// yields the bytes that are present.
func makePush(size uint64) executionFunc {
	return func(vm *VM) error {
		v := vm.code.PushValue(vm.pc+1, size)
		vm.stack.push(&v)
		return nil
	}
}

func makeDup(n int) executionFunc {
	return func(vm *VM) error {
		vm.stack.dup(n)
		return nil
	}
}

func makeSwap(n int) executionFunc {
	return func(vm *VM) error {
		vm.stack.swap(n)
		return nil
	}
}

func makeLog(topicCount int) executionFunc {
	return func(vm *VM) error {
		offset, length := vm.stack.pop(), vm.stack.pop()
		topics := make([]types.Hash, topicCount)
		for i := 0; i < topicCount; i++ {
			t := vm.stack.pop()
			topics[i] = t.Bytes32()
		}
		off, n, err := vm.memRange(&offset, &length)
		if err != nil {
			return err
		}
		if err := vm.cfg.Logs.Log(vm.cfg.Call.Address, topics, vm.mem.Read(off, n)); err != nil {
			return fmt.Errorf("log: %w", err)
		}
		return nil
	}
}

// makeCall builds the handlers for the call family. The gas word is
// popped and discarded: metering belongs to the embedding application.
// The hook's output becomes the frame's return data, copied into memory
// truncated to the out region, with the success flag pushed.
func makeCall(kind CallKind) executionFunc {
	return func(vm *VM) error {
		vm.stack.pop() // gas
		target := vm.stack.pop()
		var value uint256.Int
		if kind == CallKindCall || kind == CallKindCallCode {
			value = vm.stack.pop()
		}
		inOffset, inLength := vm.stack.pop(), vm.stack.pop()
		outOffset, outLength := vm.stack.pop(), vm.stack.pop()

		inOff, inLen, err := vm.memRange(&inOffset, &inLength)
		if err != nil {
			return err
		}
		outOff, outLen, err := vm.memRange(&outOffset, &outLength)
		if err != nil {
			return err
		}

		success, output, err := vm.cfg.Calls.Call(kind, wordToAddress(&target), &value, vm.mem.Read(inOff, inLen))
		if err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		vm.returnData = output

		if outLen > 0 {
			n := uint64(len(output))
			if n > outLen {
				n = outLen
			}
			vm.mem.WriteZeroPadded(outOff, output[:n], n)
		}

		result := new(uint256.Int)
		boolToWord(result, success)
		vm.stack.push(result)
		return nil
	}
}

// makeCreate builds the handlers for CREATE and CREATE2. The hook
// receives the init code and returns the created contract's address as
// output; a failed creation pushes zero.
func makeCreate(kind CallKind) executionFunc {
	return func(vm *VM) error {
		value := vm.stack.pop()
		offset, length := vm.stack.pop(), vm.stack.pop()
		if kind == CallKindCreate2 {
			vm.stack.pop() // salt; address derivation is the hook's concern
		}

		off, n, err := vm.memRange(&offset, &length)
		if err != nil {
			return err
		}

		success, output, err := vm.cfg.Calls.Call(kind, types.Address{}, &value, vm.mem.Read(off, n))
		if err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		vm.returnData = output

		result := new(uint256.Int)
		if success {
			result.SetBytes(output)
		}
		vm.stack.push(result)
		return nil
	}
}

func opReturn(vm *VM) error {
	offset, length := vm.stack.pop(), vm.stack.pop()
	off, n, err := vm.memRange(&offset, &length)
	if err != nil {
		return err
	}
	vm.output = vm.mem.Read(off, n)
	vm.returnData = vm.output
	vm.stopped = true
	return nil
}

func opRevert(vm *VM) error {
	offset, length := vm.stack.pop(), vm.stack.pop()
	off, n, err := vm.memRange(&offset, &length)
	if err != nil {
		return err
	}
	vm.output = vm.mem.Read(off, n)
	vm.returnData = vm.output
	return ErrExecutionReverted
}

func opInvalid(vm *VM) error {
	return fmt.Errorf("%w: INVALID at pc %d", ErrInvalidOpcode, vm.pc)
}

// SELFDESTRUCT halts the frame. With no world state there is nothing to
// destroy or to pay a beneficiary; any operands are left untouched.
func opSelfdestruct(vm *VM) error {
	vm.stopped = true
	return nil
}
