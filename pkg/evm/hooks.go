package evm

import (
	"github.com/holiman/uint256"

	"github.com/fortiblox/X1-EVM/internal/types"
)

// Collaborator hooks. The engine executes exactly one frame and owns no
// world state; opcodes that need persistent storage, external accounts,
// sub-calls, or log emission delegate to these interfaces. Every hook is
// optional: a nil hook makes the opcodes that depend on it terminate the
// run with ErrUnsupportedOperation when reached. The dispatch table is
// built from the supplied hooks once per run, so hook absence is a
// configuration fact, not a per-step branch.

// Storage backs SLOAD and SSTORE. Keys and values are 32-byte words.
type Storage interface {
	// Load returns the value at key. Unset keys read as the zero hash.
	Load(key types.Hash) (types.Hash, error)

	// Store writes value at key.
	Store(key, value types.Hash) error
}

// WorldState answers queries about accounts and blocks beyond the
// current frame, backing BALANCE, BLOCKHASH, EXTCODESIZE, EXTCODECOPY,
// EXTCODEHASH, and GAS.
type WorldState interface {
	Balance(addr types.Address) *uint256.Int
	BlockHash(number uint64) types.Hash
	CodeSize(addr types.Address) uint64
	Code(addr types.Address) []byte
	CodeHash(addr types.Address) types.Hash

	// Gas returns the gas remaining in the surrounding environment.
	// Metering itself is not this engine's concern.
	Gas() uint64
}

// CallKind identifies which member of the call family is delegating.
type CallKind int

const (
	CallKindCall CallKind = iota
	CallKindCallCode
	CallKindDelegateCall
	CallKindStaticCall
	CallKindCreate
	CallKindCreate2
)

var callKindNames = [...]string{"call", "callcode", "delegatecall", "staticcall", "create", "create2"}

func (k CallKind) String() string {
	if int(k) < len(callKindNames) {
		return callKindNames[k]
	}
	return "unknown"
}

// Caller executes sub-calls and contract creation on behalf of the
// engine, which still pushes the result word and copies output per the
// calling convention.
//
// For the call kinds, output becomes the frame's return data and success
// becomes the pushed word. For the create kinds, target and salt carry no
// meaning beyond what the hook assigns; on success the hook returns the
// 20-byte address of the created contract as output, and the engine
// pushes it.
type Caller interface {
	Call(kind CallKind, target types.Address, value *uint256.Int, input []byte) (success bool, output []byte, err error)
}

// Logger receives LOG0..LOG4 emissions.
type Logger interface {
	Log(addr types.Address, topics []types.Hash, data []byte) error
}

// CallContext holds the read-only fields of the current frame, exposed
// by ADDRESS, CALLER, ORIGIN, CALLVALUE, and GASPRICE. The zero value is
// a valid context with zero addresses and values.
type CallContext struct {
	Address  types.Address
	Caller   types.Address
	Origin   types.Address
	Value    uint256.Int
	GasPrice uint256.Int
}

// BlockContext holds the block fields exposed by COINBASE, TIMESTAMP,
// NUMBER, DIFFICULTY, GASLIMIT, and CHAINID. The zero value is valid.
type BlockContext struct {
	Coinbase   types.Address
	Timestamp  uint64
	Number     uint64
	Difficulty uint64
	GasLimit   uint64
	ChainID    uint64
}

// MapStorage is an in-memory Storage for embedding and tests.
type MapStorage map[types.Hash]types.Hash

// Load implements Storage.
func (m MapStorage) Load(key types.Hash) (types.Hash, error) {
	return m[key], nil
}

// Store implements Storage.
func (m MapStorage) Store(key, value types.Hash) error {
	m[key] = value
	return nil
}
