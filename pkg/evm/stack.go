package evm

import (
	"github.com/holiman/uint256"
)

// StackLimit is the maximum number of words on the stack.
const StackLimit = 1024

// Stack is the word stack of one execution frame. Values are pushed and
// popped only at the top; SWAP exchanges the top with a deeper slot and
// DUP copies a deeper slot to the top. All operations are O(1).
type Stack struct {
	data []uint256.Int
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{data: make([]uint256.Int, 0, 16)}
}

// Depth returns the number of words on the stack.
func (s *Stack) Depth() int {
	return len(s.data)
}

// Push appends a word to the top of the stack.
func (s *Stack) Push(v *uint256.Int) error {
	if len(s.data) >= StackLimit {
		return ErrStackOverflow
	}
	s.data = append(s.data, *v)
	return nil
}

// Pop removes and returns the top word.
func (s *Stack) Pop() (uint256.Int, error) {
	if len(s.data) == 0 {
		return uint256.Int{}, ErrStackUnderflow
	}
	return s.pop(), nil
}

// Peek returns the word at the given depth without removing it.
// Depth 0 is the top of the stack.
func (s *Stack) Peek(n int) (uint256.Int, error) {
	if n < 0 || n >= len(s.data) {
		return uint256.Int{}, ErrStackUnderflow
	}
	return s.data[len(s.data)-n-1], nil
}

// Swap exchanges the top word with the word at depth n.
func (s *Stack) Swap(n int) error {
	if n < 1 || n >= len(s.data) {
		return ErrStackUnderflow
	}
	s.swap(n)
	return nil
}

// Dup pushes a copy of the word at depth n-1.
func (s *Stack) Dup(n int) error {
	if n < 1 || n > len(s.data) {
		return ErrStackUnderflow
	}
	if len(s.data) >= StackLimit {
		return ErrStackOverflow
	}
	s.dup(n)
	return nil
}

// Unchecked accessors used by opcode handlers. The dispatch loop has
// already validated stack depth against the operation's requirements.

func (s *Stack) push(v *uint256.Int) {
	s.data = append(s.data, *v)
}

func (s *Stack) pop() uint256.Int {
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v
}

// peek returns a pointer to the top word. Handlers write results through
// it to avoid a pop/push pair.
func (s *Stack) peek() *uint256.Int {
	return &s.data[len(s.data)-1]
}

func (s *Stack) swap(n int) {
	top := len(s.data) - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}

func (s *Stack) dup(n int) {
	s.data = append(s.data, s.data[len(s.data)-n])
}
