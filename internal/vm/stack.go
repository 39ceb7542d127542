package vm

import "errors"

const StackSize = 16

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

// Stack holds up to 16 return addresses. A full or empty stack is reported
// as an error and left unchanged.
type Stack struct {
	addrs [StackSize]uint16
	sp    int
}

func (s *Stack) Push(addr uint16) error {
	if s.sp >= StackSize {
		return ErrStackOverflow
	}

	s.addrs[s.sp] = addr
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}

	s.sp--
	return s.addrs[s.sp], nil
}

// Len returns the stack pointer: the number of saved return addresses.
func (s *Stack) Len() int {
	return s.sp
}

func (s *Stack) reset() {
	for i := range s.addrs {
		s.addrs[i] = 0
	}
	s.sp = 0
}
