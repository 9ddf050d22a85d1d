// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Opcode is the operation selector of an instruction: the two low decimal
// digits of the instruction word.
type Opcode uint8

// OpHalt is the reserved halt opcode. It is recognized by the dispatch loop
// and cannot be registered in an InstructionSet.
const OpHalt Opcode = 99

// Opcodes of the stock instructions.
const (
	OpAdd Opcode = 1
	OpMul Opcode = 2
	OpIn  Opcode = 3
	OpOut Opcode = 4
)

// Mode is a parameter addressing mode.
type Mode uint8

// Parameter modes.
const (
	Position  Mode = 0 // the parameter is the address of the operand
	Immediate Mode = 1 // the parameter is the operand
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// DecodeOpcode returns the opcode of the given instruction word. Negative
// words decode to opcodes that can never be registered.
func DecodeOpcode(word Cell) Opcode {
	op := word % 100
	if op < 0 {
		op += 256
	}
	return Opcode(op)
}

// DecodeMode returns the mode of the parameter at index i (0 based) encoded
// in word.
func DecodeMode(word Cell, i int) (Mode, error) {
	// skip the two opcode digits
	for n := 0; n < i+2; n++ {
		word /= 10
	}
	switch d := word % 10; d {
	case 0:
		return Position, nil
	case 1:
		return Immediate, nil
	default:
		return 0, errors.Wrapf(ErrInvalidParameterMode, "mode digit %d for parameter %d", d, i)
	}
}

// Handler implements the effect of an instruction. It receives the resolved
// parameters along with the live memory and I/O endpoints. Write destination
// parameters are passed as addresses.
type Handler func(params []Cell, m Memory, in CellReader, out CellWriter) error

// Instruction describes an opcode.
type Instruction struct {
	Opcode  Opcode
	Name    string // mnemonic, used in traces
	Params  int    // number of parameters
	Writes  []int  // indices of write destination parameters
	Handler Handler
}

// Width returns the number of memory cells occupied by the instruction,
// including the instruction word itself.
func (ins *Instruction) Width() int {
	return ins.Params + 1
}

func (ins *Instruction) isWrite(i int) bool {
	for _, w := range ins.Writes {
		if w == i {
			return true
		}
	}
	return false
}

// Decode resolves the parameters of the instruction at address pc.
func (ins *Instruction) Decode(pc int, m Memory) ([]Cell, error) {
	word, err := m.Read(Cell(pc), Immediate)
	if err != nil {
		return nil, err
	}
	params := make([]Cell, ins.Params)
	for i := range params {
		mode := Immediate
		if !ins.isWrite(i) {
			if mode, err = DecodeMode(word, i); err != nil {
				return nil, err
			}
		}
		if params[i], err = m.Read(Cell(pc+i+1), mode); err != nil {
			return nil, err
		}
	}
	return params, nil
}

// Execute decodes the instruction at address pc and calls its handler. It
// does not update any program counter.
func (ins *Instruction) Execute(pc int, m Memory, in CellReader, out CellWriter) error {
	return ins.execute(pc, m, in, out, nil)
}

// execute is Execute with a hook called with the decoded parameters before
// the handler runs. A hook error aborts the instruction.
func (ins *Instruction) execute(pc int, m Memory, in CellReader, out CellWriter, hook func(params []Cell) error) error {
	params, err := ins.Decode(pc, m)
	if err != nil {
		return err
	}
	if hook != nil {
		if err = hook(params); err != nil {
			return err
		}
	}
	return ins.Handler(params, m, in, out)
}

// InstructionSet maps opcodes to instructions.
type InstructionSet map[Opcode]*Instruction

// NewInstructionSet builds an InstructionSet from the given instructions.
func NewInstructionSet(instructions ...*Instruction) (InstructionSet, error) {
	s := make(InstructionSet, len(instructions))
	for _, ins := range instructions {
		switch {
		case ins.Opcode == OpHalt:
			return nil, errors.Wrapf(ErrReservedOpcode, "%s: opcode %d", ins.Name, ins.Opcode)
		case ins.Opcode >= 100:
			return nil, errors.Errorf("%s: opcode %d does not fit in two digits", ins.Name, ins.Opcode)
		case ins.Handler == nil:
			return nil, errors.Errorf("%s: nil handler", ins.Name)
		case ins.Params < 0:
			return nil, errors.Errorf("%s: negative parameter count", ins.Name)
		}
		if prev, ok := s[ins.Opcode]; ok {
			return nil, errors.Wrapf(ErrDuplicateOpcode, "opcode %d: %s and %s", ins.Opcode, prev.Name, ins.Name)
		}
		for _, w := range ins.Writes {
			if w < 0 || w >= ins.Params {
				return nil, errors.Errorf("%s: write parameter index %d out of range", ins.Name, w)
			}
		}
		s[ins.Opcode] = ins
	}
	return s, nil
}

// Lookup returns the instruction registered for op.
func (s InstructionSet) Lookup(op Opcode) (*Instruction, error) {
	if ins, ok := s[op]; ok {
		return ins, nil
	}
	return nil, errors.Wrapf(ErrUnknownOpcode, "opcode %d", op)
}

// Opcodes returns the registered opcodes in ascending order.
func (s InstructionSet) Opcodes() []Opcode {
	ops := make([]Opcode, 0, len(s))
	for op := range s {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Stock instructions.
var (
	// Add: p2 = p0 + p1
	Add = &Instruction{OpAdd, "add", 3, []int{2}, func(p []Cell, m Memory, _ CellReader, _ CellWriter) error {
		return m.Write(p[2], p[0]+p[1])
	}}
	// Mul: p2 = p0 * p1
	Mul = &Instruction{OpMul, "mul", 3, []int{2}, func(p []Cell, m Memory, _ CellReader, _ CellWriter) error {
		return m.Write(p[2], p[0]*p[1])
	}}
	// In: p0 = next input value
	In = &Instruction{OpIn, "in", 1, []int{0}, func(p []Cell, m Memory, in CellReader, _ CellWriter) error {
		if in == nil {
			return ErrInputExhausted
		}
		v, err := in.ReadCell()
		if err != nil {
			return err
		}
		return m.Write(p[0], v)
	}}
	// Out: emit p0
	Out = &Instruction{OpOut, "out", 1, nil, func(p []Cell, _ Memory, _ CellReader, out CellWriter) error {
		if out == nil {
			return nil
		}
		return out.WriteCell(p[0])
	}}
)

// mustInstructionSet is like NewInstructionSet but panics on error. It is
// only used with the stock instructions.
func mustInstructionSet(instructions ...*Instruction) InstructionSet {
	s, err := NewInstructionSet(instructions...)
	if err != nil {
		panic(err)
	}
	return s
}

// Arithmetic returns the instruction set of the first Intcode machines: add
// and multiply.
func Arithmetic() InstructionSet {
	return mustInstructionSet(Add, Mul)
}

// Standard returns the arithmetic instruction set extended with the In and
// Out instructions.
func Standard() InstructionSet {
	return mustInstructionSet(Add, Mul, In, Out)
}
