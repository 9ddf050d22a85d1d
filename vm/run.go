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
	"fmt"

	"github.com/db47h/intcode/internal/ici"
	"github.com/pkg/errors"
)

// State is the execution state of an Instance.
type State int

// Execution states. Halted and Faulted are terminal.
const (
	Running State = iota
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Instance is a single execution of a program.
type Instance struct {
	PC       int    // Program Counter
	Mem      Memory // private copy of the program
	isa      InstructionSet
	in       CellReader
	out      CellWriter
	state    State
	err      error
	insCount int64
	trace    *ici.ErrWriter
}

// State returns the current execution state.
func (i *Instance) State() State {
	return i.state
}

// Err returns the fault that stopped execution, if any.
func (i *Instance) Err() error {
	return i.err
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

func (i *Instance) fault(word Cell, err error) error {
	f := &Fault{PC: i.PC, Word: word, Err: err}
	i.state = Faulted
	i.err = f
	return f
}

// Step executes a single instruction. If the instruction at PC is the halt
// opcode, the instance transitions to the Halted state and Step returns nil.
// Calling Step on a halted instance returns ErrHalted, and on a faulted
// instance the original fault.
//
// If an error occurs, the PC will point to the instruction that triggered it.
func (i *Instance) Step() (err error) {
	switch i.state {
	case Halted:
		return ErrHalted
	case Faulted:
		return i.err
	}

	var word Cell
	defer func() {
		if e := recover(); e != nil {
			err = i.fault(word, errors.Errorf("%v", e))
		}
	}()

	word, err = i.Mem.Read(Cell(i.PC), Immediate)
	if err != nil {
		return i.fault(0, err)
	}
	op := DecodeOpcode(word)
	if op == OpHalt {
		i.state = Halted
		return nil
	}
	ins, err := i.isa.Lookup(op)
	if err != nil {
		return i.fault(word, err)
	}
	var hook func([]Cell) error
	if i.trace != nil {
		hook = func(params []Cell) error {
			i.traceStep(ins, params)
			return i.trace.Err
		}
	}
	if err = ins.execute(i.PC, i.Mem, i.in, i.out, hook); err != nil {
		return i.fault(word, err)
	}
	i.PC += ins.Width()
	i.insCount++
	return nil
}

// Run executes instructions until the program halts or faults. Running a
// halted instance is a no-op.
func (i *Instance) Run() error {
	for i.state == Running {
		if err := i.Step(); err != nil {
			return err
		}
	}
	if i.state == Faulted {
		return i.err
	}
	return nil
}

// traceStep writes pc, mnemonic, raw instruction words and resolved
// parameters.
func (i *Instance) traceStep(ins *Instruction, params []Cell) {
	fmt.Fprintf(i.trace, "% 6d\t%-4s\t", i.PC, ins.Name)
	ici.WriteCells(i.trace, []Cell(i.Mem[i.PC:i.PC+ins.Width()]), ',')
	i.trace.Write([]byte{'\t'})
	ici.WriteCells(i.trace, params, ' ')
	i.trace.Write([]byte{'\n'})
}
