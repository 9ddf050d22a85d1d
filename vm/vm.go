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
	"io"

	"github.com/db47h/intcode/internal/ici"
)

// Computer is an Intcode machine configured with an instruction set. A
// Computer holds no execution state and is safe for concurrent use.
type Computer struct {
	isa   InstructionSet
	trace io.Writer
}

// Option interface
type Option func(*Computer) error

// Trace enables execution tracing: one line is written to w for each executed
// instruction. Concurrent executions will interleave their traces.
func Trace(w io.Writer) Option {
	return func(c *Computer) error {
		c.trace = w
		return nil
	}
}

// SetOptions sets the provided options.
func (c *Computer) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Computer using the given instruction set. The instruction
// set must not be modified afterwards.
func New(isa InstructionSet, opts ...Option) (*Computer, error) {
	c := &Computer{isa: isa}
	if err := c.SetOptions(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// InstructionSet returns the instruction set of the computer.
func (c *Computer) InstructionSet() InstructionSet {
	return c.isa
}

// Load returns a new Instance ready to execute a copy of p. A nil in behaves
// as an empty input. Values written to a nil out are discarded.
func (c *Computer) Load(p Program, in CellReader, out CellWriter) *Instance {
	i := &Instance{
		Mem: NewMemory(p),
		isa: c.isa,
		in:  in,
		out: out,
	}
	if c.trace != nil {
		i.trace = ici.NewErrWriter(c.trace)
	}
	return i
}

// Execute runs a copy of p until it halts or faults and returns the final
// memory. On error, the returned memory reflects the state at the time of the
// fault and err is a *Fault.
func (c *Computer) Execute(p Program, in CellReader, out CellWriter) (Memory, error) {
	i := c.Load(p, in, out)
	err := i.Run()
	return i.Mem, err
}

// Run is a shorthand for Execute with an Input over the given values and a
// fresh Output. It returns the final memory and the output values.
func (c *Computer) Run(p Program, input ...Cell) (Memory, []Cell, error) {
	var out Output
	m, err := c.Execute(p, NewInput(input...), &out)
	return m, out.Values(), err
}
