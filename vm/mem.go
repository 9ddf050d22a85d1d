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

import "github.com/pkg/errors"

// Cell is the raw type stored in a memory location.
type Cell int64

// Memory is the address space of a running program. Valid addresses are in the
// range [0, len).
type Memory []Cell

// NewMemory returns a new Memory initialized with a copy of the program.
func NewMemory(p Program) Memory {
	m := make(Memory, len(p))
	copy(m, p)
	return m
}

func (m Memory) check(addr Cell) error {
	if addr < 0 || addr >= Cell(len(m)) {
		return errors.Wrapf(ErrOutOfBounds, "address %d, memory size %d", addr, len(m))
	}
	return nil
}

// Read returns the parameter at address addr under the given mode. In
// Immediate mode, the value at addr is returned as is. In Position mode, the
// value at addr is used as the address of the value to return.
func (m Memory) Read(addr Cell, mode Mode) (Cell, error) {
	if err := m.check(addr); err != nil {
		return 0, err
	}
	switch mode {
	case Immediate:
		return m[addr], nil
	case Position:
		p := m[addr]
		if err := m.check(p); err != nil {
			return 0, err
		}
		return m[p], nil
	default:
		return 0, errors.Wrapf(ErrInvalidParameterMode, "mode %d", mode)
	}
}

// Write stores v at address addr.
func (m Memory) Write(addr Cell, v Cell) error {
	if err := m.check(addr); err != nil {
		return err
	}
	m[addr] = v
	return nil
}

// Snapshot returns a copy of the memory contents.
func (m Memory) Snapshot() []Cell {
	s := make([]Cell, len(m))
	copy(s, m)
	return s
}
