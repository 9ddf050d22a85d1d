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

// Package vm implements an Intcode virtual machine.
//
// An Intcode program is a flat array of signed integers used both as code and
// data. Each instruction starts with a word whose two low decimal digits are
// the opcode. The remaining digits hold one parameter mode per parameter,
// least significant first: 0 for position mode (the parameter is an address to
// dereference) and 1 for immediate mode (the parameter is the value itself).
//
// The machine is table driven: opcodes are described by Instruction values,
// grouped in an InstructionSet which is handed to New. The package provides
// the two instruction sets found in the wild: Arithmetic (add and multiply
// only) and Standard (add, multiply, input and output). Custom sets must be
// built with NewInstructionSet, which rejects duplicate opcodes and opcode 99,
// reserved for halting the machine. To extend a stock set, pass the stock
// instructions (Add, Mul, In, Out) along with the custom ones.
//
// Parameters flagged as write destinations are always decoded in immediate
// mode, so that handlers receive the destination address rather than the
// value stored there. The program counter is not updated by handlers: after
// each instruction it is advanced by the instruction's width (parameter count
// plus one).
//
// A Computer never modifies the Program it is given. Each call to Execute
// works on a private copy of the program, so the same Computer and Program can
// be used concurrently from several goroutines.
//
// Input and output go through the CellReader and CellWriter interfaces. Input
// and Output are the in-memory implementations; NewTextReader and
// NewTextWriter adapt regular io.Readers and io.Writers.
package vm
