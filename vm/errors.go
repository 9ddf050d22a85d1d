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

	"github.com/pkg/errors"
)

// Errors returned by the VM. Faults raised during execution wrap one of these
// in a *Fault; use errors.Cause to get back the error kind.
var (
	ErrOutOfBounds          = errors.New("address out of bounds")
	ErrInvalidParameterMode = errors.New("invalid parameter mode")
	ErrUnknownOpcode        = errors.New("unknown opcode")
	ErrInputExhausted       = errors.New("input exhausted")
	ErrDuplicateOpcode      = errors.New("duplicate opcode")
	ErrReservedOpcode       = errors.New("reserved opcode")
	ErrHalted               = errors.New("machine halted")
)

// Fault is the error returned when execution aborts. PC is the address of the
// instruction that triggered the fault and Word the instruction word found
// there.
type Fault struct {
	PC   int
	Word Cell
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("pc %d (word %d): %v", f.PC, f.Word, f.Err)
}

// Cause returns the underlying error. It enables errors.Cause to return the
// error kind (ErrUnknownOpcode, ErrOutOfBounds...).
func (f *Fault) Cause() error { return f.Err }

// Unwrap supports the standard library errors.Is and errors.As.
func (f *Fault) Unwrap() error { return f.Err }

// Opcode returns the opcode decoded from the faulting instruction word.
func (f *Fault) Opcode() Opcode { return DecodeOpcode(f.Word) }

// Format implements fmt.Formatter. The %+v verb prints the stack trace of the
// underlying error, if any.
func (f *Fault) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "pc %d (word %d): %+v", f.PC, f.Word, f.Err)
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(s, f.Error())
	case 'q':
		fmt.Fprintf(s, "%q", f.Error())
	}
}
