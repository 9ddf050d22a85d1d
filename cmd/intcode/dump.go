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

package main

import (
	"fmt"
	"io"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
)

// peek prints the values at the given addresses.
func peek(w io.Writer, m vm.Memory, addrs []int) error {
	ew := ici.NewErrWriter(w)
	for _, a := range addrs {
		v, err := m.Read(vm.Cell(a), vm.Immediate)
		if err != nil {
			return err
		}
		fmt.Fprintf(ew, "[%d] %d\n", a, v)
	}
	return ew.Err
}

// dumpMemory prints the memory contents in program format.
func dumpMemory(w io.Writer, m vm.Memory) error {
	ew := ici.NewErrWriter(w)
	ici.WriteCells(ew, []vm.Cell(m), ',')
	ew.Write([]byte{'\n'})
	return ew.Err
}
