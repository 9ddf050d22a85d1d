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

package vm_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

type C []vm.Cell

func setup(t *testing.T, isa vm.InstructionSet, opts ...vm.Option) *vm.Computer {
	t.Helper()
	c, err := vm.New(isa, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func check(t *testing.T, testName string, c *vm.Computer, code, input, mem, output C) {
	t.Helper()
	m, out, err := c.Run(vm.Program(code), input...)
	if err != nil {
		t.Errorf("%s: %+v", testName, err)
		return
	}
	if mem != nil {
		if diff := cmp.Diff([]vm.Cell(mem), []vm.Cell(m)); diff != "" {
			t.Errorf("%s: memory mismatch (-want +got):\n%s", testName, diff)
		}
	}
	if diff := cmp.Diff([]vm.Cell(output), out); diff != "" {
		t.Errorf("%s: output mismatch (-want +got):\n%s", testName, diff)
	}
}

var tests = [...]struct {
	name   string
	code   C
	input  C
	mem    C
	output C
}{
	{"halt", C{99}, nil, C{99}, nil},
	{"add", C{1, 0, 0, 0, 99}, nil, C{2, 0, 0, 0, 99}, nil},
	{"mul", C{2, 3, 0, 3, 99}, nil, C{2, 3, 0, 6, 99}, nil},
	{"mul-far", C{2, 4, 4, 5, 99, 0}, nil, C{2, 4, 4, 5, 99, 9801}, nil},
	{"self-modifying", C{1, 1, 1, 4, 99, 5, 6, 0, 99}, nil, C{30, 1, 1, 4, 2, 5, 6, 0, 99}, nil},
	{"arithmetic", C{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, nil, C{3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50}, nil},
	{"echo", C{3, 0, 4, 0, 99}, C{42}, C{42, 0, 4, 0, 99}, C{42}},
	{"immediate-mul", C{1002, 4, 3, 4, 33}, nil, C{1002, 4, 3, 4, 99}, nil},
	{"immediate-add", C{1101, 100, -1, 4, 0}, nil, C{1101, 100, -1, 4, 99}, nil},
	{"immediate-out", C{104, -7, 99}, nil, nil, C{-7}},
	{"in-order", C{3, 9, 3, 10, 4, 10, 4, 9, 99, 0, 0}, C{1, 2}, nil, C{2, 1}},
	{"halt-modes", C{1199}, nil, C{1199}, nil},
	{"write-forced-immediate", C{1101, 2, 3, 5, 99, 0}, nil, C{1101, 2, 3, 5, 99, 5}, nil},
	{"write-mode-ignored", C{21101, 2, 3, 5, 99, 0}, nil, C{21101, 2, 3, 5, 99, 5}, nil},
}

func TestCore(t *testing.T) {
	c := setup(t, vm.Standard())
	for _, test := range tests {
		check(t, test.name, c, test.code, test.input, test.mem, test.output)
	}
}

func TestWidth(t *testing.T) {
	c := setup(t, vm.Standard())
	p := vm.Program{1101, 1, 2, 0, 3, 0, 4, 0, 1102, 3, 3, 0, 99}
	i := c.Load(p, vm.NewInput(5), nil)
	for _, want := range []int{4, 6, 8, 12} {
		if err := i.Step(); err != nil {
			t.Fatalf("%+v", err)
		}
		if i.PC != want {
			t.Fatalf("Bad PC %d != %d", i.PC, want)
		}
	}
	if i.State() != vm.Running {
		t.Fatalf("Expected running state, got %v", i.State())
	}
	if err := i.Step(); err != nil {
		t.Fatalf("%+v", err)
	}
	if i.State() != vm.Halted || i.PC != 12 {
		t.Fatalf("Expected halted at 12, got %v at %d", i.State(), i.PC)
	}
	if err := i.Step(); err != vm.ErrHalted {
		t.Fatalf("Expected ErrHalted, got %v", err)
	}
	if n := i.InstructionCount(); n != 4 {
		t.Fatalf("Expected 4 instructions, got %d", n)
	}
}

func TestFaults(t *testing.T) {
	var faults = [...]struct {
		name  string
		isa   vm.InstructionSet
		code  C
		input C
		pc    int
		word  vm.Cell
		cause error
	}{
		{"unknown", vm.Standard(), C{5, 0, 0, 99}, nil, 0, 5, vm.ErrUnknownOpcode},
		{"unknown-late", vm.Standard(), C{1101, 0, 0, 0, 42}, nil, 4, 42, vm.ErrUnknownOpcode},
		{"negative-opcode", vm.Standard(), C{-1, 99}, nil, 0, -1, vm.ErrUnknownOpcode},
		{"arith-no-input", vm.Arithmetic(), C{3, 0, 99}, C{1}, 0, 3, vm.ErrUnknownOpcode},
		{"input-exhausted", vm.Standard(), C{3, 0, 3, 0, 99}, C{1}, 2, 3, vm.ErrInputExhausted},
		{"read-out-of-bounds", vm.Standard(), C{1, 100, 0, 0, 99}, nil, 0, 1, vm.ErrOutOfBounds},
		{"write-out-of-bounds", vm.Standard(), C{1101, 1, 1, 100, 99}, nil, 0, 1101, vm.ErrOutOfBounds},
		{"negative-address", vm.Standard(), C{4, -1, 99}, nil, 0, 4, vm.ErrOutOfBounds},
		{"truncated", vm.Standard(), C{1, 0, 0}, nil, 0, 1, vm.ErrOutOfBounds},
		{"run-off-end", vm.Standard(), C{1101, 1, 1, 0}, nil, 4, 0, vm.ErrOutOfBounds},
		{"invalid-mode", vm.Standard(), C{201, 0, 0, 0, 99}, nil, 0, 201, vm.ErrInvalidParameterMode},
	}

	for _, test := range faults {
		c := setup(t, test.isa)
		_, _, err := c.Run(vm.Program(test.code), test.input...)
		if err == nil {
			t.Errorf("%s: expected error", test.name)
			continue
		}
		f, ok := err.(*vm.Fault)
		if !ok {
			t.Errorf("%s: expected *vm.Fault, got %T: %v", test.name, err, err)
			continue
		}
		if f.PC != test.pc || f.Word != test.word {
			t.Errorf("%s: expected fault at pc %d word %d, got %v", test.name, test.pc, test.word, f)
		}
		if errors.Cause(err) != test.cause {
			t.Errorf("%s: expected cause %v, got %v", test.name, test.cause, errors.Cause(err))
		}
		if !errors.Is(err, test.cause) {
			t.Errorf("%s: errors.Is(%v) failed", test.name, test.cause)
		}
	}
}

func TestFaultIsTerminal(t *testing.T) {
	c := setup(t, vm.Standard())
	i := c.Load(vm.Program{5, 0, 0, 99}, nil, nil)
	err := i.Run()
	if err == nil || i.State() != vm.Faulted {
		t.Fatalf("Expected fault, got %v in state %v", err, i.State())
	}
	if f := err.(*vm.Fault); f.Opcode() != 5 {
		t.Fatalf("Expected opcode 5, got %d", f.Opcode())
	}
	if err2 := i.Step(); err2 != err {
		t.Fatalf("Expected same fault, got %v", err2)
	}
	if err2 := i.Run(); err2 != err || i.Err() != err {
		t.Fatalf("Expected same fault, got %v", err2)
	}
}

func TestFaultMemory(t *testing.T) {
	c := setup(t, vm.Standard())
	m, err := c.Execute(vm.Program{1101, 2, 3, 0, 77}, nil, nil)
	if errors.Cause(err) != vm.ErrUnknownOpcode {
		t.Fatalf("Expected unknown opcode, got %v", err)
	}
	if m[0] != 5 {
		t.Fatalf("Expected memory at fault time, got %v", m)
	}
}

func TestPanicRecovery(t *testing.T) {
	boom := &vm.Instruction{Opcode: 7, Name: "boom", Handler: func([]vm.Cell, vm.Memory, vm.CellReader, vm.CellWriter) error {
		panic("boom")
	}}
	isa, err := vm.NewInstructionSet(vm.Add, boom)
	if err != nil {
		t.Fatal(err)
	}
	c := setup(t, isa)
	_, _, err = c.Run(vm.Program{1101, 0, 0, 0, 7, 99})
	f, ok := err.(*vm.Fault)
	if !ok || f.PC != 4 || !strings.Contains(f.Error(), "boom") {
		t.Fatalf("Expected recovered fault at pc 4, got %v", err)
	}
}

func TestProgramNotModified(t *testing.T) {
	c := setup(t, vm.Standard())
	p := vm.Program{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}
	orig := p.Clone()
	m1, _, err := c.Run(p)
	if err != nil {
		t.Fatal(err)
	}
	m2, _, err := c.Run(p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(orig, p); diff != "" {
		t.Fatalf("program modified (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m1, m2); diff != "" {
		t.Fatalf("runs differ (-first +second):\n%s", diff)
	}
}

func TestConcurrentExecute(t *testing.T) {
	c := setup(t, vm.Standard())
	p := vm.Program{3, 0, 1002, 0, 2, 0, 4, 0, 99}
	var wg sync.WaitGroup
	errs := make([]error, 16)
	for n := range errs {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, out, err := c.Run(p, vm.Cell(n))
			if err == nil && (len(out) != 1 || out[0] != vm.Cell(2*n)) {
				err = errors.Errorf("input %d: bad output %v", n, out)
			}
			errs[n] = err
		}(n)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

func TestTrace(t *testing.T) {
	var b bytes.Buffer
	c := setup(t, vm.Standard(), vm.Trace(&b))
	if _, _, err := c.Run(vm.Program{3, 0, 104, 7, 99}, 42); err != nil {
		t.Fatal(err)
	}
	exp := "     0\tin  \t3,0\t0\n     2\tout \t104,7\t7\n"
	if s := b.String(); s != exp {
		t.Fatalf("Expected:\n%q\ngot:\n%q", exp, s)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTraceError(t *testing.T) {
	c := setup(t, vm.Standard(), vm.Trace(failWriter{}))
	m, _, err := c.Run(vm.Program{1101, 2, 3, 0, 99})
	if err == nil || !strings.Contains(err.Error(), "closed") {
		t.Fatalf("Expected trace write error, got %v", err)
	}
	// the trace is written before the handler runs
	if m[0] != 1101 {
		t.Fatalf("Expected untouched memory after trace error, got %v", m)
	}
}

// Step and Instruction.Execute must have the same effect on memory and I/O.
func TestStepMatchesExecute(t *testing.T) {
	c := setup(t, vm.Standard())
	for _, d := range []struct {
		ins *vm.Instruction
		p   vm.Program
	}{
		{vm.Add, vm.Program{1, 5, 6, 7, 99, 20, 22, 0}},
		{vm.Mul, vm.Program{1002, 5, 3, 5, 99, 7}},
		{vm.In, vm.Program{3, 3, 99, 0}},
		{vm.Out, vm.Program{104, -4, 99}},
		{vm.Out, vm.Program{4, 3, 99, 8}},
	} {
		var xout, sout vm.Output
		m := vm.NewMemory(d.p)
		if err := d.ins.Execute(0, m, vm.NewInput(9), &xout); err != nil {
			t.Fatalf("%v: Execute: %v", d.p, err)
		}
		i := c.Load(d.p, vm.NewInput(9), &sout)
		if err := i.Step(); err != nil {
			t.Fatalf("%v: Step: %v", d.p, err)
		}
		if diff := cmp.Diff(m, i.Mem); diff != "" {
			t.Errorf("%v: memory mismatch (-Execute +Step):\n%s", d.p, diff)
		}
		if diff := cmp.Diff(xout.Values(), sout.Values()); diff != "" {
			t.Errorf("%v: output mismatch (-Execute +Step):\n%s", d.p, diff)
		}
		if i.PC != d.ins.Width() {
			t.Errorf("%v: expected PC %d, got %d", d.p, d.ins.Width(), i.PC)
		}
	}
}

func BenchmarkArithmetic(b *testing.B) {
	c, err := vm.New(vm.Arithmetic())
	if err != nil {
		b.Fatal(err)
	}
	p := vm.Program{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := c.Execute(p, nil, nil); err != nil {
			b.Fatal(err)
		}
	}
}
