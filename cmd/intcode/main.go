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
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"github.com/db47h/intcode/search"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

type fileList []string

func (f *fileList) String() string     { return "" }
func (f *fileList) Set(s string) error { *f = append(*f, s); return nil }
func (f *fileList) Get() interface{}   { return *f }

type cellList []vm.Cell

func (l *cellList) String() string { return vm.Program(*l).String() }
func (l *cellList) Set(s string) error {
	p, err := vm.Parse("list", strings.NewReader(s))
	if err != nil {
		return err
	}
	*l = append(*l, p...)
	return nil
}
func (l *cellList) Get() interface{} { return *l }

type addrList []int

func (l *addrList) String() string { return fmt.Sprint(*l) }
func (l *addrList) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if n < 0 {
		return errors.Errorf("negative address %d", n)
	}
	*l = append(*l, n)
	return nil
}
func (l *addrList) Get() interface{} { return *l }

// optCell is a vm.Cell flag that records whether it has been set.
type optCell struct {
	set bool
	v   vm.Cell
}

func (c *optCell) String() string {
	if c == nil || !c.set {
		return ""
	}
	return strconv.FormatInt(int64(c.v), 10)
}
func (c *optCell) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	c.v, c.set = vm.Cell(n), true
	return nil
}
func (c *optCell) Get() interface{} { return c.v }

var (
	debug    bool
	dump     bool
	trace    bool
	useStdin bool
	noPrompt bool
	isaName  = "standard"
	workers  = runtime.GOMAXPROCS(0)
	noun     optCell
	verb     optCell
	target   optCell
	input    cellList
	withList fileList
	peekList addrList
)

func instructionSet(name string) (vm.InstructionSet, error) {
	switch name {
	case "standard", "std":
		return vm.Standard(), nil
	case "arith", "arithmetic":
		return vm.Arithmetic(), nil
	default:
		return nil, errors.Errorf("unknown instruction set %q", name)
	}
}

// inputReader chains the -input values, -with files and stdin.
func inputReader() (vm.CellReader, error) {
	rs := []vm.CellReader{vm.NewInput(input...)}
	for _, fn := range withList {
		f, err := os.Open(fn)
		if err != nil {
			return nil, errors.Wrap(err, "input file")
		}
		rs = append(rs, vm.NewTextReadCloser(f))
	}
	if useStdin {
		r := vm.NewTextReader(os.Stdin)
		if !noPrompt && isTerminal(os.Stdin) {
			r.Prompt = func() { fmt.Fprint(os.Stderr, "? ") }
		}
		rs = append(rs, r)
	}
	return vm.MultiReader(rs...), nil
}

func patch(p vm.Program) (vm.Program, error) {
	var err error
	if noun.set {
		if p, err = p.Patch(search.NounAddr, noun.v); err != nil {
			return nil, err
		}
	}
	if verb.set {
		if p, err = p.Patch(search.VerbAddr, verb.v); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func atExit(m vm.Memory, err error) {
	if err == nil {
		return
	}
	if !debug {
		log.Printf("%v", err)
		os.Exit(1)
	}
	log.Printf("%+v", err)
	if f, ok := err.(*vm.Fault); ok && m != nil {
		log.Printf("PC: %d (%d), memory:", f.PC, f.Word)
		dumpMemory(os.Stderr, m)
	}
	os.Exit(1)
}

func main() {
	var (
		err error
		m   vm.Memory
	)

	stdout := bufio.NewWriter(os.Stdout)

	// flush output, catch and log errors
	defer func() {
		stdout.Flush()
		atExit(m, err)
	}()

	var fileName = flag.String("program", "", "load program from file `filename`")
	flag.StringVar(&isaName, "isa", isaName, "instruction set: standard or arith")
	flag.Var(&input, "input", "comma separated `list` of input values")
	flag.Var(&withList, "with", "add `filename` to the input list (can be specified multiple times)")
	flag.BoolVar(&useStdin, "stdin", false, "read input values from stdin once -input and -with values are exhausted")
	flag.BoolVar(&noPrompt, "noprompt", false, "do not prompt for input, even if stdin is a terminal")
	flag.Var(&noun, "noun", "`value` to store at address 1 before running")
	flag.Var(&verb, "verb", "`value` to store at address 2 before running")
	flag.Var(&target, "find", "search the noun and verb producing `value` at address 0")
	flag.IntVar(&workers, "workers", workers, "number of concurrent runs for -find")
	flag.Var(&peekList, "peek", "print the value at `address` after halting (can be specified multiple times)")
	flag.BoolVar(&dump, "dump", false, "print the final memory upon exit")
	flag.BoolVar(&trace, "trace", false, "trace execution to stderr")
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")

	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("intcode: ")

	if flag.NArg() > 0 {
		*fileName = flag.Arg(0)
	}
	if *fileName == "" {
		flag.Usage()
		err = errors.New("no program file")
		return
	}

	p, err := vm.Load(*fileName)
	if err != nil {
		return
	}
	if debug {
		log.Printf("loaded %s: %d cells, fingerprint %s", *fileName, len(p), p.Fingerprint())
	}

	isa, err := instructionSet(isaName)
	if err != nil {
		return
	}
	var opts []vm.Option
	if trace {
		opts = append(opts, vm.Trace(os.Stderr))
	}
	c, err := vm.New(isa, opts...)
	if err != nil {
		return
	}

	if target.set {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		var r search.Result
		r, err = search.NounVerb(ctx, c, p, target.v, search.Workers(workers))
		if err != nil {
			return
		}
		fmt.Fprintf(stdout, "noun=%d verb=%d answer=%d\n", r.Noun, r.Verb, r.Answer())
		return
	}

	if p, err = patch(p); err != nil {
		return
	}
	in, err := inputReader()
	if err != nil {
		return
	}
	m, err = c.Execute(p, in, vm.NewTextWriter(stdout))
	if err != nil {
		return
	}
	if err = peek(stdout, m, peekList); err != nil {
		return
	}
	if dump {
		err = dumpMemory(stdout, m)
	}
}
