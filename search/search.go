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

// Package search implements the noun/verb parameter sweep used to reverse
// engineer the inputs of arithmetic Intcode programs.
//
// The program inputs are the values at addresses 1 (the noun) and 2 (the
// verb); its result is the value left at address 0 when it halts.
package search

import (
	"context"
	"runtime"
	"sync"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Addresses of the program inputs and result.
const (
	NounAddr   = 1
	VerbAddr   = 2
	ResultAddr = 0
)

// ErrNotFound is returned by NounVerb when no pair produces the target value.
var ErrNotFound = errors.New("no noun/verb pair produces the target value")

// Result is a noun/verb pair.
type Result struct {
	Noun, Verb vm.Cell
}

// Answer returns 100 * noun + verb.
func (r Result) Answer() vm.Cell {
	return 100*r.Noun + r.Verb
}

// Eval runs a copy of p with the given noun and verb and returns the value at
// address 0.
func Eval(c *vm.Computer, p vm.Program, noun, verb vm.Cell) (vm.Cell, error) {
	q, err := p.Patch(NounAddr, noun)
	if err != nil {
		return 0, err
	}
	if q, err = q.Patch(VerbAddr, verb); err != nil {
		return 0, err
	}
	m, err := c.Execute(q, nil, nil)
	if err != nil {
		return 0, err
	}
	return m.Read(ResultAddr, vm.Immediate)
}

type config struct {
	workers int
	span    int
}

// Option configures NounVerb.
type Option func(*config)

// Workers sets the maximum number of concurrent evaluations. The default is
// GOMAXPROCS.
func Workers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// Range sets the exclusive upper bound of nouns and verbs. The default is 100.
func Range(n int) Option {
	return func(c *config) { c.span = n }
}

// NounVerb searches for the noun and verb, both in [0, Range), for which p
// leaves target at address 0. If several pairs match, the one with the
// smallest noun, then smallest verb, is returned.
//
// Candidates are evaluated concurrently, one noun per goroutine. Candidate
// runs that fault are skipped; if no pair matches, the returned error wraps
// ErrNotFound and reports how many runs faulted.
func NounVerb(ctx context.Context, c *vm.Computer, p vm.Program, target vm.Cell, opts ...Option) (Result, error) {
	cfg := config{workers: runtime.GOMAXPROCS(0), span: 100}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(p) <= VerbAddr {
		return Result{}, errors.Wrapf(vm.ErrOutOfBounds, "program size %d too small for noun/verb", len(p))
	}

	var (
		mu     sync.Mutex
		faults int
		fault  error
	)
	best := -1  // noun*span + verb of the best match
	first := -1 // index of the first faulted run
	// found reports whether a match better than index idx exists.
	found := func(idx int) bool {
		mu.Lock()
		defer mu.Unlock()
		return best >= 0 && best < idx
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for noun := 0; noun < cfg.span; noun++ {
		if gctx.Err() != nil || found(noun*cfg.span) {
			break
		}
		noun := noun
		g.Go(func() error {
			for verb := 0; verb < cfg.span; verb++ {
				idx := noun*cfg.span + verb
				if err := gctx.Err(); err != nil {
					return err
				}
				if found(idx) {
					return nil
				}
				v, err := Eval(c, p, vm.Cell(noun), vm.Cell(verb))
				mu.Lock()
				switch {
				case err != nil:
					faults++
					if first < 0 || idx < first {
						first, fault = idx, err
					}
				case v == target && (best < 0 || idx < best):
					best = idx
				}
				mu.Unlock()
				if err == nil && v == target {
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if best < 0 {
		if faults > 0 {
			return Result{}, errors.Wrapf(ErrNotFound, "%d runs faulted, first: %v", faults, fault)
		}
		return Result{}, ErrNotFound
	}
	return Result{vm.Cell(best / cfg.span), vm.Cell(best % cfg.span)}, nil
}
