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

// The intcode command line tool runs Intcode programs with the
// github.com/db47h/intcode/vm package.
//
// Usage:
//
//	intcode [flags] [program]
//
//	-debug
//		  enable debug diagnostics
//	-dump
//		  print the final memory upon exit
//	-find value
//		  search the noun and verb producing value at address 0
//	-input list
//		  comma separated list of input values
//	-isa name
//		  instruction set: standard or arith (default "standard")
//	-noprompt
//		  do not prompt for input, even if stdin is a terminal
//	-noun value
//		  value to store at address 1 before running
//	-peek address
//		  print the value at address after halting (can be specified multiple times)
//	-program filename
//		  load program from file filename
//	-stdin
//		  read input values from stdin once -input and -with values are exhausted
//	-trace
//		  trace execution to stderr
//	-verb value
//		  value to store at address 2 before running
//	-with filename
//		  add filename to the input list (can be specified multiple times)
//	-workers int
//		  number of concurrent runs for -find (default GOMAXPROCS)
//
// The program file contains a comma separated list of integers. Files with a
// .zst extension are decompressed on the fly. The program file name can be
// given either with the -program flag or as the first argument.
//
// Output values are printed one per line on stdout.
//
// Input values are taken from the -input list first, then from each -with
// file in order of appearance on the command line, and finally from stdin if
// -stdin is set. When stdin is a terminal, a prompt is printed on stderr
// before reading each value. The program faults if it requests more input
// than available.
//
// -find: runs the noun/verb sweep instead of a single execution: the program
// is run with every noun and verb in [0, 100) stored at addresses 1 and 2
// until address 0 holds the requested value. The matching pair is printed
// along with 100 * noun + verb. Usually combined with -isa arith.
//
// -debug: logs the program fingerprint and prints a full stacktrace and the
// machine state should the program fault.
package main
