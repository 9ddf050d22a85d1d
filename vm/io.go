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
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// CellReader is the interface that wraps the ReadCell method used by input
// instructions. ReadCell must return ErrInputExhausted (or an error whose
// cause is ErrInputExhausted) once no more values are available.
type CellReader interface {
	ReadCell() (Cell, error)
}

// CellWriter is the interface that wraps the WriteCell method used by output
// instructions.
type CellWriter interface {
	WriteCell(v Cell) error
}

// Input is a CellReader over a fixed list of values. Values are consumed in
// order.
type Input struct {
	values []Cell
	pos    int
}

// NewInput returns a new Input reading the given values. The values slice is
// not modified.
func NewInput(values ...Cell) *Input {
	return &Input{values: values}
}

// ReadCell returns the next value.
func (in *Input) ReadCell() (Cell, error) {
	if in.pos >= len(in.values) {
		return 0, ErrInputExhausted
	}
	v := in.values[in.pos]
	in.pos++
	return v, nil
}

// Remaining returns the number of unread values.
func (in *Input) Remaining() int {
	return len(in.values) - in.pos
}

// Output is a CellWriter that collects values in emission order. The zero
// value is ready to use.
type Output struct {
	values []Cell
}

// WriteCell appends v to the output. It never fails.
func (o *Output) WriteCell(v Cell) error {
	o.values = append(o.values, v)
	return nil
}

// Values returns the values written so far.
func (o *Output) Values() []Cell {
	return o.values
}

// Len returns the number of values written so far.
func (o *Output) Len() int {
	return len(o.values)
}

func isSeparator(c byte) bool {
	switch c {
	case ',', ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// scanCells is a bufio.SplitFunc returning comma or white space separated
// tokens.
func scanCells(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isSeparator(data[start]) {
		start++
	}
	for i := start; i < len(data); i++ {
		if isSeparator(data[i]) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

// TextReader is a CellReader that parses decimal integers from text. Values
// are separated by commas or white space.
type TextReader struct {
	s *bufio.Scanner
	// Prompt, if not nil, is called each time the underlying reader is read,
	// i.e. when all buffered values have been consumed.
	Prompt func()
}

// promptReader calls the TextReader's Prompt before reading from r.
type promptReader struct {
	r io.Reader
	t *TextReader
}

func (p promptReader) Read(b []byte) (int, error) {
	if p.t.Prompt != nil {
		p.t.Prompt()
	}
	return p.r.Read(b)
}

// NewTextReader returns a new TextReader reading from r.
func NewTextReader(r io.Reader) *TextReader {
	t := new(TextReader)
	t.s = bufio.NewScanner(promptReader{r, t})
	t.s.Split(scanCells)
	return t
}

// ReadCell reads the next integer. End of input is reported as
// ErrInputExhausted.
func (r *TextReader) ReadCell() (Cell, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return 0, errors.Wrap(err, "read failed")
		}
		return 0, ErrInputExhausted
	}
	t := r.s.Text()
	n, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid input value %q", t)
	}
	return Cell(n), nil
}

// TextWriter is a CellWriter that writes each value on its own line.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter returns a new TextWriter writing to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w}
}

// WriteCell writes v followed by a newline. Writers implementing a Flush()
// error method are flushed after each value.
func (w *TextWriter) WriteCell(v Cell) error {
	b := strconv.AppendInt(nil, int64(v), 10)
	b = append(b, '\n')
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrap(err, "write failed")
	}
	if f, ok := w.w.(flusher); ok {
		return errors.Wrap(f.Flush(), "flush failed")
	}
	return nil
}

type flusher interface {
	Flush() error
}
