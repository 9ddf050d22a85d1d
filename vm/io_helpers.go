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

	"github.com/pkg/errors"
)

type multiReader struct {
	readers []CellReader
}

func (mr *multiReader) ReadCell() (Cell, error) {
	for len(mr.readers) > 0 {
		v, err := mr.readers[0].ReadCell()
		if errors.Cause(err) != ErrInputExhausted {
			return v, err
		}
		// discard the reader and optionally close it
		if c, ok := mr.readers[0].(io.Closer); ok {
			c.Close()
		}
		mr.readers = mr.readers[1:]
	}
	return 0, ErrInputExhausted
}

// MultiReader returns a CellReader that reads from the provided readers
// sequentially. When a reader is exhausted, it is closed if it implements
// io.Closer, and reading continues with the next one. Once all readers are
// exhausted, ReadCell returns ErrInputExhausted.
func MultiReader(readers ...CellReader) CellReader {
	rs := make([]CellReader, 0, len(readers))
	for _, r := range readers {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return &multiReader{rs}
}

// ReadCloser wraps a TextReader over an io.ReadCloser. Close closes the
// underlying reader.
type ReadCloser struct {
	*TextReader
	io.Closer
}

// NewTextReadCloser returns a CellReader reading integers from rc that closes
// rc when MultiReader is done with it.
func NewTextReadCloser(rc io.ReadCloser) *ReadCloser {
	return &ReadCloser{NewTextReader(rc), rc}
}
