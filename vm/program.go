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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// Program is the initial contents of a machine's memory. Programs are never
// modified by the VM.
type Program []Cell

// Clone returns a copy of p.
func (p Program) Clone() Program {
	c := make(Program, len(p))
	copy(c, p)
	return c
}

// Patch returns a copy of p where the value at address addr has been replaced
// by v.
func (p Program) Patch(addr int, v Cell) (Program, error) {
	if addr < 0 || addr >= len(p) {
		return nil, errors.Wrapf(ErrOutOfBounds, "patch address %d, program size %d", addr, len(p))
	}
	c := p.Clone()
	c[addr] = v
	return c, nil
}

// Fingerprint returns a short hex digest of the program contents, suitable
// for identifying programs in logs.
func (p Program) Fingerprint() string {
	h := blake3.New()
	var b [8]byte
	for _, v := range p {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		h.Write(b[:])
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func (p Program) String() string {
	var sb strings.Builder
	for i, v := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	}
	return sb.String()
}

func scanError(s *scanner.Scanner, msg string) error {
	pos := s.Position
	if !pos.IsValid() {
		pos = s.Pos()
	}
	return errors.Errorf("%s: %s", pos, msg)
}

// isWordRune reports whether ch belongs to a value token. Letters are
// included so that malformed values like 0x10 or 12ab are reported as a
// whole.
func isWordRune(ch rune, i int) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// Parse reads a program in text form from r: a comma separated list of
// decimal integers. White space around values is ignored and a trailing comma
// is accepted. Leading zeros do not change the base. The name parameter is
// used in error messages.
func Parse(name string, r io.Reader) (Program, error) {
	var (
		s    scanner.Scanner
		p    Program
		err  error
		sign string
		// true when a value is expected, i.e. at start or after a comma
		want = true
	)
	s.Init(r)
	s.Mode = scanner.ScanIdents
	s.IsIdentRune = isWordRune
	s.Filename = name
	s.Error = func(s *scanner.Scanner, msg string) {
		if err == nil {
			err = scanError(s, msg)
		}
	}

	for tok := s.Scan(); err == nil && tok != scanner.EOF; tok = s.Scan() {
		switch tok {
		case '-', '+':
			if !want || sign != "" {
				return nil, scanError(&s, "unexpected sign "+strconv.QuoteRune(tok))
			}
			sign = string(tok)
		case scanner.Ident:
			if !want {
				return nil, scanError(&s, "missing comma before "+s.TokenText())
			}
			n, e := strconv.ParseInt(sign+s.TokenText(), 10, 64)
			if e != nil {
				if errors.Is(e, strconv.ErrRange) {
					return nil, scanError(&s, e.Error())
				}
				return nil, scanError(&s, "unexpected "+strconv.Quote(s.TokenText()))
			}
			p = append(p, Cell(n))
			sign = ""
			want = false
		case ',':
			if want {
				return nil, scanError(&s, "missing value before ','")
			}
			want = true
		default:
			return nil, scanError(&s, "unexpected "+strconv.Quote(s.TokenText()))
		}
	}
	if err != nil {
		return nil, err
	}
	if sign != "" {
		return nil, scanError(&s, "dangling sign "+strconv.Quote(sign))
	}
	if len(p) == 0 {
		return nil, errors.Errorf("%s: empty program", name)
	}
	return p, nil
}

// Load loads a program in text form from file fileName. Files with a .zst
// extension are decompressed on the fly.
func Load(fileName string) (Program, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	defer f.Close()
	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(fileName, ".zst") {
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "Load")
		}
		defer d.Close()
		r = d
	}
	p, err := Parse(fileName, r)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	return p, nil
}

// Save writes the program in text form to w.
func (p Program) Save(w io.Writer) error {
	_, err := fmt.Fprintln(w, p.String())
	return errors.Wrap(err, "Save")
}
