/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package loader reads programs from disk, either in the canonical text
// form or as a TOML program description.
package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/qir/internal/ir"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

type _Callable struct {
	Id     int64    `toml:"id"`
	Name   string   `toml:"name"`
	Inputs []string `toml:"inputs"`
	Output *string  `toml:"output"`
	Body   *int64   `toml:"body"`
	Kind   string   `toml:"kind"`
}

type _Block struct {
	Id  int64    `toml:"id"`
	Ins []string `toml:"ins"`
}

type _Document struct {
	Entry     int64       `toml:"entry"`
	Qubits    int64       `toml:"qubits"`
	Results   int64       `toml:"results"`
	Tags      []string    `toml:"tags"`
	Callables []_Callable `toml:"callable"`
	Blocks    []_Block    `toml:"block"`
}

func id32(what string, v int64) (uint32, error) {
	if v < 0 || v > 0xffffffff {
		return 0, errors.Errorf("%s id %d out of range", what, v)
	} else {
		return uint32(v), nil
	}
}

func (self *_Callable) build() (*ir.Callable, error) {
	var ok bool
	fn := &ir.Callable{Name: self.Name}

	/* call kind, regular by default */
	if self.Kind != "" {
		if fn.Kind, ok = ir.ParseCallType(self.Kind); !ok {
			return nil, errors.Errorf("invalid callable kind %q", self.Kind)
		}
	}

	/* input types */
	for _, v := range self.Inputs {
		if ty, ok := ir.ParseTy(v); !ok {
			return nil, errors.Errorf("invalid input type %q", v)
		} else {
			fn.Inputs = append(fn.Inputs, ty)
		}
	}

	/* optional output type */
	if self.Output != nil && *self.Output != "void" {
		if ty, ok := ir.ParseTy(*self.Output); !ok {
			return nil, errors.Errorf("invalid output type %q", *self.Output)
		} else {
			fn.Output = &ty
		}
	}

	/* optional body */
	if self.Body != nil {
		if id, err := id32("block", *self.Body); err != nil {
			return nil, err
		} else {
			bb := ir.BlockId(id)
			fn.Body = &bb
		}
	}
	return fn, nil
}

// LoadTOML decodes a TOML program description. Block bodies are lists of
// instructions in the canonical text form.
func LoadTOML(data []byte) (*ir.Program, error) {
	var doc _Document
	p := ir.NewProgram()

	/* decode the document, rejecting unknown keys */
	if err := toml.NewDecoder(bytes.NewReader(data)).Strict(true).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "invalid program description")
	}

	/* program header */
	if id, err := id32("entry callable", doc.Entry); err != nil {
		return nil, err
	} else {
		p.Entry = ir.CallableId(id)
		p.Tags = doc.Tags
		p.NumQubits = int(doc.Qubits)
		p.NumResults = int(doc.Results)
	}

	/* callable table */
	for i := range doc.Callables {
		id, err := id32("callable", doc.Callables[i].Id)
		if err != nil {
			return nil, err
		}

		/* no duplicates */
		if _, ok := p.Callables[ir.CallableId(id)]; ok {
			return nil, errors.Errorf("callable %s redefined", ir.CallableId(id))
		}

		/* add to program */
		if fn, err := doc.Callables[i].build(); err != nil {
			return nil, errors.Wrapf(err, "callable %s", ir.CallableId(id))
		} else {
			p.Callables[ir.CallableId(id)] = fn
		}
	}

	/* block bodies */
	for _, v := range doc.Blocks {
		id, err := id32("block", v.Id)
		if err != nil {
			return nil, err
		}

		/* no duplicates */
		if _, ok := p.Blocks[ir.BlockId(id)]; ok {
			return nil, errors.Errorf("block %s redefined", ir.BlockId(id))
		}

		/* parse the instructions */
		if bb, err := ir.ParseBlock(strings.Join(v.Ins, "\n")); err != nil {
			return nil, errors.Wrapf(err, "block %s", ir.BlockId(id))
		} else {
			p.Blocks[ir.BlockId(id)] = bb
		}
	}

	/* the entry must be declared */
	if _, ok := p.Callables[p.Entry]; !ok {
		return nil, errors.Errorf("entry callable %s is not declared", p.Entry)
	}
	return p, nil
}

// Load reads the program stored at path. Files ending in ".toml" hold a
// program description, anything else is read as canonical text.
func Load(path string) (*ir.Program, error) {
	var p *ir.Program
	buf, err := os.ReadFile(path)

	/* read the whole file */
	if err != nil {
		return nil, errors.Wrap(err, "cannot read program")
	}

	/* select the format by extension */
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		p, err = LoadTOML(buf)
	} else {
		p, err = ir.Parse(string(buf))
	}

	/* add the file name to the error */
	if err != nil {
		return nil, errors.Wrap(err, path)
	} else {
		return p, nil
	}
}
