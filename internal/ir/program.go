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

package ir

import (
	"fmt"

	"github.com/cloudwego/qir/internal/utils"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type CallType uint8

const (
	Regular CallType = iota
	Measurement
	Reset
	OutputRecording
	Readout
)

var _CallTypeNames = [...]string{
	Regular:         "regular",
	Measurement:     "measurement",
	Reset:           "reset",
	OutputRecording: "output",
	Readout:         "readout",
}

func (self CallType) String() string {
	return _CallTypeNames[self]
}

func ParseCallType(s string) (CallType, bool) {
	for i, v := range _CallTypeNames {
		if v == s {
			return CallType(i), true
		}
	}
	return 0, false
}

// Callable is either defined by a body in the Program, or declared only
// (intrinsics and externally linked functions) in which case Body is nil.
type Callable struct {
	Name   string
	Inputs []Ty
	Output *Ty
	Body   *BlockId
	Kind   CallType
}

// Block is a straight-line sequence of instructions ending in exactly one
// Terminator.
type Block struct {
	Ins []Instr
}

// Terminator returns the last instruction of the block if it terminates the
// block, or nil otherwise.
func (self *Block) Terminator() Terminator {
	if n := len(self.Ins); n == 0 {
		return nil
	} else if tr, ok := self.Ins[n-1].(Terminator); ok {
		return tr
	} else {
		return nil
	}
}

// Successors lists the targets of the block terminator in operand order.
func (self *Block) Successors() []BlockId {
	var r []BlockId
	if tr := self.Terminator(); tr != nil {
		for _, p := range tr.Successors() {
			r = append(r, *p)
		}
	}
	return r
}

type Program struct {
	Entry      CallableId
	Callables  map[CallableId]*Callable
	Blocks     map[BlockId]*Block
	NumQubits  int
	NumResults int
	Tags       []string
}

func NewProgram() *Program {
	return &Program{
		Callables: make(map[CallableId]*Callable),
		Blocks:    make(map[BlockId]*Block),
	}
}

// BlockIds returns every block id in ascending order.
func (self *Program) BlockIds() []BlockId {
	ids := maps.Keys(self.Blocks)
	slices.Sort(ids)
	return ids
}

// CallableIds returns every callable id in ascending order.
func (self *Program) CallableIds() []CallableId {
	ids := maps.Keys(self.Callables)
	slices.Sort(ids)
	return ids
}

func (self *Program) Block(id BlockId) *Block {
	if bb, ok := self.Blocks[id]; ok {
		return bb
	} else {
		panic(utils.EInvariant("ir", fmt.Sprintf("block %s does not exist", id)))
	}
}

func (self *Program) Callable(id CallableId) *Callable {
	if fn, ok := self.Callables[id]; ok {
		return fn
	} else {
		panic(utils.EInvariant("ir", fmt.Sprintf("callable %s does not exist", id)))
	}
}

// EntryBlock returns the body of the entry callable.
func (self *Program) EntryBlock() BlockId {
	if fn := self.Callable(self.Entry); fn.Body == nil {
		panic(utils.EInvariant("ir", fmt.Sprintf("entry callable %s has no body", self.Entry)))
	} else {
		return *fn.Body
	}
}

// NextVariableId returns one past the highest variable id mentioned
// anywhere in the program, defined or used.
func (self *Program) NextVariableId() VariableId {
	var nx VariableId

	/* check every variable in every instruction */
	for _, bb := range self.Blocks {
		for _, ins := range bb.Ins {
			for _, v := range UsedVariables(ins) {
				if v.Id >= nx {
					nx = v.Id.Successor()
				}
			}
			if d, ok := ins.(Definitions); ok {
				for _, v := range d.Definitions() {
					if v.Id >= nx {
						nx = v.Id.Successor()
					}
				}
			}
		}
	}
	return nx
}

// Clone returns a deep copy sharing no mutable state with self.
func (self *Program) Clone() *Program {
	ret := &Program{
		Entry:      self.Entry,
		Callables:  make(map[CallableId]*Callable, len(self.Callables)),
		Blocks:     make(map[BlockId]*Block, len(self.Blocks)),
		NumQubits:  self.NumQubits,
		NumResults: self.NumResults,
		Tags:       append([]string(nil), self.Tags...),
	}

	/* copy the callables */
	for id, fn := range self.Callables {
		cc := *fn
		cc.Inputs = append([]Ty(nil), fn.Inputs...)
		if fn.Output != nil {
			ty := *fn.Output
			cc.Output = &ty
		}
		if fn.Body != nil {
			bb := *fn.Body
			cc.Body = &bb
		}
		ret.Callables[id] = &cc
	}

	/* copy the blocks */
	for id, bb := range self.Blocks {
		ins := make([]Instr, len(bb.Ins))
		for i, v := range bb.Ins {
			ins[i] = CloneInstr(v)
		}
		ret.Blocks[id] = &Block{Ins: ins}
	}
	return ret
}

func CloneInstr(ins Instr) Instr {
	switch v := ins.(type) {
	case *Binary:
		c := *v
		return &c
	case *Icmp:
		c := *v
		return &c
	case *Fcmp:
		c := *v
		return &c
	case *Unary:
		c := *v
		return &c
	case *Store:
		c := *v
		return &c
	case *Branch:
		c := *v
		return &c
	case *Jump:
		c := *v
		return &c
	case *Return:
		c := *v
		return &c
	case *Call:
		c := *v
		c.Args = append([]Operand(nil), v.Args...)
		if v.R != nil {
			r := *v.R
			c.R = &r
		}
		return &c
	case *Phi:
		c := *v
		c.Args = append([]PhiArg(nil), v.Args...)
		return &c
	default:
		panic(fmt.Sprintf("ir: unknown instruction type %T", ins))
	}
}
