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
)

// Builder constructs a Program one instruction at a time. Blocks are
// numbered in creation order, so creating every block after all of its
// predecessors yields a program the SSA passes accept as is.
type Builder struct {
	p     *Program
	bb    *Block
	nb    BlockId
	nc    CallableId
	nv    VariableId
	entry bool
}

func NewBuilder() *Builder {
	return &Builder{p: NewProgram()}
}

func (self *Builder) add(ins Instr) {
	if self.bb == nil {
		panic("builder: no current block")
	}
	if tr := self.bb.Terminator(); tr != nil {
		panic(fmt.Sprintf("builder: block already terminated by %q", tr))
	}
	self.bb.Ins = append(self.bb.Ins, ins)
}

// Declare adds a callable without a body.
func (self *Builder) Declare(name string, kind CallType, out *Ty, in ...Ty) CallableId {
	id := self.nc
	self.nc = id.Successor()
	self.p.Callables[id] = &Callable{Name: name, Inputs: in, Output: out, Kind: kind}
	return id
}

// Define adds a regular callable with a fresh body block and makes that
// block current. The first callable defined becomes the program entry.
func (self *Builder) Define(name string, out *Ty, in ...Ty) (CallableId, BlockId) {
	id := self.Declare(name, Regular, out, in...)
	bb := self.NewBlock()

	/* link the body */
	self.p.Callables[id].Body = &bb
	self.SetBlock(bb)

	/* first defined callable is the entry */
	if !self.entry {
		self.entry = true
		self.p.Entry = id
	}
	return id, bb
}

func (self *Builder) NewBlock() BlockId {
	id := self.nb
	self.nb = id.Successor()
	self.p.Blocks[id] = new(Block)
	return id
}

func (self *Builder) SetBlock(id BlockId) {
	self.bb = self.p.Block(id)
}

// Var mints a fresh variable.
func (self *Builder) Var(ty Ty) Variable {
	id := self.nv
	self.nv = id.Successor()
	return Variable{Id: id, Ty: ty}
}

func (self *Builder) Store(v Operand, r Variable) {
	self.add(&Store{V: v, R: r})
}

func (self *Builder) Binary(op BinaryOp, x Operand, y Operand) Variable {
	r := self.Var(op.OperandTy())
	self.add(&Binary{Op: op, X: x, Y: y, R: r})
	return r
}

func (self *Builder) Unary(op UnaryOp, v Operand) Variable {
	r := self.Var(op.OperandTy())
	self.add(&Unary{Op: op, V: v, R: r})
	return r
}

func (self *Builder) Icmp(cond IcmpCond, x Operand, y Operand) Variable {
	r := self.Var(Boolean)
	self.add(&Icmp{Cond: cond, X: x, Y: y, R: r})
	return r
}

func (self *Builder) Fcmp(cond FcmpCond, x Operand, y Operand) Variable {
	r := self.Var(Boolean)
	self.add(&Fcmp{Cond: cond, X: x, Y: y, R: r})
	return r
}

func (self *Builder) Call(fn CallableId, args ...Operand) {
	self.add(&Call{Fn: fn, Args: args})
}

func (self *Builder) CallValue(fn CallableId, ty Ty, args ...Operand) Variable {
	r := self.Var(ty)
	self.add(&Call{Fn: fn, Args: args, R: &r})
	return r
}

func (self *Builder) Phi(ty Ty, args ...PhiArg) Variable {
	r := self.Var(ty)
	self.add(&Phi{Args: args, R: r})
	return r
}

func (self *Builder) Branch(cond Variable, t BlockId, f BlockId) {
	self.add(&Branch{Cond: cond, T: t, F: f})
}

func (self *Builder) Jump(to BlockId) {
	self.add(&Jump{To: to})
}

func (self *Builder) Return() {
	self.add(new(Return))
}

// Build returns the program. The builder must not be used afterwards.
func (self *Builder) Build() *Program {
	p := self.p
	self.p, self.bb = nil, nil
	return p
}
