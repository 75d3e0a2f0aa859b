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
	"strings"
)

type Instr interface {
	fmt.Stringer
	Metadata() *Meta
	instr()
}

func (*Binary) instr() {}
func (*Icmp) instr()   {}
func (*Fcmp) instr()   {}
func (*Unary) instr()  {}
func (*Call) instr()   {}
func (*Store) instr()  {}
func (*Phi) instr()    {}
func (*Branch) instr() {}
func (*Jump) instr()   {}
func (*Return) instr() {}

// Usages is implemented by instructions that read operands. The returned
// pointers alias the instruction, so writing through them rewrites it.
type Usages interface {
	Instr
	Usages() []*Operand
}

// Definitions is implemented by instructions that produce variables.
type Definitions interface {
	Instr
	Definitions() []*Variable
}

// Terminator ends a block. Successors returns pointers into the
// instruction so that passes can retarget edges in place.
type Terminator interface {
	Instr
	Successors() []*BlockId
	terminator()
}

func (*Branch) terminator() {}
func (*Jump) terminator()   {}
func (*Return) terminator() {}

func IsTerminator(ins Instr) bool {
	_, ok := ins.(Terminator)
	return ok
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpSdiv
	OpSrem
	OpShl
	OpAshr
	OpFadd
	OpFsub
	OpFmul
	OpFdiv
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpLogicalAnd
	OpLogicalOr
)

var _BinaryNames = [...]string{
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpSdiv:       "sdiv",
	OpSrem:       "srem",
	OpShl:        "shl",
	OpAshr:       "ashr",
	OpFadd:       "fadd",
	OpFsub:       "fsub",
	OpFmul:       "fmul",
	OpFdiv:       "fdiv",
	OpBitwiseAnd: "and",
	OpBitwiseOr:  "or",
	OpBitwiseXor: "xor",
	OpLogicalAnd: "land",
	OpLogicalOr:  "lor",
}

func (self BinaryOp) String() string {
	return _BinaryNames[self]
}

// OperandTy returns the type both operands and the result of the op carry.
func (self BinaryOp) OperandTy() Ty {
	switch self {
	case OpFadd, OpFsub, OpFmul, OpFdiv:
		return Double
	case OpLogicalAnd, OpLogicalOr:
		return Boolean
	default:
		return Integer
	}
}

type UnaryOp uint8

const (
	OpBitwiseNot UnaryOp = iota
	OpLogicalNot
)

var _UnaryNames = [...]string{
	OpBitwiseNot: "not",
	OpLogicalNot: "lnot",
}

func (self UnaryOp) String() string {
	return _UnaryNames[self]
}

func (self UnaryOp) OperandTy() Ty {
	if self == OpLogicalNot {
		return Boolean
	} else {
		return Integer
	}
}

type IcmpCond uint8

const (
	IcmpEq IcmpCond = iota
	IcmpNe
	IcmpSlt
	IcmpSle
	IcmpSgt
	IcmpSge
)

var _IcmpNames = [...]string{
	IcmpEq:  "eq",
	IcmpNe:  "ne",
	IcmpSlt: "slt",
	IcmpSle: "sle",
	IcmpSgt: "sgt",
	IcmpSge: "sge",
}

func (self IcmpCond) String() string {
	return _IcmpNames[self]
}

type FcmpCond uint8

const (
	FcmpFalse FcmpCond = iota
	FcmpOeq
	FcmpOgt
	FcmpOge
	FcmpOlt
	FcmpOle
	FcmpOne
	FcmpOrd
	FcmpUno
	FcmpUeq
	FcmpUgt
	FcmpUge
	FcmpUlt
	FcmpUle
	FcmpUne
	FcmpTrue
)

var _FcmpNames = [...]string{
	FcmpFalse: "false",
	FcmpOeq:   "oeq",
	FcmpOgt:   "ogt",
	FcmpOge:   "oge",
	FcmpOlt:   "olt",
	FcmpOle:   "ole",
	FcmpOne:   "one",
	FcmpOrd:   "ord",
	FcmpUno:   "uno",
	FcmpUeq:   "ueq",
	FcmpUgt:   "ugt",
	FcmpUge:   "uge",
	FcmpUlt:   "ult",
	FcmpUle:   "ule",
	FcmpUne:   "une",
	FcmpTrue:  "true",
}

func (self FcmpCond) String() string {
	return _FcmpNames[self]
}

type Binary struct {
	Meta
	Op BinaryOp
	X  Operand
	Y  Operand
	R  Variable
}

func (self *Binary) String() string {
	return fmt.Sprintf("%s = %s %s, %s%s", self.R, self.Op, self.X, self.Y, self.suffix())
}

func (self *Binary) Usages() []*Operand {
	return []*Operand{&self.X, &self.Y}
}

func (self *Binary) Definitions() []*Variable {
	return []*Variable{&self.R}
}

type Icmp struct {
	Meta
	Cond IcmpCond
	X    Operand
	Y    Operand
	R    Variable
}

func (self *Icmp) String() string {
	return fmt.Sprintf("%s = icmp %s %s, %s%s", self.R, self.Cond, self.X, self.Y, self.suffix())
}

func (self *Icmp) Usages() []*Operand {
	return []*Operand{&self.X, &self.Y}
}

func (self *Icmp) Definitions() []*Variable {
	return []*Variable{&self.R}
}

type Fcmp struct {
	Meta
	Cond FcmpCond
	X    Operand
	Y    Operand
	R    Variable
}

func (self *Fcmp) String() string {
	return fmt.Sprintf("%s = fcmp %s %s, %s%s", self.R, self.Cond, self.X, self.Y, self.suffix())
}

func (self *Fcmp) Usages() []*Operand {
	return []*Operand{&self.X, &self.Y}
}

func (self *Fcmp) Definitions() []*Variable {
	return []*Variable{&self.R}
}

type Unary struct {
	Meta
	Op UnaryOp
	V  Operand
	R  Variable
}

func (self *Unary) String() string {
	return fmt.Sprintf("%s = %s %s%s", self.R, self.Op, self.V, self.suffix())
}

func (self *Unary) Usages() []*Operand {
	return []*Operand{&self.V}
}

func (self *Unary) Definitions() []*Variable {
	return []*Variable{&self.R}
}

// Call invokes Fn. R is nil for calls whose result is discarded or void.
type Call struct {
	Meta
	Fn   CallableId
	Args []Operand
	R    *Variable
}

func (self *Call) String() string {
	args := make([]string, 0, len(self.Args))

	/* dump arguments */
	for _, v := range self.Args {
		args = append(args, v.String())
	}

	/* void calls have no result */
	if self.R == nil {
		return fmt.Sprintf("call %s(%s)%s", self.Fn, strings.Join(args, ", "), self.suffix())
	} else {
		return fmt.Sprintf("%s = call %s(%s)%s", self.R, self.Fn, strings.Join(args, ", "), self.suffix())
	}
}

func (self *Call) Usages() []*Operand {
	r := make([]*Operand, len(self.Args))
	for i := range self.Args {
		r[i] = &self.Args[i]
	}
	return r
}

func (self *Call) Definitions() []*Variable {
	if self.R == nil {
		return nil
	} else {
		return []*Variable{self.R}
	}
}

// Store assigns V to the mutable slot R. Stores only exist before SSA
// construction.
type Store struct {
	Meta
	V Operand
	R Variable
}

func (self *Store) String() string {
	return fmt.Sprintf("store %s -> %s%s", self.V, self.R, self.suffix())
}

func (self *Store) Usages() []*Operand {
	return []*Operand{&self.V}
}

func (self *Store) Definitions() []*Variable {
	return []*Variable{&self.R}
}

type PhiArg struct {
	V Operand
	B BlockId
}

// Phi selects the argument whose B names the predecessor control arrived
// from.
type Phi struct {
	Meta
	Args []PhiArg
	R    Variable
}

func (self *Phi) String() string {
	args := make([]string, 0, len(self.Args))

	/* dump each incoming edge */
	for _, v := range self.Args {
		args = append(args, fmt.Sprintf("[%s, %s]", v.V, v.B))
	}

	/* join them together */
	return fmt.Sprintf("%s = phi %s%s", self.R, strings.Join(args, ", "), self.suffix())
}

func (self *Phi) Usages() []*Operand {
	r := make([]*Operand, len(self.Args))
	for i := range self.Args {
		r[i] = &self.Args[i].V
	}
	return r
}

func (self *Phi) Definitions() []*Variable {
	return []*Variable{&self.R}
}

type Branch struct {
	Meta
	Cond Variable
	T    BlockId
	F    BlockId
}

func (self *Branch) String() string {
	return fmt.Sprintf("br %s, %s, %s%s", self.Cond, self.T, self.F, self.suffix())
}

func (self *Branch) Successors() []*BlockId {
	return []*BlockId{&self.T, &self.F}
}

type Jump struct {
	Meta
	To BlockId
}

func (self *Jump) String() string {
	return fmt.Sprintf("jump %s%s", self.To, self.suffix())
}

func (self *Jump) Successors() []*BlockId {
	return []*BlockId{&self.To}
}

type Return struct {
	Meta
}

func (self *Return) String() string {
	return "ret" + self.suffix()
}

func (self *Return) Successors() []*BlockId {
	return nil
}

// UsedVariables lists every variable ins reads, the branch condition
// included.
func UsedVariables(ins Instr) (r []Variable) {
	if br, ok := ins.(*Branch); ok {
		return []Variable{br.Cond}
	}

	/* collect variable operands */
	if u, ok := ins.(Usages); ok {
		for _, v := range u.Usages() {
			if v.IsVariable() {
				r = append(r, v.Var)
			}
		}
	}
	return
}
