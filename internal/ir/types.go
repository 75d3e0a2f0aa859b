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
	"strconv"
	"strings"
)

type Ty uint8

const (
	Boolean Ty = iota
	Integer
	Double
	Qubit
	Result
	Pointer
)

var _TyNames = [...]string{
	Boolean: "bool",
	Integer: "i64",
	Double:  "f64",
	Qubit:   "qubit",
	Result:  "result",
	Pointer: "ptr",
}

func (self Ty) String() string {
	if int(self) < len(_TyNames) {
		return _TyNames[self]
	} else {
		panic(fmt.Sprintf("invalid type tag: %d", uint8(self)))
	}
}

// ParseTy is the inverse of Ty.String.
func ParseTy(s string) (Ty, bool) {
	for i, v := range _TyNames {
		if v == s {
			return Ty(i), true
		}
	}
	return 0, false
}

// Literal is a typed constant. Qubit and result literals carry an opaque
// identity in Id which this package never interprets.
type Literal struct {
	Ty    Ty
	Bool  bool
	Int   int64
	Float float64
	Id    uint32
}

func BoolLit(v bool) Literal      { return Literal{Ty: Boolean, Bool: v} }
func IntLit(v int64) Literal      { return Literal{Ty: Integer, Int: v} }
func DoubleLit(v float64) Literal { return Literal{Ty: Double, Float: v} }
func QubitLit(id uint32) Literal  { return Literal{Ty: Qubit, Id: id} }
func ResultLit(id uint32) Literal { return Literal{Ty: Result, Id: id} }
func NullLit() Literal            { return Literal{Ty: Pointer} }

func (self Literal) String() string {
	switch self.Ty {
	case Boolean:
		return strconv.FormatBool(self.Bool)
	case Integer:
		return strconv.FormatInt(self.Int, 10)
	case Double:
		return formatDouble(self.Float)
	case Qubit:
		return fmt.Sprintf("q%d", self.Id)
	case Result:
		return fmt.Sprintf("r%d", self.Id)
	case Pointer:
		return "null"
	default:
		panic("unreachable")
	}
}

func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)

	/* always keep a marker that tells doubles apart from integers */
	if strings.IndexAny(s, ".eIN") < 0 {
		s += ".0"
	}
	return s
}

type Variable struct {
	Id VariableId
	Ty Ty
}

func (self Variable) String() string {
	return fmt.Sprintf("%s:%s", self.Id, self.Ty)
}

type OperandKind uint8

const (
	OpLiteral OperandKind = iota
	OpVariable
)

// Operand is either a Literal or a Variable, selected by Kind. Operands are
// comparable with ==.
type Operand struct {
	Kind OperandKind
	Lit  Literal
	Var  Variable
}

func Lit(v Literal) Operand {
	return Operand{Kind: OpLiteral, Lit: v}
}

func Var(v Variable) Operand {
	return Operand{Kind: OpVariable, Var: v}
}

func (self Operand) IsVariable() bool {
	return self.Kind == OpVariable
}

func (self Operand) Ty() Ty {
	if self.Kind == OpVariable {
		return self.Var.Ty
	} else {
		return self.Lit.Ty
	}
}

func (self Operand) String() string {
	if self.Kind == OpVariable {
		return self.Var.String()
	} else {
		return self.Lit.String()
	}
}

// DbgLoc indexes a debug location table owned by the producer; zero means
// the instruction has no location.
type DbgLoc uint32

// Meta is the per-instruction metadata every pass has to carry along.
type Meta struct {
	Dbg DbgLoc
}

func (self *Meta) Metadata() *Meta {
	return self
}

func (self Meta) suffix() string {
	if self.Dbg == 0 {
		return ""
	} else {
		return fmt.Sprintf(" !dbg %d", uint32(self.Dbg))
	}
}
