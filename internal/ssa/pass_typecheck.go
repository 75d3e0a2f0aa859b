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

package ssa

import (
	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/utils"
)

// TypeCheck checks that every instruction is applied to operands of the
// types it expects.
type TypeCheck struct{}

type _TypeChecker struct {
	p  *ir.Program
	at Pos
}

func (self *_TypeChecker) fail(format string, args ...interface{}) {
	utils.Fatalf("type check", "%s: "+format, append([]interface{}{self.at}, args...)...)
}

func (self *_TypeChecker) expect(what string, op ir.Operand, ty ir.Ty) {
	if op.Ty() != ty {
		self.fail("%s %s should be %s", what, op, ty)
	}
}

func (self *_TypeChecker) result(v ir.Variable, ty ir.Ty) {
	if v.Ty != ty {
		self.fail("result %s should be %s", v, ty)
	}
}

func (self *_TypeChecker) call(v *ir.Call) {
	fn, ok := self.p.Callables[v.Fn]
	if !ok {
		self.fail("call to undeclared callable %s", v.Fn)
	}

	/* check the arguments */
	if len(v.Args) != len(fn.Inputs) {
		self.fail("callable %s takes %d arguments, got %d", v.Fn, len(fn.Inputs), len(v.Args))
	}
	for i, arg := range v.Args {
		self.expect("argument", arg, fn.Inputs[i])
	}

	/* discarding the output is fine, inventing one is not */
	if v.R != nil {
		if fn.Output == nil {
			self.fail("callable %s returns nothing, but its result is assigned to %s", v.Fn, *v.R)
		} else {
			self.result(*v.R, *fn.Output)
		}
	}
}

func (self *_TypeChecker) instr(ins ir.Instr) {
	switch v := ins.(type) {
	case *ir.Binary:
		self.expect("operand", v.X, v.Op.OperandTy())
		self.expect("operand", v.Y, v.Op.OperandTy())
		self.result(v.R, v.Op.OperandTy())
	case *ir.Unary:
		self.expect("operand", v.V, v.Op.OperandTy())
		self.result(v.R, v.Op.OperandTy())
	case *ir.Icmp:
		self.expect("operand", v.X, ir.Integer)
		self.expect("operand", v.Y, ir.Integer)
		self.result(v.R, ir.Boolean)
	case *ir.Fcmp:
		self.expect("operand", v.X, ir.Double)
		self.expect("operand", v.Y, ir.Double)
		self.result(v.R, ir.Boolean)
	case *ir.Store:
		self.expect("stored value", v.V, v.R.Ty)
	case *ir.Phi:
		for _, arg := range v.Args {
			self.expect("phi argument", arg.V, v.R.Ty)
		}
	case *ir.Branch:
		self.expect("branch condition", ir.Var(v.Cond), ir.Boolean)
	case *ir.Call:
		self.call(v)
	}
}

func (TypeCheck) Apply(p *ir.Program) {
	tc := &_TypeChecker{p: p}

	/* check every instruction */
	for _, id := range p.BlockIds() {
		for i, ins := range p.Blocks[id].Ins {
			tc.at = pos(id, i)
			tc.instr(ins)
		}
	}
}
