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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// _ValueMap tracks the latest value stored into every mutable variable slot
// at some point of the program. Values are always stored resolved, so a
// lookup never has to chase more than one level.
type _ValueMap map[ir.VariableId]ir.Operand

func (self _ValueMap) clone() _ValueMap {
	ret := make(_ValueMap, len(self))
	for k, v := range self {
		ret[k] = v
	}
	return ret
}

func (self _ValueMap) keys() []ir.VariableId {
	ids := maps.Keys(self)
	slices.Sort(ids)
	return ids
}

// resolve follows the slot chain from op to the root literal or the oldest
// live variable.
func (self _ValueMap) resolve(op ir.Operand) ir.Operand {
	for i := 0; i <= len(self) && op.IsVariable(); i++ {
		if v, ok := self[op.Var.Id]; !ok || v == op {
			break
		} else {
			op = v
		}
	}
	return op
}

// resolveVar is resolve restricted to variables, for the places where the
// IR cannot hold a literal (branch conditions).
func (self _ValueMap) resolveVar(v ir.Variable) ir.Variable {
	for i := 0; i <= len(self); i++ {
		if op, ok := self[v.Id]; !ok || !op.IsVariable() || op.Var == v {
			break
		} else {
			v = op.Var
		}
	}
	return v
}

// SSA removes every Store from the program and inserts Phi nodes where a
// slot holds different values along different incoming edges.
//
// Blocks are processed once in ascending id order, which visits every
// predecessor before its successors because the CFG is acyclic. The pass
// runs the acyclicity check itself before touching the program.
type SSA struct{}

type _SSABuilder struct {
	p    *ir.Program
	nv   ir.VariableId
	vals map[ir.BlockId]_ValueMap
	nphi int
	nstr int
}

func (self *_SSABuilder) fresh(ty ir.Ty) ir.Variable {
	id := self.nv
	self.nv = id.Successor()
	return ir.Variable{Id: id, Ty: ty}
}

// merge builds the entry value map of a block with multiple predecessors,
// and returns the Phi nodes needed to reconcile them.
func (self *_SSABuilder) merge(pp []ir.BlockId) (_ValueMap, []*ir.Phi) {
	var phi []*ir.Phi
	ret := make(_ValueMap)
	first := self.vals[pp[0]]

	/* check every slot known along the first edge */
	for _, k := range first.keys() {
		same := true
		defined := true
		val := first[k]

		/* compare with the other edges */
		for _, v := range pp[1:] {
			if op, ok := self.vals[v][k]; !ok {
				defined = false
				break
			} else if op != val {
				same = false
			}
		}

		/* the slot is dead along some edge, do not carry it over */
		if !defined {
			continue
		}

		/* every edge agrees, no Phi node needed */
		if same {
			ret[k] = val
			continue
		}

		/* build the Phi node args */
		args := make([]ir.PhiArg, len(pp))
		for i, v := range pp {
			args[i] = ir.PhiArg{V: self.vals[v][k], B: v}
		}

		/* redirect the slot to the Phi node */
		r := self.fresh(val.Ty())
		ret[k] = ir.Var(r)
		phi = append(phi, &ir.Phi{Args: args, R: r})
	}
	return ret, phi
}

// rewrite drops the stores of bb and rewrites every operand to the latest
// known value, updating vm along the way.
func (self *_SSABuilder) rewrite(bb *ir.Block, vm _ValueMap) {
	ins := bb.Ins[:0]

	/* scan every instruction */
	for _, v := range bb.Ins {
		switch p := v.(type) {
		case *ir.Store:
			if val := vm.resolve(p.V); val != ir.Var(p.R) {
				vm[p.R.Id] = val
			}
			self.nstr++
			continue
		case *ir.Phi:
			for i := range p.Args {
				p.Args[i].V = self.vals[p.Args[i].B].resolve(p.Args[i].V)
			}
		case *ir.Branch:
			p.Cond = vm.resolveVar(p.Cond)
		case ir.Usages:
			for _, op := range p.Usages() {
				*op = vm.resolve(*op)
			}
		}
		ins = append(ins, v)
	}

	/* clear the tail to release the dropped stores */
	for i := len(ins); i < len(bb.Ins); i++ {
		bb.Ins[i] = nil
	}
	bb.Ins = ins
}

func (self *_SSABuilder) block(id ir.BlockId, pp []ir.BlockId) {
	var vm _ValueMap
	var phi []*ir.Phi
	bb := self.p.Blocks[id]

	/* entry map depends on the number of incoming edges */
	switch len(pp) {
	case 0:
		vm = make(_ValueMap)
	case 1:
		vm = self.vals[pp[0]].clone()
	default:
		vm, phi = self.merge(pp)
	}

	/* Phi nodes take over the metadata of the former first instruction */
	if len(phi) != 0 && len(bb.Ins) != 0 {
		for _, v := range phi {
			v.Meta = *bb.Ins[0].Metadata()
		}
	}

	/* the new Phi nodes are already resolved against the predecessors */
	self.rewrite(bb, vm)
	self.vals[id] = vm

	/* insert the Phi nodes at the very front */
	if len(phi) != 0 {
		ins := make([]ir.Instr, 0, len(phi)+len(bb.Ins))
		for _, v := range phi {
			ins = append(ins, v)
		}
		bb.Ins = append(ins, bb.Ins...)
		self.nphi += len(phi)
	}
}

func (SSA) Apply(p *ir.Program) {
	preds := BuildPredecessors(p)
	CheckAcyclic(preds)

	/* variable ids for Phi nodes start past every existing one */
	b := &_SSABuilder{
		p:    p,
		nv:   p.NextVariableId(),
		vals: make(map[ir.BlockId]_ValueMap, len(p.Blocks)),
	}

	/* ascending order visits predecessors first */
	for _, id := range p.BlockIds() {
		b.block(id, preds[id])
	}

	/* update statistics */
	count(&InsertedPhis, b.nphi)
	count(&ElidedStores, b.nstr)
}
