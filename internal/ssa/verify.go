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
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/utils"
)

const (
	_V_pass = "SSA verification"
)

type _Verifier struct {
	p     *ir.Program
	doms  DominatorMap
	preds PredecessorMap
	defs  map[ir.VariableId]Pos
}

func fail(format string, args ...interface{}) {
	utils.Fatalf(_V_pass, format, args...)
}

// structure checks the block shape every other check relies on.
func (self *_Verifier) structure() {
	for _, id := range self.p.CallableIds() {
		if fn := self.p.Callables[id]; fn.Body != nil {
			if _, ok := self.p.Blocks[*fn.Body]; !ok {
				fail("body %s of callable %s does not exist", *fn.Body, id)
			}
		}
	}

	/* every block ends with its only terminator */
	for _, id := range self.p.BlockIds() {
		bb := self.p.Blocks[id]
		n := len(bb.Ins)

		/* blocks are never empty */
		if n == 0 {
			fail("block %s is empty", id)
		}

		/* terminators only at the end */
		for i, ins := range bb.Ins[:n-1] {
			if ir.IsTerminator(ins) {
				fail("terminator %q at %s is followed by other instructions", ins, pos(id, i))
			}
		}

		/* check the terminator and its successors */
		if tr := bb.Terminator(); tr == nil {
			fail("block %s does not end with a terminator", id)
		} else {
			for _, to := range tr.Successors() {
				if _, ok := self.p.Blocks[*to]; !ok {
					fail("block %s branches to non-existent block %s", id, *to)
				}
			}
		}
	}
}

// phis checks every Phi node against the predecessors of its block.
func (self *_Verifier) phis() {
	for _, id := range self.p.BlockIds() {
		pp := self.preds[id]
		ps := mapset.NewThreadUnsafeSet[ir.BlockId](pp...)

		/* check every Phi node */
		for _, ins := range self.p.Blocks[id].Ins {
			phi, ok := ins.(*ir.Phi)
			if !ok {
				continue
			}

			/* blocks without predecessors cannot merge anything */
			if len(pp) == 0 {
				fail("block %s has no predecessors but contains phi %q", id, phi)
			}

			/* one argument per predecessor */
			if len(phi.Args) != len(pp) {
				fail("phi %q in block %s has %d arguments, but the block has %d predecessors", phi, id, len(phi.Args), len(pp))
			}

			/* every argument comes from a distinct predecessor */
			seen := mapset.NewThreadUnsafeSet[ir.BlockId]()
			for _, arg := range phi.Args {
				if !ps.Contains(arg.B) {
					fail("phi %q in block %s names %s, which is not a predecessor", phi, id, arg.B)
				}
				if !seen.Add(arg.B) {
					fail("phi %q in block %s names predecessor %s more than once", phi, id, arg.B)
				}
				if arg.V.IsVariable() && arg.V.Var.Id == phi.R.Id {
					fail("phi %q in block %s references its own result", phi, id)
				}
			}
		}
	}
}

// assignments records the single definition site of every variable.
func (self *_Verifier) assignments() {
	for _, id := range self.p.BlockIds() {
		for i, ins := range self.p.Blocks[id].Ins {
			if d, ok := ins.(ir.Definitions); ok {
				for _, v := range d.Definitions() {
					if old, dup := self.defs[v.Id]; dup {
						fail("variable %s is assigned more than once, at %s and %s", v.Id, old, pos(id, i))
					} else {
						self.defs[v.Id] = pos(id, i)
					}
				}
			}
		}
	}
}

func (self *_Verifier) dominates(def Pos, use Pos) bool {
	if def.B == use.B {
		return def.I < use.I
	} else {
		return self.doms.Dominates(def.B, use.B)
	}
}

func (self *_Verifier) use(v ir.Variable, at Pos) {
	if def, ok := self.defs[v.Id]; !ok {
		fail("variable %s used but not assigned (at %s)", v.Id, at)
	} else if !self.dominates(def, at) {
		fail("definition of variable %s at %s does not dominate its use at %s", v.Id, def, at)
	}
}

// uses checks that every use is dominated by its definition. Phi arguments
// are used at the bottom of the predecessor they flow in from.
func (self *_Verifier) uses() {
	for _, id := range self.p.BlockIds() {
		for i, ins := range self.p.Blocks[id].Ins {
			if phi, ok := ins.(*ir.Phi); ok {
				for _, arg := range phi.Args {
					if arg.V.IsVariable() {
						self.use(arg.V.Var, end(arg.B))
					}
				}
			} else {
				for _, v := range ir.UsedVariables(ins) {
					self.use(v, pos(id, i))
				}
			}
		}
	}
}

// Verify checks that p is in valid SSA form. It never mutates p, and every
// violation aborts with an InvariantError naming the offending block or
// variable.
func Verify(p *ir.Program) {
	vv := &_Verifier{
		p:    p,
		defs: make(map[ir.VariableId]Pos),
	}

	/* the analyses below rely on a well-formed, acyclic CFG */
	vv.structure()
	vv.preds = BuildPredecessors(p)
	CheckAcyclic(vv.preds)
	vv.doms = BuildDominators(p, vv.preds)

	/* check the SSA invariants */
	vv.phis()
	vv.assignments()
	vv.uses()
	count(&VerifiedPrograms, 1)
}

// Verifier runs Verify as a pipeline pass.
type Verifier struct{}

func (Verifier) Apply(p *ir.Program) {
	Verify(p)
}
