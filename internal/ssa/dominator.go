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

/** The dominator map is built with a single ascending sweep over the block
 *  ids. This is exact only because CheckAcyclic guarantees every predecessor
 *  has a lower id than its successors, which makes ascending id order a
 *  topological order of the CFG. A CFG with loops needs the iterative
 *  algorithm from https://doi.org/10.1145%2F357062.357071 or Cooper, Harvey
 *  and Kennedy instead.
 */

package ssa

import (
	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/utils"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DominatorMap maps every block to its immediate dominator. Blocks without
// predecessors map to themselves.
type DominatorMap map[ir.BlockId]ir.BlockId

// Idom returns the immediate dominator of id.
func (self DominatorMap) Idom(id ir.BlockId) ir.BlockId {
	if d, ok := self[id]; ok {
		return d
	} else {
		panic(utils.EInvariant("dominators", "block "+id.String()+" is not in the dominator map"))
	}
}

// IsRoot reports whether id dominates itself only.
func (self DominatorMap) IsRoot(id ir.BlockId) bool {
	return self.Idom(id) == id
}

// Dominates reports whether a dominates b. Every block dominates itself.
func (self DominatorMap) Dominates(a ir.BlockId, b ir.BlockId) bool {
	for b != a {
		if d := self.Idom(b); d == b {
			return false
		} else {
			b = d
		}
	}
	return true
}

// DominatorOf returns the blocks immediately dominated by each block, the
// inverse of the map, with ascending children.
func (self DominatorMap) DominatorOf() map[ir.BlockId][]ir.BlockId {
	ids := maps.Keys(self)
	ret := make(map[ir.BlockId][]ir.BlockId)

	/* roots have no dominator */
	slices.Sort(ids)
	for _, id := range ids {
		if d := self[id]; d != id {
			ret[d] = append(ret[d], id)
		}
	}
	return ret
}

// common walks both chains up to their nearest common ancestor. Both chains
// strictly decrease until a root, so the walk terminates.
func (self DominatorMap) common(a ir.BlockId, b ir.BlockId) (ir.BlockId, bool) {
	for a != b {
		for a > b {
			if d := self.Idom(a); d == a {
				return 0, false
			} else {
				a = d
			}
		}
		for b > a {
			if d := self.Idom(b); d == b {
				return 0, false
			} else {
				b = d
			}
		}
	}
	return a, true
}

// BuildDominators computes the immediate dominator of every block in p.
// CheckAcyclic must have accepted preds beforehand.
func BuildDominators(p *ir.Program, preds PredecessorMap) DominatorMap {
	ret := make(DominatorMap, len(p.Blocks))

	/* one ascending sweep, predecessors are always resolved first */
	for _, id := range p.BlockIds() {
		pp := preds[id]

		/* entry blocks and unreachable blocks dominate themselves */
		if len(pp) == 0 {
			ret[id] = id
			continue
		}

		/* all the predecessors must be processed already */
		for _, v := range pp {
			if _, ok := ret[v]; !ok {
				utils.Fatalf("dominators", "predecessor %s of block %s was not visited before it", v, id)
			}
		}

		/* fold the predecessors into their nearest common dominator */
		ok := true
		dom := pp[0]
		for _, v := range pp[1:] {
			if dom, ok = ret.common(dom, v); !ok {
				break
			}
		}

		/* predecessors from disjoint roots share no dominator */
		if ok {
			ret[id] = dom
		} else {
			ret[id] = id
		}
	}
	return ret
}
