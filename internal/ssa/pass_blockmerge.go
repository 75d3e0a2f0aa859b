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

// BlockMerge merges redundant intermediate blocks (blocks with a single
// outgoing edge which goes to another block with a single incoming edge).
//
// The forwarding block is folded into its successor: the successor keeps
// its id, so every predecessor still carries a smaller id afterwards.
type BlockMerge struct{}

func (BlockMerge) candidate(p *ir.Program, preds PredecessorMap) (ir.BlockId, ir.BlockId, bool) {
	body := make(map[ir.BlockId]bool, len(p.Callables))
	for _, fn := range p.Callables {
		if fn.Body != nil {
			body[*fn.Body] = true
		}
	}

	/* a callable body is also entered from outside the CFG */
	for _, id := range p.BlockIds() {
		if sw, ok := p.Blocks[id].Terminator().(*ir.Jump); ok && sw.To != id && !body[sw.To] {
			if _, ok = p.Blocks[sw.To]; ok {
				if pp := preds[sw.To]; len(pp) == 1 && pp[0] == id {
					return id, sw.To, true
				}
			}
		}
	}
	return 0, 0, false
}

func (BlockMerge) merge(p *ir.Program, preds PredecessorMap, from ir.BlockId, to ir.BlockId) {
	src := p.Blocks[from]
	dst := p.Blocks[to]

	/* must not have Phi nodes */
	for _, ins := range dst.Ins {
		if _, ok := ins.(*ir.Phi); ok {
			utils.Fatalf("block merging", "invalid phi node %q found in intermediate block %s", ins, to)
		}
	}

	/* the forwarding block body, minus its jump, goes first */
	n := len(src.Ins) - 1
	ins := make([]ir.Instr, 0, n+len(dst.Ins))
	ins = append(ins, src.Ins[:n]...)
	dst.Ins = append(ins, dst.Ins...)
	delete(p.Blocks, from)

	/* update all predecessors references */
	for _, v := range preds[from] {
		if bb, ok := p.Blocks[v]; ok {
			if tr := bb.Terminator(); tr != nil {
				for _, sp := range tr.Successors() {
					if *sp == from {
						*sp = to
					}
				}
			}
		}
	}

	/* update the callables that start at the removed block */
	for _, fn := range p.Callables {
		if fn.Body != nil && *fn.Body == from {
			*fn.Body = to
		}
	}
}

func (self BlockMerge) Apply(p *ir.Program) {
	var nb int
	defer func() { count(&MergedBlocks, nb) }()

	/* merge one pair at a time, since every merge may expose new ones */
	for {
		preds := BuildPredecessors(p)
		from, to, ok := self.candidate(p, preds)

		/* no more candidates, the CFG is stable */
		if !ok {
			break
		}

		/* fold the block into its successor */
		nb++
		self.merge(p, preds, from, to)
	}
}
