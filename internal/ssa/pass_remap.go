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
	"sort"

	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/utils"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// RemapBlocks renumbers the blocks densely in a stable topological order,
// so that every predecessor ends up with a smaller id than its successors.
// Producers that do not number their blocks that way can run it before the
// rest of the pipeline.
type RemapBlocks struct{}

func byNodeId(nodes []graph.Node) {
	sort.Slice(nodes, func(i int, j int) bool {
		return nodes[i].ID() < nodes[j].ID()
	})
}

func (RemapBlocks) order(p *ir.Program) []ir.BlockId {
	for _, id := range p.BlockIds() {
		for _, to := range p.Blocks[id].Successors() {
			if to == id {
				utils.Fatalf("block remapping", "block %s branches to itself", id)
			}
		}
	}

	/* sort the blocks topologically */
	nodes, err := topo.SortStabilized(Graph(p), byNodeId)
	if uo, ok := err.(topo.Unorderable); ok {
		cycle := make([]ir.BlockId, 0, len(uo[0]))
		for _, n := range uo[0] {
			cycle = append(cycle, nodeId(n))
		}
		utils.Fatalf("block remapping", "control flow graph has a cycle through blocks %v", cycle)
	} else if err != nil {
		panic(err)
	}

	/* dump the new order */
	ret := make([]ir.BlockId, len(nodes))
	for i, n := range nodes {
		ret[i] = nodeId(n)
	}
	return ret
}

func (self RemapBlocks) Apply(p *ir.Program) {
	var nb int
	order := self.order(p)
	ids := make(map[ir.BlockId]ir.BlockId, len(order))
	blocks := make(map[ir.BlockId]*ir.Block, len(order))

	/* assign the new ids */
	for i, id := range order {
		if ids[id] = ir.BlockId(i); ids[id] != id {
			nb++
		}
	}

	/* nothing moved */
	if nb == 0 {
		return
	}

	/* rename every reference to a block */
	rename := func(id *ir.BlockId) {
		if v, ok := ids[*id]; ok {
			*id = v
		}
	}

	/* rebuild the block table */
	for old, bb := range p.Blocks {
		for _, ins := range bb.Ins {
			switch v := ins.(type) {
			case *ir.Phi:
				for i := range v.Args {
					rename(&v.Args[i].B)
				}
			case ir.Terminator:
				for _, to := range v.Successors() {
					rename(to)
				}
			}
		}
		blocks[ids[old]] = bb
	}

	/* update the callable bodies */
	for _, fn := range p.Callables {
		if fn.Body != nil {
			rename(fn.Body)
		}
	}

	/* replace the block table */
	p.Blocks = blocks
	count(&RemappedBlocks, nb)
}
