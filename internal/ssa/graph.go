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
	"github.com/oleiade/lane"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	mapset "github.com/deckarep/golang-set/v2"
)

// Graph converts the CFG of p into a gonum directed graph whose node ids are
// the block ids. Self edges are dropped, simple graphs cannot hold them, as
// are edges to blocks that do not exist.
func Graph(p *ir.Program) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()

	/* add every block */
	for _, id := range p.BlockIds() {
		g.AddNode(simple.Node(id))
	}

	/* add every edge */
	for _, id := range p.BlockIds() {
		for _, to := range p.Blocks[id].Successors() {
			if to != id && g.Node(int64(to)) != nil {
				g.SetEdge(g.NewEdge(simple.Node(id), simple.Node(to)))
			}
		}
	}
	return g
}

func nodeId(n graph.Node) ir.BlockId {
	return ir.BlockId(n.ID())
}

// Reachable returns the blocks reachable from any callable body.
func Reachable(p *ir.Program) mapset.Set[ir.BlockId] {
	q := lane.NewQueue()
	vis := mapset.NewThreadUnsafeSet[ir.BlockId]()

	/* every callable body is a root */
	for _, id := range p.CallableIds() {
		if fn := p.Callables[id]; fn.Body != nil && vis.Add(*fn.Body) {
			q.Enqueue(*fn.Body)
		}
	}

	/* traverse the graph with BFS */
	for !q.Empty() {
		id := q.Dequeue().(ir.BlockId)
		bb, ok := p.Blocks[id]

		/* dangling edges are left to the verifier */
		if !ok {
			continue
		}

		/* add all the successors */
		for _, to := range bb.Successors() {
			if vis.Add(to) {
				q.Enqueue(to)
			}
		}
	}
	return vis
}
