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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PredecessorMap maps a block to the blocks whose terminator names it as a
// successor. Lists are ascending and free of duplicates. Blocks without
// predecessors (the entry, other callable bodies, unreachable blocks) have
// no entry at all.
type PredecessorMap map[ir.BlockId][]ir.BlockId

// Of returns the predecessors of id.
func (self PredecessorMap) Of(id ir.BlockId) []ir.BlockId {
	return self[id]
}

// Blocks returns every block that has at least one predecessor, ascending.
func (self PredecessorMap) Blocks() []ir.BlockId {
	ids := maps.Keys(self)
	slices.Sort(ids)
	return ids
}

// BuildPredecessors computes the predecessor map of p. It never mutates p.
func BuildPredecessors(p *ir.Program) PredecessorMap {
	ret := make(PredecessorMap, len(p.Blocks))

	/* blocks are visited in ascending order, so every list stays sorted */
	for _, id := range p.BlockIds() {
		var last []ir.BlockId
		for _, to := range p.Blocks[id].Successors() {
			if !slices.Contains(last, to) {
				last = append(last, to)
				ret[to] = append(ret[to], id)
			}
		}
	}
	return ret
}

// CheckAcyclic asserts that every predecessor of a block has a strictly
// smaller id than the block itself. A violation is a back edge, which
// means a loop survived the upstream unrolling.
func CheckAcyclic(preds PredecessorMap) {
	for _, id := range preds.Blocks() {
		for _, p := range preds[id] {
			if p >= id {
				utils.Fatalf("acyclicity check", "block %s has predecessor %s with an id not below its own (back edge %s -> %s)", id, p, p, id)
			}
		}
	}
}
