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
)

// DeadBlocks removes blocks that cannot be reached from any callable body.
type DeadBlocks struct{}

func (DeadBlocks) Apply(p *ir.Program) {
	nb := 0
	live := Reachable(p)

	/* remove the unreachable blocks */
	for id := range p.Blocks {
		if !live.Contains(id) {
			delete(p.Blocks, id)
			nb++
		}
	}

	/* nothing to do */
	if nb == 0 {
		return
	}

	/* drop the Phi arguments flowing in from the removed blocks */
	for _, bb := range p.Blocks {
		for _, ins := range bb.Ins {
			if phi, ok := ins.(*ir.Phi); ok {
				args := phi.Args[:0]
				for _, v := range phi.Args {
					if live.Contains(v.B) {
						args = append(args, v)
					}
				}
				phi.Args = args
			}
		}
	}

	/* update statistics */
	count(&RemovedBlocks, nb)
}
