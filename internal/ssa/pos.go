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
	"fmt"
	"math"

	"github.com/cloudwego/qir/internal/ir"
)

const (
	_P_end = math.MaxInt32
)

// Pos is an instruction position. I == _P_end stands for the bottom of the
// block, after every instruction, where phi arguments are evaluated.
type Pos struct {
	B ir.BlockId
	I int
}

func pos(bb ir.BlockId, i int) Pos {
	return Pos{bb, i}
}

func end(bb ir.BlockId) Pos {
	return Pos{bb, _P_end}
}

func (self Pos) String() string {
	if self.I == _P_end {
		return fmt.Sprintf("%s.end", self.B)
	} else {
		return fmt.Sprintf("%s.ins[%d]", self.B, self.I)
	}
}
