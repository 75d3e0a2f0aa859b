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

package ir

import (
	"fmt"
)

// BlockId identifies a basic block within a Program. Block ids are ordered:
// every predecessor of a block must carry a strictly smaller id.
type BlockId uint32

// CallableId identifies a callable within a Program.
type CallableId uint32

// VariableId identifies an SSA value or a mutable variable slot.
type VariableId uint32

func (self BlockId) Successor() BlockId {
	return self + 1
}

func (self BlockId) String() string {
	return fmt.Sprintf("b%d", uint32(self))
}

func (self CallableId) Successor() CallableId {
	return self + 1
}

func (self CallableId) String() string {
	return fmt.Sprintf("c%d", uint32(self))
}

func (self VariableId) Successor() VariableId {
	return self + 1
}

func (self VariableId) String() string {
	return fmt.Sprintf("%%%d", uint32(self))
}
