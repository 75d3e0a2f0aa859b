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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraph(t *testing.T) {
	p := parse(t, `
b0:
    %0:bool = icmp eq 1, 1
    br %0:bool, b1, b1
b1:
    br %0:bool, b1, b8
b2:
    ret
`)
	g := Graph(p)
	require.Equal(t, 3, g.Nodes().Len())
	require.Equal(t, 1, g.Edges().Len())
	require.True(t, g.HasEdgeFromTo(0, 1))
	require.False(t, g.HasEdgeFromTo(1, 1))
	require.Nil(t, g.Node(8))
}
