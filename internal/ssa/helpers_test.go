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

	"github.com/cloudwego/qir/internal/ir"
	"github.com/cloudwego/qir/internal/utils"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const header = `
program entry=c0 qubits=0 results=0
callable c0 main() -> void body=b0 kind=regular
`

func parse(t testing.TB, body string) *ir.Program {
	p, err := ir.Parse(header + body)
	require.NoError(t, err)
	return p
}

// canonical renders body the way Render would, so that expectations can be
// written with any indentation.
func canonical(t testing.TB, body string) string {
	return ir.Render(parse(t, body))
}

func requireProgram(t testing.TB, want string, p *ir.Program) {
	if diff := cmp.Diff(canonical(t, want), ir.Render(p)); diff != "" {
		t.Fatalf("program mismatch (-want +got):\n%s", diff)
	}
}

func requireInvariant(t testing.TB, pass string, reason string, fn func()) {
	defer func() {
		v := recover()
		require.NotNil(t, v, "expected an invariant violation")
		e, ok := v.(utils.InvariantError)
		require.True(t, ok, "unexpected panic: %v", v)
		require.Equal(t, pass, e.Pass)
		require.Contains(t, e.Reason, reason)
	}()
	fn()
}
