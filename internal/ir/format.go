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
	"strconv"
	"strings"
)

func (self *Callable) String() string {
	in := make([]string, 0, len(self.Inputs))
	out := "void"

	/* dump the signature */
	for _, ty := range self.Inputs {
		in = append(in, ty.String())
	}
	if self.Output != nil {
		out = self.Output.String()
	}

	/* declarations have no body */
	if self.Body == nil {
		return fmt.Sprintf("%s(%s) -> %s kind=%s", self.Name, strings.Join(in, ", "), out, self.Kind)
	} else {
		return fmt.Sprintf("%s(%s) -> %s body=%s kind=%s", self.Name, strings.Join(in, ", "), out, *self.Body, self.Kind)
	}
}

func (self *Block) String() string {
	buf := make([]string, 0, len(self.Ins))
	for _, ins := range self.Ins {
		buf = append(buf, "    "+ins.String())
	}
	return strings.Join(buf, "\n")
}

// RenderBlock renders a single block with its label, one instruction per
// line.
func RenderBlock(id BlockId, bb *Block) string {
	var sb strings.Builder
	writeBlock(&sb, id, bb)
	return sb.String()
}

func writeBlock(sb *strings.Builder, id BlockId, bb *Block) {
	sb.WriteString(id.String())
	sb.WriteString(":\n")

	/* one instruction per line */
	for _, ins := range bb.Ins {
		sb.WriteString("    ")
		sb.WriteString(ins.String())
		sb.WriteByte('\n')
	}
}

// Render produces the canonical text form of p. The output is
// deterministic: callables and blocks appear in ascending id order.
func Render(p *Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "program entry=%s qubits=%d results=%d\n", p.Entry, p.NumQubits, p.NumResults)

	/* output tags, if any */
	if len(p.Tags) != 0 {
		tags := make([]string, len(p.Tags))
		for i, v := range p.Tags {
			tags[i] = strconv.Quote(v)
		}
		fmt.Fprintf(&sb, "tags %s\n", strings.Join(tags, ", "))
	}

	/* callable table */
	for _, id := range p.CallableIds() {
		fmt.Fprintf(&sb, "callable %s %s\n", id, p.Callables[id])
	}

	/* block bodies */
	sb.WriteByte('\n')
	for _, id := range p.BlockIds() {
		writeBlock(&sb, id, p.Blocks[id])
	}
	return sb.String()
}

func (self *Program) String() string {
	return Render(self)
}
