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

	"github.com/pkg/errors"
)

type _SyntaxError struct {
	reason string
}

type _Parser struct {
	ln  int
	pos int
	tok []string
}

func (self *_Parser) fail(format string, args ...interface{}) {
	panic(_SyntaxError{reason: fmt.Sprintf(format, args...)})
}

func isPunct(c byte) bool {
	switch c {
	case '(', ')', '[', ']', ',', '=', ':', '!':
		return true
	default:
		return false
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func (self *_Parser) reset(ln int, line string) {
	self.ln = ln
	self.pos = 0
	self.tok = self.tok[:0]

	/* split the line into tokens */
	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case isSpace(c):
			i++
		case isPunct(c):
			self.tok = append(self.tok, line[i:i+1])
			i++
		case c == '-' && i+1 < len(line) && line[i+1] == '>':
			self.tok = append(self.tok, "->")
			i += 2
		case c == '"':
			j := i + 1
			for j < len(line) && line[j] != '"' {
				if line[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(line) {
				self.fail("unterminated string")
			}
			self.tok = append(self.tok, line[i:j+1])
			i = j + 1
		default:
			j := i
			for j < len(line) && !isSpace(line[j]) && !isPunct(line[j]) && !(line[j] == '-' && j+1 < len(line) && line[j+1] == '>') {
				j++
			}
			self.tok = append(self.tok, line[i:j])
			i = j
		}
	}
}

func (self *_Parser) eol() bool {
	return self.pos >= len(self.tok)
}

func (self *_Parser) peek() string {
	if self.eol() {
		return ""
	} else {
		return self.tok[self.pos]
	}
}

func (self *_Parser) next() string {
	if self.eol() {
		self.fail("unexpected end of line")
	}
	self.pos++
	return self.tok[self.pos-1]
}

func (self *_Parser) expect(tok string) {
	if v := self.next(); v != tok {
		self.fail("expected %q, got %q", tok, v)
	}
}

func (self *_Parser) done() {
	if !self.eol() {
		self.fail("unexpected token %q", self.peek())
	}
}

func (self *_Parser) number(tok string) uint32 {
	if v, err := strconv.ParseUint(tok, 10, 32); err != nil {
		self.fail("invalid number %q", tok)
		return 0
	} else {
		return uint32(v)
	}
}

func (self *_Parser) prefixed(prefix string) uint32 {
	if tok := self.next(); !strings.HasPrefix(tok, prefix) {
		self.fail("expected %s-prefixed id, got %q", prefix, tok)
		return 0
	} else {
		return self.number(tok[len(prefix):])
	}
}

func (self *_Parser) blockId() BlockId {
	return BlockId(self.prefixed("b"))
}

func (self *_Parser) callableId() CallableId {
	return CallableId(self.prefixed("c"))
}

func (self *_Parser) ty() Ty {
	if tok := self.next(); tok == "void" {
		self.fail("void is only valid as a callable output")
		return 0
	} else if ty, ok := ParseTy(tok); !ok {
		self.fail("invalid type %q", tok)
		return 0
	} else {
		return ty
	}
}

func (self *_Parser) variable() Variable {
	id := VariableId(self.prefixed("%"))
	self.expect(":")
	return Variable{Id: id, Ty: self.ty()}
}

func (self *_Parser) literal(tok string) Literal {
	switch {
	case tok == "true":
		return BoolLit(true)
	case tok == "false":
		return BoolLit(false)
	case tok == "null":
		return NullLit()
	case tok == "NaN" || tok == "+Inf" || tok == "-Inf":
		v, _ := strconv.ParseFloat(tok, 64)
		return DoubleLit(v)
	case len(tok) > 1 && tok[0] == 'q':
		return QubitLit(self.number(tok[1:]))
	case len(tok) > 1 && tok[0] == 'r':
		return ResultLit(self.number(tok[1:]))
	case strings.ContainsAny(tok, ".eE"):
		if v, err := strconv.ParseFloat(tok, 64); err != nil {
			self.fail("invalid double literal %q", tok)
		} else {
			return DoubleLit(v)
		}
	default:
		if v, err := strconv.ParseInt(tok, 10, 64); err != nil {
			self.fail("invalid literal %q", tok)
		} else {
			return IntLit(v)
		}
	}
	return Literal{}
}

func (self *_Parser) operand() Operand {
	if strings.HasPrefix(self.peek(), "%") {
		return Var(self.variable())
	} else {
		return Lit(self.literal(self.next()))
	}
}

func (self *_Parser) args() []Operand {
	var ret []Operand
	self.expect("(")

	/* empty argument list */
	if self.peek() == ")" {
		self.next()
		return ret
	}

	/* comma separated operands */
	for {
		ret = append(ret, self.operand())
		if tok := self.next(); tok == ")" {
			return ret
		} else if tok != "," {
			self.fail("expected \",\" or \")\", got %q", tok)
		}
	}
}

func (self *_Parser) binaryOperands() (Operand, Operand) {
	x := self.operand()
	self.expect(",")
	return x, self.operand()
}

func (self *_Parser) meta() (m Meta) {
	if self.peek() == "!" {
		self.next()
		self.expect("dbg")
		m.Dbg = DbgLoc(self.number(self.next()))
	}
	self.done()
	return
}

func lookup(names []string, tok string) (int, bool) {
	for i, v := range names {
		if v == tok {
			return i, true
		}
	}
	return 0, false
}

func (self *_Parser) define(r Variable) Instr {
	op := self.next()

	/* binary and unary ops */
	if i, ok := lookup(_BinaryNames[:], op); ok {
		x, y := self.binaryOperands()
		return &Binary{Op: BinaryOp(i), X: x, Y: y, R: r, Meta: self.meta()}
	} else if i, ok = lookup(_UnaryNames[:], op); ok {
		v := self.operand()
		return &Unary{Op: UnaryOp(i), V: v, R: r, Meta: self.meta()}
	}

	/* everything else */
	switch op {
	case "icmp":
		i, ok := lookup(_IcmpNames[:], self.next())
		if !ok {
			self.fail("invalid icmp condition")
		}
		x, y := self.binaryOperands()
		return &Icmp{Cond: IcmpCond(i), X: x, Y: y, R: r, Meta: self.meta()}
	case "fcmp":
		i, ok := lookup(_FcmpNames[:], self.next())
		if !ok {
			self.fail("invalid fcmp condition")
		}
		x, y := self.binaryOperands()
		return &Fcmp{Cond: FcmpCond(i), X: x, Y: y, R: r, Meta: self.meta()}
	case "call":
		fn := self.callableId()
		args := self.args()
		return &Call{Fn: fn, Args: args, R: &r, Meta: self.meta()}
	case "phi":
		var args []PhiArg
		for {
			self.expect("[")
			v := self.operand()
			self.expect(",")
			b := self.blockId()
			self.expect("]")
			if args = append(args, PhiArg{V: v, B: b}); self.peek() != "," {
				break
			}
			self.next()
		}
		return &Phi{Args: args, R: r, Meta: self.meta()}
	default:
		self.fail("unknown instruction %q", op)
		return nil
	}
}

func (self *_Parser) instr() Instr {
	switch op := self.peek(); {
	case strings.HasPrefix(op, "%"):
		r := self.variable()
		self.expect("=")
		return self.define(r)
	case op == "store":
		self.next()
		v := self.operand()
		self.expect("->")
		r := self.variable()
		return &Store{V: v, R: r, Meta: self.meta()}
	case op == "call":
		self.next()
		fn := self.callableId()
		args := self.args()
		return &Call{Fn: fn, Args: args, Meta: self.meta()}
	case op == "br":
		self.next()
		c := self.variable()
		self.expect(",")
		t := self.blockId()
		self.expect(",")
		f := self.blockId()
		return &Branch{Cond: c, T: t, F: f, Meta: self.meta()}
	case op == "jump":
		self.next()
		to := self.blockId()
		return &Jump{To: to, Meta: self.meta()}
	case op == "ret":
		self.next()
		return &Return{Meta: self.meta()}
	default:
		self.fail("unknown instruction %q", op)
		return nil
	}
}

func (self *_Parser) header(p *Program) {
	self.expect("program")
	self.expect("entry")
	self.expect("=")
	p.Entry = self.callableId()
	self.expect("qubits")
	self.expect("=")
	p.NumQubits = int(self.number(self.next()))
	self.expect("results")
	self.expect("=")
	p.NumResults = int(self.number(self.next()))
	self.done()
}

func (self *_Parser) tags(p *Program) {
	self.expect("tags")
	for {
		tag, err := strconv.Unquote(self.next())
		if err != nil {
			self.fail("invalid tag string")
		}
		if p.Tags = append(p.Tags, tag); self.eol() {
			return
		}
		self.expect(",")
	}
}

func (self *_Parser) callable(p *Program) {
	self.expect("callable")
	id := self.callableId()
	fn := &Callable{Name: self.next()}

	/* duplicated callables are not allowed */
	if _, ok := p.Callables[id]; ok {
		self.fail("callable %s redefined", id)
	}

	/* input types */
	self.expect("(")
	for self.peek() != ")" {
		if fn.Inputs = append(fn.Inputs, self.ty()); self.peek() != ")" {
			self.expect(",")
		}
	}

	/* output type */
	self.expect(")")
	self.expect("->")
	if self.peek() == "void" {
		self.next()
	} else {
		ty := self.ty()
		fn.Output = &ty
	}

	/* optional body */
	if self.peek() == "body" {
		self.next()
		self.expect("=")
		bb := self.blockId()
		fn.Body = &bb
	}

	/* call kind */
	self.expect("kind")
	self.expect("=")
	if kind, ok := ParseCallType(self.next()); !ok {
		self.fail("invalid callable kind")
	} else {
		fn.Kind = kind
	}

	/* add to program */
	self.done()
	p.Callables[id] = fn
}

func (self *_Parser) run(fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(_SyntaxError); ok {
				err = errors.Errorf("line %d: %s", self.ln, e.reason)
			} else {
				panic(v)
			}
		}
	}()
	fn()
	return
}

func isComment(line string) bool {
	return line == "" || strings.HasPrefix(line, ";")
}

// Parse reads a Program in the canonical text form produced by Render.
// Lines starting with ';' are ignored.
func Parse(src string) (*Program, error) {
	var ok bool
	var cur *Block
	var ps _Parser

	/* parse line by line */
	p := NewProgram()
	err := ps.run(func() {
		for i, line := range strings.Split(src, "\n") {
			if line = strings.TrimSpace(line); isComment(line) {
				continue
			}

			/* each line is tokenized separately */
			ps.reset(i+1, line)
			tok := ps.peek()

			/* program header must be the first line */
			if !ok {
				ps.header(p)
				ok = true
				continue
			}

			/* tags, callables, block labels and instructions */
			switch {
			case tok == "tags":
				ps.tags(p)
			case tok == "callable":
				ps.callable(p)
			case len(ps.tok) == 2 && ps.tok[1] == ":" && strings.HasPrefix(tok, "b"):
				id := ps.blockId()
				if _, dup := p.Blocks[id]; dup {
					ps.fail("block %s redefined", id)
				}
				cur = new(Block)
				p.Blocks[id] = cur
			case cur == nil:
				ps.fail("instruction outside of a block")
			default:
				cur.Ins = append(cur.Ins, ps.instr())
			}
		}
	})

	/* check for errors */
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.New("missing program header")
	} else {
		return p, nil
	}
}

// ParseBlock reads the instructions of a single block, one per line,
// without a block label.
func ParseBlock(src string) (*Block, error) {
	var ps _Parser
	bb := new(Block)

	/* parse every instruction */
	err := ps.run(func() {
		for i, line := range strings.Split(src, "\n") {
			if line = strings.TrimSpace(line); !isComment(line) {
				ps.reset(i+1, line)
				bb.Ins = append(bb.Ins, ps.instr())
			}
		}
	})

	/* check for errors */
	if err != nil {
		return nil, err
	} else {
		return bb, nil
	}
}

// ParseInstr reads a single instruction.
func ParseInstr(src string) (Instr, error) {
	if bb, err := ParseBlock(src); err != nil {
		return nil, err
	} else if len(bb.Ins) != 1 {
		return nil, errors.Errorf("expected exactly one instruction, got %d", len(bb.Ins))
	} else {
		return bb.Ins[0], nil
	}
}
