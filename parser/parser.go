// Package parser lexes a character stream into a typed expression
// tree, recognizing the nestable compile-time forms (:, if, begin, do,
// comments, string literals). It is the
// only component that understands that syntax; everything it returns
// is an expr.Expression ready to execute.
package parser

import (
	"strings"
	"unicode"

	"github.com/jcorbin/goforth/expr"
	"github.com/jcorbin/goforth/ferrors"
	"github.com/jcorbin/goforth/internal/runeio"
	"github.com/jcorbin/goforth/ints"
)

// Parser consumes a Reader lazily and yields expr.Expression values.
// Parsing is pure over the character stream: a parse error never
// partially mutates interpreter state, though a successfully-parsed
// ".(" does write immediately through Print, an immediate-print-at-
// parse-time exception for that one form.
type Parser struct {
	r     *Reader
	Print func(string) // sink for ".(" immediate output; may be nil
}

// New constructs a Parser reading from s.
func New(s string, print func(string)) *Parser {
	if print == nil {
		print = func(string) {}
	}
	return &Parser{r: NewReader(s), Print: print}
}

// Next returns the next top-level expression, or (nil, nil) at end of
// input.
func (p *Parser) Next() (expr.Expression, error) {
	for {
		tok, ok := p.nextToken()
		if !ok {
			return nil, nil
		}
		switch strings.ToLower(tok) {
		case "(":
			if err := p.skipUntil(')', "comment"); err != nil {
				return nil, err
			}
			continue
		case `\`:
			p.skipLine()
			continue
		case ".(":
			text, err := p.readDelimited(')', "\".(\" comment")
			if err != nil {
				return nil, err
			}
			p.Print(text)
			continue
		case `."`:
			text, err := p.readDelimited('"', "string literal")
			if err != nil {
				return nil, err
			}
			return expr.Print{S: text}, nil
		case "char":
			r, err := p.readCharLiteral()
			if err != nil {
				return nil, err
			}
			return expr.Char{N: ints.Int(r)}, nil
		case ":":
			return p.readFunction()
		case "if":
			return p.readIfElseThen()
		case "begin":
			return p.readBegin()
		case "do":
			return p.readLoop()
		case "variable":
			return p.readNamed(tok, newVariable)
		case "create":
			return p.readNamed(tok, newCreate)
		case "constant":
			return p.readNamed(tok, newConstant)
		case "value":
			return p.readNamed(tok, newValue)
		case "to":
			return p.readNamed(tok, toValue)
		case "include":
			return p.readInclude(tok)
		case "see":
			return p.readNamed(tok, seeWord)
		default:
			return expr.Word{Name: strings.ToLower(tok)}, nil
		}
	}
}

func newVariable(name string) expr.Expression { return expr.NewVariable{Name: name} }
func newCreate(name string) expr.Expression   { return expr.NewCreate{Name: name} }
func newConstant(name string) expr.Expression { return expr.NewConstant{Name: name} }
func newValue(name string) expr.Expression    { return expr.NewValue{Name: name} }
func toValue(name string) expr.Expression     { return expr.ToValue{Name: name} }
func seeWord(name string) expr.Expression     { return expr.See{Name: name} }

func (p *Parser) readNamed(introducer string, ctor func(string) expr.Expression) (expr.Expression, error) {
	tok, ok := p.nextToken()
	if !ok || tok == "" {
		return nil, ferrors.MissingArgument{Word: introducer}
	}
	return ctor(strings.ToLower(tok)), nil
}

func (p *Parser) readInclude(introducer string) (expr.Expression, error) {
	tok, ok := p.nextToken()
	if !ok || tok == "" {
		return nil, ferrors.MissingArgument{Word: introducer}
	}
	return expr.Include{Path: tok}, nil
}

// readFunction reads a colon definition's name and body up to the
// terminating ";".
func (p *Parser) readFunction() (expr.Expression, error) {
	nameTok, ok := p.nextToken()
	if !ok || nameTok == "" {
		return nil, ferrors.ParsingError{Message: "function needs to be named"}
	}
	name := strings.ToLower(nameTok)

	var body []expr.Expression
	for {
		e, err := p.Next()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, ferrors.ParsingError{Message: "missing ';'"}
		}
		if w, ok := e.(expr.Word); ok && w.Name == ";" {
			break
		}
		body = append(body, e)
	}
	return expr.NewFunction{Name: name, Body: body}, nil
}

// readIfElseThen reads an "if ... [else ...] then" form, splitting its
// body into the then- and else-branches.
func (p *Parser) readIfElseThen() (expr.Expression, error) {
	var then, els []expr.Expression
	cur := &then
	for {
		e, err := p.Next()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, ferrors.ParsingError{Message: "missing 'then'"}
		}
		if w, ok := e.(expr.Word); ok {
			switch w.Name {
			case "else":
				cur = &els
				continue
			case "then":
				return expr.IfElseThen{Then: then, Else: els}, nil
			}
		}
		*cur = append(*cur, e)
	}
}

// readBegin reads a "begin ... until/again/repeat" form. "until" is kept inside the
// body (see the "until" builtin in builtins.seedSession) so it can pop the loop's flag at runtime;
// "repeat"/"again" are pure syntax and are discarded.
func (p *Parser) readBegin() (expr.Expression, error) {
	var body []expr.Expression
	for {
		e, err := p.Next()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, ferrors.ParsingError{Message: "missing 'until', 'repeat' or 'again'"}
		}
		if w, ok := e.(expr.Word); ok {
			switch w.Name {
			case "repeat", "again":
				return expr.Begin{Body: body}, nil
			case "until":
				body = append(body, e)
				return expr.Begin{Body: body}, nil
			}
		}
		body = append(body, e)
	}
}

// readLoop reads a "do ... loop" form's body.
func (p *Parser) readLoop() (expr.Expression, error) {
	var body []expr.Expression
	for {
		e, err := p.Next()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, ferrors.ParsingError{Message: "missing 'loop'"}
		}
		if w, ok := e.(expr.Word); ok && w.Name == "loop" {
			return expr.Loop{Body: body}, nil
		}
		body = append(body, e)
	}
}

// readCharLiteral takes the usual "char X" form (the value is X's first
// rune), plus control mnemonics and caret forms like "<ESC>" or "^C",
// and single-quoted escapes like 'X' or '\n'.
func (p *Parser) readCharLiteral() (rune, error) {
	tok, ok := p.nextToken()
	if !ok || tok == "" {
		return 0, ferrors.MissingArgument{Word: "char"}
	}
	if r, err := runeio.UnquoteRune(tok); err == nil {
		return r, nil
	}
	return []rune(tok)[0], nil
}

// nextToken returns the maximal run of non-whitespace runes following
// a whitespace boundary, or ("", false) at end of input.
func (p *Parser) nextToken() (string, bool) {
	for {
		c, ok := p.r.Peek()
		if !ok {
			return "", false
		}
		if !unicode.IsSpace(c) {
			break
		}
		p.r.Next()
	}
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || unicode.IsSpace(c) {
			break
		}
		sb.WriteRune(c)
		p.r.Next()
	}
	return sb.String(), true
}

// skipUntil discards characters up to and including terminator.
func (p *Parser) skipUntil(terminator rune, what string) error {
	for {
		c, ok := p.r.Next()
		if !ok {
			return ferrors.ParsingError{Message: "unterminated " + what}
		}
		if c == terminator {
			return nil
		}
	}
}

func (p *Parser) skipLine() {
	for {
		c, ok := p.r.Next()
		if !ok || c == '\n' {
			return
		}
	}
}

// readDelimited skips a single delimiting space (if present) then
// reads raw characters up to and excluding terminator.
func (p *Parser) readDelimited(terminator rune, what string) (string, error) {
	if c, ok := p.r.Peek(); ok && c == ' ' {
		p.r.Next()
	}
	var sb strings.Builder
	for {
		c, ok := p.r.Next()
		if !ok {
			return "", ferrors.ParsingError{Message: "unterminated " + what}
		}
		if c == terminator {
			return sb.String(), nil
		}
		sb.WriteRune(c)
	}
}
