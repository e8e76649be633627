// Package expr defines the tagged Expression node types produced by
// the parser and walked by the interpreter. Each variant is a small
// struct that knows how to execute itself against an Interp — the
// narrow slice of interpreter state it needs — rather than a single
// type switch living in the interpreter, mirroring the self-executing
// node style of a tree-walking AST.
package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jcorbin/goforth/ferrors"
	"github.com/jcorbin/goforth/ints"
)

// Expression is any parsed or dictionary-bound node.
type Expression interface {
	// Execute runs the node against interpreter state.
	Execute(ip Interp) error
	// String renders a textual reconstruction of the node, used by
	// the `see` word.
	String() string
}

// Interp is the slice of interpreter state an Expression needs. It is
// implemented by *interp.Interpreter; kept narrow here to avoid an
// import cycle between expr and interp.
type Interp interface {
	PushData(ints.Int)
	PopData() (ints.Int, error)
	DataDepth() int
	DataSnapshot() []ints.Int
	ClearData()

	PushReturn(ints.Int)
	PopReturn() (ints.Int, error)
	ReturnAt(depthFromTop int) (ints.Int, error)
	ReturnDepth() int

	Lookup(name string) (Expression, bool)
	Bind(name string, e Expression) error
	Rebind(name string, e Expression) error
	Names() []string

	MemLoad(addr uint) (ints.Int, error)
	MemStore(addr uint, vals ...ints.Int) error
	MemAppend(vals ...ints.Int) (uint, error)
	MemSize() uint

	Emit(s string)
	Include(path string) (string, error)
	EvalString(s string) error
}

// runBody executes a sequence of expressions in order, stopping at
// the first error.
func runBody(body []Expression, ip Interp) error {
	for _, e := range body {
		if err := e.Execute(ip); err != nil {
			return err
		}
	}
	return nil
}

func joinBody(body []Expression) string {
	parts := make([]string, len(body))
	for i, e := range body {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// Word executes the named dictionary entry, or parses name as a
// decimal integer literal, or fails UnknownWord.
type Word struct{ Name string }

func (w Word) Execute(ip Interp) error {
	if e, ok := ip.Lookup(w.Name); ok {
		return e.Execute(ip)
	}
	n, err := strconv.ParseInt(w.Name, 10, 64)
	if err != nil {
		return ferrors.UnknownWord{Name: w.Name}
	}
	ip.PushData(clampLiteral(n))
	return nil
}

func (w Word) String() string { return w.Name }

func clampLiteral(n int64) ints.Int {
	if n > int64(ints.MaxInt) {
		return ints.MaxInt
	}
	if n < int64(ints.MinInt) {
		return ints.MinInt
	}
	return ints.Int(n)
}

// Value pushes a constant Int; also the binding Expression for
// constants, variables, created labels, and values.
type Value struct{ N ints.Int }

func (v Value) Execute(ip Interp) error { ip.PushData(v.N); return nil }
func (v Value) String() string          { return strconv.Itoa(int(v.N)) }

// Char pushes the code point of a character literal.
type Char struct{ N ints.Int }

func (c Char) Execute(ip Interp) error { ip.PushData(c.N); return nil }
func (c Char) String() string          { return fmt.Sprintf("char %c", rune(c.N)) }

// Print emits its payload verbatim.
type Print struct{ S string }

func (p Print) Execute(ip Interp) error { ip.Emit(p.S); return nil }
func (p Print) String() string          { return fmt.Sprintf(".\" %s\"", p.S) }

// Callable invokes a host-implemented primitive.
type Callable struct {
	Name string
	Fn   func(ip Interp) error
}

func (c Callable) Execute(ip Interp) error { return c.Fn(ip) }
func (c Callable) String() string          { return c.Name }

// NewFunction binds Name to a Function wrapping Body in the
// dictionary.
type NewFunction struct {
	Name string
	Body []Expression
}

func (d NewFunction) Execute(ip Interp) error {
	return ip.Bind(d.Name, Function{Body: d.Body})
}

func (d NewFunction) String() string {
	return fmt.Sprintf(": %s %s ;", d.Name, joinBody(d.Body))
}

// Function evaluates Body sequentially; Exit is caught and treated as
// a normal return; any other error propagates. While Body runs, the
// word "recurse" resolves to this Function itself, so a recursive call
// returns to the point after "recurse" in the caller's body.
type Function struct{ Body []Expression }

func (f Function) Execute(ip Interp) error {
	if outer, ok := ip.(selfInterp); ok {
		ip = outer.Interp
	}
	ip = selfInterp{Interp: ip, self: f}
	for i := 0; i < len(f.Body); i++ {
		err := f.Body[i].Execute(ip)
		if err == nil {
			continue
		}
		switch err.(type) {
		case ferrors.Exit:
			return nil
		default:
			return err
		}
	}
	return nil
}

// selfInterp binds "recurse" to the innermost executing Function.
type selfInterp struct {
	Interp
	self Function
}

func (s selfInterp) Lookup(name string) (Expression, bool) {
	if name == "recurse" {
		return s.self, true
	}
	return s.Interp.Lookup(name)
}

func (f Function) String() string { return joinBody(f.Body) }

// IfElseThen pops one flag and evaluates Then or Else.
type IfElseThen struct{ Then, Else []Expression }

func (c IfElseThen) Execute(ip Interp) error {
	flag, err := ip.PopData()
	if err != nil {
		return err
	}
	if flag.IsTrue() {
		return runBody(c.Then, ip)
	}
	return runBody(c.Else, ip)
}

func (c IfElseThen) String() string {
	if len(c.Else) == 0 {
		return fmt.Sprintf("if %s then", joinBody(c.Then))
	}
	return fmt.Sprintf("if %s else %s then", joinBody(c.Then), joinBody(c.Else))
}

// Begin evaluates Body repeatedly until Leave is raised inside it.
type Begin struct{ Body []Expression }

func (b Begin) Execute(ip Interp) error {
	for {
		err := runBody(b.Body, ip)
		if err == nil {
			continue
		}
		if _, ok := err.(ferrors.Leave); ok {
			return nil
		}
		return err
	}
}

func (b Begin) String() string {
	if n := len(b.Body); n > 0 {
		if w, ok := b.Body[n-1].(Word); ok && w.Name == "until" {
			return fmt.Sprintf("begin %s", joinBody(b.Body))
		}
	}
	return fmt.Sprintf("begin %s again", joinBody(b.Body))
}

// Loop pops start (the top of the stack) and then limit, as in
// `limit start do ... loop`, and evaluates Body once per index in
// [start, limit), pushing the index onto the return stack for the
// duration of each iteration. A Leave raised inside Body breaks only
// this loop.
type Loop struct{ Body []Expression }

func (l Loop) Execute(ip Interp) error {
	start, err := ip.PopData()
	if err != nil {
		return err
	}
	limit, err := ip.PopData()
	if err != nil {
		return err
	}
	for i := start; i < limit; i++ {
		ip.PushReturn(i)
		err := runBody(l.Body, ip)
		if _, popErr := ip.PopReturn(); popErr != nil {
			return popErr
		}
		if err != nil {
			if _, ok := err.(ferrors.Leave); ok {
				return nil
			}
			return err
		}
	}
	return nil
}

func (l Loop) String() string { return fmt.Sprintf("do %s loop", joinBody(l.Body)) }

// NewConstant pops a value and binds Name to it as a Value. ToValue
// accepts any Value binding, so it can overwrite this one as well.
type NewConstant struct{ Name string }

func (c NewConstant) Execute(ip Interp) error {
	n, err := ip.PopData()
	if err != nil {
		return err
	}
	return ip.Bind(c.Name, Value{N: n})
}

func (c NewConstant) String() string { return fmt.Sprintf("constant %s", c.Name) }

// NewVariable allocates one zero-initialised memory cell and binds
// Name to its address.
type NewVariable struct{ Name string }

func (v NewVariable) Execute(ip Interp) error {
	addr, err := ip.MemAppend(0)
	if err != nil {
		return err
	}
	return ip.Bind(v.Name, Value{N: ints.FromIndex(addr)})
}

func (v NewVariable) String() string { return fmt.Sprintf("variable %s", v.Name) }

// NewCreate binds Name to the current memory length without
// allocating, labelling the start of subsequent `,`/`allot` stores.
type NewCreate struct{ Name string }

func (c NewCreate) Execute(ip Interp) error {
	return ip.Bind(c.Name, Value{N: ints.FromIndex(ip.MemSize())})
}

func (c NewCreate) String() string { return fmt.Sprintf("create %s", c.Name) }

// NewValue pops a value and binds Name to it; the binding can later be
// overwritten with ToValue. It is stored exactly as NewConstant's is.
type NewValue struct{ Name string }

func (v NewValue) Execute(ip Interp) error {
	n, err := ip.PopData()
	if err != nil {
		return err
	}
	return ip.Bind(v.Name, Value{N: n})
}

func (v NewValue) String() string { return fmt.Sprintf("value %s", v.Name) }

// ToValue pops a value and overwrites an existing Value binding.
type ToValue struct{ Name string }

func (t ToValue) Execute(ip Interp) error {
	n, err := ip.PopData()
	if err != nil {
		return err
	}
	return ip.Rebind(t.Name, Value{N: n})
}

func (t ToValue) String() string { return fmt.Sprintf("to %s", t.Name) }

// Include evaluates the contents of Path, fetched from the host, in
// the current interpreter.
type Include struct{ Path string }

func (i Include) Execute(ip Interp) error {
	src, err := ip.Include(i.Path)
	if err != nil {
		return err
	}
	return ip.EvalString(src)
}

func (i Include) String() string { return fmt.Sprintf("include %s", i.Path) }

// See prints the textual reconstruction of a dictionary binding.
type See struct{ Name string }

func (s See) Execute(ip Interp) error {
	e, ok := ip.Lookup(s.Name)
	if !ok {
		return ferrors.UnknownWord{Name: s.Name}
	}
	ip.Emit(fmt.Sprintf(": %s %s ;\n", s.Name, e.String()))
	return nil
}

func (s See) String() string { return fmt.Sprintf("see %s", s.Name) }

// Dummy is a placeholder for reserved parser-only marker words; it is
// only reachable if mis-executed outside the parser's syntax.
type Dummy struct{ Name string }

func (d Dummy) Execute(ip Interp) error { return ferrors.CompileTimeWord{Name: d.Name} }
func (d Dummy) String() string          { return d.Name }
