// Package interp implements the Interpreter: it owns the data stack,
// return stack, linear memory, and dictionary, drives the parser, and
// executes the resulting expressions.
package interp

import (
	"fmt"
	"os"
	"strings"

	"github.com/jcorbin/goforth/expr"
	"github.com/jcorbin/goforth/ferrors"
	"github.com/jcorbin/goforth/internal/flushio"
	"github.com/jcorbin/goforth/ints"
	"github.com/jcorbin/goforth/memory"
	"github.com/jcorbin/goforth/parser"
)

// Includer resolves `include <path>` to the path's textual content;
// the single host collaborator for loading included source.
type Includer interface {
	Include(path string) (string, error)
}

// FileIncluder reads paths from the local filesystem.
type FileIncluder struct{}

// Include implements Includer by reading path from disk.
func (FileIncluder) Include(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", ferrors.CustomError{Message: err.Error(), Cause: err}
	}
	return string(b), nil
}

// Interpreter is the single owner of all interpreter state; no sharing
// across interpreters is assumed.
type Interpreter struct {
	dataStack   []ints.Int
	returnStack []ints.Int
	dict        map[string]expr.Expression
	mem         memory.Memory

	out      flushio.WriteFlusher
	logf     func(string, ...interface{})
	includer Includer

	dataStackCap int
}

// New constructs an Interpreter with an empty dictionary; callers seed
// it with builtins.Seed.
func New(opts ...Option) *Interpreter {
	ip := &Interpreter{dict: make(map[string]expr.Expression)}
	defaultOptions.apply(ip)
	Options(opts...).apply(ip)
	if ip.out == nil {
		ip.out = flushio.NewWriteFlusher(os.Stdout)
	}
	if ip.logf == nil {
		ip.logf = func(string, ...interface{}) {}
	}
	if ip.includer == nil {
		ip.includer = FileIncluder{}
	}
	ip.dataStack = make([]ints.Int, 0, ip.dataStackCap)
	return ip
}

// --- expr.Interp: data & return stacks ---

// PushData pushes n onto the data stack.
func (ip *Interpreter) PushData(n ints.Int) { ip.dataStack = append(ip.dataStack, n) }

// PopData pops the top of the data stack.
func (ip *Interpreter) PopData() (ints.Int, error) {
	if len(ip.dataStack) == 0 {
		return 0, ferrors.StackUnderflow{Stack: "data", Want: 1, Have: 0}
	}
	n := ip.dataStack[len(ip.dataStack)-1]
	ip.dataStack = ip.dataStack[:len(ip.dataStack)-1]
	return n, nil
}

// DataDepth returns the number of items on the data stack.
func (ip *Interpreter) DataDepth() int { return len(ip.dataStack) }

// DataSnapshot returns a copy of the data stack, bottom first.
func (ip *Interpreter) DataSnapshot() []ints.Int {
	out := make([]ints.Int, len(ip.dataStack))
	copy(out, ip.dataStack)
	return out
}

// ClearData empties the data stack.
func (ip *Interpreter) ClearData() { ip.dataStack = ip.dataStack[:0] }

// ClearReturn empties the return stack.
func (ip *Interpreter) ClearReturn() { ip.returnStack = ip.returnStack[:0] }

// PushReturn pushes n onto the return stack.
func (ip *Interpreter) PushReturn(n ints.Int) { ip.returnStack = append(ip.returnStack, n) }

// PopReturn pops the top of the return stack.
func (ip *Interpreter) PopReturn() (ints.Int, error) {
	if len(ip.returnStack) == 0 {
		return 0, ferrors.StackUnderflow{Stack: "return", Want: 1, Have: 0}
	}
	n := ip.returnStack[len(ip.returnStack)-1]
	ip.returnStack = ip.returnStack[:len(ip.returnStack)-1]
	return n, nil
}

// ReturnAt returns the value depthFromTop positions from the top of
// the return stack (0 is `i`, 1 is `j`) without popping.
func (ip *Interpreter) ReturnAt(depthFromTop int) (ints.Int, error) {
	i := len(ip.returnStack) - 1 - depthFromTop
	if i < 0 {
		return 0, ferrors.StackUnderflow{Stack: "return", Want: depthFromTop + 1, Have: len(ip.returnStack)}
	}
	return ip.returnStack[i], nil
}

// ReturnDepth returns the number of items on the return stack.
func (ip *Interpreter) ReturnDepth() int { return len(ip.returnStack) }

// --- expr.Interp: dictionary ---

// Lookup finds a dictionary entry by case-folded name.
func (ip *Interpreter) Lookup(name string) (expr.Expression, bool) {
	e, ok := ip.dict[lowerKey(name)]
	return e, ok
}

// Bind adds a new dictionary entry, failing Redefined if the name is
// already bound.
func (ip *Interpreter) Bind(name string, e expr.Expression) error {
	key := lowerKey(name)
	if _, exists := ip.dict[key]; exists {
		return ferrors.Redefined{Name: name}
	}
	ip.dict[key] = e
	return nil
}

// Rebind overwrites an existing Value binding, as ToValue requires;
// fails if the name is unbound or bound to something other than a
// Value.
func (ip *Interpreter) Rebind(name string, e expr.Expression) error {
	key := lowerKey(name)
	existing, ok := ip.dict[key]
	if !ok {
		return ferrors.UnknownWord{Name: name}
	}
	if _, ok := existing.(expr.Value); !ok {
		return ferrors.InvalidName{Name: name}
	}
	ip.dict[key] = e
	return nil
}

// BindOrPanic is used only by builtins.Seed to install primitives into
// a fresh dictionary; a Redefined there is a programmer error.
func (ip *Interpreter) BindOrPanic(name string, e expr.Expression) {
	if err := ip.Bind(name, e); err != nil {
		panic(fmt.Sprintf("goforth: duplicate builtin %q", name))
	}
}

// Names returns all dictionary keys, used by the `words` builtin.
func (ip *Interpreter) Names() []string {
	out := make([]string, 0, len(ip.dict))
	for k := range ip.dict {
		out = append(out, k)
	}
	return out
}

func lowerKey(s string) string { return strings.ToLower(s) }

// --- expr.Interp: memory ---

// MemLoad fetches the cell at addr.
func (ip *Interpreter) MemLoad(addr uint) (ints.Int, error) {
	v, ok := ip.mem.Load(addr)
	if !ok {
		return 0, ferrors.InvalidAddress{Addr: addr, Op: "fetch"}
	}
	return v, nil
}

// MemStore writes vals starting at addr; writing at the current
// MemSize() appends.
func (ip *Interpreter) MemStore(addr uint, vals ...ints.Int) error {
	if !ip.mem.Stor(addr, vals...) {
		return ferrors.InvalidAddress{Addr: addr, Op: "store"}
	}
	return nil
}

// MemAppend grows memory by len(vals), used by `,`, `allot`, and
// `variable`.
func (ip *Interpreter) MemAppend(vals ...ints.Int) (uint, error) {
	addr, ok := ip.mem.Append(vals...)
	if !ok {
		return 0, ferrors.InvalidAddress{Addr: ip.mem.Size(), Op: "store"}
	}
	return addr, nil
}

// MemSize returns the current memory length.
func (ip *Interpreter) MemSize() uint { return ip.mem.Size() }

// --- expr.Interp: I/O & control ---

// Emit writes s verbatim to the configured output.
func (ip *Interpreter) Emit(s string) {
	_, _ = ip.out.Write([]byte(s))
}

// Flush flushes any buffered output.
func (ip *Interpreter) Flush() error { return ip.out.Flush() }

// Logf emits an optional trace diagnostic.
func (ip *Interpreter) Logf(mess string, args ...interface{}) { ip.logf(mess, args...) }

// Include delegates to the configured Includer.
func (ip *Interpreter) Include(path string) (string, error) {
	return ip.includer.Include(path)
}

// EvalString parses and executes s. After each
// top-level expression, a session-benign signal (Leave, Exit, Quit,
// Abort) clears the data stack and is swallowed; any other error
// propagates, also clearing the data stack first.
func (ip *Interpreter) EvalString(s string) error {
	p := parser.New(s, ip.Emit)
	for {
		e, err := p.Next()
		if err != nil {
			ip.ClearData()
			return err
		}
		if e == nil {
			return nil
		}
		ip.logf("eval %s", e.String())
		if err := e.Execute(ip); err != nil {
			ip.ClearData()
			switch err.(type) {
			case ferrors.Quit, ferrors.Abort:
				ip.ClearReturn()
				return nil
			}
			if ferrors.IsSessionBenign(err) {
				return nil
			}
			return err
		}
	}
}

// EvalFile reads path through the configured Includer and evaluates
// its contents.
func (ip *Interpreter) EvalFile(path string) error {
	src, err := ip.Include(path)
	if err != nil {
		return err
	}
	return ip.EvalString(src)
}
