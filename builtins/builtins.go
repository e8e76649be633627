// Package builtins seeds a fresh dictionary with the primitive words
// and compile-time markers. Each primitive is a Go
// closure wrapped in expr.Callable; markers are bound to expr.Dummy so
// that executing one bare (outside the parser's syntax) raises
// ferrors.CompileTimeWord.
package builtins

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/jcorbin/goforth/expr"
	"github.com/jcorbin/goforth/ferrors"
	"github.com/jcorbin/goforth/internal/runeio"
	"github.com/jcorbin/goforth/ints"
)

// Binder is the subset of *interp.Interpreter needed to install
// builtins; satisfied by interp.Interpreter.BindOrPanic.
type Binder interface {
	BindOrPanic(name string, e expr.Expression)
}

func bindCallable(b Binder, name string, fn func(ip expr.Interp) error) {
	b.BindOrPanic(name, expr.Callable{Name: name, Fn: fn})
}

// Seed installs every primitive and compile-time marker into b.
func Seed(b Binder) {
	seedLogic(b)
	seedComparisons(b)
	seedArithmetic(b)
	seedDataStack(b)
	seedReturnStack(b)
	seedMemory(b)
	seedIO(b)
	seedSession(b)
	seedReflection(b)
	seedCompileTimeMarkers(b)
}

func seedLogic(b Binder) {
	bindCallable(b, "true", func(ip expr.Interp) error { ip.PushData(ints.True); return nil })
	bindCallable(b, "false", func(ip expr.Interp) error { ip.PushData(ints.False); return nil })
	bindCallable(b, "and", binaryOp(func(a, c ints.Int) (ints.Int, error) { return a.And(c), nil }))
	bindCallable(b, "or", binaryOp(func(a, c ints.Int) (ints.Int, error) { return a.Or(c), nil }))
	bindCallable(b, "xor", binaryOp(func(a, c ints.Int) (ints.Int, error) { return a.Xor(c), nil }))
	bindCallable(b, "invert", unaryOp(func(a ints.Int) (ints.Int, error) { return a.Invert(), nil }))
}

func seedComparisons(b Binder) {
	bindCallable(b, "=", binaryOp(func(a, c ints.Int) (ints.Int, error) { return ints.FromBool(a.Eq(c)), nil }))
	bindCallable(b, "<>", binaryOp(func(a, c ints.Int) (ints.Int, error) { return ints.FromBool(!a.Eq(c)), nil }))
	bindCallable(b, "<", binaryOp(func(a, c ints.Int) (ints.Int, error) { return ints.FromBool(a.Lt(c)), nil }))
	bindCallable(b, ">", binaryOp(func(a, c ints.Int) (ints.Int, error) { return ints.FromBool(a.Gt(c)), nil }))
	bindCallable(b, "0=", unaryOp(func(a ints.Int) (ints.Int, error) { return ints.FromBool(a.IsZero()), nil }))
}

func seedArithmetic(b Binder) {
	bindCallable(b, "+", binaryOp(func(a, c ints.Int) (ints.Int, error) { return a.Add(c), nil }))
	bindCallable(b, "-", binaryOp(func(a, c ints.Int) (ints.Int, error) { return a.Sub(c), nil }))
	bindCallable(b, "*", binaryOp(func(a, c ints.Int) (ints.Int, error) { return a.Mul(c), nil }))
	bindCallable(b, "/", binaryOp(func(a, c ints.Int) (ints.Int, error) { return a.Div(c) }))
	bindCallable(b, "mod", binaryOp(func(a, c ints.Int) (ints.Int, error) { return a.Mod(c) }))
	bindCallable(b, "abs", unaryOp(func(a ints.Int) (ints.Int, error) { return a.Abs(), nil }))
	bindCallable(b, "negate", unaryOp(func(a ints.Int) (ints.Int, error) { return a.Neg(), nil }))
	bindCallable(b, "1+", unaryOp(func(a ints.Int) (ints.Int, error) { return a.Add(1), nil }))
	bindCallable(b, "1-", unaryOp(func(a ints.Int) (ints.Int, error) { return a.Sub(1), nil }))
	bindCallable(b, "2*", unaryOp(func(a ints.Int) (ints.Int, error) { return a.Shl1(), nil }))
	bindCallable(b, "2/", unaryOp(func(a ints.Int) (ints.Int, error) { return a.Shr1(), nil }))

	bindCallable(b, "/mod", func(ip expr.Interp) error {
		d, err := ip.PopData()
		if err != nil {
			return err
		}
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		q, r, err := n.DivMod(d)
		if err != nil {
			return err
		}
		ip.PushData(r)
		ip.PushData(q)
		return nil
	})

	bindCallable(b, "*/", func(ip expr.Interp) error {
		d, err := ip.PopData()
		if err != nil {
			return err
		}
		m, err := ip.PopData()
		if err != nil {
			return err
		}
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		q, err := n.MulDiv(m, d)
		if err != nil {
			return err
		}
		ip.PushData(q)
		return nil
	})

	bindCallable(b, "*/mod", func(ip expr.Interp) error {
		d, err := ip.PopData()
		if err != nil {
			return err
		}
		m, err := ip.PopData()
		if err != nil {
			return err
		}
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		q, r, err := n.MulDivMod(m, d)
		if err != nil {
			return err
		}
		ip.PushData(r)
		ip.PushData(q)
		return nil
	})
}

func seedDataStack(b Binder) {
	bindCallable(b, "dup", func(ip expr.Interp) error {
		a, err := ip.PopData()
		if err != nil {
			return err
		}
		ip.PushData(a)
		ip.PushData(a)
		return nil
	})
	bindCallable(b, "drop", func(ip expr.Interp) error {
		_, err := ip.PopData()
		return err
	})
	bindCallable(b, "swap", func(ip expr.Interp) error {
		b, err := ip.PopData()
		if err != nil {
			return err
		}
		a, err := ip.PopData()
		if err != nil {
			return err
		}
		ip.PushData(b)
		ip.PushData(a)
		return nil
	})
	bindCallable(b, "over", func(ip expr.Interp) error {
		b, err := ip.PopData()
		if err != nil {
			return err
		}
		a, err := ip.PopData()
		if err != nil {
			return err
		}
		ip.PushData(a)
		ip.PushData(b)
		ip.PushData(a)
		return nil
	})
	bindCallable(b, "rot", func(ip expr.Interp) error {
		c, err := ip.PopData()
		if err != nil {
			return err
		}
		b, err := ip.PopData()
		if err != nil {
			return err
		}
		a, err := ip.PopData()
		if err != nil {
			return err
		}
		ip.PushData(b)
		ip.PushData(c)
		ip.PushData(a)
		return nil
	})
	bindCallable(b, "pick", func(ip expr.Interp) error {
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		snap := ip.DataSnapshot()
		i := len(snap) - 1 - int(n)
		if n < 0 || i < 0 {
			return ferrors.StackUnderflow{Stack: "data", Want: int(n) + 1, Have: len(snap)}
		}
		ip.PushData(snap[i])
		return nil
	})
	bindCallable(b, "roll", func(ip expr.Interp) error {
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		snap := ip.DataSnapshot()
		i := len(snap) - 1 - int(n)
		if n < 0 || i < 0 {
			return ferrors.StackUnderflow{Stack: "data", Want: int(n) + 1, Have: len(snap)}
		}
		v := snap[i]
		ip.ClearData()
		for j, x := range snap {
			if j == i {
				continue
			}
			ip.PushData(x)
		}
		ip.PushData(v)
		return nil
	})
	bindCallable(b, "depth", func(ip expr.Interp) error {
		ip.PushData(ints.Int(ip.DataDepth()))
		return nil
	})
	bindCallable(b, "clearstack", func(ip expr.Interp) error { ip.ClearData(); return nil })
	bindCallable(b, ".s", func(ip expr.Interp) error {
		snap := ip.DataSnapshot()
		parts := make([]string, len(snap))
		for i, v := range snap {
			parts[i] = fmt.Sprintf("%d", v)
		}
		ip.Emit(fmt.Sprintf("<%d> %s", len(snap), strings.Join(parts, " ")))
		return nil
	})
}

func seedReturnStack(b Binder) {
	bindCallable(b, ">r", func(ip expr.Interp) error {
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		ip.PushReturn(n)
		return nil
	})
	bindCallable(b, "r>", func(ip expr.Interp) error {
		n, err := ip.PopReturn()
		if err != nil {
			return err
		}
		ip.PushData(n)
		return nil
	})
	bindCallable(b, "r@", func(ip expr.Interp) error {
		n, err := ip.ReturnAt(0)
		if err != nil {
			return err
		}
		ip.PushData(n)
		return nil
	})
	bindCallable(b, "i", func(ip expr.Interp) error {
		n, err := ip.ReturnAt(0)
		if err != nil {
			return err
		}
		ip.PushData(n)
		return nil
	})
	bindCallable(b, "j", func(ip expr.Interp) error {
		n, err := ip.ReturnAt(1)
		if err != nil {
			return err
		}
		ip.PushData(n)
		return nil
	})
}

func seedMemory(b Binder) {
	bindCallable(b, "!", func(ip expr.Interp) error {
		addr, err := ip.PopData()
		if err != nil {
			return err
		}
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		return ip.MemStore(uint(addr), n)
	})
	bindCallable(b, "@", func(ip expr.Interp) error {
		addr, err := ip.PopData()
		if err != nil {
			return err
		}
		n, err := ip.MemLoad(uint(addr))
		if err != nil {
			return err
		}
		ip.PushData(n)
		return nil
	})
	bindCallable(b, ",", func(ip expr.Interp) error {
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		_, err = ip.MemAppend(n)
		return err
	})
	bindCallable(b, "allot", func(ip expr.Interp) error {
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		if n < 0 {
			return nil
		}
		zeros := make([]ints.Int, n)
		_, err = ip.MemAppend(zeros...)
		return err
	})
	bindCallable(b, "here", func(ip expr.Interp) error {
		ip.PushData(ints.FromIndex(ip.MemSize()))
		return nil
	})
	bindCallable(b, "dump", func(ip expr.Interp) error {
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		addr, err := ip.PopData()
		if err != nil {
			return err
		}
		parts := make([]string, 0, n)
		for i := ints.Int(0); i < n; i++ {
			v, err := ip.MemLoad(uint(addr) + uint(i))
			if err != nil {
				return err
			}
			parts = append(parts, fmt.Sprintf("%d", v))
		}
		ip.Emit(strings.Join(parts, " "))
		return nil
	})
}

func seedIO(b Binder) {
	bindCallable(b, "cr", func(ip expr.Interp) error { ip.Emit("\n"); return nil })
	bindCallable(b, ".", func(ip expr.Interp) error {
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		ip.Emit(fmt.Sprintf("%d ", n))
		return nil
	})
	bindCallable(b, "emit", func(ip expr.Interp) error {
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		r := rune(n)
		if r < 0 || r > 0x10FFFF {
			r = '�'
		}
		var buf bytes.Buffer
		_, _ = runeio.WriteANSIRune(&buf, r)
		ip.Emit(buf.String())
		return nil
	})
	bindCallable(b, ".r", func(ip expr.Interp) error {
		w, err := ip.PopData()
		if err != nil {
			return err
		}
		n, err := ip.PopData()
		if err != nil {
			return err
		}
		ip.Emit(fmt.Sprintf("%*d", int(w), n))
		return nil
	})
}

func seedSession(b Binder) {
	bindCallable(b, "leave", func(ip expr.Interp) error { return ferrors.Leave{} })
	bindCallable(b, "exit", func(ip expr.Interp) error { return ferrors.Exit{} })
	bindCallable(b, "recurse", func(ip expr.Interp) error { return ferrors.Recurse{} })
	bindCallable(b, "quit", func(ip expr.Interp) error { return ferrors.Quit{} })
	bindCallable(b, "abort", func(ip expr.Interp) error { return ferrors.Abort{} })
	// "until" pops a flag and raises Leave when true, ending a
	// begin...until loop; "while" pops a flag and raises Leave when
	// false, letting a begin...while...repeat loop continue only
	// while the condition holds; see DESIGN.md's resolution of the
	// tension between treating these as Dummy markers and giving them
	// this runtime behavior.
	bindCallable(b, "until", func(ip expr.Interp) error {
		flag, err := ip.PopData()
		if err != nil {
			return err
		}
		if flag.IsTrue() {
			return ferrors.Leave{}
		}
		return nil
	})
	bindCallable(b, "while", func(ip expr.Interp) error {
		flag, err := ip.PopData()
		if err != nil {
			return err
		}
		if !flag.IsTrue() {
			return ferrors.Leave{}
		}
		return nil
	})
	bindCallable(b, "bye", func(ip expr.Interp) error { return ferrors.Bye{} })
}

func seedReflection(b Binder) {
	bindCallable(b, "words", func(ip expr.Interp) error {
		names := ip.Names()
		sort.Strings(names)
		ip.Emit(strings.Join(names, " "))
		return nil
	})
}

func seedCompileTimeMarkers(b Binder) {
	for _, name := range []string{
		";", ":", "if", "then", "else", "begin", "again", "repeat",
		"do", "loop", "create", "variable", "constant", "value", "to",
		".(", `."`, "include", "see",
	} {
		b.BindOrPanic(name, expr.Dummy{Name: name})
	}
}

func binaryOp(fn func(a, c ints.Int) (ints.Int, error)) func(expr.Interp) error {
	return func(ip expr.Interp) error {
		c, err := ip.PopData()
		if err != nil {
			return err
		}
		a, err := ip.PopData()
		if err != nil {
			return err
		}
		n, err := fn(a, c)
		if err != nil {
			return err
		}
		ip.PushData(n)
		return nil
	}
}

func unaryOp(fn func(a ints.Int) (ints.Int, error)) func(expr.Interp) error {
	return func(ip expr.Interp) error {
		a, err := ip.PopData()
		if err != nil {
			return err
		}
		n, err := fn(a)
		if err != nil {
			return err
		}
		ip.PushData(n)
		return nil
	}
}
