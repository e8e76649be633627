// Command goforth runs a Forth-83-style interpreter over one or more
// source files, or interactively over stdin when none are given.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jcorbin/goforth/builtins"
	"github.com/jcorbin/goforth/ferrors"
	"github.com/jcorbin/goforth/interp"
	"github.com/jcorbin/goforth/internal/fileinput"
	"github.com/jcorbin/goforth/internal/logio"
	"github.com/jcorbin/goforth/internal/panicerr"
)

func main() {
	var (
		memLimit uint
		trace    bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "enable memory limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	opts := []interp.Option{
		interp.WithOutput(os.Stdout),
		interp.WithMemLimit(memLimit),
	}
	if trace {
		opts = append(opts, interp.WithLogf(log.Leveledf("TRACE")))
	}

	ip := interp.New(opts...)
	builtins.Seed(ip)

	args := flag.Args()
	if len(args) == 0 {
		log.ErrorIf(runREPL(ip, &log, os.Stdin, os.Stdout))
		return
	}
	for _, path := range args {
		err := ip.EvalFile(path)
		_ = ip.Flush()
		if err != nil {
			if _, bye := err.(ferrors.Bye); bye {
				return
			}
			log.Errorf("%s: %v", path, err)
			return
		}
	}
}

// runREPL drives the interpreter line by line from in, echoing " ok"
// after each successfully evaluated line, in the tradition of Forth
// command-mode sessions, and prefixing each error line with the input
// location of the line that failed. Each line's evaluation runs
// through panicerr.Recover so a Go-level bug in a primitive cannot
// take the whole REPL down; `bye` ends the session cleanly via
// ferrors.Bye rather than a panic.
func runREPL(ip *interp.Interpreter, log *logio.Logger, in io.Reader, out io.Writer) error {
	input := &fileinput.Input{Queue: []io.Reader{namedReader{in, "<stdin>"}}}
	var line []rune
	for {
		r, _, err := input.ReadRune()
		if err == io.EOF {
			if len(line) > 0 {
				evalLine(ip, log, out, string(line), input.Last.Location)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if r != '\n' {
			line = append(line, r)
			continue
		}
		if stop := evalLine(ip, log, out, string(line), input.Last.Location); stop {
			return nil
		}
		line = line[:0]
	}
}

func evalLine(ip *interp.Interpreter, log *logio.Logger, out io.Writer, text string, loc fileinput.Location) (stop bool) {
	err := panicerr.Recover("eval", func() error { return ip.EvalString(text) })
	_ = ip.Flush()
	switch {
	case err == nil:
		fmt.Fprint(out, " ok\n")
		return false
	default:
		if _, bye := err.(ferrors.Bye); bye {
			return true
		}
		if panicerr.IsPanic(err) {
			log.Errorf("%+v", err)
			return false
		}
		fmt.Fprintf(out, " error: %s: %v\n", loc, err)
		return false
	}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
