package interp

import (
	"io"
	"io/ioutil"

	"github.com/jcorbin/goforth/internal/flushio"
)

// Option configures an Interpreter at construction time, following the
// usual functional-options pattern.
type Option interface{ apply(ip *Interpreter) }

var defaultOptions = Options(
	withOutput(ioutil.Discard),
	withDataStackCap(64),
)

// Options flattens a list of Options into one, the same way the
// teacher's VMOptions does for VMOption.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*Interpreter) {}

type options []Option

func (opts options) apply(ip *Interpreter) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(ip)
		}
	}
}

// WithOutput sets the writer that printing builtins write to.
func WithOutput(w io.Writer) Option { return withOutput(w) }

// WithLogf sets an optional trace-logging hook, called with dispatch
// diagnostics; the default is a no-op.
func WithLogf(logf func(mess string, args ...interface{})) Option { return withLogf(logf) }

// WithMemLimit bounds how far memory may grow; 0 (the default) is
// unlimited.
func WithMemLimit(limit uint) Option { return withMemLimit(limit) }

// WithIncluder overrides the `include` collaborator; the default reads
// from the local filesystem.
func WithIncluder(inc Includer) Option { return withIncluder(inc) }

// WithDataStackCap preallocates the data stack's backing capacity.
func WithDataStackCap(n int) Option { return withDataStackCap(n) }

type outputOption struct{ io.Writer }

func withOutput(w io.Writer) outputOption { return outputOption{w} }

func (o outputOption) apply(ip *Interpreter) {
	ip.out = flushio.NewWriteFlusher(o.Writer)
}

type logfOption func(string, ...interface{})

func withLogf(logf func(string, ...interface{})) logfOption { return logfOption(logf) }

func (o logfOption) apply(ip *Interpreter) { ip.logf = o }

type memLimitOption uint

func withMemLimit(limit uint) memLimitOption { return memLimitOption(limit) }

func (o memLimitOption) apply(ip *Interpreter) { ip.mem.Limit = uint(o) }

type includerOption struct{ Includer }

func withIncluder(inc Includer) includerOption { return includerOption{inc} }

func (o includerOption) apply(ip *Interpreter) { ip.includer = o.Includer }

type dataStackCapOption int

func withDataStackCap(n int) dataStackCapOption { return dataStackCapOption(n) }

func (o dataStackCapOption) apply(ip *Interpreter) { ip.dataStackCap = int(o) }
