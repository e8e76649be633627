package interp_test

import (
	"strings"
	"testing"

	"github.com/jcorbin/goforth/builtins"
	"github.com/jcorbin/goforth/ferrors"
	"github.com/jcorbin/goforth/interp"
	"github.com/stretchr/testify/require"
)

type mapIncluder map[string]string

func (m mapIncluder) Include(path string) (string, error) {
	src, ok := m[path]
	if !ok {
		return "", ferrors.CustomError{Message: "no such file: " + path}
	}
	return src, nil
}

func TestIncludeEvaluatesNamedSource(t *testing.T) {
	var out strings.Builder
	ip := interp.New(
		interp.WithOutput(&out),
		interp.WithIncluder(mapIncluder{"lib.fs": ": double dup + ;"}),
	)
	builtins.Seed(ip)
	require.NoError(t, ip.EvalString("include lib.fs 21 double"))
	snap := ip.DataSnapshot()
	require.Equal(t, 1, len(snap))
	require.EqualValues(t, 42, snap[0])
}

func TestMemLimitRejectsOverflow(t *testing.T) {
	ip := interp.New(interp.WithMemLimit(2))
	builtins.Seed(ip)
	err := ip.EvalString("1 , 2 , 3 ,")
	require.Error(t, err)
	require.IsType(t, ferrors.InvalidAddress{}, err)
}

func TestQuitClearsReturnStackAndStopsEval(t *testing.T) {
	var out strings.Builder
	ip := interp.New(interp.WithOutput(&out))
	builtins.Seed(ip)
	require.NoError(t, ip.EvalString(": f 1 >r quit r> ; f 99"))
	require.Equal(t, 0, ip.DataDepth(), "quit stops eval_string before '99' is reached")
	require.Equal(t, 0, ip.ReturnDepth(), "quit must clear the return stack")
}
