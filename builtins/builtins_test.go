package builtins_test

import (
	"strings"
	"testing"

	"github.com/jcorbin/goforth/builtins"
	"github.com/jcorbin/goforth/ferrors"
	"github.com/jcorbin/goforth/interp"
	"github.com/stretchr/testify/require"
)

func newInterp(t *testing.T, out *strings.Builder) *interp.Interpreter {
	t.Helper()
	ip := interp.New(interp.WithOutput(out))
	builtins.Seed(ip)
	return ip
}

func TestArithmeticAddition(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("2 2 +"))
	require.Equal(t, []int32{4}, snapshot(ip))
}

func TestDefinedFunction(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString(": square dup * ; 5 square"))
	require.Equal(t, []int32{25}, snapshot(ip))
}

func TestCountedLoop(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString(": upto5 5 0 do i loop ; upto5"))
	require.Equal(t, []int32{0, 1, 2, 3, 4}, snapshot(ip))
}

func TestNestedLoopIJ(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("2 0 do 2 0 do j i loop loop"))
	require.Equal(t, []int32{0, 0, 0, 1, 1, 0, 1, 1}, snapshot(ip))
}

func TestVariableStoreFetch(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("variable x 5 x ! x @"))
	require.Equal(t, []int32{5}, snapshot(ip))
}

func TestRecursiveFactorial(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString(
		": fact dup 1 > if dup 1 - recurse * then ; 5 fact"))
	require.Equal(t, []int32{120}, snapshot(ip))
}

func TestStarSlashDoublePrecision(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("912345678 34 100 */"))
	require.Equal(t, []int32{310197530}, snapshot(ip))
}

func TestDivisionByZeroClearsStackAndPropagates(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	err := ip.EvalString("1 0 /")
	require.ErrorIs(t, err, ferrors.DivisionByZero{})
	require.Equal(t, 0, ip.DataDepth())
}

func TestEmptyFunctionIsNoop(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString(": noop ; 1 noop"))
	require.Equal(t, []int32{1}, snapshot(ip))
}

func TestBeginLeaveAgain(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("begin 1 leave again"))
	require.Equal(t, []int32{1}, snapshot(ip))
}

func TestBeginUntilCountsDown(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("3 begin 1 - dup 0 = until"))
	require.Equal(t, []int32{0}, snapshot(ip))
}

func TestBeginWhileRepeat(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString(
		": count 0 begin dup 3 < while dup 1+ repeat drop ; count"))
}

func TestRedefinitionFails(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	err := ip.EvalString(": dup 1 ;")
	require.Equal(t, ferrors.Redefined{Name: "dup"}, err)
}

func TestUnterminatedFunctionFails(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	err := ip.EvalString(": f dup")
	require.Error(t, err)
}

func TestCharLiteral(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("char hello"))
	require.Equal(t, []int32{'h'}, snapshot(ip))
}

func TestPickAndRoll(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("1 2 3 1 pick"))
	require.Equal(t, []int32{1, 2, 3, 2}, snapshot(ip))

	ip2 := newInterp(t, &out)
	require.NoError(t, ip2.EvalString("1 2 3 2 roll"))
	require.Equal(t, []int32{2, 3, 1}, snapshot(ip2))
}

func TestCompileTimeWordExecutedBareFails(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	err := ip.EvalString("then")
	require.Equal(t, ferrors.CompileTimeWord{Name: "then"}, err)
}

func TestDotPrintsWithTrailingSpace(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("42 ."))
	require.Equal(t, "42 ", out.String())
}

func TestDotQuoteString(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString(`." hello world"`))
	require.Equal(t, "hello world", out.String())
}

func TestByeSignalPropagates(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	err := ip.EvalString("bye")
	require.Equal(t, ferrors.Bye{}, err)
}

func TestWordsListsDictionary(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString("words"))
	require.Contains(t, out.String(), "dup")
}

func TestSeeReconstructsDefinition(t *testing.T) {
	var out strings.Builder
	ip := newInterp(t, &out)
	require.NoError(t, ip.EvalString(": square dup * ;"))
	require.NoError(t, ip.EvalString("see square"))
	require.Equal(t, ": square dup * ;\n", out.String())
}

func snapshot(ip *interp.Interpreter) []int32 {
	snap := ip.DataSnapshot()
	out := make([]int32, len(snap))
	for i, v := range snap {
		out[i] = int32(v)
	}
	return out
}
