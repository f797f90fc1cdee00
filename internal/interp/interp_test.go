package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mooers.net/trac64/internal/store"
)

// testRun wires an interpreter to in-memory console streams.
type testRun struct {
	in      *Interp
	console bytes.Buffer
	errs    []error
}

func newRun(input string, opts ...Option) *testRun {
	tr := &testRun{}
	base := []Option{
		WithConsole(NewIOConsole(strings.NewReader(input), &tr.console)),
		WithReporter(func(err error) { tr.errs = append(tr.errs, err) }),
	}
	tr.in = New(append(base, opts...)...)
	return tr
}

func (tr *testRun) run(t *testing.T, script string) (string, bool) {
	t.Helper()
	return tr.in.Run(script)
}

func TestDefineAndCall(t *testing.T) {
	tr := newRun("")
	out, halted := tr.run(t, "#(ds,f,X)'#(f)'")
	require.False(t, halted)
	assert.Equal(t, "X", out)
	assert.Empty(t, tr.errs)

	out, _ = tr.run(t, "#(cl,f)'")
	assert.Equal(t, "X", out)
}

func TestSegmentSubstitution(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(ds,g,(hello, X))'#(ss,g,X)'#(g,world)'")
	assert.Equal(t, "hello, world", out)
}

func TestEquals(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(eq,a,a,T,F)'#(eq,a,b,T,F)'#(eq,,,T,F)'")
	assert.Equal(t, "TFT", out)
}

func TestArithmetic(t *testing.T) {
	for script, want := range map[string]string{
		"#(ad,2,3)'":      "5",
		"#(su,2,5)'":      "-3",
		"#(ml,-3,4)'":     "-12",
		"#(dv,7,2)'":      "3",
		"#(dv,-7,2)'":     "-4",
		"#(ad,apple3,4)'": "apple7",
		"#(ad,,)'":        "0",
		"#(dv,5,0,Z)'":    "Z",
		"#(rm,17,5)'":     "2",
		"#(rm,-3,5)'":     "2",
		"#(rm,9,0,Z)'":    "Z",
	} {
		tr := newRun("")
		out, _ := tr.run(t, script)
		assert.Equal(t, want, out, "script %s", script)
		assert.Empty(t, tr.errs, "script %s", script)
	}
}

func TestDivideByZeroDefaultIsRescanned(t *testing.T) {
	tr := newRun("")
	// the default is spliced actively even on a neutral call
	out, _ := tr.run(t, "##(dv,5,0,#(ps,boom))'")
	assert.Equal(t, "", out)
	assert.Equal(t, "boom", tr.console.String())
}

func TestStrictNumericOperand(t *testing.T) {
	tr := newRun("", WithStrict(true))
	out, _ := tr.run(t, "#(ad,notanumber,1)'")
	assert.Equal(t, "", out)
	require.Len(t, tr.errs, 1)
	assert.Contains(t, tr.errs[0].Error(), "non-numeric")
}

func TestGreater(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(gr,5,3,yes,no)'#(gr,3,5,yes,no)'#(gr,4,4,yes,no)'#(gr,-1,-2,yes,no)'")
	assert.Equal(t, "yesnonoyes", out)
}

func TestBooleans(t *testing.T) {
	for script, want := range map[string]string{
		"#(bu,12,6)'":  "16",
		"#(bi,12,6)'":  "2",
		"#(bc,5)'":     "2",
		"#(bc,)'":      "",
		"#(br,1,64)'":  "51",
		"#(bs,1,64)'":  "50",
		"#(bs,-1,64)'": "32",
	} {
		tr := newRun("")
		out, _ := tr.run(t, script)
		assert.Equal(t, want, out, "script %s", script)
	}
}

func TestFormPointerReading(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(ds,f,abcdef)'#(cc,f,Z)#(cc,f,Z)'")
	assert.Equal(t, "ab", out)

	out, _ = tr.run(t, "#(cn,f,2,Z)'")
	assert.Equal(t, "cd", out)
	out, _ = tr.run(t, "#(cn,f,-3,Z)'")
	assert.Equal(t, "bcd", out)

	out, _ = tr.run(t, "#(cr,f)#(cn,f,99,Z)'")
	assert.Equal(t, "abcdef", out)
	// at the right end the default comes back and is rescanned
	out, _ = tr.run(t, "#(cn,f,1,Z)'")
	assert.Equal(t, "Z", out)
}

func TestCallSegment(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(ds,d,(x*y))'#(ss,d,*)'#(cs,d,E)#(cs,d,E)#(cs,d,E)'")
	assert.Equal(t, "xyE", out)
}

func TestInitialSearch(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(ds,f,hello world)'#(in,f,o,Z)/#(in,f,o,Z)/#(in,f,o,Z)'")
	assert.Equal(t, "hell/ w/Z", out)
}

func TestPrintForm(t *testing.T) {
	tr := newRun("")
	_, _ = tr.run(t, "#(ds,f,(a*b))'#(ss,f,*)'#(pf,f)'")
	assert.Equal(t, "<^>a<1>b\n", tr.console.String())
}

func TestListNames(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(ds,beta,)#(ds,alpha,)'#(ln,-)'")
	assert.Equal(t, "alpha-beta", out)
}

func TestDeleteForms(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(ds,a,1)#(ds,b,2)'#(dd,a)#(ln,-)'")
	assert.Equal(t, "b", out)

	out, _ = tr.run(t, "#(da)#(ln,-)'")
	assert.Equal(t, "", out)
}

func TestNeutralImplied(t *testing.T) {
	tr := newRun("")
	// before any implied call the flag reads neutral
	out, _ := tr.run(t, "#(ni,N,A)'")
	assert.Equal(t, "N", out)

	tr = newRun("")
	out, _ = tr.run(t, "#(ds,f,)'#(f)#(ni,N,A)'")
	assert.Equal(t, "A", out)

	tr = newRun("")
	out, _ = tr.run(t, "#(ds,f,)'##(f)#(ni,N,A)'")
	assert.Equal(t, "N", out)
}

const repeatSetup = "#(ds,repeat,(#(eq,*2,0,,(#(ni,#)#(cl,*1)#(cl,repeat,*1,#(su,*2,1))))))'" +
	"#(ss,repeat,*1,*2)'" +
	"#(ds,a,(#(ps,hello)))'"

func TestRepeatActive(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, repeatSetup+"#(repeat,a,5)'")
	assert.Equal(t, "", out)
	assert.Equal(t, "hellohellohellohellohello", tr.console.String())
	assert.Empty(t, tr.errs)
}

func TestRepeatNeutral(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, repeatSetup+"##(repeat,a,5)'")
	assert.Equal(t, strings.Repeat("#(ps,hello)", 5), out)
	assert.Equal(t, "", tr.console.String())
	assert.Empty(t, tr.errs)
}

func TestFactorial(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t,
		"#(ds,fact,(#(eq,*,0,1,(#(ml,*,#(cl,fact,#(su,*,1)))))))'"+
			"#(ss,fact,*)'"+
			"#(cl,fact,5)'")
	assert.Equal(t, "120", out)
	assert.Empty(t, tr.errs)
}

func TestLenientUndefinedName(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "a#(nope)b'")
	assert.Equal(t, "ab", out)
	assert.Empty(t, tr.errs)
}

func TestStrictUndefinedName(t *testing.T) {
	tr := newRun("", WithStrict(true))
	out, _ := tr.run(t, "a#(nope)b'after'")
	assert.Equal(t, "after", out)
	require.Len(t, tr.errs, 1)
	assert.Contains(t, tr.errs[0].Error(), "form not found (nope)")
}

func TestStrictArity(t *testing.T) {
	tr := newRun("", WithStrict(true))
	out, _ := tr.run(t, "#(eq,a,b)'")
	assert.Equal(t, "", out)
	require.Len(t, tr.errs, 1)
	assert.Contains(t, tr.errs[0].Error(), "too few arguments")

	tr = newRun("", WithStrict(true))
	_, _ = tr.run(t, "#(ds,f,(X*Y))'#(ss,f,*)'#(cl,f)'")
	require.Len(t, tr.errs, 1)
	assert.Contains(t, tr.errs[0].Error(), "too few arguments")
}

func TestHalt(t *testing.T) {
	tr := newRun("")
	out, halted := tr.run(t, "a#(hl)never'")
	assert.True(t, halted)
	assert.Equal(t, "a", out)
}

func TestHaltOnEndOfInput(t *testing.T) {
	tr := newRun("") // rs hits EOF immediately
	_, halted := tr.run(t, "#(ps,#(rs))'")
	assert.True(t, halted)
}

func TestReadString(t *testing.T) {
	tr := newRun("world'\n")
	_, halted := tr.run(t, "#(ps,#(rs))'")
	assert.False(t, halted)
	assert.Equal(t, "world", tr.console.String())
}

func TestReadStringMultiline(t *testing.T) {
	// an active read is rescanned, so its unprotected newline is stripped
	tr := newRun("one\ntwo'\n")
	_, _ = tr.run(t, "#(ps,[#(rs)])'")
	assert.Equal(t, "[onetwo]", tr.console.String())

	// a neutral read stays opaque text, newline intact
	tr = newRun("one\ntwo'\n")
	_, _ = tr.run(t, "#(ps,[##(rs)])'")
	assert.Equal(t, "[one\ntwo]", tr.console.String())
}

func TestReadStringSeed(t *testing.T) {
	tr := newRun("def'\n")
	_, _ = tr.run(t, "#(ds,x,#(rs,abc))'#(cl,x)'")
	// the seed is echoed as a prefix and belongs to the returned text
	out, _ := tr.run(t, "#(cl,x)'")
	assert.Equal(t, "abcdef", out)
}

func TestReadChar(t *testing.T) {
	tr := newRun("xy")
	out, _ := tr.run(t, "#(rc)#(rc)'")
	assert.Equal(t, "xy", out)
}

func TestReadStringKeepsTailAfterMeta(t *testing.T) {
	// input past a mid-line meta character waits for the next read
	tr := newRun("a'b'\n")
	_, _ = tr.run(t, "#(ps,[#(rs)])'#(ps,[#(rs)])'")
	assert.Equal(t, "[a][b]", tr.console.String())
}

func TestReadCharConsumesTailAfterMeta(t *testing.T) {
	tr := newRun("x'yz\n")
	out, _ := tr.run(t, "#(rs)#(rc)#(rc)'")
	assert.Equal(t, "xyz", out)
}

func TestChangeMeta(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(cm,;)a'b;")
	assert.Equal(t, "a'b", out)
}

func TestChangeCallChar(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(mo,ms,:)':(ds,f,# is plain now)':(f)'")
	assert.Equal(t, "# is plain now", out)
}

func TestRegulationModeDropsExtended(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(mo)#(rm,7,3)'")
	// rm is gated off, the name falls through to an absent form
	assert.Equal(t, "", out)
	assert.Empty(t, tr.errs)
}

func TestModeSwitches(t *testing.T) {
	tr := newRun("")
	_, _ = tr.run(t, "#(mo,e,+u)'#(nope)'")
	require.Len(t, tr.errs, 1)

	tr = newRun("")
	_, _ = tr.run(t, "#(mo,e,+u-u)'#(nope)'")
	assert.Empty(t, tr.errs)
}

func TestReadTerminalMode(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "#(mo,rt)'")
	assert.Equal(t, "line", out)
}

func TestTrace(t *testing.T) {
	tr := newRun("", WithTrace(true))
	_, _ = tr.run(t, "#(ps,hi)'")
	assert.Equal(t, "#/ ps * hi /\nhi", tr.console.String())
}

func TestBlockRoundTrip(t *testing.T) {
	mem := store.NewMemory()
	tr := newRun("", WithStore(mem))
	out, _ := tr.run(t,
		"#(ds,x,(hello X))'#(ss,x,X)'#(sb,blk)'"+
			"#(ds,x,changed)'#(fb,blk)'#(cl,x,world)'")
	assert.Equal(t, "hello world", out)
	assert.Empty(t, tr.errs)
}

func TestBlockFetchReplacesStore(t *testing.T) {
	mem := store.NewMemory()
	tr := newRun("", WithStore(mem))
	out, _ := tr.run(t, "#(ds,a,1)'#(sb,blk)'#(ds,b,2)'#(fb,blk)'#(ln,-)'")
	assert.Equal(t, "a", out)
}

func TestBlockErrorsAreFatal(t *testing.T) {
	mem := store.NewMemory()
	tr := newRun("", WithStore(mem))
	out, _ := tr.run(t, "before#(fb,missing)after'ok'")
	// storage trouble kills the statement even in forgiving mode
	assert.Equal(t, "ok", out)
	require.Len(t, tr.errs, 1)
	assert.Contains(t, tr.errs[0].Error(), "missing")
}

func TestBlockErase(t *testing.T) {
	mem := store.NewMemory()
	tr := newRun("", WithStore(mem))
	_, _ = tr.run(t, "#(ds,a,1)'#(sb,blk)'#(eb,blk)'#(fb,blk)'")
	require.Len(t, tr.errs, 1)
}

func TestBlockArgShapeIsAlwaysStrict(t *testing.T) {
	mem := store.NewMemory()
	tr := newRun("", WithStore(mem))
	_, _ = tr.run(t, "#(sb)'")
	require.Len(t, tr.errs, 1)
	assert.Contains(t, tr.errs[0].Error(), "too few arguments")
}

func TestStepLimit(t *testing.T) {
	tr := newRun("", WithStepLimit(25))
	out, _ := tr.run(t, "#(ds,loop,(#(cl,loop)))'#(cl,loop)'x'")
	assert.Equal(t, "x", out)
	require.Len(t, tr.errs, 1)
	assert.Contains(t, tr.errs[0].Error(), "step budget")
}

func TestParseErrorRecovery(t *testing.T) {
	tr := newRun("")
	out, _ := tr.run(t, "###(ps,a)'ok'")
	assert.Equal(t, "ok", out)
	require.Len(t, tr.errs, 1)

	tr = newRun("")
	out, _ = tr.run(t, "#(ps,unterminated")
	assert.Equal(t, "", out)
	require.Len(t, tr.errs, 1)
}

func TestLenientArgumentFilling(t *testing.T) {
	tr := newRun("")
	// missing args pad with empty, extras are dropped
	out, _ := tr.run(t, "#(eq,a,a,T)'#(eq,a,b,T,F,extra)'")
	assert.Equal(t, "TF", out)
}
