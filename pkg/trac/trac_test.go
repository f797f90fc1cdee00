package trac

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	rt := New(WithIO(strings.NewReader(""), &out))
	defer rt.Close()

	result, halted := rt.Run("#(ds,f,(hi X))'#(ss,f,X)'#(f,there)'")
	if halted {
		t.Fatal("unexpected halt")
	}
	if result != "hi there" {
		t.Errorf("Run = %q", result)
	}
}

func TestRunReader(t *testing.T) {
	rt := New(WithIO(strings.NewReader(""), &bytes.Buffer{}))
	defer rt.Close()

	out, halted, err := rt.RunReader(strings.NewReader("#(ad,20,22)'"))
	if err != nil {
		t.Fatalf("RunReader failed: %v", err)
	}
	if halted || out != "42" {
		t.Errorf("RunReader = %q halted=%v", out, halted)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fact.trac")
	script := "#(ds,fact,(#(eq,*,0,1,(#(ml,*,#(cl,fact,#(su,*,1)))))))'" +
		"#(ss,fact,*)'" +
		"#(cl,fact,6)'"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	rt := New(WithIO(strings.NewReader(""), &bytes.Buffer{}))
	defer rt.Close()

	out, _, err := rt.RunFile(path)
	if err != nil {
		t.Fatalf("RunFile failed: %v", err)
	}
	if out != "720" {
		t.Errorf("RunFile = %q, want 720", out)
	}
}

func TestIdleScript(t *testing.T) {
	rt := New(WithIO(strings.NewReader(""), &bytes.Buffer{}))
	defer rt.Close()

	if got := rt.IdleScript(); got != "#(ps,#(rs))'" {
		t.Errorf("IdleScript = %q", got)
	}

	// the idle script follows runtime syntax changes
	rt.Run("#(cm,;)'")
	if got := rt.IdleScript(); got != "#(ps,#(rs));" {
		t.Errorf("IdleScript after cm = %q", got)
	}
}

func TestIdleLoop(t *testing.T) {
	var out bytes.Buffer
	rt := New(WithIO(strings.NewReader("#(ds,greet,hello)'\n#(greet)'\n"), &out))
	defer rt.Close()

	for {
		_, halted := rt.Run(rt.IdleScript())
		if halted {
			break
		}
	}
	if out.String() != "hello" {
		t.Errorf("console = %q, want %q", out.String(), "hello")
	}
}

func TestSQLitePersistenceAcrossRuntimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.db")

	rt := New(WithSQLiteStore(path), WithIO(strings.NewReader(""), &bytes.Buffer{}))
	rt.Run("#(ds,x,saved)'#(sb,blk)'")
	if err := rt.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	rt2 := New(WithSQLiteStore(path), WithIO(strings.NewReader(""), &bytes.Buffer{}))
	defer rt2.Close()

	out, _ := rt2.Run("#(fb,blk)'#(cl,x)'")
	if out != "saved" {
		t.Errorf("restored form = %q, want %q", out, "saved")
	}
}

func TestSQLiteEmptyBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.db")

	rt := New(WithSQLiteStore(path), WithIO(strings.NewReader(""), &bytes.Buffer{}))
	rt.Run("#(da)'#(sb,blk)'")
	if err := rt.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	rt2 := New(WithSQLiteStore(path), WithIO(strings.NewReader(""), &bytes.Buffer{}))
	defer rt2.Close()

	// fetching the empty block must empty the store, not fail
	out, _ := rt2.Run("#(ds,x,stale)'#(fb,blk)'#(ln,-)'")
	if out != "" {
		t.Errorf("Run = %q, want empty", out)
	}
}

func TestMemoryStore(t *testing.T) {
	rt := New(WithMemoryStore(), WithIO(strings.NewReader(""), &bytes.Buffer{}))
	defer rt.Close()

	out, _ := rt.Run("#(ds,x,mem)'#(sb,b)'#(da)'#(fb,b)'#(cl,x)'")
	if out != "mem" {
		t.Errorf("Run = %q, want %q", out, "mem")
	}
}
