// Command trac64 is the T-64 interpreter CLI.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/mattn/go-isatty"
	"mooers.net/trac64/internal/interp"
	"mooers.net/trac64/pkg/trac"
)

const usage = "Usage: trac64 [-sT] [-d db] [-t mode] [-l limit] [-e script] [file]"

func main() {
	var (
		script   string
		dbPath   = "trac64.db"
		strict   bool
		tracing  bool
		termName = "line"
		limit    int
	)

	opts, optind, err := getopt.Getopts(os.Args, "e:d:st:Tl:h")
	if err != nil {
		die(err)
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'e':
			script = opt.Value
		case 'd':
			dbPath = opt.Value
		case 's':
			strict = true
		case 'T':
			tracing = true
		case 't':
			termName = opt.Value
		case 'l':
			limit, err = strconv.Atoi(opt.Value)
			if err != nil {
				die(fmt.Errorf("bad step limit: %s", opt.Value))
			}
		case 'h':
			fmt.Println(usage)
			os.Exit(0)
		}
	}

	termMode, ok := interp.ParseTerminalMode(termName)
	if !ok {
		die(fmt.Errorf("unknown terminal mode: %s (use line, basic or ansi)", termName))
	}

	var file string
	switch args := os.Args[optind:]; len(args) {
	case 0:
	case 1:
		file = args[0]
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	rtOpts := []trac.Option{
		trac.WithSQLiteStore(dbPath),
		trac.WithStrict(strict),
		trac.WithTrace(tracing),
		trac.WithStepLimit(limit),
		trac.WithTerminal(termMode),
	}

	interactive := script == "" && file == ""
	tty := isatty.IsTerminal(os.Stdin.Fd())

	var console *termConsole
	if tty && interactive {
		console, err = newTermConsole(termMode)
		if err != nil {
			die(err)
		}
		defer console.Close()
		rtOpts = append(rtOpts, trac.WithConsole(console))
	}

	runtime := trac.New(rtOpts...)
	defer runtime.Close()

	switch {
	case script != "":
		out, _ := runtime.Run(script)
		printOutput(out)

	case file != "":
		out, _, err := runtime.RunFile(file)
		if err != nil {
			die(err)
		}
		printOutput(out)

	default:
		if tty {
			fmt.Println("trac64: a TRAC T-64 processor (Ctrl+D to exit)")
		}
		for {
			_, halted := runtime.Run(runtime.IdleScript())
			if halted {
				break
			}
		}
		if console != nil {
			console.restore()
		}
		if tty {
			fmt.Println()
		}
	}
}

func printOutput(out string) {
	if out == "" {
		return
	}
	fmt.Print(out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Println()
	}
}

func die(e error) {
	fmt.Fprintf(os.Stderr, "trac64: %s\n", e)
	os.Exit(1)
}
