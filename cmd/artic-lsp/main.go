// Command artic-lsp runs the Artic language server over stdio, grounded
// on the teacher's cmd/design-tokens-language-server/main.go.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/DFOP-HD/artic-lsp/lsp"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// crashSignals dumps a stack trace to standard error and re-raises the
// signal so the process dies the way it normally would, letting the
// editor client observe the exit and restart the server with
// restartFromCrash set (spec.md §5 "Failure isolation").
var crashSignals = []os.Signal{syscall.SIGSEGV, syscall.SIGABRT, syscall.SIGFPE, syscall.SIGILL, syscall.SIGBUS}

func installCrashHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, crashSignals...)
	go func() {
		sig := <-c
		fmt.Fprintf(os.Stderr, "artic-lsp: fatal signal %v\n%s\n", sig, debug.Stack())
		signal.Stop(c)
		signal.Reset(sig.(syscall.Signal))
		_ = syscall.Kill(os.Getpid(), sig.(syscall.Signal))
	}()
}

func main() {
	// glsp's server/transport logging goes through commonlog; wire it to
	// a simple backend on stderr so framing errors surface without
	// fighting our own logger for the terminal.
	commonlog.Configure(1, nil)

	installCrashHandler()

	server, err := lsp.NewServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "artic-lsp: failed to create server: %v\n", err)
		os.Exit(1)
	}

	// spec.md §6 "Exit codes": 0 on clean shutdown, 1 on any unhandled
	// fatal exception inside the message loop.
	if err := server.RunStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "artic-lsp: server error: %v\n", err)
		os.Exit(1)
	}
}
