package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// printlnFn and outWriter are test seams for user-facing output.
var (
	printlnFn           = fmt.Println
	outWriter io.Writer = os.Stdout
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Record(ctx context.Context) error
	List(ctx context.Context) error
	Play(ctx context.Context) error
	Rename(ctx context.Context) error
	Delete(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers log their
// own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sol %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: record, (l)ist, play, rename, delete, profile, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "record":
			_ = a.Record(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "play":
			_ = a.Play(ctx)

		case "rename":
			_ = a.Rename(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) getStatus() string {
	if a.userEmail != "" {
		return "(" + a.userEmail + ")"
	}
	return ""
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the sol log CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
