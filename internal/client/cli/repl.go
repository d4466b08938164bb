package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Detect(ctx context.Context, path string) error
	History(ctx context.Context) error
	Diseases(ctx context.Context) error
	Home(ctx context.Context) error
	About(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: signup, signin, detect <path>, diseases, history, home, about, exit"
	helpSignedIn  = "Available commands: detect <path>, history, diseases, whoami, logout, home, about, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is done. Each command runs with its own context that Ctrl-C cancels.
// Commands that prompt read their answers from the same reader, so lines
// are consumed one at a time.
//
// Errors returned by command handlers are not shown here; handlers report
// to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		if status := statusFn(); status != "" {
			printFn(fmt.Sprintf("pd %s> ", status))
		} else {
			printFn("pd> ")
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		cmdCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		dispatch(cmdCtx, a, cmd, args)
		stop()
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpSignedIn)
		} else {
			printlnFn(helpSignedOut)
		}

	case "signup", "register":
		_ = a.SignUp(ctx)

	case "signin", "login":
		_ = a.SignIn(ctx)

	case "logout":
		_ = a.Logout(ctx)

	case "whoami":
		_ = a.WhoAmI(ctx)

	case "detect":
		_ = a.Detect(ctx, strings.Join(args, " "))

	case "history":
		_ = a.History(ctx)

	case "diseases":
		_ = a.Diseases(ctx)

	case "home":
		_ = a.Home(ctx)

	case "about":
		_ = a.About(ctx)

	default:
		printlnFn("Unknown command:", cmd)
	}
}
