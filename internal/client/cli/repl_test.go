package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) SignUp(ctx context.Context) error {
	f.calls = append(f.calls, "signup")
	return nil
}
func (f *fakeExec) SignIn(ctx context.Context) error {
	f.calls = append(f.calls, "signin")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Detect(ctx context.Context, path string) error {
	f.calls = append(f.calls, "detect")
	f.arg = path
	return nil
}
func (f *fakeExec) History(ctx context.Context) error {
	f.calls = append(f.calls, "history")
	return nil
}
func (f *fakeExec) Diseases(ctx context.Context) error {
	f.calls = append(f.calls, "diseases")
	return nil
}
func (f *fakeExec) Home(ctx context.Context) error  { f.calls = append(f.calls, "home"); return nil }
func (f *fakeExec) About(ctx context.Context) error { f.calls = append(f.calls, "about"); return nil }

// captureOutput collects everything the REPL prints.
func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var out strings.Builder
	origPrintln, origPrint := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&out, a...) }
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&out, a...) }
	t.Cleanup(func() {
		printlnFn = origPrintln
		printFn = origPrint
	})
	return &out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"signin",
		"help",
		"detect leaves/my tomato.jpg",
		"history",
		"diseases",
		"",
		"whoami",
		"home",
		"about",
		"foobar",
		"logout",
		"signup",
		"exit",
		"history",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	require.Equal(t, []string{"signin", "detect", "history", "diseases", "whoami", "home", "about", "logout", "signup"}, exec.calls)
	assert.Equal(t, "leaves/my tomato.jpg", exec.arg)

	text := out.String()
	assert.Contains(t, text, helpSignedOut)
	assert.Contains(t, text, helpSignedIn)
	assert.Contains(t, text, "Unknown command: foobar")
	assert.Contains(t, text, "pd status> ")
	assert.True(t, strings.HasSuffix(text, "Bye!\n"))
}

func TestRunREPL_AliasesAndEOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("login\nregister")))

	assert.Equal(t, []string{"signin", "signup"}, exec.calls)
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("home\n")))

	assert.Empty(t, exec.calls)
}
