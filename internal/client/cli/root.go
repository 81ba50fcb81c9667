package cli

import (
	"bufio"
	"context"
	"os"
)

// Root runs the REPL on stdin until the user exits or ctx is done.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to FreePanel CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
