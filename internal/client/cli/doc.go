// Package cli provides the interactive FreePanel command-line front end.
//
// It stands in for the chat bot: every command is issued as the configured
// platform user, the short notice is printed the way a chat would show it,
// and the private message is printed after it the way a DM would arrive.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
