// Package cli is the interactive terminal surface of the marketplace.
//
// It runs a read-eval-print loop over an app.Controller: every command is
// translated into a controller call, after which the pending notices are
// printed. Passwords are read without echo and destructive commands ask for
// a y/N confirmation.
//
// The REPL is started via App.Run(ctx, adminFragment), which blocks until
// the user exits or ctx is cancelled.
package cli
