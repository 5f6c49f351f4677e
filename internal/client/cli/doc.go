// Package cli provides the interactive LearnSphere command-line client.
//
// It wires configuration, the local session database, the session manager
// and the typed API into a REPL. Typical flow: restore and validate the saved
// session, then execute user commands; when the server ends the session the
// user is sent back to the login prompt.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - Browse the catalogue: courses, course, categories
//   - Learn: enroll, mine, progress, complete, reviews, review, comment
//   - Teach: newcourse, addsession, publish, rmcourse, stats
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
