package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isInstructor() bool
	afterCommand(ctx context.Context)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Categories(ctx context.Context) error
	Courses(ctx context.Context, args []string) error
	Course(ctx context.Context, args []string) error
	Enroll(ctx context.Context, args []string) error
	MyCourses(ctx context.Context) error
	Progress(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	Reviews(ctx context.Context, args []string) error
	Review(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error

	NewCourse(ctx context.Context) error
	NewSession(ctx context.Context, args []string) error
	Publish(ctx context.Context, args []string) error
	DeleteCourse(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error

	Metrics(ctx context.Context) error
}

const (
	helpAnonymous  = "Available commands: register, login, exit"
	helpStudent    = "Available commands: courses, course, categories, enroll, mine, progress, complete, reviews, review, comment, whoami, metrics, logout, exit"
	helpInstructor = "Available commands: courses, course, categories, newcourse, addsession, publish, rmcourse, stats, reviews, comment, whoami, metrics, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the LearnSphere CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that prompt read from the same
// reader. Unknown commands are reported back to the user. The loop exits on
// EOF, on ctx cancellation, or when the user types "exit" or "quit".
//
// Command errors are printed and the loop continues. After every command the
// REPL gives 'a' the chance to react to a session the server ended meanwhile.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ls (%s) > ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn(helpAnonymous)
			case a.isInstructor():
				printlnFn(helpInstructor)
			default:
				printlnFn(helpStudent)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)

		case "categories":
			err = a.Categories(ctx)
		case "l", "courses":
			err = a.Courses(ctx, args)
		case "course":
			err = a.Course(ctx, args)
		case "enroll":
			err = a.Enroll(ctx, args)
		case "mine":
			err = a.MyCourses(ctx)
		case "progress":
			err = a.Progress(ctx, args)
		case "complete":
			err = a.Complete(ctx, args)
		case "reviews":
			err = a.Reviews(ctx, args)
		case "review":
			err = a.Review(ctx, args)
		case "comment":
			err = a.Comment(ctx, args)

		case "newcourse":
			err = a.NewCourse(ctx)
		case "addsession":
			err = a.NewSession(ctx, args)
		case "publish":
			err = a.Publish(ctx, args)
		case "rmcourse":
			err = a.DeleteCourse(ctx, args)
		case "stats":
			err = a.Stats(ctx, args)

		case "metrics":
			err = a.Metrics(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err != nil {
			printlnFn("Error:", describe(err))
		}
		a.afterCommand(ctx)
	}
}
