package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Health(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF or when the user types "exit" or "quit". Command errors
// are printed and the loop continues.
//
//	Not logged in:
//	  help, register, login, health, exit | quit
//
//	Logged in:
//	  help, (l)ist [page], add, show <id>, edit <id>, delete <id>,
//	  health, logout, exit | quit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tk %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist [page], add, show <id>, edit <id>, delete <id>, health, logout, exit")
			} else {
				printlnFn("Available commands: register, login, health, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "health":
			cmdErr = a.Health(ctx)

		case "l", "list":
			cmdErr = a.List(ctx, args)

		case "add":
			cmdErr = a.Add(ctx)

		case "show":
			cmdErr = a.Show(ctx, args)

		case "edit":
			cmdErr = a.Edit(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
