package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errUnknownCommand = errors.New("unknown command")

// execIface is the command surface the REPL drives. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	status() string
	help() string
	execute(ctx context.Context, cmd string, args []string) error
}

// runREPL reads commands line by line from reader and dispatches them.
// It returns on EOF, on "exit"/"quit", or when ctx is done. Command
// handlers print their own notifications; only unknown commands are
// reported here.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "portal %s> ", a.status())

		line, err := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				fmt.Fprintln(w)
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(w, a.help())

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			if xerr := a.execute(ctx, cmd, args); errors.Is(xerr, errUnknownCommand) {
				fmt.Fprintln(w, "Unknown command:", cmd)
			}
		}

		if err != nil {
			return
		}
	}
}
