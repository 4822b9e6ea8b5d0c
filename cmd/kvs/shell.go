package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/0xRadioAc7iv/go-kvs/internal/utils"
	"github.com/0xRadioAc7iv/go-kvs/kvs"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
)

const shellHelp = `
Available Commands:

SET <key> <value>
  Store a value for the given key.
  Overwrites the value if the key already exists.
  Response: ok

GET <key>
  Retrieve the value associated with the key.
  Response: value | Key not found

RM <key>
  Remove the key and print the value it held.
  Response: value | Key not found

EXISTS <key>
  Check whether the key holds a value.
  Response: true | false

KEYS
  List all stored keys in order.
  Response: list of keys | nil

COUNT
  Return the total number of keys stored.
  Response: integer

STATS
  Show the number of keys and the size of the log file.

HELP
  Show this help message.

EXIT
  Leave the shell.

Quote keys or values that contain spaces: set city "new york"
`

// runShell reads commands from in until "exit" or end of input and runs
// them against s, writing one response per command to out.
func runShell(s *kvs.Store, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "Opened %s\n", s.LogPath())
	fmt.Fprintln(out, "Type commands. 'help' for information or 'exit' to quit.")

	for {
		fmt.Fprint(out, "> ")

		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}

		line = strings.TrimSpace(line)

		if line == "exit" {
			return nil
		}

		if line != "" {
			cmd, args, err := utils.SplitStringIntoCommandAndArguments(line)
			if err != nil {
				fmt.Fprintln(out, "parse error:", err)
			} else {
				fmt.Fprintln(out, execShellCommand(s, cmd, args))
			}
		}

		if readErr != nil {
			fmt.Fprintln(out)
			return nil
		}
	}
}

func execShellCommand(s *kvs.Store, cmd string, args []string) string {
	switch cmd {
	case "set":
		if len(args) != 2 {
			return "usage: set <key> <value>"
		}
		if err := s.Set(args[0], args[1]); err != nil {
			return "error: " + err.Error()
		}
		return "ok"
	case "get":
		if len(args) != 1 {
			return "usage: get <key>"
		}
		value, ok, err := s.Get(args[0])
		if err != nil {
			return "error: " + err.Error()
		}
		if !ok {
			return keyNotFoundMessage
		}
		return value
	case "rm", "remove":
		if len(args) != 1 {
			return "usage: rm <key>"
		}
		value, err := s.Remove(args[0])
		if errors.Is(err, kvs.ErrKeyNotFound) {
			return keyNotFoundMessage
		}
		if err != nil {
			return "error: " + err.Error()
		}
		return value
	case "exists":
		if len(args) != 1 {
			return "usage: exists <key>"
		}
		return strconv.FormatBool(s.Contains(args[0]))
	case "keys":
		keys := s.Keys()
		if len(keys) == 0 {
			return "nil"
		}
		return strings.Join(keys, "\n")
	case "count":
		return strconv.Itoa(s.Len())
	case "stats":
		return fmt.Sprintf("keys: %d\nlog: %s (%s)",
			s.Len(), humanize.Bytes(uint64(s.LogSize())), s.LogPath())
	case "help":
		return strings.TrimSpace(shellHelp)
	default:
		return "Invalid Command"
	}
}
