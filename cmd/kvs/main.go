package main

import (
	"fmt"
	"io"
	"os"

	"github.com/0xRadioAc7iv/go-kvs/internal/utils"
	"github.com/0xRadioAc7iv/go-kvs/kvs"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

const keyNotFoundMessage = "Key not found"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
//
// A successful set or rm prints nothing. get on a missing key prints "Key
// not found" and still exits 0, while rm on a missing key prints the same
// message and exits 1.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, kvs.ErrKeyNotFound):
		fmt.Fprintln(stdout, keyNotFoundMessage)
		return 1
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	flags := &utils.StoreFlags{}

	root := &cobra.Command{
		Use:           "kvs",
		Short:         "A persistent key-value store backed by an append-only log",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Register(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Set the value of a key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, flags, func(s *kvs.Store) error {
					return s.Set(args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print the value of a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, flags, func(s *kvs.Store) error {
					value, ok, err := s.Get(args[0])
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), keyNotFoundMessage)
						return nil
					}
					fmt.Fprintln(cmd.OutOrStdout(), value)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "rm KEY",
			Aliases: []string{"remove"},
			Short:   "Remove a key",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, flags, func(s *kvs.Store) error {
					_, err := s.Remove(args[0])
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "shell",
			Short: "Run commands interactively against one open store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, flags, func(s *kvs.Store) error {
					return runShell(s, stdin, cmd.OutOrStdout())
				})
			},
		},
	)

	return root
}

func withStore(cmd *cobra.Command, flags *utils.StoreFlags, fn func(*kvs.Store) error) error {
	if err := flags.Validate(); err != nil {
		return err
	}

	logger := flags.Logger(cmd.ErrOrStderr())
	defer func() {
		_ = logger.Sync()
	}()

	return kvs.WithStore(flags.Dir, fn,
		kvs.WithLogFileName(flags.LogFileName),
		kvs.WithLogger(logger),
	)
}
