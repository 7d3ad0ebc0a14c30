package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"transbridge/internal/auth"
)

func runHashToken(args []string) int {
	fs := flag.NewFlagSet("hash-token", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "hash-token requires one token argument")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  transbridge hash-token <token>")
		return 2
	}

	hash, err := auth.HashToken(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash token: %v\n", err)
		return 1
	}

	fmt.Println(hash)
	return 0
}
