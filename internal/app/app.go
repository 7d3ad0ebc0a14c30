package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "translate":
		return runTranslate(args[1:])
	case "stream":
		return runStream(args[1:])
	case "batch":
		return runBatch(args[1:])
	case "languages":
		return runLanguages(args[1:])
	case "serve":
		return runServe(args[1:])
	case "hash-token":
		return runHashToken(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "transbridge CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  transbridge <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  translate   Translate one text argument")
	fmt.Fprintln(os.Stderr, "  stream      Translate incrementally, printing chunks as they arrive")
	fmt.Fprintln(os.Stderr, "  batch       Translate items from a JSON job file")
	fmt.Fprintln(os.Stderr, "  languages   List supported language options")
	fmt.Fprintln(os.Stderr, "  serve       Start the HTTP API server")
	fmt.Fprintln(os.Stderr, "  hash-token  Print the bcrypt hash of an API token")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"transbridge <command> -h\" for command-specific flags.")
}
