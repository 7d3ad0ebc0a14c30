package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"transbridge/internal/cli"
	"transbridge/internal/translation"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	source := fs.String("from", "", "Source language (ISO 639-1, for example: en)")
	target := fs.String("to", "", "Target language (ISO 639-1, for example: uk)")
	provider := fs.String("provider", "", "Translation provider name (for example: mock, remote)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "translate requires one text argument")
		printTranslateUsage()
		return 2
	}

	req, err := translation.NewRequest(fs.Arg(0), *source, *target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid request: %v\n", err)
		return 2
	}

	translator, _, _, err := buildTranslator(envLoader, *provider)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer translator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	started := time.Now()
	resp, err := translator.Translate(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translate failed: %v\n", err)
		return 1
	}

	fmt.Println(resp.Text)
	fmt.Fprintf(
		os.Stderr,
		"translate provider=%s from=%s to=%s duration_ms=%d\n",
		translator.ProviderName(),
		strings.ToLower(strings.TrimSpace(*source)),
		strings.ToLower(strings.TrimSpace(*target)),
		time.Since(started).Milliseconds(),
	)
	return 0
}

func printTranslateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  transbridge translate <text> --from <lang> --to <lang> [--provider mock] [--env .env] [--timeout 2m]")
}
