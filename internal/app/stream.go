package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transbridge/internal/cli"
	"transbridge/internal/translation"
)

func runStream(args []string) int {
	fs := flag.NewFlagSet("stream", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
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
		fmt.Fprintln(os.Stderr, "stream requires one text argument")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  transbridge stream <text> --from <lang> --to <lang> [--provider mock] [--env .env] [--timeout 5m]")
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

	// Ctrl-C cancels the stream rather than killing the process mid-write.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	stream, err := translator.TranslateStream(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Stream failed: %v\n", err)
		return 1
	}
	defer stream.Close()

	chunks := 0
	for {
		chunk, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "stream provider=%s chunks=%d\n", translator.ProviderName(), chunks)
				return 0
			}
			if translation.IsCancellation(err) {
				fmt.Fprintln(os.Stderr, "Stream cancelled")
				return 1
			}
			fmt.Fprintf(os.Stderr, "Stream failed: %v\n", err)
			return 1
		}

		chunks++
		marker := " "
		if chunk.Final {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, chunk.Text)
	}
}
