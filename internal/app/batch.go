package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"transbridge/internal/cli"
	"transbridge/internal/jobfile"
	"transbridge/internal/translation"
)

type batchResult struct {
	ID             string `json:"id"`
	TranslatedText string `json:"translated_text,omitempty"`
	Error          string `json:"error,omitempty"`
}

func runBatch(args []string) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Command timeout")
	provider := fs.String("provider", "", "Override the job file's provider")
	keepGoing := fs.Bool("keep-going", false, "Continue after per-item failures")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "batch requires one job file argument")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  transbridge batch <job.json> [--provider mock] [--keep-going] [--env .env] [--timeout 10m]")
		return 2
	}

	payload, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read job file: %v\n", err)
		return 1
	}

	job, err := jobfile.ValidateJob(json.RawMessage(payload))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid job file: %v\n", err)
		return 2
	}

	providerName := *provider
	if providerName == "" {
		providerName = job.Provider
	}

	translator, _, _, err := buildTranslator(envLoader, providerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer translator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	encoder := json.NewEncoder(os.Stdout)
	translated := 0
	failed := 0
	for _, item := range job.Items {
		req, reqErr := translation.NewRequest(item.Text, item.SourceLang, job.TargetLang)
		if reqErr != nil {
			failed++
			_ = encoder.Encode(batchResult{ID: item.ID, Error: reqErr.Error()})
			if !*keepGoing {
				return 1
			}
			continue
		}

		resp, transErr := translator.Translate(ctx, req)
		if transErr != nil {
			failed++
			_ = encoder.Encode(batchResult{ID: item.ID, Error: transErr.Error()})
			if translation.IsCancellation(transErr) || !*keepGoing {
				return 1
			}
			continue
		}

		translated++
		_ = encoder.Encode(batchResult{ID: item.ID, TranslatedText: resp.Text})
	}

	fmt.Fprintf(
		os.Stderr,
		"batch provider=%s lang=%s total=%d translated=%d failed=%d\n",
		translator.ProviderName(),
		job.TargetLang,
		len(job.Items),
		translated,
		failed,
	)
	if failed > 0 {
		return 1
	}
	return 0
}
