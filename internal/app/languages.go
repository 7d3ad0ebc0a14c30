package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"transbridge/internal/cli"
	"transbridge/internal/translation"
)

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	registry, _, err := buildRegistry(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	for _, option := range translation.LanguageOptions(registry) {
		if option.Native != "" && option.Native != option.Label {
			fmt.Printf("%s\t%s (%s)\n", option.Code, option.Label, option.Native)
			continue
		}
		fmt.Printf("%s\t%s\n", option.Code, option.Label)
	}
	return 0
}
