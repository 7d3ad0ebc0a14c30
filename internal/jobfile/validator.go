package jobfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"transbridge/internal/language"
)

//go:embed job.schema.json
var jobSchemaJSON string

// Job is a validated translation batch job file.
type Job struct {
	Version    string    `json:"version"`
	TargetLang string    `json:"target_lang"`
	Provider   string    `json:"provider,omitempty"`
	Items      []JobItem `json:"items"`
}

type JobItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateJob checks a raw job payload against the embedded schema plus the
// semantic rules the schema cannot express, and returns the decoded job with
// normalized language tags.
func ValidateJob(payload json.RawMessage) (*Job, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode job JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize job JSON: %w", err)
	}

	var job Job
	if err := json.Unmarshal(normalized, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}

	if err := validateSemantics(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

func validateSemantics(job *Job) error {
	target := language.NormalizeTag(job.TargetLang)
	if target == "" {
		return fmt.Errorf("target_lang %q is not a valid language tag", job.TargetLang)
	}
	job.TargetLang = target

	seen := make(map[string]struct{}, len(job.Items))
	for i := range job.Items {
		item := &job.Items[i]
		if strings.TrimSpace(item.Text) == "" {
			return fmt.Errorf("item %q: text must not be blank", item.ID)
		}
		source := language.NormalizeTag(item.SourceLang)
		if source == "" {
			return fmt.Errorf("item %q: source_lang %q is not a valid language tag", item.ID, item.SourceLang)
		}
		item.SourceLang = source

		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate item id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("job.schema.json", strings.NewReader(jobSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("job.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(payload json.RawMessage) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return value, nil
}
