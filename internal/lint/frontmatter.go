package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-article/pkg/interfaces"
)

// defaultFrontMatterSchema describes the metadata contract articles carry.
// Unknown keys are allowed; they flow into FrontMatter.Custom.
var defaultFrontMatterSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":   map[string]any{"type": "string", "minLength": 1},
		"slug":    map[string]any{"type": "string", "pattern": "^[a-z0-9]+(?:-[a-z0-9]+)*$"},
		"summary": map[string]any{"type": "string"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "minLength": 1},
		},
		"author": map[string]any{"type": "string"},
		"draft":  map[string]any{"type": "boolean"},
	},
	"additionalProperties": true,
}

type frontMatterSchema struct {
	compiled *jsonschema.Schema
}

func compileFrontMatterSchema(override map[string]any) (*frontMatterSchema, error) {
	schema := override
	if len(schema) == 0 {
		schema = defaultFrontMatterSchema
	}

	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("lint: encode frontmatter schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.json", bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("lint: register frontmatter schema: %w", err)
	}
	compiled, err := compiler.Compile("frontmatter.json")
	if err != nil {
		return nil, fmt.Errorf("lint: compile frontmatter schema: %w", err)
	}
	return &frontMatterSchema{compiled: compiled}, nil
}

func (s *frontMatterSchema) check(raw map[string]any) []interfaces.Issue {
	if s == nil || s.compiled == nil {
		return nil
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// Round-trip through JSON so yaml types (time.Time, map[any]any) become
	// plain JSON values the validator understands.
	payload, err := normalizePayload(raw)
	if err != nil {
		return []interfaces.Issue{{
			Rule:     RuleFrontMatter,
			Severity: interfaces.SeverityError,
			Message:  fmt.Sprintf("frontmatter is not JSON-encodable: %v", err),
		}}
	}

	if err := s.compiled.Validate(payload); err != nil {
		return schemaIssues(err)
	}
	return nil
}

func normalizePayload(raw map[string]any) (any, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func schemaIssues(err error) []interfaces.Issue {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []interfaces.Issue{{
			Rule:     RuleFrontMatter,
			Severity: interfaces.SeverityError,
			Message:  err.Error(),
		}}
	}

	var issues []interfaces.Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			}
			issues = append(issues, interfaces.Issue{
				Rule:     RuleFrontMatter,
				Severity: interfaces.SeverityError,
				Message:  fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}
