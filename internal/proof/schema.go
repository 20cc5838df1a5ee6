package proof

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "proof.schema.json"

//go:embed proof.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadProofSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaResource, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to load proof schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaResource)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to compile proof schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateStrict runs Validate and, when the structure is sound, checks field
// types against the embedded JSON schema. Schema violations are reported as
// "schema: <location>: <message>".
func ValidateStrict(v any) []string {
	errs := Validate(v)
	if len(errs) > 0 {
		return errs
	}

	schema, err := loadProofSchema()
	if err != nil {
		return append(errs, err.Error())
	}

	// Round-trip through JSON so the validator only ever sees decoded values.
	var normalized any
	raw, err := json.Marshal(genericOf(v))
	if err != nil {
		return append(errs, fmt.Sprintf("failed to marshal proof for schema validation: %v", err))
	}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return append(errs, fmt.Sprintf("failed to normalize proof for schema validation: %v", err))
	}

	if err := schema.Validate(normalized); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return append(errs, err.Error())
		}
		collectSchemaErrors(ve, &errs)
	}
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("schema: %s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, out)
	}
}
