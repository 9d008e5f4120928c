// Package schemas holds the embedded JSON Schemas for the YAML files gauge
// consumes.
package schemas

import _ "embed"

// EvalSchemaJSON is the JSON Schema for eval.yaml files.
//
//go:embed eval.schema.json
var EvalSchemaJSON string
