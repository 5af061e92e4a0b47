package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds schemas by name. Schema names are unique per purpose,
// so a name always maps to the same definition.
var compiled = struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}{byName: map[string]*jsonschema.Schema{}}

// checkContent rejects truncated output, then validates content against
// schema when one was requested.
func checkContent(schema *Schema, content json.RawMessage, stopReason string) error {
	if stopReason == StopMaxTokens {
		return &ErrMaxTokensExceeded{Content: content}
	}
	return validateResponse(schema, content)
}

// validateResponse returns *ErrInvalidResponse when raw is not JSON or
// does not satisfy schema. A nil schema accepts anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("not JSON: %w", err)
	}
	sch, err := compileSchema(schema)
	if err != nil {
		return invalid("schema %s: %w", schema.Name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid("does not match %s: %w", schema.Name, err)
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	compiled.Lock()
	defer compiled.Unlock()
	if sch, ok := compiled.byName[schema.Name]; ok {
		return sch, nil
	}

	// Round-trip the Go literal so numbers decode the way the compiler expects.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, err
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.byName[schema.Name] = sch
	return sch, nil
}
