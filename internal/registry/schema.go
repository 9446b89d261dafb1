package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaURL = "registry.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// Schema returns the JSON Schema of the registry file.
func Schema() ([]byte, error) {
	r := &invopop.Reflector{Anonymous: true}
	s := r.Reflect(&File{})
	s.Title = "kintone app registry"
	return json.MarshalIndent(s, "", "  ")
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		raw, err := Schema()
		if err != nil {
			compileErr = fmt.Errorf("generating schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			compileErr = fmt.Errorf("reading schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks a decoded YAML document against the schema.
// The document is normalized through JSON first so numbers arrive in the
// form the validator expects.
func validateDocument(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalizing registry: %w", err)
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("normalizing registry: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &SchemaError{Problems: collect(ve)}
		}
		return err
	}
	return nil
}

// SchemaError lists every schema violation in a registry document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "registry does not match schema: " + strings.Join(e.Problems, "; ")
}

// collect flattens leaf validation errors into "path: message" lines.
func collect(err *jsonschema.ValidationError) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if e.ErrorKind != nil && len(e.Causes) == 0 {
			msg := e.ErrorKind.LocalizedString(printer)
			if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
				line := "/" + strings.Join(e.InstanceLocation, "/") + ": " + msg
				if !seen[line] {
					seen[line] = true
					out = append(out, line)
				}
			}
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(err)
	slices.Sort(out)
	return out
}
