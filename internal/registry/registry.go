// Package registry loads the app registry file that maps app names to kintone
// app ids, guest spaces and API tokens.
//
// The file is YAML (JSON is accepted too):
//
//	apps:
//	  customers:
//	    appId: 12
//	    displayName: Customers
//	    apiToken: xxxxxxxx
//	  partners:
//	    appId: 7
//	    guestId: 3
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/usestring/kintone-mcp/pkg/client"
)

// ErrNoApps is returned for a registry file without any app.
var ErrNoApps = errors.New("registry defines no apps")

// File is the on-disk shape of the registry.
type File struct {
	Apps map[string]client.AppConfig `json:"apps" yaml:"apps" jsonschema:"description=App name to kintone app configuration"`
}

// Load reads and validates the registry file at path.
func Load(path string) (client.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return reg, nil
}

// Parse validates a registry document against the schema, decodes it and
// checks every app.
func Parse(data []byte) (client.Registry, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding registry: %w", err)
	}
	if len(f.Apps) == 0 {
		return nil, ErrNoApps
	}
	if err := Validate(f.Apps); err != nil {
		return nil, err
	}
	return client.Registry(f.Apps), nil
}

// Validate checks the semantic rules the schema cannot express: a positive
// app id, a positive guest id when one is set, and non-empty names.
func Validate(apps map[string]client.AppConfig) error {
	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	slices.Sort(names)

	var result *multierror.Error
	for _, name := range names {
		if err := validateApp(name, apps[name]); err != nil {
			result = multierror.Append(result, fmt.Errorf("app %q: %w", name, err))
		}
	}
	return result.ErrorOrNil()
}

func validateApp(name string, app client.AppConfig) error {
	if err := validation.Validate(name, validation.Required); err != nil {
		return fmt.Errorf("name %w", err)
	}
	return validation.ValidateStruct(&app,
		validation.Field(&app.AppID, validation.Required, validation.Min(int64(1))),
		validation.Field(&app.GuestID, validation.NilOrNotEmpty, validation.Min(int64(1))),
	)
}

// Marshal renders a registry in the file format, omitting API tokens when
// redact is set.
func Marshal(apps client.Registry, redact bool) ([]byte, error) {
	out := File{Apps: make(map[string]client.AppConfig, len(apps))}
	for name, app := range apps {
		if redact && app.APIToken != "" {
			app.APIToken = "[REDACTED]"
		}
		out.Apps[name] = app
	}
	return json.MarshalIndent(out, "", "  ")
}
