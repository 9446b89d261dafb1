package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/kintone-mcp/pkg/client"
)

const validYAML = `
apps:
  customers:
    appId: 12
    displayName: Customers
    apiToken: secret-token
  partners:
    appId: 7
    guestId: 3
`

func TestParse_Valid(t *testing.T) {
	reg, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	require.Len(t, reg, 2)

	assert.Equal(t, client.AppConfig{AppID: 12, DisplayName: "Customers", APIToken: "secret-token"}, reg["customers"])
	require.NotNil(t, reg["partners"].GuestID)
	assert.Equal(t, int64(3), *reg["partners"].GuestID)
}

func TestParse_JSON(t *testing.T) {
	reg, err := Parse([]byte(`{"apps":{"orders":{"appId":4,"apiToken":"t"}}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(4), reg["orders"].AppID)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing app id", "apps:\n  a:\n    displayName: x\n", "/apps/a"},
		{"unknown key", "apps:\n  a:\n    appId: 1\n    token: x\n", "/apps/a"},
		{"wrong type", "apps:\n  a:\n    appId: twelve\n", "/apps/a/appId"},
		{"missing apps", "other: 1\n", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.NotEmpty(t, se.Problems)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_SemanticViolations(t *testing.T) {
	doc := `
apps:
  zero:
    appId: 0
  negative:
    appId: -4
  guest:
    appId: 2
    guestId: 0
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `app "zero"`)
	assert.Contains(t, msg, `app "negative"`)
	assert.Contains(t, msg, `app "guest"`)
	assert.Contains(t, msg, "guestId")
}

func TestParse_NoApps(t *testing.T) {
	_, err := Parse([]byte("apps: {}\n"))
	assert.ErrorIs(t, err, ErrNoApps)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("apps: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, reg, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_EmptyName(t *testing.T) {
	err := Validate(map[string]client.AppConfig{"": {AppID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestSchema(t *testing.T) {
	raw, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "kintone app registry", doc["title"])
	assert.Contains(t, string(raw), "appId")
}

func TestMarshal_Redacts(t *testing.T) {
	reg := client.Registry{"a": {AppID: 1, APIToken: "secret"}}

	raw, err := Marshal(reg, true)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), "[REDACTED]")

	raw, err = Marshal(reg, false)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "secret")
}
