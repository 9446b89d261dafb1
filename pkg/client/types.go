package client

import (
	"encoding/base64"
	"maps"
)

// AppConfig holds the connection parameters of one kintone app.
type AppConfig struct {
	AppID       int64  `json:"appId" yaml:"appId"`
	GuestID     *int64 `json:"guestId,omitempty" yaml:"guestId,omitempty"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	APIToken    string `json:"apiToken,omitempty" yaml:"apiToken,omitempty"`
}

// HasToken reports whether the app carries its own API token.
func (a AppConfig) HasToken() bool { return a.APIToken != "" }

// Registry maps caller-defined app names to their configuration.
type Registry map[string]AppConfig

// Names returns the registered app names in no particular order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}

// Record is a kintone record: field code to field value or update instruction.
// The client never looks inside it.
type Record map[string]any

// credentialKind tags the Credential variant.
type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialEncoded
	credentialUserPassword
)

// Credential is the client-level credential. The zero value is "none", which
// defers authentication to per-app API tokens.
type Credential struct {
	kind     credentialKind
	encoded  string
	username string
}

// NoCredential returns the empty credential.
func NoCredential() Credential { return Credential{} }

// EncodedCredential wraps an already base64-encoded "user:password" value.
func EncodedCredential(encoded string) Credential {
	if encoded == "" {
		return Credential{}
	}
	return Credential{kind: credentialEncoded, encoded: encoded}
}

// UserPasswordCredential encodes username and password once.
func UserPasswordCredential(username, password string) Credential {
	return Credential{
		kind:     credentialUserPassword,
		encoded:  EncodeBasic(username, password),
		username: username,
	}
}

// EncodeBasic returns base64("username:password").
func EncodeBasic(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// IsSet reports whether the credential carries a value.
func (c Credential) IsSet() bool { return c.kind != credentialNone }

// Value returns the encoded value sent in X-Cybozu-Authorization.
func (c Credential) Value() string { return c.encoded }

// String never reveals the encoded value.
func (c Credential) String() string {
	switch c.kind {
	case credentialEncoded:
		return "encoded"
	case credentialUserPassword:
		return "password(" + c.username + ")"
	default:
		return "none"
	}
}

// Int64 returns a pointer to v, handy for AppConfig.GuestID literals.
func Int64(v int64) *int64 { return &v }

func cloneRegistry(r Registry) Registry {
	out := make(Registry, len(r))
	maps.Copy(out, r)
	for name, app := range out {
		if app.GuestID != nil {
			app.GuestID = Int64(*app.GuestID)
			out[name] = app
		}
	}
	return out
}
