package chat

import "strings"

// MasterCredential selects the server-side default credential.
const MasterCredential = "master"

// CredentialSource supplies the server-side default credential.
// An empty string means no default is configured.
type CredentialSource interface {
	DefaultCredential() string
}

// StaticCredential is a fixed default credential.
type StaticCredential string

func (s StaticCredential) DefaultCredential() string {
	return string(s)
}

// NormalizeCredential returns the credential a turn should use. The input is
// trimmed; the sentinel "master" (any case) is swapped for the default from
// defaults, which is read on every call.
func NormalizeCredential(raw string, defaults CredentialSource) string {
	key := strings.TrimSpace(raw)
	if !strings.EqualFold(key, MasterCredential) {
		return key
	}
	if defaults == nil {
		return ""
	}
	return strings.TrimSpace(defaults.DefaultCredential())
}
