package domain

import (
	"fmt"
	"strings"
)

// SentinelToken stands in for the token when a successful login response omits one.
const SentinelToken = "mock-token"

const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
	StorageKeyRoute = "route"
)

// Profile is the server's user record as returned by login and user endpoints.
type Profile map[string]any

type Session struct {
	Token   string
	Profile Profile
}

func (s Session) IsLoggedIn() bool {
	return s.Token != ""
}

// Identity returns the profile's userId, falling back to id. Empty means absent.
func (p Profile) Identity() string {
	for _, key := range []string{"userId", "id"} {
		if v, ok := p[key]; ok && v != nil {
			if id := strings.TrimSpace(stringify(v)); id != "" {
				return id
			}
		}
	}
	return ""
}

// SameIdentity compares the string forms of Identity, so a numeric 5 matches "5"
// and an id field stands in for a missing userId. Absent ids never match.
func (p Profile) SameIdentity(other Profile) bool {
	id := p.Identity()
	return id != "" && id == other.Identity()
}

func (p Profile) Username() string {
	return p.String("username")
}

func (p Profile) Role() string {
	return p.String("role")
}

func (p Profile) Token() string {
	return p.String("token")
}

// String returns the field as a string; non-string scalars are formatted.
func (p Profile) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

func (p Profile) Clone() Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// secretProfileKeys never leave the process through display or export.
var secretProfileKeys = []string{"token", "password", "passwordHash"}

// Redacted returns a copy without the token and password fields.
func (p Profile) Redacted() Profile {
	out := p.Clone()
	for _, key := range secretProfileKeys {
		delete(out, key)
	}
	return out
}

// Merge returns a copy of p with every field of partial applied on top.
func (p Profile) Merge(partial Profile) Profile {
	out := p.Clone()
	for k, v := range partial {
		out[k] = v
	}
	return out
}

func stringify(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprintf("%g", typed)
	default:
		return fmt.Sprint(typed)
	}
}
