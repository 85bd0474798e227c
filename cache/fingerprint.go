package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrFingerprint is returned by Get when a key cannot be encoded.
var ErrFingerprint = errors.New("cache: unable to fingerprint key")

// Fingerprinter is implemented by keys that know their own canonical encoding.
//
// Two keys that should share a cache entry must return the same string.
type Fingerprinter interface {
	Fingerprint() (string, error)
}

// FingerprintFunc turns a key into the string the store is indexed by.
type FingerprintFunc[K any] func(key K) (string, error)

// DefaultFingerprint uses the key's own Fingerprint method when it has one and
// falls back to CanonicalJSON otherwise.
func DefaultFingerprint[K any](key K) (string, error) {
	if f, ok := any(key).(Fingerprinter); ok {
		return f.Fingerprint()
	}
	return CanonicalJSON(key)
}

// CanonicalJSON encodes v as JSON with every object's members sorted by name.
//
// Struct field order therefore does not matter: a struct and a map holding the
// same members produce the same output. Slice element order is preserved.
func CanonicalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var generic any
	if err := decoder.Decode(&generic); err != nil {
		return "", fmt.Errorf("failed to normalize key: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to normalize key: %w", err)
	}
	return string(canonical), nil
}
