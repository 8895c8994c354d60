package domain

import (
	"fmt"
	"strings"
)

const (
	// KeySeparator joins display name and subject inside a storage key.
	// ValidateDisplayName rejects it, subjects come from a fixed list.
	KeySeparator = "*"
	// KeyExtension is appended to every storage key.
	KeyExtension = ".pdf"
)

// EncodeKey builds the storage key for a note. No escaping is done: the
// display name must not contain KeySeparator.
func EncodeKey(displayName, subject string) string {
	return displayName + KeySeparator + subject + KeyExtension
}

// DecodeKey splits a storage key on the first separator and strips the
// extension from the subject part.
func DecodeKey(key string) (displayName, subject string, err error) {
	name, rest, ok := strings.Cut(key, KeySeparator)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrKeyFormat, key)
	}
	return name, strings.TrimSuffix(rest, KeyExtension), nil
}

// DisplayLabel decodes a key for presentation. Keys that cannot be decoded
// are shown verbatim with no subject.
func DisplayLabel(key string) (displayName, subject string) {
	name, subj, err := DecodeKey(key)
	if err != nil {
		return key, ""
	}
	return name, subj
}
