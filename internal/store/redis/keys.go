package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixDocument is the prefix for favorites document keys
	KeyPrefixDocument = "favorites:document:"
	// DefaultNamespace is used when no namespace is configured
	DefaultNamespace = "default"
)

// DocumentKey returns the key holding the document of a namespace
func DocumentKey(namespace string) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return KeyPrefixDocument + namespace
}

// ExtractNamespace extracts the namespace from a document key
func ExtractNamespace(key string) (string, error) {
	if !strings.HasPrefix(key, KeyPrefixDocument) || len(key) == len(KeyPrefixDocument) {
		return "", fmt.Errorf("invalid document key: %s", key)
	}
	return key[len(KeyPrefixDocument):], nil
}
