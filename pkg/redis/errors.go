package redis

import "strings"

// IsIndexExists reports whether err is RediSearch refusing to create an index
// that is already defined.
func IsIndexExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "index already exists")
}

// IsUnknownIndex reports whether err is RediSearch rejecting a query on an
// index that was never created.
func IsUnknownIndex(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such index") || strings.Contains(msg, "unknown index name")
}
