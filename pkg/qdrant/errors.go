package qdrant

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsAlreadyExists reports whether err is Qdrant refusing to create something
// that is already there. Older servers answer with a generic status and an
// "already exists" message, so both forms are accepted.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	var target interface{ GRPCStatus() *status.Status }
	if errors.As(err, &target) && target.GRPCStatus().Code() == codes.AlreadyExists {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// IsNotFound reports whether err means the collection does not exist: a
// NotFound status, or Qdrant's "Collection `x` doesn't exist" message under
// another status.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var target interface{ GRPCStatus() *status.Status }
	if errors.As(err, &target) && target.GRPCStatus().Code() == codes.NotFound {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "collection") && strings.Contains(msg, "doesn't exist")
}
