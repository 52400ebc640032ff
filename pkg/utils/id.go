package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a 32-char hex identifier for documents.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
