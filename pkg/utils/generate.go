package utils

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ==================== IDENTIFIERS ====================

// GenerateObjectID returns a new 24-character hex identifier. Every backend
// uses this format so ids stay interchangeable between stores.
func GenerateObjectID() string {
	return bson.NewObjectID().Hex()
}

// GenerateRequestID returns the id attached to each HTTP request.
func GenerateRequestID() string {
	return uuid.New().String()
}
