package pkg

import "github.com/google/uuid"

// GenerateNewSessionID - generates a new unique player ID.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateGameID - generates a new unique game ID.
func GenerateGameID() string {
	return uuid.NewString()
}
