package pkg

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const gameIDBytes = 8

// GenerateGameID - random hex identifier for a game session.
func GenerateGameID() (string, error) {
	buf := make([]byte, gameIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
