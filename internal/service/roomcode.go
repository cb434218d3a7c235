package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// roomCodeAlphabet is uppercase-plus-digits so codes survive being read
// aloud or typed from a phone screen.
const roomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultRoomCodeLength is used when the configured length is zero.
const DefaultRoomCodeLength = 6

// RoomCodeGenerator produces random party codes. Codes double as the shared
// secret that admits people to a room, so the source must be unpredictable;
// crypto/rand, not math/rand. Uniqueness is not guaranteed here: the party
// registry's CreateIfAbsent is the arbiter, and callers retry on collision.
type RoomCodeGenerator struct {
	length int
}

func NewRoomCodeGenerator(length int) *RoomCodeGenerator {
	if length <= 0 {
		length = DefaultRoomCodeLength
	}
	return &RoomCodeGenerator{length: length}
}

// Generate returns a fresh random code. Each position is drawn with
// rand.Int so every alphabet symbol is equally likely.
func (g *RoomCodeGenerator) Generate() (string, error) {
	alphabetSize := big.NewInt(int64(len(roomCodeAlphabet)))
	b := make([]byte, g.length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate random index for room code: %w", err)
		}
		b[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
