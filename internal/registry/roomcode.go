package registry

import (
	"context"
	"crypto/rand"
	"math/big"

	mathrand "math/rand"
)

// RoomCodeLength and RoomCodeChars define an ambiguity-free room code
// alphabet: no 0/O or 1/I, so a spoken or handwritten code is never
// misread.
const (
	RoomCodeLength = 4
	RoomCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func generateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range RoomCodeLength {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			code[i] = RoomCodeChars[mathrand.Intn(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

// roomExists is satisfied by anything that can check "is this room code
// already live" — kept as a narrow interface so uniqueRoomCode doesn't
// need the full store.Store contract.
type roomExists interface {
	Exists(ctx context.Context, roomID string) (bool, error)
}

// uniqueRoomCode generates codes via rejection sampling against live
// keys until one is free.
func uniqueRoomCode(ctx context.Context, check roomExists) (string, error) {
	for {
		code := generateRoomCode()
		exists, err := check.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}
