package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	tokenBytes = 32
	saltBytes  = 32
)

// GenerateToken returns a 64-hex-char client secret.
func GenerateToken() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// RandomSessionID returns a uniformly random unsigned 32-bit session id.
// May return 0; callers that reserve 0 must redraw.
func RandomSessionID() (int64, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint32(buf[:])), nil
}

// GenerateCode derives a fresh challenge code from the client id, the current
// time, the username and a 32-byte random salt. The salt is the dominant
// entropy source; the timestamp is auxiliary. The sha256 hex digest is
// remapped to uppercase letters (0-9 to A-J, a-f to A-F) so the code passes
// Scratch's anti-spam filter, which rejects digit sequences.
func GenerateCode(clientID int64, username string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	h := sha256.New()
	fmt.Fprintf(h, "%d%d%s", clientID, time.Now().Unix(), username)
	h.Write(salt)
	digest := hex.EncodeToString(h.Sum(nil))

	code := make([]byte, len(digest))
	for i := 0; i < len(digest); i++ {
		c := digest[i]
		if c >= '0' && c <= '9' {
			code[i] = 'A' + (c - '0')
		} else {
			code[i] = 'A' + (c - 'a')
		}
	}
	return string(code), nil
}
