package password

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomHex returns n bytes from crypto/rand, hex encoded.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("password: random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
