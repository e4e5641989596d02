package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonSaltBytes = 16
	argonKeyBytes  = 32
	argonPrefix    = "$argon2id$"
)

var errArgonFormat = errors.New("password: not an argon2id encoding")

// Argon2id hashes with argon2id. Zero fields take the defaults from
// Config.ApplyDefaults.
type Argon2id struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

func (a Argon2id) withDefaults() Argon2id {
	if a.Time == 0 {
		a.Time = defaultArgonTime
	}
	if a.MemoryKiB == 0 {
		a.MemoryKiB = defaultArgonMemoryKiB
	}
	if a.Threads == 0 {
		a.Threads = defaultArgonThreads
	}
	return a
}

// Hash encodes plain as $argon2id$v=19$m=M,t=T,p=P$salt$key.
func (a Argon2id) Hash(plain string) (string, error) {
	a = a.withDefaults()
	salt := make([]byte, argonSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, a.Time, a.MemoryKiB, a.Threads, argonKeyBytes)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s", argonPrefix, argon2.Version,
		a.MemoryKiB, a.Time, a.Threads, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify recomputes the key with the parameters stored in encoded, so
// hashes made under older settings keep verifying.
func (Argon2id) Verify(plain, encoded string) error {
	params, salt, want, err := decodeArgon(encoded)
	if err != nil {
		return err
	}
	got := argon2.IDKey([]byte(plain), salt, params.Time, params.MemoryKiB, params.Threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

func decodeArgon(encoded string) (p Argon2id, salt, key []byte, err error) {
	rest, ok := strings.CutPrefix(encoded, argonPrefix)
	if !ok {
		return p, nil, nil, errArgonFormat
	}
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return p, nil, nil, errArgonFormat
	}

	var v int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &v); err != nil || v != argon2.Version {
		return p, nil, nil, fmt.Errorf("password: argon2id version %q not supported", fields[0])
	}
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("password: argon2id params: %w", err)
	}
	if salt, err = base64.RawStdEncoding.DecodeString(fields[2]); err != nil {
		return p, nil, nil, fmt.Errorf("password: argon2id salt: %w", err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(fields[3]); err != nil {
		return p, nil, nil, fmt.Errorf("password: argon2id key: %w", err)
	}
	return p, salt, key, nil
}
