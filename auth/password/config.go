package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Algorithm names a hashing scheme.
type Algorithm string

const (
	// AlgorithmBcrypt reads hashes produced by most existing user tables.
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

const (
	defaultArgonTime      = 1
	defaultArgonMemoryKiB = 64 * 1024
	defaultArgonThreads   = 4
	defaultMinLength      = 8
)

// Config selects the hasher used for new registrations and carries the
// registration length policy.
type Config struct {
	Algorithm     Algorithm `yaml:"algorithm" mapstructure:"algorithm"`
	BcryptCost    int       `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	Argon2Time    uint32    `yaml:"argon2_time" mapstructure:"argon2_time"`
	Argon2Memory  uint32    `yaml:"argon2_memory" mapstructure:"argon2_memory"` // KiB
	Argon2Threads uint8     `yaml:"argon2_threads" mapstructure:"argon2_threads"`
	MinLength     int       `yaml:"min_length" mapstructure:"min_length"`
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = DefaultBcryptCost
	}
	if c.MinLength == 0 {
		c.MinLength = defaultMinLength
	}
	a := Argon2id{Time: c.Argon2Time, MemoryKiB: c.Argon2Memory, Threads: c.Argon2Threads}.withDefaults()
	c.Argon2Time, c.Argon2Memory, c.Argon2Threads = a.Time, a.MemoryKiB, a.Threads
}

func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBcrypt:
		if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("bcrypt_cost %d outside [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case AlgorithmArgon2id:
	default:
		return fmt.Errorf("algorithm %q not supported, want bcrypt or argon2id", c.Algorithm)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("min_length must be positive, got %d", c.MinLength)
	}
	return nil
}

// Hasher hashes with the configured algorithm and verifies stored hashes
// of either algorithm.
func (c *Config) Hasher() Hasher {
	if c.Algorithm == AlgorithmArgon2id {
		return Auto{Primary: Argon2id{Time: c.Argon2Time, MemoryKiB: c.Argon2Memory, Threads: c.Argon2Threads}}
	}
	return Auto{Primary: Bcrypt{Cost: c.BcryptCost}}
}
