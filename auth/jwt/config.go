package jwt

import (
	"crypto"
	"errors"
	"fmt"
	"time"
)

// SigningMethod is a JOSE "alg" value.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
	RS384 SigningMethod = "RS384"
	RS512 SigningMethod = "RS512"
	ES256 SigningMethod = "ES256"
	ES384 SigningMethod = "ES384"
	ES512 SigningMethod = "ES512"
	EdDSA SigningMethod = "EdDSA"
)

// MinSecretLength is the shortest HMAC secret accepted, in bytes.
const MinSecretLength = 32

const (
	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Config is the token section of the service config.
type Config struct {
	Method SigningMethod `yaml:"method" mapstructure:"method"`
	// Secret keys the HS* methods.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// PrivateKeyFile holds the PEM signing key for RS*, ES* and EdDSA.
	PrivateKeyFile string `yaml:"private_key_file" mapstructure:"private_key_file"`
	// PublicKeyFile is optional; the public half of the private key is used
	// when it is empty.
	PublicKeyFile string `yaml:"public_key_file" mapstructure:"public_key_file"`

	// Keys set in code win over the files.
	PrivateKey crypto.PrivateKey `yaml:"-" mapstructure:"-"`
	PublicKey  crypto.PublicKey  `yaml:"-" mapstructure:"-"`

	// Issuer goes into "iss" and, when set, must match on verification.
	Issuer          string        `yaml:"issuer" mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `yaml:"access_ttl" mapstructure:"access_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_ttl" mapstructure:"refresh_ttl"`
}

func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = defaultAccessTTL
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = defaultRefreshTTL
	}
}

// Validate checks that the method is known and has key material configured.
// Key files are opened later, by NewCodec.
func (c *Config) Validate() error {
	alg, ok := algorithms[c.Method]
	switch {
	case !ok:
		return fmt.Errorf("unsupported signing method %q", c.Method)
	case alg.family == familyHMAC && len(c.Secret) < MinSecretLength:
		return fmt.Errorf("%s needs a secret of at least %d bytes", c.Method, MinSecretLength)
	case alg.family != familyHMAC && c.PrivateKey == nil && c.PrivateKeyFile == "":
		return fmt.Errorf("%s needs private_key_file", c.Method)
	case c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0:
		return errors.New("access_ttl and refresh_ttl must be positive")
	case c.RefreshTokenTTL < c.AccessTokenTTL:
		return fmt.Errorf("refresh_ttl %s is shorter than access_ttl %s", c.RefreshTokenTTL, c.AccessTokenTTL)
	}
	return nil
}
