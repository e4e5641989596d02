package config

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/authgate/logger"
)

func TestServiceConfig(t *testing.T) {
	dev := ServiceConfig{Name: "authgate"}
	dev.ApplyDefaults()
	if dev.Environment != EnvDevelopment || !dev.Debug || dev.Logging.Level != "info" {
		t.Errorf("defaults = %+v", dev)
	}
	prod := ServiceConfig{Name: "authgate", Environment: EnvProduction}
	prod.ApplyDefaults()
	if prod.Debug {
		t.Error("production turned debug on")
	}

	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"staging", ServiceConfig{Name: "authgate", Environment: EnvStaging}, ""},
		{"no name", ServiceConfig{Environment: EnvProduction}, "config.name is required"},
		{"bad environment", ServiceConfig{Name: "authgate", Environment: "qa"}, "config.environment"},
		{"bad logging", ServiceConfig{Name: "authgate", Environment: EnvStaging, Logging: logger.Config{Level: "loud", Format: logger.FormatJSON}}, "config.logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.cfg.Logging.Level == "" {
				tc.cfg.Logging.ApplyDefaults()
			}
			err := tc.cfg.Validate()
			if tc.wantErr == "" && err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if tc.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tc.wantErr)) {
				t.Fatalf("Validate() = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

type sample struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Token         struct {
		Secret    string        `mapstructure:"secret"`
		AccessTTL time.Duration `mapstructure:"access_ttl"`
	} `mapstructure:"token"`
	Gate struct {
		PublicPaths []string `mapstructure:"public_paths"`
	} `mapstructure:"gate"`
	Ignored string `mapstructure:"-"`
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Layers(t *testing.T) {
	file := writeFile(t, "config.yml", "name: authgate\nenvironment: staging\ntoken:\n  secret: from-file\n  access_ttl: 5m\n")
	env := writeFile(t, ".env", "TOKEN_SECRET=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("TOKEN_SECRET") })
	t.Setenv("TOKEN_ACCESS_TTL", "90s")
	t.Setenv("GATE_PUBLIC_PATHS", "/,/login")

	var cfg sample
	if err := LoadConfig("authgate", &cfg, WithConfigFile(file), WithEnvFile(env)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "authgate" || cfg.Environment != EnvStaging {
		t.Errorf("file values lost: %+v", cfg.ServiceConfig)
	}
	if cfg.Token.Secret != "from-dotenv" {
		t.Errorf("secret = %q, want the .env value", cfg.Token.Secret)
	}
	if cfg.Token.AccessTTL != 90*time.Second {
		t.Errorf("access_ttl = %v, want env override", cfg.Token.AccessTTL)
	}
	if !slices.Equal(cfg.Gate.PublicPaths, []string{"/", "/login"}) {
		t.Errorf("public_paths = %v", cfg.Gate.PublicPaths)
	}
}

func TestLoadConfig_Files(t *testing.T) {
	var cfg sample
	if err := LoadConfig("authgate", &cfg, WithConfigFile("/nonexistent/config.yml")); err != nil {
		t.Errorf("missing file: %v", err)
	}
	broken := writeFile(t, "config.yml", "token: [unterminated\n")
	if err := LoadConfig("authgate", &cfg, WithConfigFile(broken)); err == nil {
		t.Error("broken YAML accepted")
	}
}

func TestLoadConfig_Search(t *testing.T) {
	var searched []string
	exists := func(p string) bool {
		searched = append(searched, p)
		return false
	}
	var cfg sample
	if err := LoadConfig("authgate", &cfg, WithExists(exists)); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"./cmd/authgate/config.yml", "./config.yml", "./cmd/authgate/.env.authgate", "./.env"} {
		if !slices.Contains(searched, want) {
			t.Errorf("%s not searched: %v", want, searched)
		}
	}
}

func TestStructKeys(t *testing.T) {
	keys := structKeys(reflect.TypeFor[*sample](), "")
	for _, want := range []string{"name", "logging.level", "token.secret", "token.access_ttl", "gate.public_paths"} {
		if !slices.Contains(keys, want) {
			t.Errorf("key %q missing from %v", want, keys)
		}
	}
	if slices.Contains(keys, "ignored") {
		t.Error(`"-" field was bound`)
	}
}
