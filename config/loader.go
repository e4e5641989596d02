package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// loader holds the inputs of one LoadConfig call.
type loader struct {
	configFile string
	envFile    string
	exists     func(path string) bool
}

// LoaderOption adjusts LoadConfig.
type LoaderOption func(*loader)

// WithConfigFile skips the search and reads path. A missing path is
// treated like no file.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.configFile = path }
}

// WithEnvFile skips the search and loads path into the environment.
func WithEnvFile(path string) LoaderOption {
	return func(l *loader) { l.envFile = path }
}

// WithExists replaces the file existence check used while searching.
func WithExists(exists func(path string) bool) LoaderOption {
	return func(l *loader) { l.exists = exists }
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadConfig fills cfg from, in rising precedence, the YAML config file,
// a dotenv file and the process environment. Environment variables are
// the upper-cased key path joined by '_': token.access_ttl is read from
// TOKEN_ACCESS_TTL. Missing files are skipped; unreadable ones fail.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	l := loader{exists: fileExists}
	for _, opt := range opts {
		opt(&l)
	}
	if l.configFile == "" {
		l.configFile = l.first(configCandidates(service))
	}
	if l.envFile == "" {
		l.envFile = l.first(envCandidates(service))
	}

	v := viper.New()
	if l.configFile != "" && l.exists(l.configFile) {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", l.configFile, err)
		}
	}
	if l.envFile != "" && l.exists(l.envFile) {
		if err := godotenv.Load(l.envFile); err != nil {
			return fmt.Errorf("config: load %s: %w", l.envFile, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range structKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: decode for %s: %w", service, err)
	}
	return nil
}

func (l loader) first(paths []string) string {
	for _, p := range paths {
		if l.exists(p) {
			return p
		}
	}
	return ""
}

func configCandidates(service string) []string {
	return []string{
		"./cmd/" + service + "/config.yml",
		"../cmd/" + service + "/config.yml",
		"../../cmd/" + service + "/config.yml",
		"./config/config.yml",
		"./config.yml",
	}
}

func envCandidates(service string) []string {
	var out []string
	for _, name := range []string{".env." + service, ".env"} {
		out = append(out, "./cmd/"+service+"/"+name, "../cmd/"+service+"/"+name, "./"+name, "../"+name)
	}
	return out
}

// structKeys lists the dotted viper key of every leaf field of t, using
// mapstructure tags and flattening ",squash" embeds.
func structKeys(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		if opts == "squash" {
			keys = append(keys, structKeys(f.Type, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := prefix + name

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft.PkgPath() != "time" {
			keys = append(keys, structKeys(ft, key+".")...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
