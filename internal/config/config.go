// Package config loads recorddeck settings from an optional YAML file, a
// .env file and RECORDDECK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"recorddeck/internal/record"
)

// Variant picks a preset for endpoint, title and gender widget.
type Variant string

const (
	VariantStudent Variant = "student"
	VariantBlog    Variant = "blog"
)

// GenderWidget selects how gender is edited in the form.
type GenderWidget string

const (
	WidgetRadio    GenderWidget = "radio"
	WidgetCheckbox GenderWidget = "checkbox"
)

// GenderEncoding selects how gender is written on the wire.
type GenderEncoding string

const (
	EncodingBool GenderEncoding = "bool"
	EncodingTag  GenderEncoding = "tag"
)

// Config holds every setting recorddeck reads at startup.
type Config struct {
	BaseURL        string            `yaml:"base_url" validate:"required,url"`
	Resource       string            `yaml:"resource" validate:"required,startswith=/"`
	Variant        Variant           `yaml:"variant" validate:"oneof=student blog"`
	Title          string            `yaml:"title" validate:"required"`
	GenderWidget   GenderWidget      `yaml:"gender_widget" validate:"oneof=radio checkbox"`
	GenderEncoding GenderEncoding    `yaml:"gender_encoding" validate:"oneof=bool tag"`
	Genders        record.GenderSet  `yaml:"genders" validate:"min=2,dive"`
	Headers        map[string]string `yaml:"headers"`
	Timeout        time.Duration     `yaml:"timeout" validate:"gt=0"`
	LogFile        string            `yaml:"log_file"`
	LogLevel       string            `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
}

// Env var names.
const (
	EnvConfig         = "RECORDDECK_CONFIG"
	EnvBaseURL        = "RECORDDECK_BASE_URL"
	EnvResource       = "RECORDDECK_RESOURCE"
	EnvVariant        = "RECORDDECK_VARIANT"
	EnvTitle          = "RECORDDECK_TITLE"
	EnvGenderWidget   = "RECORDDECK_GENDER_WIDGET"
	EnvGenderEncoding = "RECORDDECK_GENDER_ENCODING"
	EnvTimeout        = "RECORDDECK_TIMEOUT"
	EnvHeaders        = "RECORDDECK_HEADERS"
	EnvLogFile        = "RECORDDECK_LOG_FILE"
	EnvLogLevel       = "RECORDDECK_LOG_LEVEL"
)

// DefaultBaseURL is the API root used when nothing is configured.
const DefaultBaseURL = "http://localhost:3000"

// DefaultTimeout bounds every API call.
const DefaultTimeout = 10 * time.Second

type preset struct {
	resource string
	title    string
	noun     string
	widget   GenderWidget
}

var presets = map[Variant]preset{
	VariantStudent: {resource: "/student", title: "Student CRUD", noun: "Student", widget: WidgetRadio},
	VariantBlog:    {resource: "/Blog", title: "Blog CRUD", noun: "Blog", widget: WidgetCheckbox},
}

// Noun is the word used in form titles ("Create Student").
func (c Config) Noun() string {
	if p, ok := presets[c.Variant]; ok {
		return p.noun
	}
	return "Record"
}

// Default returns the built-in settings before any variant preset is applied.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Variant:        VariantStudent,
		GenderEncoding: EncodingBool,
		Genders:        record.DefaultGenders(),
		Timeout:        DefaultTimeout,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads settings. path may be empty, in which case RECORDDECK_CONFIG is
// consulted. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyPreset()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.BaseURL, EnvBaseURL)
	setString(&c.Resource, EnvResource)
	setString(&c.Title, EnvTitle)
	setString(&c.LogFile, EnvLogFile)
	setString(&c.LogLevel, EnvLogLevel)
	if v := getEnv(EnvVariant); v != "" {
		c.Variant = Variant(strings.ToLower(v))
	}
	if v := getEnv(EnvGenderWidget); v != "" {
		c.GenderWidget = GenderWidget(strings.ToLower(v))
	}
	if v := getEnv(EnvGenderEncoding); v != "" {
		c.GenderEncoding = GenderEncoding(strings.ToLower(v))
	}
	if v := getEnv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := getEnv(EnvHeaders); v != "" {
		h, err := ParseHeaders(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeaders, err)
		}
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(h))
		}
		for k, val := range h {
			c.Headers[k] = val
		}
	}
	return nil
}

// applyPreset fills fields the file and environment left empty.
func (c *Config) applyPreset() {
	if c.Variant == "" {
		c.Variant = VariantStudent
	}
	p, ok := presets[c.Variant]
	if !ok {
		return
	}
	if c.Resource == "" {
		c.Resource = p.resource
	}
	if c.Title == "" {
		c.Title = p.title
	}
	if c.GenderWidget == "" {
		c.GenderWidget = p.widget
	}
}

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.Genders) != 2 {
		if c.GenderEncoding == EncodingBool {
			return fmt.Errorf("invalid config: gender_encoding bool needs exactly 2 genders, got %d", len(c.Genders))
		}
		if c.GenderWidget == WidgetCheckbox {
			return fmt.Errorf("invalid config: gender_widget checkbox needs exactly 2 genders, got %d", len(c.Genders))
		}
	}
	seen := make(map[record.Gender]bool, len(c.Genders))
	for _, g := range c.Genders {
		if seen[g.Tag] {
			return fmt.Errorf("invalid config: duplicate gender tag %q", g.Tag)
		}
		seen[g.Tag] = true
	}
	return nil
}

// ParseHeaders parses "Key=Value,Key2=Value2".
func ParseHeaders(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed header %q", part)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := getEnv(key); v != "" {
		*dst = v
	}
}
