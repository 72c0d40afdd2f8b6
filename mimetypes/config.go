package mimetypes

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"gin-mime/internal/debug"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// TypeConfig describes one type to register from a config file.
type TypeConfig struct {
	Key       string            `yaml:"key" mapstructure:"key" validate:"required,mimekey"`
	Transform string            `yaml:"transform" mapstructure:"transform"`
	Accepts   []string          `yaml:"accepts" mapstructure:"accepts" validate:"required,min=1,dive,required,mediarange"`
	Headers   map[string]string `yaml:"headers" mapstructure:"headers"`
	// Quality defaults to 1 when zero.
	Quality float64 `yaml:"quality" mapstructure:"quality" validate:"gte=0"`
}

// Config lists types to register and keys to remove, applied in that order.
type Config struct {
	Types  []TypeConfig `yaml:"types" mapstructure:"types" validate:"dive"`
	Remove []string     `yaml:"remove" mapstructure:"remove" validate:"dive,required,ne=all"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("mimekey", func(fl validator.FieldLevel) bool {
			return keyPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("mediarange", func(fl validator.FieldLevel) bool {
			_, _, ok := splitMediaRange(fl.Field().String())
			return ok
		})
	})
	return validate
}

// LoadConfig decodes a YAML config and validates it.
func LoadConfig(rd io.Reader) (Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(rd).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding mime config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every entry without touching any registry.
func (c Config) Validate() error {
	if err := configValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	for _, tc := range c.Types {
		if _, err := newDescriptor(tc.Key, tc.Transform, tc.Accepts, tc.options()...); err != nil {
			return err
		}
	}
	return nil
}

func (tc TypeConfig) options() []Option {
	opts := []Option{WithHeaders(tc.Headers)}
	if tc.Quality != 0 {
		opts = append(opts, WithQuality(tc.Quality))
	}
	return opts
}

// Apply validates cfg, then registers its types and removes its keys under
// one write lock, so readers see the registry either before or after the
// whole config. Nothing is changed when validation fails.
func (r *Registry) Apply(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	descs := make([]Descriptor, 0, len(cfg.Types))
	for _, tc := range cfg.Types {
		d, err := newDescriptor(tc.Key, tc.Transform, tc.Accepts, tc.options()...)
		if err != nil {
			return err
		}
		descs = append(descs, d)
	}

	outcomes := make([]Removal, len(cfg.Remove))
	r.mu.Lock()
	for _, d := range descs {
		r.store(d)
	}
	for i, key := range cfg.Remove {
		outcomes[i] = NotPresent
		if key == All {
			outcomes[i] = NotRemovable
		} else if _, ok := r.remove(key); ok {
			outcomes[i] = Removed
		}
	}
	definers := slices.Clone(r.definers)
	r.mu.Unlock()

	for _, d := range descs {
		debug.Print("%-18s --> %s (%s)", d.Key, d.ContentType, strings.Join(d.Accepts, ", "))
	}
	for i, key := range cfg.Remove {
		debug.Print("config: %s %s", key, outcomes[i])
	}
	for _, definer := range definers {
		for _, d := range descs {
			definer.DefineRenderEntryPoint(d.Key)
		}
	}
	return nil
}
