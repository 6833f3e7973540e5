package klayout

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"xorkevin.dev/kerrors"
)

var (
	// ErrInvalidConfig is returned when a config cannot be loaded
	ErrInvalidConfig = errors.New("Invalid config")
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

type (
	// Config configures a logger.
	//
	// Layout is used by the text format. CallSite configures the caller field
	// of the json format.
	Config struct {
		Level         string
		Format        string
		Layout        string
		Path          string
		PathSeparator string
		CallSite      CallSiteConfig
	}

	configFile struct {
		Level         *string             `yaml:"level"`
		Format        *string             `yaml:"format"`
		Layout        *string             `yaml:"layout"`
		Path          *string             `yaml:"path"`
		PathSeparator *string             `yaml:"pathSeparator"`
		CallSite      *callSiteConfigFile `yaml:"callsite"`
	}

	callSiteConfigFile struct {
		ClassName         *bool `yaml:"className"`
		MethodName        *bool `yaml:"methodName"`
		FileName          *bool `yaml:"fileName"`
		IncludeSourcePath *bool `yaml:"includeSourcePath"`
	}
)

// DefaultConfig returns the default [*Config]
func DefaultConfig() *Config {
	return &Config{
		Level:         "INFO",
		Format:        FormatText,
		Layout:        "${time} ${level} ${path} ${callsite} ${message} ${attrs}",
		Path:          "",
		PathSeparator: ".",
		CallSite:      DefaultCallSiteConfig(),
	}
}

// LoadConfig reads a yaml config from r. Unset fields keep their defaults.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed reading config")
	}
	// an empty document decodes to the zero value, so only fields present in
	// the file override the defaults
	var f configFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, kerrors.WithMsg(fmt.Errorf("%w: %w", ErrInvalidConfig, err), "Failed parsing config")
	}
	overlay(&cfg.Level, f.Level)
	overlay(&cfg.Format, f.Format)
	overlay(&cfg.Layout, f.Layout)
	overlay(&cfg.Path, f.Path)
	overlay(&cfg.PathSeparator, f.PathSeparator)
	if c := f.CallSite; c != nil {
		overlay(&cfg.CallSite.ClassName, c.ClassName)
		overlay(&cfg.CallSite.MethodName, c.MethodName)
		overlay(&cfg.CallSite.FileName, c.FileName)
		overlay(&cfg.CallSite.IncludeSourcePath, c.IncludeSourcePath)
	}

	switch cfg.Level {
	case "DEBUG", "INFO", "WARN", "ERROR", "NONE":
	default:
		return nil, kerrors.WithMsg(fmt.Errorf("%w: unknown level %s", ErrInvalidConfig, cfg.Level), "Invalid config level")
	}
	switch cfg.Format {
	case FormatText, FormatJSON:
	default:
		return nil, kerrors.WithMsg(fmt.Errorf("%w: unknown format %s", ErrInvalidConfig, cfg.Format), "Invalid config format")
	}
	return cfg, nil
}

func overlay[T any](dest *T, v *T) {
	if v != nil {
		*dest = *v
	}
}

// BuildLayout parses the config layout
func (c *Config) BuildLayout(caps Capabilities) (*Layout, error) {
	l, err := ParseLayout(c.Layout, caps)
	if err != nil {
		return nil, kerrors.WithMsg(err, "Invalid config layout")
	}
	return l, nil
}

// BuildHandler creates the [Handler] of the config format writing to w
func (c *Config) BuildHandler(w io.Writer, caps Capabilities) (Handler, error) {
	switch c.Format {
	case FormatJSON:
		if err := c.CallSite.Validate(caps); err != nil {
			return nil, kerrors.WithMsg(err, "Invalid config callsite")
		}
		return NewJSONHandler(w, c.CallSite), nil
	case FormatText, "":
		layout, err := c.BuildLayout(caps)
		if err != nil {
			return nil, err
		}
		return NewTextHandler(w, layout), nil
	default:
		return nil, kerrors.WithMsg(fmt.Errorf("%w: unknown format %s", ErrInvalidConfig, c.Format), "Invalid config format")
	}
}

// Build creates a [Logger] writing to w from the config
func (c *Config) Build(w io.Writer, caps Capabilities, opts ...LoggerOpt) (Logger, error) {
	h, err := c.BuildHandler(w, caps)
	if err != nil {
		return nil, err
	}
	return New(append([]LoggerOpt{
		OptMinLevelStr(c.Level),
		OptHandler(h),
		OptPath(c.Path),
		OptPathSeparator(c.PathSeparator),
	}, opts...)...), nil
}
