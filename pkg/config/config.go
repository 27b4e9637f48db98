package config

import "fmt"

// Format selects how scanned tokens are rendered by the driver.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

// ColorMode controls ANSI coloring of diagnostics.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

type Config struct {
	Format    Format
	Color     ColorMode
	MaxErrors int // 0 means unlimited
}

func NewConfig() *Config {
	return &Config{Format: FormatText, Color: ColorAuto}
}

func (c *Config) SetFormat(name string) error {
	switch name {
	case "text", "":
		c.Format = FormatText
	case "json":
		c.Format = FormatJSON
	case "yaml":
		c.Format = FormatYAML
	default:
		return fmt.Errorf("unsupported format '%s'. Supported: 'text', 'json', 'yaml'", name)
	}
	return nil
}

func (c *Config) SetColor(name string) error {
	switch name {
	case "auto", "":
		c.Color = ColorAuto
	case "always":
		c.Color = ColorAlways
	case "never":
		c.Color = ColorNever
	default:
		return fmt.Errorf("unsupported color mode '%s'. Supported: 'auto', 'always', 'never'", name)
	}
	return nil
}

// UseColor resolves the configured mode against whether output goes to a
// terminal.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}
