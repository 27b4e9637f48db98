package config_test

import (
	"testing"

	"github.com/xplshn/glox/pkg/config"
)

func TestSetFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    config.Format
		wantErr bool
	}{
		{"text", config.FormatText, false},
		{"json", config.FormatJSON, false},
		{"yaml", config.FormatYAML, false},
		{"", config.FormatText, false},
		{"xml", config.FormatText, true},
	}
	for _, tt := range tests {
		cfg := config.NewConfig()
		err := cfg.SetFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("SetFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && cfg.Format != tt.want {
			t.Errorf("SetFormat(%q) = %v, want %v", tt.name, cfg.Format, tt.want)
		}
	}
}

func TestSetColor(t *testing.T) {
	cfg := config.NewConfig()
	if err := cfg.SetColor("always"); err != nil {
		t.Fatalf("SetColor(always): %v", err)
	}
	if cfg.Color != config.ColorAlways {
		t.Errorf("Color = %v, want ColorAlways", cfg.Color)
	}
	if err := cfg.SetColor("sometimes"); err == nil {
		t.Error("SetColor(sometimes) succeeded, want error")
	}
}

func TestUseColor(t *testing.T) {
	tests := []struct {
		mode       config.ColorMode
		isTerminal bool
		want       bool
	}{
		{config.ColorAuto, true, true},
		{config.ColorAuto, false, false},
		{config.ColorAlways, false, true},
		{config.ColorNever, true, false},
	}
	for _, tt := range tests {
		cfg := &config.Config{Color: tt.mode}
		if got := cfg.UseColor(tt.isTerminal); got != tt.want {
			t.Errorf("UseColor(mode=%v, terminal=%v) = %v, want %v", tt.mode, tt.isTerminal, got, tt.want)
		}
	}
}
