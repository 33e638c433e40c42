// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/petviewer/internal/engine/texture"
)

// Config holds all viewer settings.
type Config struct {
	Texture TextureConfig `yaml:"texture"`
	Logging LoggingConfig `yaml:"logging"`
	Viewer  ViewerConfig  `yaml:"viewer"`
}

// TextureConfig holds texture array packing settings.
type TextureConfig struct {
	LayerWidth    int    `yaml:"layer_width"`
	LayerHeight   int    `yaml:"layer_height"`
	Filter        string `yaml:"filter"`         // catmullrom, bilinear or nearest
	MaskSuffix    string `yaml:"mask_suffix"`    // Appended to the stem of a masked texture
	MaskExtension string `yaml:"mask_extension"` // Only textures with this extension get a mask; empty disables masks
	Cache         bool   `yaml:"cache"`          // Share decoded layers between model loads
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ViewerConfig holds model selection settings.
type ViewerConfig struct {
	// InitModelsFile names a text file whose first line is the model opened
	// when none is given on the command line.
	InitModelsFile string `yaml:"init_models_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Texture: TextureConfig{
			LayerWidth:    64,
			LayerHeight:   64,
			Filter:        "catmullrom",
			MaskSuffix:    "_mask",
			MaskExtension: ".jpg",
			Cache:         false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Viewer: ViewerConfig{
			InitModelsFile: "init_models",
		},
	}
}

// Validate checks that the settings can be used to load models.
func (c *Config) Validate() error {
	if c.Texture.LayerWidth <= 0 || c.Texture.LayerHeight <= 0 {
		return fmt.Errorf("invalid layer size %dx%d", c.Texture.LayerWidth, c.Texture.LayerHeight)
	}
	if _, err := texture.ParseFilter(c.Texture.Filter); err != nil {
		return err
	}
	return nil
}

// FilterValue returns the parsed resampling filter.
func (t TextureConfig) FilterValue() texture.Filter {
	f, err := texture.ParseFilter(t.Filter)
	if err != nil {
		return texture.FilterCatmullRom
	}
	return f
}

// MaskPolicy returns the mask naming convention described by the settings.
func (t TextureConfig) MaskPolicy() texture.MaskPolicy {
	if t.MaskExtension == "" {
		return texture.NoMaskPolicy
	}
	return texture.SuffixMaskPolicy(t.MaskExtension, t.MaskSuffix)
}
