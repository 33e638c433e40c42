package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Flags holds command-line overrides registered on a FlagSet.
type Flags struct {
	Config    string
	Debug     bool
	LayerSize layerSize
	Filter    string
}

// layerSize parses "N" or "WxH".
type layerSize struct {
	Width, Height int
}

func (s *layerSize) String() string {
	if s.Width == 0 && s.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (s *layerSize) Set(v string) error {
	w, h, found := strings.Cut(strings.ToLower(v), "x")
	width, err := strconv.Atoi(w)
	if err != nil {
		return fmt.Errorf("invalid layer size %q", v)
	}
	height := width
	if found {
		if height, err = strconv.Atoi(h); err != nil {
			return fmt.Errorf("invalid layer size %q", v)
		}
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid layer size %q", v)
	}
	s.Width, s.Height = width, height
	return nil
}

// RegisterFlags registers the config override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Var(&f.LayerSize, "layer-size", "Texture layer size, N or WxH")
	fs.StringVar(&f.Filter, "filter", "", "Resampling filter (catmullrom, bilinear, nearest)")
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LayerSize.Width > 0 {
		cfg.Texture.LayerWidth = f.LayerSize.Width
		cfg.Texture.LayerHeight = f.LayerSize.Height
	}
	if f.Filter != "" {
		cfg.Texture.Filter = f.Filter
	}
}
