// petool is a CLI utility for inspecting and exporting Pangya PET models.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/petviewer/internal/assets"
	"github.com/Faultbox/petviewer/internal/config"
	"github.com/Faultbox/petviewer/internal/engine/loader"
	"github.com/Faultbox/petviewer/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, os.Stdout)
	case "export", "x":
		err = cmdExport(args, os.Stdout)
	case "pack":
		err = cmdPack(args, os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	logger.Sync()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `petool - Pangya PET model utility

Usage:
  petool <command> [options]

Commands:
  info [file.pet]                    Show model information
  export [file.pet] <output_dir>     Export vertex/index buffers and texture layers
  pack [file.pet] <out.png>          Write the packed texture array as one image

The model defaults to the first line of the init_models file.

Options (all commands):
  -config <path>     Config file
  -debug             Enable debug logging
  -layer-size N|WxH  Texture layer size (default 64)
  -filter <name>     Resampling filter: catmullrom, bilinear, nearest

Examples:
  petool info models/item0_01.pet
  petool export -layer-size 128 models/item0_01.pet ./out
  petool pack -filter nearest models/item0_01.pet atlas.png`)
}

// session holds the parsed state shared by all subcommands.
type session struct {
	flags *flag.FlagSet
	cfg   *config.Config
}

// parseCommand parses args, loads the config and initializes logging.
func parseCommand(name string, args []string) (*session, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.InitFromConfig(cfg.Logging); err != nil {
		return nil, err
	}
	return &session{flags: fs, cfg: cfg}, nil
}

// modelAndOutput splits positional args into an optional model path and
// wantOut trailing output arguments.
func (c *session) modelAndOutput(usage string, wantOut int) (string, []string, error) {
	args := c.flags.Args()
	switch len(args) {
	case wantOut + 1:
		return args[0], args[1:], nil
	case wantOut:
		model, err := c.cfg.Viewer.InitialModel()
		if err != nil {
			return "", nil, fmt.Errorf("no model given: %w\nUsage: %s", err, usage)
		}
		return model, args, nil
	default:
		return "", nil, fmt.Errorf("usage: %s", usage)
	}
}

func (c *session) newAssembler() *loader.Assembler {
	opts := loader.Options{
		Source: assets.OSSource{},
		Width:  c.cfg.Texture.LayerWidth,
		Height: c.cfg.Texture.LayerHeight,
		Filter: c.cfg.Texture.FilterValue(),
		Mask:   c.cfg.Texture.MaskPolicy(),
		Log:    logger.Named("loader"),
	}
	if c.cfg.Texture.Cache {
		opts.Cache = assets.NewCache()
	}
	return loader.New(opts)
}
