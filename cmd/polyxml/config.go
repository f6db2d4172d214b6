package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/polyxml"
	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/examples/sample"
)

// fileConfig mirrors polyxml.Options for the settings a config file may
// override. Unset keys keep their defaults.
type fileConfig struct {
	AutoFormat         *bool   `toml:"auto-format"`
	OptimizeNamespaces *bool   `toml:"optimize-namespaces"`
	Indent             *string `toml:"indent"`
}

func defaultOptions() polyxml.Options {
	opts := polyxml.DefaultOptions()
	opts.Indent = "  "
	opts.Interfaces = sample.Interfaces()
	opts.KnownTypes = sample.Types()
	return opts
}

// loadOptions reads path, when set, on top of the CLI defaults.
func loadOptions(path string) (polyxml.Options, error) {
	opts := defaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read config")
	}
	return applyConfig(opts, path, data)
}

func applyConfig(opts polyxml.Options, path string, data []byte) (polyxml.Options, error) {
	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return opts, errors.Wrap(errors.PhaseConfig, errors.KindParse, err, "parse error in "+path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return opts, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown key %q in %s", undecoded[0].String(), path))
	}

	if fc.AutoFormat != nil {
		opts.AutoFormat = *fc.AutoFormat
	}
	if fc.OptimizeNamespaces != nil {
		opts.OptimizeNamespaces = *fc.OptimizeNamespaces
	}
	if fc.Indent != nil {
		opts.Indent = *fc.Indent
	}
	return opts, nil
}
