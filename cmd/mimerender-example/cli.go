package main

import "flag"

// Options holds CLI options for the example server.
type Options struct {
	ConfigPath string
	Addr       string
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string) Options {
	flags := flag.NewFlagSet("mimerender-example", flag.ExitOnError)
	var opts Options
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
	flags.StringVar(&opts.Addr, "addr", "", "Listen address, overrides the config file")
	_ = flags.Parse(args)
	return opts
}
