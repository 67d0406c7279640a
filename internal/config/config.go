// Package config holds the flag definitions shared across cmd/lra's
// subcommands.
package config

import "github.com/spf13/pflag"

// Flags are the shared CLI flags for cmd/lra.
type Flags struct {
	Verbose bool
	Format  string
}

// Register adds the shared flags to fs.
func Register(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "log every assertion and pivot")
	fs.StringVar(&f.Format, "format", "text", "output format (accepted, but solve always prints text)")
	return f
}
