// Package cli holds the flag handling shared by the pipeline commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/mlography/internal/config"
	"github.com/banshee-data/mlography/internal/monitoring"
	"github.com/banshee-data/mlography/internal/version"
)

// Common are the flags every command accepts.
type Common struct {
	fs         *flag.FlagSet
	configPath string
	version    bool
	quiet      bool
	exts       string
}

// Register adds -config, -version, -quiet and -exts to fs.
func Register(fs *flag.FlagSet) *Common {
	c := &Common{fs: fs}
	fs.StringVar(&c.configPath, "config", "", "Path to a pipeline config JSON file (optional)")
	fs.BoolVar(&c.version, "version", false, "Print version and exit")
	fs.BoolVar(&c.quiet, "quiet", false, "Suppress per-file progress logging")
	fs.StringVar(&c.exts, "exts", "", "Comma-separated image extensions to read (e.g. .png,.tif)")
	return c
}

// PrintVersion writes the version line to w and reports whether -version was
// given.
func (c *Common) PrintVersion(w io.Writer, tool string) bool {
	if !c.version {
		return false
	}
	fmt.Fprintln(w, version.String(tool))
	return true
}

// Load reads the config file (if any), applies the overrides registered with
// apply and validates the result. apply receives the set of flags given on
// the command line.
func (c *Common) Load(apply func(cfg *config.PipelineConfig, set map[string]bool)) (*config.PipelineConfig, error) {
	if c.quiet {
		monitoring.SetLogger(nil)
	}

	cfg, err := config.LoadOrEmpty(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	set := Visited(c.fs)
	if set["exts"] {
		cfg.ImageExtensions = SplitList(c.exts)
	}
	if apply != nil {
		apply(cfg, set)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Visited returns the names of the flags set on the command line.
func Visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// SplitList splits a comma-separated flag value, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Require returns an error naming the first empty value in pairs of
// flag name and value.
func Require(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("-%s is required", pairs[i])
		}
	}
	return nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Main runs a command's run function and exits non-zero on error.
func Main(tool string, run func(args []string) error) {
	log.SetPrefix(tool + ": ")
	err := run(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}
