package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"ptr89/internal/app"
	"ptr89/internal/config"
	"ptr89/internal/store"
)

var (
	errHelp   = errors.New("help requested")
	errNoMode = errors.New("no mode selected")
	errNoFile = errors.New("-f, --file is required")
)

type mode int

const (
	modeNone mode = iota
	modePattern
	modeXRefs
	modeLibrary
	modePrettify
)

type runner struct {
	stdout, stderr io.Writer

	file       string
	base       string
	align      int
	patterns   []string
	xrefs      []string
	limit      int
	fromINI    string
	prettify   string
	verbose    bool
	asJSON     bool
	output     string
	jobs       int
	cachePath  string
	configPath string
	progress   bool

	helpShown bool
}

// Execute runs ptr89 against the process arguments.
func Execute() error {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run runs ptr89 with args. It returns a non-nil error for every failure
// and after printing help; the error has already been reported on
// stdout or stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	r := &runner{stdout: stdout, stderr: stderr}
	root := r.command()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil && r.helpShown {
		return errHelp
	}
	if err != nil {
		r.report(err)
	}
	return err
}

func (r *runner) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "ptr89",
		Short:         "Search ARM firmware images for byte patterns",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd)
		},
	}
	root.SetHelpFunc(func(*cobra.Command, []string) {
		r.helpShown = true
		printUsage(r.stderr)
	})
	root.SetUsageFunc(func(*cobra.Command) error {
		printUsage(r.stderr)
		return nil
	})

	f := root.Flags()
	f.SortFlags = false
	f.StringVarP(&r.file, "file", "f", "", "fullflash file")
	f.StringVarP(&r.base, "base", "b", "A0000000", "fullflash base address")
	f.IntVarP(&r.align, "align", "a", 1, "search align")
	f.BoolVarP(&r.verbose, "verbose", "V", false, "enable debug")
	f.BoolVarP(&r.asJSON, "json", "J", false, "output as JSON")
	f.StringArrayVarP(&r.patterns, "pattern", "p", nil, "pattern to search")
	f.StringArrayVarP(&r.xrefs, "xref", "x", nil, "address to search")
	f.IntVarP(&r.limit, "limit", "n", 100, "limit results count")
	f.StringVar(&r.fromINI, "from-ini", "", "path or URL of a pattern library")
	f.StringVar(&r.prettify, "prettify", "", "pattern")
	f.StringVarP(&r.output, "output", "o", "", "write the report to a file")
	f.IntVarP(&r.jobs, "jobs", "j", 0, "parallel searches")
	f.StringVar(&r.cachePath, "cache", "", "SQLite result cache")
	f.StringVar(&r.configPath, "config", "", "YAML config file")
	f.BoolVar(&r.progress, "progress", false, "show a progress bar")

	// --xrefs is the historical spelling.
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "xrefs" {
			name = "xref"
		}
		return pflag.NormalizedName(name)
	})
	return root
}

func (r *runner) mode() mode {
	switch {
	case len(r.patterns) > 0:
		return modePattern
	case len(r.xrefs) > 0:
		return modeXRefs
	case r.fromINI != "":
		return modeLibrary
	case r.prettify != "":
		return modePrettify
	}
	return modeNone
}

func (r *runner) run(cmd *cobra.Command) error {
	m := r.mode()
	if m == modeNone {
		return errNoMode
	}
	if m != modePrettify && r.file == "" {
		return errNoFile
	}

	settings, err := r.settings(cmd.Flags())
	if err != nil {
		return err
	}

	cfg := app.Config{
		Settings: settings,
		LogOut:   r.stderr,
		NoColor:  !isTerminal(r.stderr),
	}
	if m != modePrettify {
		cfg.ImagePath = r.file
	}
	ctx := cmd.Context()
	wire, err := app.NewWire(ctx, cfg)
	if err != nil {
		return err
	}
	defer wire.Close()

	var buf bytes.Buffer
	out := r.stdout
	if r.output != "" {
		out = &buf
	}

	switch m {
	case modePattern:
		err = r.runPatterns(ctx, wire, out)
	case modeXRefs:
		err = r.runXRefs(ctx, wire, out)
	case modeLibrary:
		err = r.runLibrary(ctx, wire, out)
	case modePrettify:
		err = r.runPrettify(wire, out)
	}
	if err != nil {
		return err
	}

	if r.output != "" {
		if err := store.WriteFile(r.output, buf.Bytes(), 0o644); err != nil {
			return err
		}
		wire.Log.Info().Str("path", r.output).Msg("report written")
	}
	return nil
}

// settings loads the layered config; flags the user set win.
func (r *runner) settings(flags *pflag.FlagSet) (*config.Config, error) {
	overrides := map[string]any{}
	if flags.Changed("base") {
		overrides["search.base"] = r.base
	}
	if flags.Changed("align") {
		overrides["search.align"] = r.align
	}
	if flags.Changed("limit") {
		overrides["search.limit"] = r.limit
	}
	if flags.Changed("jobs") {
		overrides["search.jobs"] = r.jobs
	}
	if flags.Changed("cache") {
		overrides["cache.path"] = r.cachePath
	}
	if r.verbose {
		overrides["log.level"] = "debug"
	}

	path := r.configPath
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	return config.Load(path, overrides)
}

// report prints err the way the selected output format expects.
func (r *runner) report(err error) {
	if errors.Is(err, errNoMode) {
		printUsage(r.stderr)
		return
	}
	if r.asJSON {
		_ = writeJSON(r.stdout, map[string]string{"error": err.Error()})
		return
	}
	fmt.Fprintf(r.stderr, "ERROR: %s\n\n", strings.TrimRight(err.Error(), "\n"))
	printUsage(r.stderr)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
}
