// PlateArrange arranges 3D-print footprints onto build plates in the order a
// sequential printer can print them without the head hitting finished objects.
//
// Usage:
//
//	platearrange arrange [flags] files...   pack STL, DXF, CSV or XLSX inputs
//	platearrange serve [-addr :8080]        run the HTTP API
//	platearrange profiles                   list built-in printer profiles
//	platearrange backup file.json           save preferences, config and profiles
//	platearrange restore file.json          restore them from a backup
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/PlateArrange/internal/api"
	"github.com/piwi3910/PlateArrange/internal/engine"
	"github.com/piwi3910/PlateArrange/internal/export"
	"github.com/piwi3910/PlateArrange/internal/importer"
	"github.com/piwi3910/PlateArrange/internal/logging"
	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/piwi3910/PlateArrange/internal/project"
)

const usage = `usage: platearrange <command> [flags]

commands:
  arrange   pack objects from STL, DXF, CSV or XLSX files onto plates
  serve     run the HTTP API
  profiles  list printer profiles
  backup    save preferences, printer config and custom profiles to a file
  restore   restore preferences, printer config and custom profiles
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	switch args[0] {
	case "arrange":
		return runArrange(args[1:], stdout, stderr)
	case "serve":
		return runServe(args[1:], stderr)
	case "profiles":
		return runProfiles(args[1:], stdout, stderr)
	case "backup":
		return runBackup(args[1:], stdout, stderr)
	case "restore":
		return runRestore(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

type arrangeFlags struct {
	prefs     string
	config    string
	profile   string
	profiles  string
	sort      bool
	check     bool
	estimate  bool
	jsonOut   string
	pdf       string
	labels    string
	xlsx      string
	dxf       string
	dxfHeight float64
	logLevel  string
}

func runArrange(args []string, stdout, stderr io.Writer) int {
	var f arrangeFlags
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.prefs, "prefs", project.DefaultAppConfigPath(), "application preferences file")
	fs.StringVar(&f.config, "config", project.DefaultConfigPath(), "printer config file (JSON or YAML), re-read for every plate")
	fs.StringVar(&f.profile, "profile", "", "printer profile name; overrides -config")
	fs.StringVar(&f.profiles, "profiles", project.DefaultProfilesPath(), "custom printer profiles file")
	fs.BoolVar(&f.sort, "sort", true, "pack tallest objects first")
	fs.BoolVar(&f.check, "check", false, "verify the layout for overlaps and out-of-bounds objects")
	fs.BoolVar(&f.estimate, "estimate", false, "print an area-based lower bound on the plate count")
	fs.StringVar(&f.jsonOut, "json", "", "write the arrangement as JSON to this file (- for stdout)")
	fs.StringVar(&f.pdf, "pdf", "", "write a plate layout PDF")
	fs.StringVar(&f.labels, "labels", "", "write a QR label sheet PDF")
	fs.StringVar(&f.xlsx, "xlsx", "", "write an XLSX report")
	fs.StringVar(&f.dxf, "dxf", "", "write a DXF plate layout")
	fs.Float64Var(&f.dxfHeight, "dxf-height", 10, "object height for DXF inputs (mm)")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	prefs, err := project.LoadAppConfig(f.prefs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	applyPrefs(fs, &f, prefs)
	if _, err := logging.ParseLevel(f.logLevel); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	log := logging.New(stderr, f.logLevel)

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "arrange: no input files")
		return 2
	}

	src, err := configSource(f)
	if err != nil {
		log.Error("invalid configuration", "err", err)
		return 1
	}

	imported := importer.ImportFiles(fs.Args(), f.dxfHeight)
	for _, w := range imported.Warnings {
		log.Warn("import", "msg", w)
	}
	for _, e := range imported.Errors {
		log.Error("import", "msg", e)
	}
	if len(imported.Footprints) == 0 {
		log.Error("no objects to arrange")
		return 1
	}

	if f.estimate {
		if err := printEstimate(stdout, src, imported.Footprints); err != nil {
			log.Error("invalid configuration", "err", err)
			return 1
		}
	}

	opts := engine.DefaultOptions()
	opts.SortByHeight = f.sort
	result, err := engine.New(src, opts, log).Arrange(imported.Footprints)
	export.AssignLabels(&result)

	code := 0
	if err != nil {
		log.Error("arrangement incomplete", "err", err)
		code = 1
	}

	printSummary(stdout, result)

	if f.check {
		for plate, vs := range engine.CheckResult(result) {
			for _, v := range vs {
				log.Error("layout violation", "plate", plate, "kind", v.Kind, "id", v.ID, "other", v.OtherID)
			}
			code = 1
		}
	}

	if len(result.Plates) > 0 {
		if werr := writeOutputs(f, result, stdout); werr != nil {
			log.Error("export failed", "err", werr)
			code = 1
		}
	}
	return code
}

// applyPrefs fills every flag the user did not set from the preferences file.
func applyPrefs(fs *flag.FlagSet, f *arrangeFlags, prefs model.AppConfig) {
	set := setFlags(fs)
	if !set["profile"] && !set["config"] {
		f.profile = prefs.DefaultProfile
	}
	if !set["dxf-height"] {
		f.dxfHeight = prefs.DXFHeight
	}
	if !set["sort"] {
		f.sort = prefs.SortByHeight
	}
	if !set["check"] {
		f.check = prefs.CheckLayout
	}
	if !set["log-level"] && prefs.LogLevel != "" {
		f.logLevel = prefs.LogLevel
	}
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

// configSource picks the per-plate config: a named profile if given, otherwise the
// config file.
func configSource(f arrangeFlags) (engine.ConfigSource, error) {
	if f.profile == "" {
		src := project.FileSource{Path: f.config}
		if _, err := src.Next(); err != nil {
			return nil, err
		}
		return src, nil
	}
	custom, err := project.LoadCustomProfiles(f.profiles)
	if err != nil {
		return nil, err
	}
	p, err := project.ResolveProfile(f.profile, custom)
	if err != nil {
		return nil, err
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	return engine.StaticSource{Config: p.Config}, nil
}

func writeOutputs(f arrangeFlags, result model.ArrangeResult, stdout io.Writer) error {
	var errs []error
	if f.jsonOut != "" {
		errs = append(errs, writeJSON(f.jsonOut, result, stdout))
	}
	outputs := []struct {
		path string
		fn   func(string, model.ArrangeResult) error
	}{
		{f.pdf, export.ExportPDF},
		{f.labels, export.ExportLabels},
		{f.xlsx, export.ExportXLSX},
		{f.dxf, export.ExportDXF},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.fn(o.path, result); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.path, err))
		}
	}
	return errors.Join(errs...)
}

func writeJSON(path string, result model.ArrangeResult, stdout io.Writer) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printEstimate(w io.Writer, src engine.ConfigSource, fps []model.Footprint) error {
	cfg, err := src.Next()
	if err != nil {
		return err
	}
	est := model.EstimatePlates(fps, cfg)
	fmt.Fprintf(w, "estimate: at least %d plate(s) (%.2f by area)\n\n", est.PlatesNeededMin, est.PlatesNeededExact)
	return nil
}

func printSummary(w io.Writer, result model.ArrangeResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tNAME\tX\tY\tW x D x H")
	for _, plate := range result.Plates {
		for _, p := range plate.Placements {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.1f x %.1f x %.1f\n",
				p.Label, p.Name, p.X, p.Y, p.Width, p.Depth, p.Height)
		}
	}
	for _, u := range result.Unplaced {
		fmt.Fprintf(tw, "-\t%s\t-\t-\t%.1f x %.1f x %.1f\n", u.Name, u.Width, u.Depth, u.Height)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d plate(s), %d placed, %d unplaced, %.1f%% efficiency\n",
		len(result.Plates), result.PlacedCount(), len(result.Unplaced), result.TotalEfficiency())
}

func runProfiles(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("profiles", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("profiles", project.DefaultProfilesPath(), "custom printer profiles file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	custom, err := project.LoadCustomProfiles(*path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPLATE\tDIRECTIONS\tDESCRIPTION")
	for _, p := range append(custom, model.PrinterProfiles...) {
		pc := p.Config.Plate
		fmt.Fprintf(tw, "%s\t%.0f x %.0f\t%s/%s\t%s\n", p.Name, pc.XDim, pc.YDim,
			pc.PrintDirections.First, pc.PrintDirections.Second, p.Description)
	}
	tw.Flush()
	return 0
}

type storeFlags struct {
	prefs    string
	config   string
	profiles string
}

func parseStoreFlags(name string, args []string, stderr io.Writer) (storeFlags, string, bool) {
	var f storeFlags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.prefs, "prefs", project.DefaultAppConfigPath(), "application preferences file")
	fs.StringVar(&f.config, "config", project.DefaultConfigPath(), "printer config file (JSON or YAML)")
	fs.StringVar(&f.profiles, "profiles", project.DefaultProfilesPath(), "custom printer profiles file")
	if err := fs.Parse(args); err != nil {
		return f, "", false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "%s: expected exactly one backup file\n", name)
		return f, "", false
	}
	return f, fs.Arg(0), true
}

func runBackup(args []string, stdout, stderr io.Writer) int {
	f, path, ok := parseStoreFlags("backup", args, stderr)
	if !ok {
		return 2
	}
	prefs, err := project.LoadAppConfig(f.prefs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg, err := project.LoadConfig(f.config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	custom, err := project.LoadCustomProfiles(f.profiles)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := project.ExportAllData(path, prefs, cfg, custom); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "backup written to %s (%d custom profile(s))\n", path, len(custom))
	return 0
}

func runRestore(args []string, stdout, stderr io.Writer) int {
	f, path, ok := parseStoreFlags("restore", args, stderr)
	if !ok {
		return 2
	}
	backup, err := project.ImportAllData(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := project.RestoreAllData(backup, f.prefs, f.config, f.profiles); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "restored backup from %s (created %s)\n", path, backup.CreatedAt)
	return 0
}

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	prefsPath := fs.String("prefs", project.DefaultAppConfigPath(), "application preferences file")
	addr := fs.String("addr", ":8080", "listen address")
	level := fs.String("log-level", "info", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	prefs, err := project.LoadAppConfig(*prefsPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	set := setFlags(fs)
	if !set["addr"] && prefs.ListenAddr != "" {
		*addr = prefs.ListenAddr
	}
	if !set["log-level"] && prefs.LogLevel != "" {
		*level = prefs.LogLevel
	}
	log := logging.New(stderr, *level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, *addr, log); err != nil {
		log.Error("server stopped", "err", err)
		return 1
	}
	return 0
}

func serve(ctx context.Context, addr string, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
