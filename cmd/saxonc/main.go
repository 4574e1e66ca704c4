// Command saxonc inspects and drives the SaxonC native libraries.
//
// Usage:
//
//	saxonc doctor [-config file]
//	saxonc transform [-config file] -s source.xml -xsl sheet.xsl [-o out.html] [-exec]
//	saxonc version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/thesyncim/libgosaxonc/internal/config"
	"github.com/thesyncim/libgosaxonc/internal/ffi"
	"github.com/thesyncim/libgosaxonc/pkg/saxon"
)

const usage = `Usage: saxonc <command> [flags]

Commands:
  doctor     report platform, search roots and library resolution
  transform  apply an XSLT stylesheet to a source document
  version    print build information`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "doctor":
		err = runDoctor(args)
	case "transform":
		err = runTransform(args)
	case "version":
		printVersion()
	case "-h", "-help", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// setup loads the configuration and installs its logger in the library packages.
func setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	ffi.SetLogger(log.Named("ffi"))
	saxon.SetLogger(log.Named("saxon"))
	return cfg, log, nil
}

func searchRoots(cfg *config.Config, rid ffi.RuntimeIdentifier) []string {
	return ffi.DefaultSearchRoots(rid, ffi.SearchOptions{
		BaseDir:        cfg.BaseDir,
		OverrideDirs:   cfg.SearchRoots,
		EnvLibraryDir:  cfg.LibraryDir,
		SkipSystemDirs: cfg.SkipSystemDirs,
	})
}

// executableBinDir returns the configured executable directory, defaulting to
// the RID native directory under the application base directory.
func executableBinDir(cfg *config.Config, identify func() (ffi.RuntimeIdentifier, error)) (string, error) {
	if cfg.BinDir != "" {
		return cfg.BinDir, nil
	}
	rid, err := identify()
	if err != nil {
		return "", err
	}
	return ffi.NativeDir(ffi.ApplicationDir(cfg.BaseDir), rid), nil
}

func newRegistry(cfg *config.Config, rid ffi.RuntimeIdentifier, log *zap.Logger) *ffi.Registry {
	opts := []ffi.Option{
		ffi.WithLinkerPathAugmentation(cfg.AugmentLinkerPath),
		ffi.WithLogger(log.Named("registry")),
	}
	if cfg.DisableSymlink {
		opts = append(opts, ffi.WithLinker(nil))
	}
	return ffi.NewRegistry(ffi.NewResolver(rid), ffi.NewSystemLoader(), searchRoots(cfg, rid), opts...)
}

func runTransform(args []string) error {
	fs := flag.NewFlagSet("transform", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "TOML configuration file")
		source     = fs.String("s", "", "Source XML document")
		stylesheet = fs.String("xsl", "", "XSLT stylesheet")
		output     = fs.String("o", "", "Output file (default: keep result in the engine)")
		useExec    = fs.Bool("exec", false, "Run the Transform executable instead of the in-process engine")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" || *stylesheet == "" {
		return errors.New("transform requires -s and -xsl")
	}

	cfg, log, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if *useExec {
		if *output == "" {
			return errors.New("transform -exec requires -o")
		}
		binDir, err := executableBinDir(cfg, ffi.Identify)
		if err != nil {
			return err
		}
		out, err := saxon.NewCommand(binDir).Transform(context.Background(), *source, *stylesheet, *output)
		if out != "" {
			fmt.Print(out)
		}
		return err
	}

	rid, err := ffi.Identify()
	if err != nil {
		return err
	}
	reg := newRegistry(cfg, rid, log)
	defer func() {
		if err := reg.Close(); err != nil {
			log.Warn("unloading native libraries", zap.Error(err))
		}
	}()

	rt, err := saxon.Open(reg, saxon.Options{CoreLibrary: cfg.CoreLibrary, MainLibrary: cfg.MainLibrary})
	if err != nil {
		return err
	}
	proc, err := rt.NewProcessor(cfg.Licensed)
	if err != nil {
		return err
	}
	defer proc.Close()

	xslt, err := proc.NewXsltProcessor()
	if err != nil {
		return err
	}
	if err := xslt.CompileStylesheet(*stylesheet); err != nil {
		return err
	}
	if *output == "" {
		return xslt.TransformToValue(*source)
	}
	if err := xslt.TransformToFile(*source, *output); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("wrote " + *output))
	return nil
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("saxonc %s %s/%s %s\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
