package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thesyncim/libgosaxonc/internal/ffi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(10)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD580"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	fmt.Println(titleStyle.Render("SaxonC native binding report"))

	rid, err := ffi.Identify()
	if err != nil {
		fmt.Println(row("platform", errorStyle.Render(err.Error())))
		return err
	}
	fmt.Println(row("platform", rid.String()))

	roots := searchRoots(cfg, rid)
	fmt.Println(labelStyle.Render("roots"))
	for i, root := range roots {
		fmt.Printf("  %d. %s\n", i+1, pathStyle.Render(root))
	}

	resolver := ffi.NewResolver(rid)
	specs := ffi.DefaultLibraries(cfg.CoreLibrary, cfg.MainLibrary)
	for _, spec := range specs {
		fmt.Println(reportCandidates(resolver, rid, spec.Name, roots))
	}

	reg := newRegistry(cfg, rid, log)
	defer reg.Close()
	if err := reg.EnsureLoaded(specs...); err != nil {
		fmt.Println(row("load", errorStyle.Render("failed")))
		return err
	}
	for _, lib := range reg.Libraries() {
		fmt.Println(row("loaded", okStyle.Render(lib.Name)+" "+dimStyle.Render(lib.Path)))
	}
	return nil
}

// reportCandidates lists every candidate for name with its sniffed file type.
func reportCandidates(resolver *ffi.Resolver, rid ffi.RuntimeIdentifier, name string, roots []string) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(name))

	candidates := resolver.Candidates(name, roots)
	if len(candidates) == 0 {
		b.WriteString(warnStyle.Render("not found"))
		return b.String()
	}
	for i, path := range candidates {
		artifact := ffi.ArtifactType(path)
		style := okStyle
		if !ffi.LooksLikeLibrary(rid, artifact) {
			style = warnStyle
		}
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(&b, "\n  %s %s %s", marker, pathStyle.Render(path), style.Render(artifact))
	}
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}
