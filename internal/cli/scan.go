package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hardref/pkg/blueprint"
	"github.com/matzehuels/hardref/pkg/errors"
	"github.com/matzehuels/hardref/pkg/pipeline"
	"github.com/matzehuels/hardref/pkg/report"
	"github.com/matzehuels/hardref/pkg/snapshot"
)

// scanFlags holds the flags shared by scan and graph.
type scanFlags struct {
	noFunctionLocals bool
	noCache          bool
	refresh          bool
	interactive      bool
	registry         string
	output           string
	sizes            bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noFunctionLocals, "no-function-locals", false, "skip local variables of Blueprint functions")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "rescan even if a cached result exists")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "pick the blueprint interactively")
	cmd.Flags().StringVar(&f.registry, "registry", "", "package source: snapshot or mongo (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the report to a file")
	cmd.Flags().BoolVar(&f.sizes, "sizes", false, "show sizes in graph nodes")
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		flags  scanFlags
		format string
		sites  bool
	)

	cmd := &cobra.Command{
		Use:   "scan <snapshot> [blueprint]",
		Short: "List the packages a Blueprint hard-references",
		Long: `Scan a Blueprint and list every package it hard-references, largest first.

Each package lists the places in the Blueprint that hold the reference:
function calls, casts, pin defaults, variables, components and function
locals. Packages reachable only through other packages are reported as
"Unidentified source".

The Blueprint may be given by object path, package name or short name. A
snapshot with a single Blueprint needs no name.`,
		Example: `  # Scan by short name
  hardref scan registry.toml BP_Hero

  # JSON for tooling
  hardref scan registry.toml BP_Hero -f json -o hero.json

  # Choose from a list
  hardref scan registry.toml -i`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			return c.runScan(cmd.Context(), args, flags, pipeline.Options{
				Format: string(f),
				Sites:  sites,
				Sizes:  flags.sizes,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: "+strings.Join(errors.OutputFormats, ", "))
	cmd.Flags().BoolVar(&sites, "sites", true, "list reference sites under each package (text format)")

	return cmd
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags scanFlags
		dot   bool
	)

	cmd := &cobra.Command{
		Use:   "graph <snapshot> [blueprint]",
		Short: "Draw a Blueprint's hard dependencies as a graph",
		Long: `Render the Blueprint's package and each package it hard-references as an
SVG graph (or Graphviz DOT with --dot). Edges are labeled with the number of
reference sites; packages with no identified site are drawn dashed.`,
		Example: `  hardref graph registry.toml BP_Hero -o hero.svg --sizes`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := report.FormatSVG
			if dot {
				format = report.FormatDOT
			}
			return c.runScan(cmd.Context(), args, flags, pipeline.Options{
				Format: string(format),
				Sizes:  flags.sizes,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dot, "dot", false, "write Graphviz DOT instead of SVG")

	return cmd
}

// runScan loads the snapshot, picks the Blueprint and runs the pipeline.
func (c *CLI) runScan(ctx context.Context, args []string, flags scanFlags, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	snap, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	bp, err := c.selectBlueprint(snap, name, flags.interactive)
	if err != nil {
		return err
	}
	if bp == nil {
		printInfo("No blueprint selected")
		return nil
	}

	reg, closeReg, err := c.openRegistry(ctx, flags.registry)
	if err != nil {
		return err
	}
	defer closeReg()

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Snapshot = snap
	opts.Blueprint = string(bp.Path)
	opts.Registry = reg
	opts.SkipFunctionLocals = flags.noFunctionLocals || !c.Config.Scan.FunctionLocals
	opts.Refresh = flags.refresh
	opts.Logger = logger

	var spin *Spinner
	if flags.output != "" {
		spin = newSpinner(ctx, "Scanning "+string(bp.Path))
		spin.Start()
	}
	res, err := runner.Execute(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if flags.output == "" {
		if _, err := os.Stdout.Write(res.Report); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(flags.output, res.Report, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flags.output, err)
		}
		printSuccess("Scanned %s", res.Scan.Blueprint)
		printFile(flags.output)
	}
	printStats(res.Stats.Groups, res.Stats.Sites, res.CacheInfo.ScanHit)
	return nil
}

// selectBlueprint resolves name within snap, falling back to the
// interactive picker when asked to or when name is ambiguous.
func (c *CLI) selectBlueprint(snap *snapshot.Snapshot, name string, interactive bool) (*blueprint.Blueprint, error) {
	if interactive && name == "" && len(snap.Blueprints) > 1 {
		return pickBlueprint(snap.Blueprints)
	}
	bp, err := snap.Blueprint(name)
	if err == nil {
		return bp, nil
	}
	if name == "" && len(snap.Blueprints) > 1 {
		printWarning("Snapshot holds %d blueprints", len(snap.Blueprints))
		for _, n := range snap.Names() {
			printDetail("%s", n)
		}
		printNextStep("Choose one interactively", "hardref scan <snapshot> -i")
	}
	return nil, err
}
