package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/eugenenazirov/carton-fit/internal/application"
	"github.com/eugenenazirov/carton-fit/internal/catalog"
	"github.com/eugenenazirov/carton-fit/internal/config"
	"github.com/eugenenazirov/carton-fit/internal/geometry"
	"github.com/eugenenazirov/carton-fit/internal/logging"
	"github.com/eugenenazirov/carton-fit/internal/packer"
	"github.com/eugenenazirov/carton-fit/internal/selector"
)

var errMissingItem = errors.New("either --package or all of --length, --width and --height are required")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cartonfit:", err)
		os.Exit(1)
	}
}

type options struct {
	configFile  string
	catalogFile string
	packageID   string
	length      float64
	width       float64
	height      float64
	weight      float64
	poolSize    int
	maxAttempts int
	workers     int
	logLevel    string
	placements  bool
}

func parseArgs(args []string) (options, error) {
	var opts options

	app := kingpin.New("cartonfit", "Selects the carton that holds the most volume of copies of one package")
	app.Flag("config", "Path to YAML configuration file").StringVar(&opts.configFile)
	app.Flag("catalog", "Path to a YAML or XLSX carton catalog (built-in catalog when empty)").StringVar(&opts.catalogFile)
	app.Flag("package", "Package preset ID from the catalog").Short('p').StringVar(&opts.packageID)
	app.Flag("length", "Package length in inches").Float64Var(&opts.length)
	app.Flag("width", "Package width in inches").Float64Var(&opts.width)
	app.Flag("height", "Package height in inches").Float64Var(&opts.height)
	app.Flag("weight", "Package weight in pounds").Default("0").Float64Var(&opts.weight)
	app.Flag("pool-size", "Package copies offered to each carton").Default("0").IntVar(&opts.poolSize)
	app.Flag("max-attempts", "Placement attempts per carton (0 attempts the whole pool)").Default("-1").IntVar(&opts.maxAttempts)
	app.Flag("workers", "Cartons evaluated concurrently").Default("0").IntVar(&opts.workers)
	app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").StringVar(&opts.logLevel)
	app.Flag("placements", "Print every placement in the best carton").BoolVar(&opts.placements)

	if _, err := app.Parse(args); err != nil {
		return options{}, err
	}
	if opts.packageID == "" && (opts.length == 0 || opts.width == 0 || opts.height == 0) {
		return options{}, errMissingItem
	}
	return opts, nil
}

func (o options) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: o.configFile,
		LogLevel:   &o.logLevel,
	}
	if o.catalogFile != "" {
		overrides.CatalogFile = &o.catalogFile
	}
	if o.poolSize > 0 {
		overrides.PoolSize = &o.poolSize
	}
	if o.maxAttempts >= 0 {
		overrides.MaxAttempts = &o.maxAttempts
	}
	if o.workers > 0 {
		overrides.Workers = &o.workers
	}
	return overrides
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.overrides())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	cat, err := application.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	item, err := resolveItem(cat, opts)
	if err != nil {
		return err
	}

	containers, err := cat.Containers()
	if err != nil {
		return err
	}

	evaluator := selector.New(
		selector.WithPoolSize(cfg.PoolSize),
		selector.WithMaxAttempts(cfg.MaxAttempts),
		selector.WithWorkers(cfg.Workers),
		selector.WithLogger(logger),
	)
	selection, err := evaluator.SelectBest(containers, item)
	if err != nil {
		return err
	}
	logger.Info("selection finished", zap.Bool("found", selection.Found()), zap.Int("cartons", len(containers)))

	printSelection(stdout, selection, opts.placements)
	return nil
}

func resolveItem(cat catalog.Catalog, opts options) (packer.Item, error) {
	if opts.packageID != "" {
		pkg, err := cat.Package(opts.packageID)
		if err != nil {
			return packer.Item{}, err
		}
		return pkg.Item()
	}
	dims := geometry.Dimensions{Length: opts.length, Width: opts.width, Height: opts.height}
	return packer.NewItem("item", dims, opts.weight)
}

func printSelection(w io.Writer, selection selector.Selection, withPlacements bool) {
	renderer := lipgloss.NewRenderer(w)
	summaryStyle := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("35"))
	if !selection.Found() {
		summaryStyle = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	}
	dim := renderer.NewStyle().Foreground(lipgloss.Color("245"))
	best := renderer.NewStyle().Foreground(lipgloss.Color("36")).Bold(true)
	cell := renderer.NewStyle().Padding(0, 1)

	fmt.Fprintln(w, summaryStyle.Render(selection.Summary()))
	fmt.Fprintln(w, dim.Render(fmt.Sprintf("Package %s (%s, volume %g)",
		selection.Item.Name, selection.Item.Dimensions, selection.Item.Dimensions.Volume())))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dim).
		Headers("#", "Carton", "Dimensions", "Placed", "Unplaced", "Utilization").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			if row == selection.BestIndex {
				return best.Padding(0, 1)
			}
			return cell
		})
	for i, ev := range selection.Evaluations {
		t.Row(
			strconv.Itoa(i+1),
			ev.Container.Label,
			ev.Container.Dimensions.String(),
			strconv.Itoa(ev.Result.Placed()),
			strconv.Itoa(ev.Result.Unplaced),
			fmt.Sprintf("%.2f%%", ev.Utilization),
		)
	}
	fmt.Fprintln(w, t.Render())

	if !withPlacements || !selection.Found() {
		return
	}
	fmt.Fprintln(w, dim.Render("Placements in "+selection.Best.Container.Label+":"))
	var b strings.Builder
	for i, p := range selection.Best.Result.Placements {
		fmt.Fprintf(&b, "%4d  %s at %s\n", i+1, p.Orientation, p.Position)
	}
	fmt.Fprint(w, b.String())
}
