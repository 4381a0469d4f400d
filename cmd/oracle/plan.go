package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/oracle-route/internal/engine"
	"github.com/talgya/oracle-route/internal/entropy"
	"github.com/talgya/oracle-route/internal/persistence"
	"github.com/talgya/oracle-route/internal/planner"
	"github.com/talgya/oracle-route/internal/report"
	"github.com/talgya/oracle-route/internal/tasks"
	"github.com/talgya/oracle-route/internal/world"
)

var planFlags struct {
	mapPath      string
	colours      []string
	seed         int64
	quota        int
	cycles       string
	cyclesFile   string
	saveResults  string
	saveMap      string
	validateOnly bool
	trace        bool
	noHistory    bool
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Select tasks, plan a route and simulate it",
	Long: `Plan loads a JSON map (or generates an example map), assigns three colours,
selects their tasks and plans a route from the hub back to the hub. The route is
simulated move by move and the run is recorded in the history database.`,
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planFlags.mapPath, "map", "", "JSON map file (default: generate an example map)")
	f.StringSliceVar(&planFlags.colours, "colours", nil, "three colours to assign (default: pick from the map)")
	f.Int64Var(&planFlags.seed, "seed", 0, "random seed for map generation and colour choice (0 draws one)")
	f.IntVar(&planFlags.quota, "quota", planner.DefaultShrineQuota, "number of shrines to build")
	f.StringVar(&planFlags.cycles, "cycles", "", `custom cycles as JSON, e.g. '[["t_01","t_02"],["t_09"]]'`)
	f.StringVar(&planFlags.cyclesFile, "cycles-file", "", "file holding custom cycles as JSON")
	f.StringVar(&planFlags.saveResults, "save-results", "", "write the results document to this file")
	f.StringVar(&planFlags.saveMap, "save-map", "", "write the map in use to this file")
	f.BoolVar(&planFlags.validateOnly, "validate-only", false, "stop after map validation and task selection")
	f.BoolVar(&planFlags.trace, "trace", false, "print the simulation state at the end of every turn")
	f.BoolVar(&planFlags.noHistory, "no-history", false, "do not record the run in the history database")
}

func runPlan(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	if f.Changed("map") {
		cfg.Map.Path = planFlags.mapPath
	}
	if f.Changed("colours") {
		cfg.Planner.Colours = planFlags.colours
	}
	if f.Changed("seed") {
		cfg.Map.Seed = planFlags.seed
	}
	if f.Changed("quota") {
		cfg.Planner.ShrineQuota = planFlags.quota
	}
	cycles, err := customCycles(planFlags.cycles, planFlags.cyclesFile)
	if err != nil {
		return err
	}
	if cycles != nil {
		cfg.Planner.CustomCycles = cycles
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	req, err := cfg.WorldRequirements()
	if err != nil {
		return err
	}
	rng, seed := entropy.NewSource(cfg.Map.Seed)
	g, source, err := loadOrGenerate(req, rng)
	if err != nil {
		return err
	}
	slog.Info("map ready", "source", source, "grid", g.String(), "seed", seed)

	if planFlags.saveMap != "" {
		if err := world.SaveGrid(planFlags.saveMap, g); err != nil {
			return err
		}
		slog.Info("map saved", "path", planFlags.saveMap)
	}

	mgr := tasks.NewManager(g, req)
	colours := cfg.Planner.Colours
	if len(colours) == 0 {
		colours, err = tasks.PickColours(g.ColoursWithRequiredKinds(), rng)
		if err != nil {
			return err
		}
	}
	if err := mgr.AssignColours(colours); err != nil {
		return err
	}
	if err := mgr.SelectTasks(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.Colours(g, colours).String())
	fmt.Fprintf(out, "Tasks selected: %d on %d tiles; shrine candidates: %d\n",
		len(mgr.Tasks()), len(mgr.TaskTiles()), len(mgr.ShrineCandidates()))
	if planFlags.validateOnly {
		fmt.Fprintln(out, "Map and task selection are valid.")
		return nil
	}

	opts := cfg.PlannerOptions()
	if planFlags.trace {
		opts.OnTurn = func(turn int, step engine.Step) {
			fmt.Fprintf(out, "%-18s %s cargo=[%s]\n", engine.TurnTime(step.Moves), step.Tile, strings.Join(step.Cargo, " "))
		}
	}
	outcome, err := planner.Run(mgr, opts)
	if err != nil {
		return err
	}

	results := report.Build(report.Input{
		Map:          source,
		Seed:         seed,
		Colours:      colours,
		ShrineQuota:  opts.ShrineQuota,
		CustomCycles: opts.CustomCycles,
	}, mgr, outcome)
	fmt.Fprint(out, report.Summary(results))

	if planFlags.saveResults != "" {
		if err := report.ExportFile(planFlags.saveResults, results); err != nil {
			return err
		}
		slog.Info("results saved", "path", planFlags.saveResults)
	}
	if !planFlags.noHistory {
		if err := recordRun(results); err != nil {
			slog.Warn("run not recorded", "error", err)
		}
	}

	if !results.Success {
		return errors.New("simulation reported errors")
	}
	return nil
}

func loadOrGenerate(req world.Requirements, rng *rand.Rand) (*world.Grid, string, error) {
	if cfg.Map.Path != "" {
		g, err := world.LoadGrid(cfg.Map.Path, req)
		return g, cfg.Map.Path, err
	}
	g, err := world.Generate(cfg.GenConfig(), rng)
	return g, "generated", err
}

func recordRun(r *report.Results) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return err
	}
	db, err := persistence.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.SaveRun(r)
}

// customCycles parses cycles from the inline flag or the file; the inline
// form wins when both are given.
func customCycles(inline, path string) ([][]string, error) {
	raw := []byte(inline)
	if inline == "" {
		if path == "" {
			return nil, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read cycles: %w", err)
		}
		raw = data
	}
	var cycles [][]string
	if err := json.Unmarshal(raw, &cycles); err != nil {
		return nil, fmt.Errorf("%w: custom cycles must be a JSON list of tile id lists: %v", tasks.ErrConfig, err)
	}
	if cycles == nil {
		cycles = [][]string{}
	}
	return cycles, nil
}
