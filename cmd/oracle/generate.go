package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/oracle-route/internal/entropy"
	"github.com/talgya/oracle-route/internal/world"
)

var generateFlags struct {
	out    string
	seed   int64
	width  int
	height int
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an example map and write it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := cfg.GenConfig()
		if cmd.Flags().Changed("width") {
			gen.Width = generateFlags.width
		}
		if cmd.Flags().Changed("height") {
			gen.Height = generateFlags.height
		}
		seed := cfg.Map.Seed
		if cmd.Flags().Changed("seed") {
			seed = generateFlags.seed
		}

		rng, seed := entropy.NewSource(seed)
		g, err := world.Generate(gen, rng)
		if err != nil {
			return err
		}
		if err := world.SaveGrid(generateFlags.out, g); err != nil {
			return err
		}
		slog.Info("map generated", "path", generateFlags.out, "seed", seed)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, g.String())
		fmt.Fprintf(out, "Seed: %d\n", seed)
		fmt.Fprintf(out, "Colours with every task kind: %s\n", strings.Join(g.ColoursWithRequiredKinds(), ", "))
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.out, "out", "o", "", "output JSON map file")
	f.Int64Var(&generateFlags.seed, "seed", 0, "random seed (0 draws one)")
	f.IntVar(&generateFlags.width, "width", 0, "map width in columns")
	f.IntVar(&generateFlags.height, "height", 0, "map height in rows")
	_ = generateCmd.MarkFlagRequired("out")
}
