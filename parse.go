package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mickamy/pgexplain/internal/config"
	"github.com/mickamy/pgexplain/internal/logging"
	"github.com/mickamy/pgexplain/internal/parser"
	"github.com/mickamy/pgexplain/internal/render/tree"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Validate a saved EXPLAIN (FORMAT JSON) document and print its plan tree",
		Example: `  pgexplain parse --input plan.json
  psql -XAtc "EXPLAIN (FORMAT JSON) SELECT 1" | pgexplain parse --input -`,
		Args: cobra.NoArgs,
		RunE: parsePlan,
	}
	cmd.Flags().String("input", "", "Path to the plan JSON file, or - for stdin")
	cmd.Flags().Bool("verbose", false, "Print output column lists")
	registerRenderFlags(cmd)
	return cmd
}

func parsePlan(cmd *cobra.Command, _ []string) error {
	cfg := config.Active()

	input, _ := cmd.Flags().GetString("input")
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("--input is required")
	}

	var r io.Reader
	if input == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open %s: %w", input, err)
		}
		defer func() {
			_ = file.Close()
		}()
		r = file
	}

	results, err := parser.ParseJSON(r)
	if err != nil {
		logging.Debug().Str("input", input).Stringer("kind", parser.KindOf(err)).Msg("plan rejected")
		return err
	}
	logging.Debug().Str("input", input).Int("results", len(results)).Msg("plan parsed")

	var buf bytes.Buffer
	err = tree.Render(&buf, results, tree.Options{
		EnableColor: boolFlag(cmd, "color", cfg.Render.Color),
		MaxDepth:    intFlag(cmd, "max-depth", cfg.Render.MaxDepth),
		Verbose:     boolFlag(cmd, "verbose", cfg.Explain.Verbose),
	})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
