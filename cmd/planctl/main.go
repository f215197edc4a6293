// Command planctl inspects and normalizes formation share links offline.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/codec"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/formation"
)

type cli struct {
	verbose     bool
	catalogPath string
	logger      *zap.Logger
	cat         *catalog.Catalog
	codec       *codec.Codec
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "planctl",
		Short: "Inspect formation planner share links",
		Long: `planctl decodes and normalizes the unit and formation blobs carried in
formation planner share links, using the same catalog as the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if c.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.logger = logger

			c.cat = catalog.Default()
			if c.catalogPath != "" {
				if c.cat, err = catalog.Load(c.catalogPath); err != nil {
					return err
				}
				c.logger.Debug("catalog loaded", zap.String("path", c.catalogPath), zap.Int("units", c.cat.Len()))
			}
			c.codec = codec.New(c.cat)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "unit catalog YAML (default: built-in)")

	root.AddCommand(
		&cobra.Command{
			Use:   "decode-units [text]",
			Short: "Decode a units blob into JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				units := c.codec.DecodeUnits(args[0])
				c.logger.Debug("decoded units", zap.Int("count", len(units)))
				return printJSON(cmd.OutOrStdout(), units)
			},
		},
		&cobra.Command{
			Use:   "decode-formation [text]",
			Short: "Decode a formation blob and draw its grid",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return drawFormation(cmd.OutOrStdout(), c.codec.DecodeFormation(args[0]))
			},
		},
		&cobra.Command{
			Use:   "catalog",
			Short: "List catalog entries with their level-1 and level-10 power",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				for _, e := range c.cat.Entries() {
					lo := c.cat.Power(e.Rarity, catalog.MinLevel)
					hi := c.cat.Power(e.Rarity, catalog.MaxLevel)
					if _, err := fmt.Fprintf(out, "%3d  %-20s %-10s %5d %5d\n", e.Index, e.Name, e.Rarity, lo, hi); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "normalize-link [url-or-query]",
			Short: "Re-encode a share link's blobs canonically",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				q := c.codec.Normalize(codec.LinkQuery(args[0]))
				_, err := fmt.Fprintln(cmd.OutOrStdout(), q.Encode())
				return err
			},
		},
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func drawFormation(w io.Writer, f *formation.Formation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (power %d)\n", f.Name, f.Power)
	for row := 0; row < formation.Size; row++ {
		for col := 0; col < formation.Size; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			u, ok := f.At(row, col)
			if !ok {
				b.WriteString("  .  ")
				continue
			}
			fmt.Fprintf(&b, "%2s:%-2d", abbrev(u.Name), u.Level)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func abbrev(name string) string {
	r := []rune(name)
	if len(r) < 2 {
		return name
	}
	return string(r[:2])
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
