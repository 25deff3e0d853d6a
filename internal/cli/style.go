package cli

import (
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cms-cat/cmsstyle-go/pkg/cmsstyle"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
	"github.com/cms-cat/cmsstyle-go/pkg/graphics"
)

func (c *CLI) styleCommand() *cobra.Command {
	var format string
	var grid, palette bool

	cmd := &cobra.Command{
		Use:   "style",
		Short: "Print the CMS style defaults",
		Long:  `Style prints the canvas, pad, axis and statistics defaults applied to every CMS plot, as TOML or YAML.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := cmsstyle.NewSession(cmsstyle.WithLogger(c.Logger))
			st := s.ApplyStyle(true)
			if grid {
				if err := s.Grid(true); err != nil {
					return err
				}
			}
			if palette {
				if err := s.SetCMSPalette(); err != nil {
					return err
				}
			}
			return encodeStyle(stdout, st, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "output format: toml or yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"toml", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	cmd.Flags().BoolVar(&grid, "grid", false, "include the pad grid")
	cmd.Flags().BoolVar(&palette, "palette", false, "include the CMS 2D palette")
	return cmd
}

func encodeStyle(w io.Writer, st *graphics.Style, format string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(st)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown style format %q (want toml or yaml)", format)
}
