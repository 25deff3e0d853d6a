package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
	"github.com/cms-cat/cmsstyle-go/pkg/errors"
)

func (c *CLI) paletteCommand() *cobra.Command {
	var browse bool

	cmd := &cobra.Command{
		Use:       "palette [name]",
		Short:     "Show the CMS colour sets",
		Long:      `Palette prints the Petroff colour sets (p6, p8, p10) recommended for CMS plots, with the name, hex value and index of each colour.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: colors.PaletteNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			palettes, err := selectPalettes(args)
			if err != nil {
				return err
			}
			if browse {
				return runPaletteBrowser(cmd, palettes)
			}
			for i, p := range palettes {
				if i > 0 {
					fmt.Fprintln(stdout)
				}
				printPalette(p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&browse, "browse", false, "browse the sets interactively and print the chosen colour")
	return cmd
}

// selectPalettes returns the named set, or every set when args is empty.
func selectPalettes(args []string) ([]namedPalette, error) {
	names := colors.PaletteNames()
	if len(args) == 1 {
		names = []string{strings.ToLower(args[0])}
	}
	out := make([]namedPalette, 0, len(names))
	for _, n := range names {
		cs, ok := colors.Set(n)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown palette %q (want one of %s)",
				n, strings.Join(colors.PaletteNames(), ", "))
		}
		out = append(out, namedPalette{Name: n, Colors: cs})
	}
	return out, nil
}

func printPalette(p namedPalette) {
	fmt.Fprintln(stdout, StyleTitle.Render(p.Name))
	for _, c := range p.Colors {
		fmt.Fprintf(stdout, "  %s  %-12s %s\n", swatch(c, 4), colors.Name(c), StyleDim.Render(colors.Hex(c)))
	}
}

func runPaletteBrowser(cmd *cobra.Command, palettes []namedPalette) error {
	prog := tea.NewProgram(NewPaletteModel(palettes),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(PaletteModel); ok && m.Selected != nil {
		fmt.Fprintf(stdout, "%s %s\n", colors.Name(*m.Selected), colors.Hex(*m.Selected))
	}
	return nil
}
