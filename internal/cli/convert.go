package cli

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conradludgate/hslwatch/internal/palette"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert H S L",
		Short: "Convert a single HSL color",
		Long: `Convert a single HSL color to RGB.

Saturation and lightness may be fractions (0.5) or percentages (50 or 50%).
Hues are not wrapped; put a negative hue after "--" so it is not read as a flag.`,
		Example: `  hslwatch convert 120 100 50
  hslwatch convert 240 1 0.5
  hslwatch convert -- -30 100% 50%`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := palette.ParseColor(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("invalid color: %w", err)
			}

			rgb := c.ToRGB()
			log.WithField("hsl", c.String()).Debugln("Converted", rgb)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c, rgb, rgb.Hex())
			return nil
		},
	}
}

func newPaletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette [file]",
		Short: "Convert every color of a palette",
		Long: `Convert every color of a palette file to RGB.

Without a file the "colors" section of the config file is used. Palette files
may be yaml, toml or json and keep their colors under "colors".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				entries []palette.Entry
				err     error
			)

			if len(args) == 1 {
				entries, err = palette.Load(args[0], log.WithField("palette", args[0]))
			} else {
				entries, err = palette.Parse(viper.GetViper(), palette.ColorsKey, log.WithField("palette", viper.ConfigFileUsed()))
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				log.Warnln("No colors found")
			}

			p := &printer{out: cmd.OutOrStdout()}
			p.entries(entries)
			return nil
		},
	}
}
