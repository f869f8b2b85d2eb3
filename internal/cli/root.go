package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conradludgate/hslwatch/internal/palette"
)

const defaultPollInterval = 100 * time.Millisecond

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "hslwatch",
		Short: "Convert HSL colors to RGB",
		Long: `hslwatch converts colors from HSL to RGB.

Colors can be given on the command line, read from a palette file or from the
"colors" section of the config file. The watch command re-converts palettes
whenever the config or a palette file changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is hslwatch-config.yaml in /etc/hslwatch, $HOME/.hslwatch or .)")
	rootCmd.PersistentFlags().String("loglevel", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	if err := viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}

	rootCmd.AddCommand(newConvertCmd(), newPaletteCmd(), newWatchCmd())
	return rootCmd
}

func initConfig(cfgFile string) error {
	viper.SetEnvPrefix("HSLWATCH")
	viper.AutomaticEnv()

	viper.SetDefault("palette-dir", ".")
	viper.SetDefault("recursive", true)
	viper.SetDefault("poll-interval", defaultPollInterval)
	viper.SetDefault("files", defaultFilePatterns())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("hslwatch-config")
		viper.AddConfigPath("/etc/hslwatch")
		viper.AddConfigPath("$HOME/.hslwatch")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("there was an error reading the config file: %w", err)
		}
		log.Debugln("Could not find config file")
	}

	setLogLevel()
	log.Debugln("Using config file:", viper.ConfigFileUsed())
	return nil
}

// setLogLevel applies the configured loglevel. Unknown names keep the current level.
func setLogLevel() {
	if !viper.IsSet("loglevel") {
		return
	}

	level, err := log.ParseLevel(viper.GetString("loglevel"))
	if err != nil {
		log.Warnln(err)
		return
	}
	log.SetLevel(level)
}

// printer serialises conversion output, which the watch command writes from
// several goroutines.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printer) entries(entries []palette.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range entries {
		rgb := e.Color.ToRGB()
		fmt.Fprintf(p.out, "%s\t%s\t%s\t%s\n", e.Name, e.Color, rgb, rgb.Hex())
	}
}
