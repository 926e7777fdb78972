package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/lockstation/internal/adapters/serialport"
	"github.com/bft-labs/lockstation/internal/cliconfig"
	"github.com/bft-labs/lockstation/internal/console"
	"github.com/bft-labs/lockstation/pkg/log"
	"github.com/bft-labs/lockstation/pkg/station"
	"github.com/bft-labs/lockstation/plugins/devicewatch"
)

const helpDescription = `
Talk to a lock station over its serial link.

Type "key <value>" then "send <slot>" to push a key into a slot, "code <id>"
to send the next rolling code, or any line starting with AT to send it as is.
Replies from the station are printed as they arrive.

Settings come from $HOME/.lockstation/config.toml, LOCKSTATION_* variables
and flags, in increasing order of precedence.
`

var exampleUsage = strings.TrimSpace(`
  lockstation --port /dev/ttyUSB0
  lockstation --port COM3 --driver tarm --baud 115200
  lockstation ports
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var slots string

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "lockstation",
		Short:         "Send keys and rolling codes to a lock station over serial",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if changed["slots"] {
				cfg.Slots = strings.Split(slots, ",")
			}

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger = logger.Level(log.ParseLevel(cfg.LogLevel))
			logger.Info().Interface("config", cfg).Msg("configuration")

			opts := []station.Option{
				station.WithLogger(log.NewZerologAdapterWithLogger(logger)),
			}
			if cfg.WatchDevice {
				opts = append(opts, devicewatch.WithDefaultDeviceWatch())
			}

			s, err := station.New(station.Config{
				Port:        cfg.Port,
				Baud:        cfg.Baud,
				ReadTimeout: cfg.ReadTimeout,
				Driver:      cfg.Driver,
				Channel:     cfg.Channel,
				CodeLength:  cfg.CodeLength,
				Slots:       cfg.Slots,
			}, opts...)
			if err != nil {
				return fmt.Errorf("create station: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := s.Start(ctx); err != nil {
				return fmt.Errorf("start station: %w", err)
			}

			runErr := console.New(s, os.Stdin, os.Stdout, log.NewZerologAdapterWithLogger(logger)).Run(ctx)
			if ctx.Err() != nil {
				logger.Info().Msg("received signal, stopping...")
			}

			if err := s.Stop(); err != nil && !errors.Is(err, station.ErrNotRunning) {
				return fmt.Errorf("stop station: %w", err)
			}
			return runErr
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.lockstation/config.toml)")
	root.Flags().StringVar(&cfg.Port, "port", cfg.Port, "serial device (e.g. /dev/ttyUSB0, COM3)")
	root.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "baud rate")
	root.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "serial read timeout")
	root.Flags().StringVar(&cfg.Driver, "driver", cfg.Driver, fmt.Sprintf("serial driver (%s)", strings.Join(serialport.Drivers(), "|")))
	root.Flags().IntVar(&cfg.Channel, "channel", cfg.Channel, "radio channel used in AT+SEND commands")
	root.Flags().IntVar(&cfg.CodeLength, "code-length", cfg.CodeLength, "length field of rolling-code commands")
	root.Flags().StringVar(&slots, "slots", strings.Join(cfg.Slots, ","), "comma separated key slots")
	root.Flags().BoolVar(&cfg.WatchDevice, "watch-device", cfg.WatchDevice, "report removal and re-attachment of the serial device")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "ports",
		Short: "List serial ports present on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := serialport.ListPorts()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("lockstation")
		os.Exit(1)
	}
}
