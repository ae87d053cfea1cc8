package cli

import (
	"io"

	"github.com/spf13/cobra"

	"immichart/internal/config"
	applog "immichart/internal/log"
)

// app carries what every subcommand needs after PersistentPreRunE.
type app struct {
	out      io.Writer
	errOut   io.Writer
	logLevel string

	cfg    *config.Config
	logger *applog.Logger
}

// NewRootCommand builds chartctl. Output goes to out, logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "chartctl",
		Short:         "Render, import and inspect the immigration chart offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			LoadEnvFile()
			cfg, err := LoadAndValidateConfig()
			if err != nil {
				return err
			}
			if a.logLevel == "" {
				a.logLevel = cfg.LogLevel
			}
			a.cfg = cfg
			a.logger = SetupLogger(a.logLevel, a.errOut)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: LOG_LEVEL)")

	root.AddCommand(newRenderCommand(a), newImportCommand(a), newEventsCommand(a))
	return root
}
