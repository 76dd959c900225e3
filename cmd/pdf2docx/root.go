package main

import (
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pdf2docx/internal/shared/config"
	"pdf2docx/internal/shared/telemetry"
)

var (
	version = "dev"

	logLevel string
	fs       afero.Fs = afero.NewOsFs()
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pdf2docx",
		Short:         "Convert PDF files to Word documents",
		Long:          "pdf2docx extracts the text of a PDF and writes it to a .docx file, either over HTTP or from the command line.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(config.Load(), "pdf2docx", cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(), newConvertCmd(), newTextCmd(), newVersionCmd())
	return cmd
}

// initLogging applies LOG_LEVEL and LOG_FORMAT; the --log-level flag wins over LOG_LEVEL.
func initLogging(cfg config.Config, service string, out io.Writer) {
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	telemetry.Init(telemetry.Options{
		Level:   level,
		Format:  cfg.LogFormat,
		Service: service,
		Output:  out,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
