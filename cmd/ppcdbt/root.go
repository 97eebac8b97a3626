package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sarchlab/ppcdbt/config"
)

// app holds the state shared by every subcommand.
type app struct {
	configPath  string
	logLevel    string
	verbose     bool
	optLevel    int
	singleInstr bool

	opts   *config.Options
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "ppcdbt",
		Short: "PowerPC dynamic binary translator",
		Long: `ppcdbt translates 32-bit PowerPC user code into traces of a
register-based IR and runs them, or shows what the translator produces.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "JSON options file")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "print statistics")
	flags.IntVar(&a.optLevel, "opt-level", 2, "trace length level (0, 1 or 2)")
	flags.BoolVar(&a.singleInstr, "single-instr", false, "translate one instruction per trace")

	root.AddCommand(
		newRunCmd(a),
		newDisasmCmd(a),
		newTraceCmd(a),
		newBenchCmd(a),
	)

	return root
}

// setup builds the logger and the options every subcommand uses.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	opts := config.DefaultOptions()
	if a.configPath != "" {
		if opts, err = config.LoadOptions(a.configPath); err != nil {
			return err
		}
	}
	opts.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("opt-level") {
		opts.OptLevel = a.optLevel
	}
	if flags.Changed("single-instr") {
		opts.SingleInstrTranslation = a.singleInstr
	}

	if err := opts.Validate(); err != nil {
		return err
	}
	a.opts = opts

	a.logger.Debug().
		Int("opt_level", opts.OptLevel).
		Bool("single_instr", opts.SingleInstrTranslation).
		Str("endianness", opts.TargetEndianness).
		Msg("options loaded")

	return nil
}

// optionsFor returns the options adjusted to a guest byte order.
func (a *app) optionsFor(bigEndian bool) *config.Options {
	opts := a.opts.Clone()
	if bigEndian {
		opts.TargetEndianness = config.BigEndian
	} else {
		opts.TargetEndianness = config.LittleEndian
	}
	return opts
}
