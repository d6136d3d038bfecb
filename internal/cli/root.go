// Package cli implements the dcrx command line.
package cli

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sarang095/dcrx/internal/config"
	"github.com/Sarang095/dcrx/internal/console"
	"github.com/Sarang095/dcrx/internal/instruction"
	"github.com/Sarang095/dcrx/internal/lexer"
)

// Version is set at build time
var Version = "dev"

var (
	verboseFlag bool
	configFlag  string

	cfg = config.Default()
)

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "dcrx",
		Short:   "Parse, resolve and write Dockerfiles",
		Version: Version,
		// main prints the error, so cobra does not
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = loaded

			log.SetLevel(cfg.Level())
			if verboseFlag {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newValidateCommand(),
		newCompileCommand(),
		newInspectCommand(),
		newContextCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file, defaults to $"+config.EnvPath+" or ./"+config.DefaultFilename)
}

func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		return config.LoadFile(configFlag)
	}
	return config.Load()
}

// resolveFlags are shared by commands that substitute build arguments
type resolveFlags struct {
	buildArgs []string
	skip      []string
}

func (f *resolveFlags) register(flags *pflag.FlagSet) {
	flags.StringArrayVar(&f.buildArgs, "build-arg", nil, "Set a build argument, NAME=VALUE")
	flags.StringSliceVar(&f.skip, "skip", nil, "Leave these variables unresolved")
}

// defaults parses --build-arg values. A bare NAME takes its value from the
// environment and is ignored when unset.
func (f *resolveFlags) defaults() (map[string]string, error) {
	out := make(map[string]string, len(f.buildArgs))
	for _, arg := range f.buildArgs {
		name, value, found := strings.Cut(arg, "=")
		if name == "" {
			return nil, errors.Errorf("invalid --build-arg %q, expected NAME=VALUE", arg)
		}
		if !found {
			env, ok := os.LookupEnv(name)
			if !ok {
				continue
			}
			value = env
		}
		out[name] = value
	}
	return out, nil
}

// parseKinds accepts kind names ("run") and keywords ("RUN", "FROM")
func parseKinds(names []string) ([]instruction.Kind, error) {
	known := make(map[instruction.Kind]bool)
	for _, k := range instruction.Kinds() {
		known[k] = true
	}

	kinds := make([]instruction.Kind, 0, len(names))
	for _, name := range names {
		if kind, ok := instruction.KindFor(lexer.Keyword(strings.ToUpper(name))); ok {
			kinds = append(kinds, kind)
			continue
		}
		kind := instruction.Kind(strings.ToLower(name))
		if !known[kind] {
			return nil, errors.Errorf("unknown instruction kind %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func newConsole(cmd *cobra.Command) *console.Console {
	c := console.New()
	c.Out = cmd.OutOrStdout()
	c.Err = cmd.ErrOrStderr()
	return c
}
