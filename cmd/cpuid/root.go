package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	algocpuid "github.com/cwbudde/algo-cpuid"
)

const envPrefix = "CPUID"

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagFormat   = "format"
	flagLeaf     = "leaf"
	flagSubleaf  = "subleaf"
	flagCore     = "core"
	flagAllCores = "all-cores"
	flagIters    = "iters"

	formatText = "text"
	formatJSON = "json"

	// anyCore means "do not pin".
	anyCore = -1
)

// cli carries what every subcommand needs.
type cli struct {
	out    io.Writer
	log    *logrus.Logger
	config *viper.Viper
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	c := &cli{
		out:    out,
		log:    logrus.New(),
		config: viper.New(),
	}
	c.log.SetOutput(errOut)
	c.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cmd := &cobra.Command{
		Use:           "cpuid",
		Short:         "Query the x86 CPUID instruction",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "Optional configuration file (YAML, TOML or JSON)")
	flags.String(flagLogLevel, "warn", "Log level (debug, info, warn, error)")
	flags.String(flagFormat, formatText, "Output format (text, json)")

	cmd.AddCommand(
		newQueryCommand(c),
		newInfoCommand(c),
		newBenchCommand(c),
	)

	return cmd
}

// setup binds flags, environment and the optional config file into one viper
// instance and configures logging. Flags win over environment, which wins
// over the config file.
func (c *cli) setup(cmd *cobra.Command) error {
	v := c.config

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	bind := func(fs *pflag.FlagSet) error {
		return v.BindPFlags(fs)
	}
	if err := bind(cmd.Flags()); err != nil {
		return err
	}
	if err := bind(cmd.InheritedFlags()); err != nil {
		return err
	}

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	level, err := logrus.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return err
	}
	c.log.SetLevel(level)
	algocpuid.SetLogger(c.log)

	switch f := v.GetString(flagFormat); f {
	case formatText, formatJSON:
	default:
		return fmt.Errorf("unknown format %q", f)
	}

	c.log.WithFields(logrus.Fields{
		"strategy": algocpuid.Strategy(),
		"affinity": algocpuid.AffinitySupported(),
	}).Debug("cpuid ready")

	return nil
}

// uint32Value reads a numeric setting that may be written as decimal, 0x hex
// or 0o octal.
func (c *cli) uint32Value(key string) (uint32, error) {
	s := strings.TrimSpace(c.config.GetString(key))

	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", key, s, err)
	}

	return uint32(n), nil
}

func (c *cli) format() string {
	return c.config.GetString(flagFormat)
}

// querier returns a function running queries unpinned or on core.
func querier(core int) func(leaf uint32) (algocpuid.Registers, error) {
	if core == anyCore {
		return algocpuid.Query
	}

	return func(leaf uint32) (algocpuid.Registers, error) {
		return algocpuid.QueryOn(core, leaf)
	}
}
