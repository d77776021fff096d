package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/daqconf/internal/app"
	"github.com/specialistvlad/daqconf/internal/compiler"
	"github.com/specialistvlad/daqconf/internal/config"
	"github.com/specialistvlad/daqconf/internal/fragments"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "DAQCONF"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// options is the shape of the options file. Flags and environment variables
// override the flat keys. Env entries are KEY=VALUE strings since viper
// lowercases map keys.
type options struct {
	LogLevel             string               `mapstructure:"log_level"`
	LogFormat            string               `mapstructure:"log_format"`
	Partition            string               `mapstructure:"partition"`
	BasePort             int                  `mapstructure:"base_port"`
	BootPort             int                  `mapstructure:"boot_port"`
	ResponseListenerPort int                  `mapstructure:"response_listener_port"`
	DataDir              string               `mapstructure:"data_dir"`
	Force                bool                 `mapstructure:"force"`
	Env                  []string             `mapstructure:"env"`
	StartParams          map[string]any       `mapstructure:"start_params"`
	ResumeParams         map[string]any       `mapstructure:"resume_params"`
	Aggregator           fragments.Aggregator `mapstructure:"aggregator"`
}

// flagKeys maps every flag to its viper key.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
	"partition":  "partition",
	"base-port":  "base_port",
	"boot-port":  "boot_port",
	"force":      "force",
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	defaults := compiler.DefaultOptions()
	v.SetDefault("aggregator", map[string]any{
		"app":            defaults.Aggregator.App,
		"request_module": defaults.Aggregator.RequestModule,
		"fragment_input": defaults.Aggregator.FragmentInput,
	})
	v.SetDefault("response_listener_port", defaults.Commands.ResponseListenerPort)
	v.SetDefault("data_dir", defaults.Commands.DataDir)

	var cfg *app.Config
	var optionsPath string

	cmd := &cobra.Command{
		Use:   "daqconf [flags] DESCRIPTION_PATH OUTPUT_DIR",
		Short: "Compile a DAQ deployment description into run-control configuration",
		Long: `daqconf - A compiler for DAQ run-control configuration.

DESCRIPTION_PATH is a .hcl, .yaml or .yml file, or a directory of them.
OUTPUT_DIR receives boot.json, one file per system command, and the
per-application command files.

Every flag can also be set with a DAQCONF_ environment variable, for example
DAQCONF_PARTITION or DAQCONF_BASE_PORT.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			if len(positional) == 0 {
				slog.Debug("No description path provided, printing usage and exiting.")
				return cmd.Help()
			}
			if len(positional) != 2 {
				return usageError("expected DESCRIPTION_PATH and OUTPUT_DIR, got %d argument(s)", len(positional))
			}

			if optionsPath != "" {
				v.SetConfigFile(optionsPath)
				if err := v.ReadInConfig(); err != nil {
					return usageError("failed to read options file %s: %v", optionsPath, err)
				}
				slog.Debug("Options file loaded.", "path", optionsPath)
			}

			var err error
			cfg, err = buildConfig(v, positional[0], positional[1])
			return err
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	flags.String("partition", "global", "Partition name exported to every application as DAQ_PARTITION.")
	flags.Int("base-port", defaults.Network.BasePort, "First port handed out to network connections.")
	flags.Int("boot-port", defaults.Commands.BootBasePort, "Command port of the first application.")
	flags.Bool("force", false, "Replace an existing output directory.")
	flags.StringVar(&optionsPath, "options", "", "Path to an options file (YAML, TOML or JSON).")

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, false, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if cfg == nil {
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "description", cfg.DescriptionPath, "output", cfg.OutputDir)
	return cfg, false, nil
}

// buildConfig turns the layered settings into a validated app.Config.
func buildConfig(v *viper.Viper, descriptionPath, outputDir string) (*app.Config, error) {
	var opts options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, usageError("invalid options: %v", err)
	}

	logLevel := strings.ToLower(opts.LogLevel)
	logFormat := strings.ToLower(opts.LogFormat)

	compile := compiler.DefaultOptions()
	compile.Aggregator = opts.Aggregator
	compile.Network.BasePort = opts.BasePort
	compile.Commands.Partition = opts.Partition
	compile.Commands.BootBasePort = opts.BootPort
	compile.Commands.ResponseListenerPort = opts.ResponseListenerPort
	compile.Commands.DataDir = opts.DataDir
	env, err := parseEnv(opts.Env)
	if err != nil {
		return nil, err
	}
	compile.Commands.Env = env

	if opts.StartParams != nil {
		val, err := config.ToValue(opts.StartParams)
		if err != nil {
			return nil, usageError("invalid start_params: %v", err)
		}
		compile.Commands.StartParams = val
	}
	if opts.ResumeParams != nil {
		val, err := config.ToValue(opts.ResumeParams)
		if err != nil {
			return nil, usageError("invalid resume_params: %v", err)
		}
		compile.Commands.ResumeParams = val
	}

	cfg, err := app.NewConfig(app.Config{
		DescriptionPath: descriptionPath,
		OutputDir:       outputDir,
		LogLevel:        logLevel,
		LogFormat:       logFormat,
		Force:           opts.Force,
		Compile:         compile,
	})
	if err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}

func parseEnv(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(entries))
	for _, e := range entries {
		k, val, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			return nil, usageError("invalid env entry %q: expected KEY=VALUE", e)
		}
		env[k] = val
	}
	return env, nil
}
