// Package config loads the settings of the polygon command from flags, STREAM_* environment
// variables (optionally read from a .env file) and an optional YAML file, in that order of
// precedence.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/askiada/go-stream/internal/logging"
	"github.com/askiada/go-stream/pkg/pipeline"
	"github.com/askiada/go-stream/pkg/pipeline/model"
)

const envPrefix = "STREAM"

// Config holds everything the polygon command can be told.
type Config struct {
	Strategy         string         `mapstructure:"strategy"`
	CompileThreshold int            `mapstructure:"compile_threshold"`
	Skip             int            `mapstructure:"skip"`
	Limit            int            `mapstructure:"limit"`
	Seed             int64          `mapstructure:"seed"`
	Reduce           bool           `mapstructure:"reduce"`
	Compare          bool           `mapstructure:"compare"`
	Draw             string         `mapstructure:"draw"`
	Log              logging.Config `mapstructure:"log"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	d := pipeline.DefaultConfig()

	return Config{
		Strategy:         string(model.StrategyCompile),
		CompileThreshold: d.CompileThreshold,
		Skip:             1000,
		Limit:            200,
		Seed:             1,
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
	}
}

// Flags registers the command line flags on fs.
func Flags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.StringP("config", "c", "", "Path to a YAML config file.")
	fs.String("env-file", "", "Path to a .env file with STREAM_* variables.")
	fs.String("strategy", d.Strategy, "Execution strategy: interpret, compile or auto.")
	fs.Int("compile-threshold", d.CompileThreshold, "Chain length above which the auto strategy compiles.")
	fs.Int("skip", d.Skip, "Number of output elements to skip.")
	fs.Int("limit", d.Limit, "Maximum number of output elements, negative for no limit.")
	fs.Int64("seed", d.Seed, "Seed of the random expansions.")
	fs.Bool("reduce", d.Reduce, "Print the sum of the output instead of every element.")
	fs.Bool("compare", d.Compare, "Run both strategies and check they agree.")
	fs.String("draw", d.Draw, "Write the measured chain as a DOT graph to this file.")
	fs.String("log-level", d.Log.Level, "Log level.")
	fs.String("log-format", d.Log.Format, "Log format: console or json.")
}

var flagKeys = map[string]string{
	"strategy":          "strategy",
	"compile-threshold": "compile_threshold",
	"skip":              "skip",
	"limit":             "limit",
	"seed":              "seed",
	"reduce":            "reduce",
	"compare":           "compare",
	"draw":              "draw",
	"log-level":         "log.level",
	"log-format":        "log.format",
}

// Load resolves the configuration from the parsed flag set fs.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("compile_threshold", d.CompileThreshold)
	v.SetDefault("skip", d.Skip)
	v.SetDefault("limit", d.Limit)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("reduce", d.Reduce)
	v.SetDefault("compare", d.Compare)
	v.SetDefault("draw", d.Draw)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	if flag := fs.Lookup("env-file"); flag != nil && flag.Value.String() != "" {
		// Variables already set in the environment win over the file.
		err := godotenv.Load(flag.Value.String())
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to load env file")
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		err := v.BindPFlag(key, flag)
		if err != nil {
			return Config{}, errors.Wrapf(err, "unable to bind flag %s", name)
		}
	}

	if flag := fs.Lookup("config"); flag != nil && flag.Value.String() != "" {
		v.SetConfigFile(flag.Value.String())
		err := v.ReadInConfig()
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to read config file")
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to decode config")
	}

	return cfg, cfg.Validate()
}

// Validate checks the values the pipeline package would reject.
func (c Config) Validate() error {
	err := pipeline.Defaults{
		Strategy:         model.Strategy(c.Strategy),
		CompileThreshold: c.CompileThreshold,
	}.Validate()
	if err != nil {
		return err
	}
	if c.Skip < 0 {
		return errors.Wrapf(pipeline.ErrNegativeSkip, "%d", c.Skip)
	}

	return c.Log.Validate()
}
