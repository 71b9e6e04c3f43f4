package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cerfical/resolve/internal/log"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defComment = "#"

func Load(args []string) *Config {
	progName := getProgramName(args)

	flags := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Printf("Usage:\n")
		fmt.Printf("  %v [options] <input>...\n\n", progName)
		fmt.Printf("Options:\n")
		flags.PrintDefaults()
	}
	if err := parseFlags(flags, args); err != nil {
		printErrorAndExit(flags, err)
	}

	rawConfig, err := parseRawConfig(flags)
	if err != nil {
		printErrorAndExit(flags, err)
	}

	config := rawConfig.ToConfig()
	config.Inputs = flags.Args()

	config.Version, _ = flags.GetBool("version")

	// Verbosity flags take precedence over the level from a configuration file
	if vv, _ := flags.GetBool("very-verbose"); vv {
		config.Log.Level = log.Debug
	} else if v, _ := flags.GetCount("verbose"); v > 0 {
		config.Log.Level = verbosityLevel(v)
	}

	if !config.Version && len(config.Inputs) == 0 {
		printErrorAndExit(flags, errors.New("at least one input path is required"))
	}
	return config
}

func printErrorAndExit(f *pflag.FlagSet, err error) {
	fmt.Printf("Error: %v\n\n", err)
	f.Usage()
	os.Exit(1)
}

func parseRawConfig(f *pflag.FlagSet) (*rawConfig, error) {
	v := viper.New()

	// Bind command-line flags to their corresponding values from config file
	configNames := map[string]string{
		"comment":    "comment-string",
		"backup":     "backup",
		"recursive":  "recursive",
		"dns.server": "dns-server",
	}
	for name, flagName := range configNames {
		if err := v.BindPFlag(name, f.Lookup(flagName)); err != nil {
			panic(fmt.Errorf("bind flag: %w", err))
		}
	}
	v.SetDefault("log.level", defLogLevel.String())

	v.SetConfigFile(f.Lookup("config-file").Value.String())
	if err := v.ReadInConfig(); err != nil {
		// Make the configuration file optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
	}

	options := []viper.DecoderConfigOption{
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
		)),

		func(c *mapstructure.DecoderConfig) {
			c.IgnoreUntaggedFields = true
		},
	}

	var config rawConfig
	if err := v.UnmarshalExact(&config, options...); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return &config, nil
}

func parseFlags(f *pflag.FlagSet, args []string) error {
	// Flags shared with options from a configuration file
	f.StringP("comment-string", "c", defComment, "``comment text that precedes a resolve directive")
	f.BoolP("backup", "b", false, "``back up each file before editing")
	f.BoolP("recursive", "r", false, "``operate on directories recursively")
	f.String("dns-server", "", "``address of a DNS server to query instead of the system resolver")

	f.CountP("verbose", "v", "``increase logging verbosity: -v for info, -vv for debug")
	f.Bool("very-verbose", false, "``set debug verbosity, equivalent to -vv")
	f.Bool("version", false, "``display version and exit")

	help := f.Bool("help", false, "``display help message")
	f.String("config-file", "", "``configuration file")

	if err := f.Parse(args[1:]); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *help {
		f.Usage()
		os.Exit(2)
	}
	return nil
}

func verbosityLevel(v int) log.Level {
	if v == 1 {
		return log.Info
	}
	return log.Debug
}

func getProgramName(args []string) string {
	progPath := args[0]
	return strings.TrimSuffix(
		filepath.Base(progPath),
		filepath.Ext(progPath),
	)
}

var defLogLevel = log.Warn

type Config struct {
	// Inputs are files or directories to process, in command-line order.
	Inputs []string

	// Comment is the literal text that introduces a resolve directive.
	Comment string

	Backup    bool
	Recursive bool

	// DNSServer optionally names a DNS server to query instead of the system resolver.
	DNSServer string

	Version bool

	Log struct {
		Level log.Level
	}
}

type rawConfig struct {
	Comment string `mapstructure:"comment"`

	Backup    bool `mapstructure:"backup"`
	Recursive bool `mapstructure:"recursive"`

	DNS struct {
		Server string `mapstructure:"server"`
	} `mapstructure:"dns"`

	Log struct {
		Level logLevelValue `mapstructure:"level"`
	} `mapstructure:"log"`
}

func (c *rawConfig) ToConfig() *Config {
	var config Config

	config.Comment = c.Comment
	config.Backup = c.Backup
	config.Recursive = c.Recursive
	config.DNSServer = c.DNS.Server
	config.Log.Level = log.Level(c.Log.Level)

	return &config
}

type logLevelValue log.Level

func (v *logLevelValue) Set(s string) error {
	return (*log.Level)(v).UnmarshalText([]byte(s))
}

func (v *logLevelValue) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

func (v *logLevelValue) String() string {
	return (*log.Level)(v).String()
}

func (v *logLevelValue) Type() string {
	return ""
}
