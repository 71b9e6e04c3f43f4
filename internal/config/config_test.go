package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cerfical/resolve/internal/config"
	"github.com/cerfical/resolve/internal/log"
	"github.com/stretchr/testify/suite"
)

func TestConfig(t *testing.T) {
	suite.Run(t, new(ConfigTest))
}

type ConfigTest struct {
	suite.Suite
}

func (t *ConfigTest) TestLoad() {
	flagTests := map[string]struct {
		args []string
		want func(*config.Config)
	}{
		"comment-string": {
			args: []string{"--comment-string", "//"},
			want: func(c *config.Config) {
				t.Equal("//", c.Comment)
			},
		},

		"backup": {
			args: []string{"--backup"},
			want: func(c *config.Config) {
				t.True(c.Backup)
			},
		},

		"recursive": {
			args: []string{"--recursive"},
			want: func(c *config.Config) {
				t.True(c.Recursive)
			},
		},

		"dns-server": {
			args: []string{"--dns-server", "127.0.0.53:53"},
			want: func(c *config.Config) {
				t.Equal("127.0.0.53:53", c.DNSServer)
			},
		},

		"verbose": {
			args: []string{"-v"},
			want: func(c *config.Config) {
				t.Equal(log.Info, c.Log.Level)
			},
		},

		"very-verbose": {
			args: []string{"-vv"},
			want: func(c *config.Config) {
				t.Equal(log.Debug, c.Log.Level)
			},
		},

		"very-verbose long form": {
			args: []string{"--very-verbose"},
			want: func(c *config.Config) {
				t.Equal(log.Debug, c.Log.Level)
			},
		},

		"version": {
			args: []string{"--version"},
			want: func(c *config.Config) {
				t.True(c.Version)
			},
		},
	}

	for flagName, test := range flagTests {
		t.Run(fmt.Sprintf("supports %s flag", flagName), func() {
			args := append([]string{""}, test.args...)
			args = append(args, "some-input")

			config := config.Load(args)
			test.want(config)
		})
	}

	t.Run("uses sensible defaults", func() {
		config := config.Load([]string{"", "some-input"})

		t.Equal("#", config.Comment)
		t.False(config.Backup)
		t.False(config.Recursive)
		t.Equal("", config.DNSServer)
		t.Equal(log.Warn, config.Log.Level)
	})

	t.Run("preserves the order of input paths", func() {
		config := config.Load([]string{"", "first", "second", "third"})
		t.Equal([]string{"first", "second", "third"}, config.Inputs)
	})

	t.Run("reads options from a configuration file", func() {
		configFile := filepath.Join(t.T().TempDir(), "resolve.yaml")
		configText := "comment: ';'\nbackup: true\nlog:\n  level: debug\ndns:\n  server: 127.0.0.53\n"
		t.Require().NoError(os.WriteFile(configFile, []byte(configText), 0o600))

		config := config.Load([]string{"", "--config-file", configFile, "some-input"})

		t.Equal(";", config.Comment)
		t.True(config.Backup)
		t.Equal("127.0.0.53", config.DNSServer)
		t.Equal(log.Debug, config.Log.Level)
	})

	t.Run("flags take precedence over the configuration file", func() {
		configFile := filepath.Join(t.T().TempDir(), "resolve.yaml")
		t.Require().NoError(os.WriteFile(configFile, []byte("comment: ';'\n"), 0o600))

		config := config.Load([]string{"", "--config-file", configFile, "--comment-string", "//", "some-input"})
		t.Equal("//", config.Comment)
	})
}
