// Package config resolves replictl's connection settings from flags,
// environment variables, and an optional config file, and validates that the
// requested action has the credentials it needs before any client is built.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/quorumstor/replictl/internal/api"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// REPLICTL_SRC_PASSWORD for the src.password key.
const EnvPrefix = "REPLICTL"

// ClusterConn holds the connection settings for one cluster. Either a
// user/password pair or an access token authenticates a side.
type ClusterConn struct {
	Host     string
	User     string
	Password string
	Token    string
}

// Configured reports whether this side has enough settings to attempt a
// connection.
func (c ClusterConn) Configured() bool {
	return c.Host != "" && (c.User != "" || c.Token != "")
}

// Settings is the resolved configuration for one invocation.
type Settings struct {
	Source   ClusterConn
	Dest     ClusterConn
	Port     int
	Insecure bool
}

// Init wires a viper instance to the replictl environment and config file
// conventions. Flags are bound by the command layer; precedence is
// flag > env > config file > default.
func Init(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault("port", api.DefaultPort)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil // no home directory, no config file
		}
		v.AddConfigPath(home + "/.config/replictl")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil // config file is optional unless named explicitly
		}
		if cfgFile == "" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load builds Settings from a wired viper instance.
func Load(v *viper.Viper) *Settings {
	return &Settings{
		Source: ClusterConn{
			Host:     v.GetString("src.host"),
			User:     v.GetString("src.user"),
			Password: v.GetString("src.password"),
			Token:    v.GetString("src.token"),
		},
		Dest: ClusterConn{
			Host:     v.GetString("dst.host"),
			User:     v.GetString("dst.user"),
			Password: v.GetString("dst.password"),
			Token:    v.GetString("dst.token"),
		},
		Port:     v.GetInt("port"),
		Insecure: v.GetBool("insecure"),
	}
}

// ConfigError is a fatal settings problem: an action invoked without the
// credentials it needs. Like the orchestration layer's construction-time
// errors, it is raised before any client is built or mutating call issued.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// ValidateAction checks that the action's required sides are configured.
// Violations are ConfigErrors and abort the run before any client is
// constructed.
func ValidateAction(action string, s *Settings) error {
	switch action {
	case "summary", "create":
		if !s.Source.Configured() {
			return configErrorf("--src-host and --src-user are required for %q", action)
		}
	}
	switch action {
	case "create", "accept":
		if !s.Dest.Configured() {
			return configErrorf("--dst-host and --dst-user are required for %q", action)
		}
	}
	if action == "clean" && !s.Source.Configured() && !s.Dest.Configured() {
		return configErrorf("%q requires source or destination credentials", action)
	}
	return nil
}

// PromptPassword reads a password from the terminal without echo, the
// fallback when a configured side has neither password nor token.
func PromptPassword(user, host string) (string, error) {
	fmt.Fprintf(os.Stderr, "Enter password for %s@%s: ", user, host)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
