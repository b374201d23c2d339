// Package config handles the parsing and validation of application configuration
// from command-line arguments and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/woozymasta/gamewatch/internal/logger"
	"github.com/woozymasta/gamewatch/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Reconcile Reconcile     `group:"Reconcile Options" namespace:"reconcile" env-namespace:"GAMEWATCH_RECONCILE"`
	Snapshot  Snapshot      `group:"Snapshot Options" namespace:"snapshot" env-namespace:"GAMEWATCH_SNAPSHOT"`
	Discord   Discord       `group:"Discord Options" namespace:"discord" env-namespace:"GAMEWATCH_DISCORD"`
	Validator Validator     `group:"Validator Options" env-namespace:"GAMEWATCH"`
	Server    Server        `group:"Server Options" env-namespace:"GAMEWATCH"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"GAMEWATCH_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Reconcile holds the reconciliation loop timing.
type Reconcile struct {
	// betteralign:ignore

	Interval time.Duration `short:"i" long:"interval" env:"INTERVAL" description:"Snapshot refresh interval" default:"60s"`
	Tick     time.Duration `long:"tick" env:"TICK" description:"Idle tick used to check whether the interval elapsed" default:"1s"`
	TTL      time.Duration `long:"ttl" env:"TTL" description:"Game is considered ended after this long without a sighting" default:"120s"`
}

// Snapshot holds the game list source configuration.
type Snapshot struct {
	// betteralign:ignore

	Command string        `short:"c" long:"command" env:"COMMAND" description:"Program printing the game list as JSON" default:"./devilutionx-gamelist"`
	Args    []string      `long:"arg" env:"ARGS" env-delim:" " description:"Argument passed to the snapshot program (repeatable)"`
	Timeout time.Duration `long:"timeout" env:"TIMEOUT" description:"Snapshot program timeout, 0 disables it" default:"0s"`
	Check   bool          `long:"check" description:"Fetch one snapshot, report validation verdicts and exit"`
	Fake    int           `long:"fake" hidden:"true"`
}

// Discord holds the notification channel configuration.
type Discord struct {
	// betteralign:ignore

	Token     string        `short:"t" long:"token" env:"TOKEN" description:"Discord bot token"`
	TokenFile string        `long:"token-file" env:"TOKEN_FILE" description:"File holding the Discord bot token" default:"./discord_bot_token"`
	ChannelID string        `long:"channel" env:"CHANNEL" description:"Discord channel ID for game messages"`
	APIURL    string        `long:"api-url" env:"API_URL" description:"Discord REST API base URL" default:"https://discord.com/api/v10"`
	Timeout   time.Duration `long:"timeout" env:"TIMEOUT" description:"Discord request timeout" default:"10s"`
	Rate      float64       `long:"rate" env:"RATE" description:"Discord requests per second, 0 disables pacing" default:"4"`
	Burst     int           `long:"burst" env:"BURST" description:"Discord request burst" default:"4"`
}

// Validator holds content policy configuration.
type Validator struct {
	// betteralign:ignore

	BanList string `short:"b" long:"ban-list" env:"BAN_LIST" description:"File with banned words, one per line" default:"./banlist"`
}

// Server holds the read-only query API configuration.
type Server struct {
	// betteralign:ignore

	Address         string        `short:"l" long:"listen" env:"LISTEN_ADDRESS" description:"Query API listen address, empty disables it"`
	TrustProxy      bool          `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
	RateLimitCount  int           `long:"rate-limit-count" env:"RATE_LIMIT_COUNT" description:"Query API per IP limit: requests count" default:"30"`
	RateLimitWindow time.Duration `long:"rate-limit-window" env:"RATE_LIMIT_WINDOW" description:"Query API per IP limit: window duration" default:"1m"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	return cfg
}

// ParseArgs parses args and validates the result without exiting.
func ParseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Version {
		return &cfg, nil
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Reconcile.Tick <= 0 || c.Reconcile.Interval <= 0 || c.Reconcile.TTL <= 0 {
		return errors.New("reconcile interval, tick and ttl must be positive")
	}
	if c.Reconcile.Tick > c.Reconcile.Interval {
		return errors.New("reconcile tick must not exceed the interval")
	}

	// Check mode never talks to Discord
	if c.Snapshot.Check {
		return nil
	}

	if c.Discord.Token == "" && c.Discord.TokenFile != "" {
		token, err := readToken(c.Discord.TokenFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read discord token file: %w", err)
		}
		c.Discord.Token = token
	}

	if c.Discord.Token == "" {
		return errors.New("required flag `--discord-token' or environment variable `GAMEWATCH_DISCORD_TOKEN' was not specified")
	}
	if c.Discord.ChannelID == "" {
		return errors.New("required flag `--discord-channel' or environment variable `GAMEWATCH_DISCORD_CHANNEL' was not specified")
	}

	return nil
}

// readToken returns the first line of the token file.
func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}
