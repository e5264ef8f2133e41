package config

import (
	"flag"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"
	"github.com/juju/errors"

	"github.com/mysqlsizes/mysqlsizes/pkg/logutil"
)

// DefaultInterval is the number of seconds between collection cycles.
// Table sizes move slowly; the shipped example config raises this to 600.
const DefaultInterval = 60

var myJson = jsoniter.ConfigCompatibleWithStandardLibrary

// Section is one raw configuration block, keys still untyped. Values are
// coerced into Target fields during Resolve, so "3306" and 3306 both work.
type Section map[string]interface{}

// Config is the collector configuration.
type Config struct {
	*flag.FlagSet `json:"-" toml:"-"`

	// Interval is the number of seconds between collection cycles.
	Interval int `toml:"interval" json:"interval"`

	// Hostname overrides the collector identity used in the metric path.
	// Defaults to the first label of os.Hostname.
	Hostname string `toml:"hostname" json:"hostname"`

	// MetricsWhitelist and MetricsBlacklist filter points by bare metric
	// name before emission. A non-empty whitelist makes the blacklist moot.
	MetricsWhitelist []string `toml:"metrics-whitelist" json:"metrics-whitelist"`
	MetricsBlacklist []string `toml:"metrics-blacklist" json:"metrics-blacklist"`

	// Collect is the root connection section. On its own it describes the
	// single-host case; with [targets.*] sections present it only supplies
	// fallback values.
	Collect Section `toml:"collect" json:"collect"`

	// Targets holds the per-target override sections.
	Targets map[string]Section `toml:"targets" json:"targets"`

	Sink SinkConfig `toml:"sink" json:"sink"`

	// Log related configuration.
	Log logutil.LogConfig `toml:"log" json:"log"`

	HttpAddr string `toml:"http-addr" json:"http-addr"`

	ConfigFile string `toml:"-" json:"-"`
	Version    bool   `toml:"-" json:"-"`

	// targetOrder preserves the declaration order of [targets.*] sections
	// from the toml file. Resolution emits targets in this order.
	targetOrder []string
}

// SinkConfig selects and parameterizes the metric sink.
type SinkConfig struct {
	// Type is one of: graphite | console. Empty means console.
	Type string `toml:"type" json:"type"`
	// Address is the host:port of the graphite line receiver.
	Address string `toml:"address" json:"address"`
	// Timeout bounds the sink dial and each write. The value must be a
	// decimal number with a unit suffix ("ms", "s", "m"), such as "10s".
	Timeout string `toml:"timeout" json:"timeout"`
}

// NewConfig creates a new config.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.FlagSet = flag.NewFlagSet("mysqlsizes", flag.ContinueOnError)
	fs := cfg.FlagSet

	fs.BoolVar(&cfg.Version, "V", false, "print version and exit")
	fs.StringVar(&cfg.ConfigFile, "config", "", "path to config file")
	fs.StringVar(&cfg.Log.Level, "L", "info", "log level: debug, info, warn, error, fatal (default 'info')")
	fs.StringVar(&cfg.Log.File.Filename, "log-file", "", "log file path")
	fs.StringVar(&cfg.Log.Format, "log-format", "text", "log format")
	fs.StringVar(&cfg.HttpAddr, "http-addr", ":8080", "http-addr")
	return cfg
}

// ParseCmd parses flag definitions from argument list
func (c *Config) ParseCmd(arguments []string) error {
	err := c.FlagSet.Parse(arguments)
	if err != nil {
		return errors.Trace(err)
	}

	if len(c.FlagSet.Args()) != 0 {
		return errors.Errorf("'%s' is an invalid flag", c.FlagSet.Arg(0))
	}

	return nil
}

// ConfigFromFile loads config from file.
func (c *Config) ConfigFromFile(path string) error {
	if strings.HasSuffix(path, ".toml") {
		md, err := toml.DecodeFile(path, c)
		if err != nil {
			return errors.Trace(err)
		}
		c.targetOrder = targetOrderFromMeta(md)
	} else if strings.HasSuffix(path, ".json") {
		content, err := ioutil.ReadFile(path)
		if err != nil {
			return errors.Trace(err)
		}
		if err := myJson.Unmarshal(content, c); err != nil {
			return errors.Trace(err)
		}
	} else {
		return errors.Errorf("unrecognized path %s", path)
	}
	c.SetDefault()
	return nil
}

// NewConfigFromString parses toml content, for tests mostly.
func NewConfigFromString(configString string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.Decode(configString, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	cfg.targetOrder = targetOrderFromMeta(md)
	cfg.SetDefault()
	return cfg, nil
}

// targetOrderFromMeta recovers the file order of [targets.*] tables; toml
// maps alone would lose it, and the resolved target list must keep
// declaration order.
func targetOrderFromMeta(md toml.MetaData) []string {
	var order []string
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		parts := []string(key)
		if len(parts) >= 2 && parts[0] == "targets" && !seen[parts[1]] {
			seen[parts[1]] = true
			order = append(order, parts[1])
		}
	}
	return order
}

// SetDefault fills collector-wide defaults. Per-target defaults belong to
// Resolve, not here.
func (c *Config) SetDefault() {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.HttpAddr == "" {
		c.HttpAddr = ":8080"
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "console"
	}
	if c.Sink.Timeout == "" {
		c.Sink.Timeout = "10s"
	}
}

// Raw assembles the layered key-value view consumed by Resolve: the root
// section plus the named sections in declaration order.
func (c *Config) Raw() RawConfig {
	raw := RawConfig{Root: c.Collect}
	order := c.targetOrder
	if len(order) != len(c.Targets) {
		// json input or hand-built config: fall back to a stable order.
		order = make([]string, 0, len(c.Targets))
		for name := range c.Targets {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	for _, name := range order {
		raw.Sections = append(raw.Sections, NamedSection{Name: name, Values: c.Targets[name]})
	}
	return raw
}
