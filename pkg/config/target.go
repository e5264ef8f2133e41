package config

import (
	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
)

// Built-in per-target defaults, applied after section and root values.
const (
	DefaultDB                = "information_schema"
	DefaultPort              = 3306
	DefaultConnectionTimeout = 30 // seconds
)

// recognizedKeys are the only section keys that resolve into a Target.
// Anything else is ignored so old binaries tolerate newer config files.
var recognizedKeys = []string{"host", "user", "password", "db", "port", "connection_timeout", "alias"}

// RawConfig is the layered key-value view of the config file: one root
// section of fallback values plus the named sections in declaration order.
type RawConfig struct {
	Root     Section
	Sections []NamedSection
}

// NamedSection is one [targets.<name>] block.
type NamedSection struct {
	Name   string
	Values Section
}

// Target is one fully resolved MySQL connection plus its namespace alias
// override. Resolve builds these once per configuration load and they are
// never mutated afterwards; a config reload replaces the whole set.
type Target struct {
	Section           string `mapstructure:"-"`
	Host              string `mapstructure:"host"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DB                string `mapstructure:"db"`
	Port              int    `mapstructure:"port"`
	ConnectionTimeout int    `mapstructure:"connection_timeout"`
	Alias             string `mapstructure:"alias"`
}

// TargetError records a section that could not be resolved.
type TargetError struct {
	Section string
	Err     error
}

func (e TargetError) Error() string {
	return "section \"" + e.Section + "\": " + e.Err.Error()
}

// TargetSet is the resolved target list in declaration order, plus the
// sections that failed resolution. Replaced wholesale on reload, read-only
// in between.
type TargetSet struct {
	Targets []Target
	Invalid []TargetError
}

// Resolve merges the layered configuration into concrete targets. With no
// named sections the root section must describe one complete target and a
// missing host there is fatal. With sections present, each one resolves
// independently as section value, then root value, then built-in default;
// a section with no resolvable host is skipped with a warning instead of
// failing the rest.
func Resolve(raw RawConfig) (*TargetSet, error) {
	if len(raw.Sections) == 0 {
		t, err := resolveSection("", raw.Root, nil)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return &TargetSet{Targets: []Target{t}}, nil
	}

	set := &TargetSet{}
	for _, s := range raw.Sections {
		t, err := resolveSection(s.Name, s.Values, raw.Root)
		if err != nil {
			log.Warnf("[config] skipping target section %q: %v", s.Name, err)
			set.Invalid = append(set.Invalid, TargetError{Section: s.Name, Err: err})
			continue
		}
		set.Targets = append(set.Targets, t)
	}
	return set, nil
}

// resolveSection produces one Target from a section with root fallback.
func resolveSection(name string, section, root Section) (Target, error) {
	t := Target{
		Section:           name,
		DB:                DefaultDB,
		Port:              DefaultPort,
		ConnectionTimeout: DefaultConnectionTimeout,
	}

	merged := make(map[string]interface{}, len(recognizedKeys))
	for _, k := range recognizedKeys {
		if v, ok := section[k]; ok {
			merged[k] = v
			continue
		}
		if v, ok := root[k]; ok {
			merged[k] = v
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &t,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return t, errors.Trace(err)
	}
	if err := decoder.Decode(merged); err != nil {
		return t, errors.Annotatef(err, "bad value in section %q", name)
	}

	if t.Host == "" {
		return t, errors.Errorf("no host configured and none inherited from the root section")
	}
	if t.Port <= 0 {
		return t, errors.Errorf("port %d out of range", t.Port)
	}
	if t.ConnectionTimeout <= 0 {
		return t, errors.Errorf("connection_timeout %d out of range", t.ConnectionTimeout)
	}
	return t, nil
}
