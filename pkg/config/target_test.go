package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveImplicitSingleTarget(t *testing.T) {
	assert := assert.New(t)

	set, err := Resolve(RawConfig{Root: Section{"host": "localhost"}})
	require.NoError(t, err)

	require.Equal(t, 1, len(set.Targets))
	target := set.Targets[0]
	assert.Equal("", target.Section)
	assert.Equal("localhost", target.Host)
	assert.Equal("", target.User)
	assert.Equal("", target.Password)
	assert.Equal("information_schema", target.DB)
	assert.Equal(3306, target.Port)
	assert.Equal(30, target.ConnectionTimeout)
	assert.Equal("", target.Alias)
	assert.Empty(set.Invalid)
}

func TestResolveImplicitTargetMissingHost(t *testing.T) {
	_, err := Resolve(RawConfig{Root: Section{"user": "stats"}})
	assert.Error(t, err)
}

func TestResolveSectionRootDefaultChain(t *testing.T) {
	assert := assert.New(t)

	raw := RawConfig{
		Root: Section{"user": "a", "password": "b"},
		Sections: []NamedSection{
			{Name: "s1", Values: Section{"host": "h1"}},
			{Name: "s2", Values: Section{"host": "h2", "db": "prod"}},
		},
	}
	set, err := Resolve(raw)
	require.NoError(t, err)
	require.Equal(t, 2, len(set.Targets))

	s1 := set.Targets[0]
	assert.Equal("s1", s1.Section)
	assert.Equal("h1", s1.Host)
	assert.Equal("a", s1.User)
	assert.Equal("b", s1.Password)
	assert.Equal("information_schema", s1.DB)
	assert.Equal(3306, s1.Port)
	assert.Equal(30, s1.ConnectionTimeout)

	s2 := set.Targets[1]
	assert.Equal("s2", s2.Section)
	assert.Equal("h2", s2.Host)
	assert.Equal("a", s2.User)
	assert.Equal("b", s2.Password)
	assert.Equal("prod", s2.DB)
	assert.Equal(3306, s2.Port)
	assert.Equal(30, s2.ConnectionTimeout)
}

func TestResolveSectionOverridesRoot(t *testing.T) {
	assert := assert.New(t)

	raw := RawConfig{
		Root: Section{"host": "shared", "port": 3307, "connection_timeout": 5, "user": "root-user"},
		Sections: []NamedSection{
			{Name: "s1", Values: Section{"port": 3308, "user": "own-user", "alias": "primary"}},
		},
	}
	set, err := Resolve(raw)
	require.NoError(t, err)
	require.Equal(t, 1, len(set.Targets))

	target := set.Targets[0]
	assert.Equal("shared", target.Host)
	assert.Equal(3308, target.Port)
	assert.Equal(5, target.ConnectionTimeout)
	assert.Equal("own-user", target.User)
	assert.Equal("primary", target.Alias)
}

func TestResolveSkipsSectionWithoutHost(t *testing.T) {
	assert := assert.New(t)

	raw := RawConfig{
		Root: Section{"user": "a"},
		Sections: []NamedSection{
			{Name: "good", Values: Section{"host": "h1"}},
			{Name: "broken", Values: Section{"user": "b"}},
			{Name: "also-good", Values: Section{"host": "h2"}},
		},
	}
	set, err := Resolve(raw)
	require.NoError(t, err)

	require.Equal(t, 2, len(set.Targets))
	assert.Equal("good", set.Targets[0].Section)
	assert.Equal("also-good", set.Targets[1].Section)

	require.Equal(t, 1, len(set.Invalid))
	assert.Equal("broken", set.Invalid[0].Section)
	assert.Contains(set.Invalid[0].Error(), "broken")
}

func TestResolveUnrecognizedKeysIgnored(t *testing.T) {
	raw := RawConfig{
		Root: Section{"host": "localhost", "ssl": true, "future-knob": "x"},
	}
	set, err := Resolve(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost", set.Targets[0].Host)
}

func TestResolveWeaklyTypedValues(t *testing.T) {
	assert := assert.New(t)

	// ini-style configs carry numbers as strings; both forms must work.
	raw := RawConfig{
		Root: Section{"host": "localhost", "port": "3310", "connection_timeout": int64(12)},
	}
	set, err := Resolve(raw)
	require.NoError(t, err)
	assert.Equal(3310, set.Targets[0].Port)
	assert.Equal(12, set.Targets[0].ConnectionTimeout)
}

func TestResolveBadValueSkipsSection(t *testing.T) {
	raw := RawConfig{
		Root: Section{},
		Sections: []NamedSection{
			{Name: "s1", Values: Section{"host": "h1", "port": "not-a-number"}},
		},
	}
	set, err := Resolve(raw)
	require.NoError(t, err)
	assert.Empty(t, set.Targets)
	assert.Equal(t, 1, len(set.Invalid))
}
