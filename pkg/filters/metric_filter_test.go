package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeepNoRules(t *testing.T) {
	rules := NewRules(nil, nil)
	assert.True(t, rules.Empty())
	for _, name := range []string{"table_rows", "data_length", "index_length", "data_free"} {
		assert.True(t, rules.Keep(name), name)
	}
}

func TestKeepBlacklistOnly(t *testing.T) {
	assert := assert.New(t)

	rules := NewRules(nil, []string{"data_free"})
	assert.True(rules.Keep("table_rows"))
	assert.True(rules.Keep("data_length"))
	assert.False(rules.Keep("data_free"))
}

func TestKeepWhitelistOnly(t *testing.T) {
	assert := assert.New(t)

	rules := NewRules([]string{"table_rows"}, nil)
	assert.True(rules.Keep("table_rows"))
	assert.False(rules.Keep("data_length"))
	assert.False(rules.Keep("index_length"))
	assert.False(rules.Keep("data_free"))
}

func TestWhitelistWinsOverBlacklist(t *testing.T) {
	assert := assert.New(t)

	// The blacklist must be ignored entirely while a whitelist is set;
	// applying both would silently drop table_rows here.
	rules := NewRules([]string{"table_rows"}, []string{"table_rows", "data_free"})
	assert.True(rules.Keep("table_rows"))
	assert.False(rules.Keep("data_free"))
	assert.False(rules.Keep("data_length"))
}
