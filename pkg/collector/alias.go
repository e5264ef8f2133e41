package collector

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mysqlsizes/mysqlsizes/pkg/config"
)

var aliasReplacer = strings.NewReplacer(":", "_", ".", "_", "/", "_", " ", "_")

// Sanitize maps characters that would split or corrupt a metric path to
// underscores. Everything else, case included, passes through, so the
// function is idempotent.
func Sanitize(s string) string {
	return aliasReplacer.Replace(s)
}

// AliasFor returns the namespace segment for one target. total is the
// number of resolved targets overall: a lone target without an explicit
// alias gets the empty segment and therefore a flat namespace.
func AliasFor(t config.Target, total int) string {
	if t.Alias != "" {
		return Sanitize(t.Alias)
	}
	if total == 1 {
		return ""
	}
	return Sanitize(t.Section)
}

// Assign computes the alias for every target, index-aligned with targets.
// Two sections sanitizing to the same alias is a configuration mistake;
// both keep publishing under the shared segment, so warn loudly instead
// of dropping either.
func Assign(targets []config.Target) []string {
	aliases := make([]string, len(targets))
	owner := make(map[string]string, len(targets))
	for i, t := range targets {
		alias := AliasFor(t, len(targets))
		if prev, ok := owner[alias]; ok && alias != "" {
			log.Warnf("[collector] alias %q of section %q collides with section %q, metrics will overlap", alias, t.Section, prev)
		} else {
			owner[alias] = t.Section
		}
		aliases[i] = alias
	}
	return aliases
}
