package filters

import (
	log "github.com/sirupsen/logrus"

	"github.com/mysqlsizes/mysqlsizes/pkg/core"
)

// Rules filters points by bare metric name, never by full path. A
// non-empty whitelist wins outright: while one is configured the
// blacklist is ignored entirely. Applying both at once is the classic way
// to lose metrics silently, so the precedence lives in exactly one place.
type Rules struct {
	whitelist map[string]struct{}
	blacklist map[string]struct{}
}

// NewRules builds the rule set. Names that no metric ever carries are a
// sign of a typo in the config, so they are flagged but kept.
func NewRules(whitelist, blacklist []string) Rules {
	r := Rules{
		whitelist: toSet(whitelist),
		blacklist: toSet(blacklist),
	}
	warnUnknown("metrics-whitelist", whitelist)
	warnUnknown("metrics-blacklist", blacklist)
	return r
}

// Keep reports whether a point with this metric name survives.
func (r Rules) Keep(name string) bool {
	if len(r.whitelist) > 0 {
		_, ok := r.whitelist[name]
		return ok
	}
	if _, ok := r.blacklist[name]; ok {
		return false
	}
	return true
}

// Empty reports whether no rule is configured at all.
func (r Rules) Empty() bool {
	return len(r.whitelist) == 0 && len(r.blacklist) == 0
}

func toSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func warnUnknown(source string, names []string) {
	known := toSet(core.MetricNames)
	for _, n := range names {
		if _, ok := known[n]; !ok {
			log.Warnf("[filters] %s entry %q matches no known metric name", source, n)
		}
	}
}
