package utils

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Hostname returns the collector identity used in metric paths: the
// override when configured, otherwise the first label of os.Hostname so a
// FQDN does not inject extra dots into the path.
func Hostname(override string) string {
	if override != "" {
		return override
	}
	name, err := os.Hostname()
	if err != nil {
		log.Warnf("[utils] os.Hostname failed, falling back to localhost: %v", err)
		return "localhost"
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}
