package core

import (
	"fmt"
	"hash/fnv"
)

// HashConfig fingerprints raw config file content so a rewrite of the
// file with identical content is not treated as a change.
func HashConfig(config string) string {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(config))
	return fmt.Sprint(hasher.Sum32())
}
