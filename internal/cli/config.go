package cli

import (
	"github.com/xxxsen/retronav/internal/config"
)

var defaultKeyList = []string{
	"./config.json",
	"/etc/retronav/config.json",
}

// LoadConfig loads the first readable configuration, preferring the
// explicitly given path. The resolved path is returned so favorites can be
// written back.
func LoadConfig(explicit string) (*config.Config, string, error) {
	keyLists := append([]string{explicit}, defaultKeyList...)
	return config.LoadFirst(keyLists...)
}
