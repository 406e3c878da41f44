// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads collection API keys from a directory of plain-text
// files. Each file holds one secret: the filename is the key name and the
// trimmed contents are the value. Key files are named "<source>-api-key",
// for example harvard-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

const apiKeySuffix = "-api-key"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log logger.Logger) (map[string]string, error) {
	if log == nil {
		log = logger.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("Could not read secret", logger.String("name", name), logger.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply copies "<source>-api-key" secrets into the matching source
// configuration. A key already set in cfg wins. Applied source names are
// returned in no particular order.
func Apply(cfg *types.Config, secrets map[string]string) []string {
	var applied []string
	for name, value := range secrets {
		source, ok := strings.CutSuffix(name, apiKeySuffix)
		if !ok || source == "" {
			continue
		}
		if cfg.Sources == nil {
			cfg.Sources = make(map[string]types.SourceConfig)
		}
		sc, exists := cfg.Sources[source]
		if !exists {
			sc.Enabled = true
		}
		if sc.APIKey != "" {
			continue
		}
		sc.APIKey = value
		cfg.Sources[source] = sc
		applied = append(applied, source)
	}
	return applied
}
