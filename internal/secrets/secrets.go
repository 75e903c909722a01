// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text
// files, with an environment fallback. Each file in the directory represents one
// secret: the filename is the key name and the file contents (trimmed) are the
// value.
//
// Supported key files: pubmed-api-key, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Key names for the two credentials the pipeline needs.
const (
	KeyPubMed = "pubmed-api-key"
	KeyOpenAI = "openai-api-key"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; gaps are filled from the
// environment (a key file "pubmed-api-key" maps to PUBMED_API_KEY), with a .env
// file in the working directory loaded first when present. Unreadable files
// produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	secrets := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

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
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	// .env values become process environment; real environment wins.
	godotenv.Load()

	for _, key := range []string{KeyPubMed, KeyOpenAI} {
		if secrets[key] != "" {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(EnvName(key))); v != "" {
			secrets[key] = v
		}
	}

	return secrets, nil
}

// EnvName converts a secret file name to its environment-variable form
// (e.g. "pubmed-api-key" → "PUBMED_API_KEY").
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Require checks that every named key is present and non-empty. The returned
// error names all missing keys so the user can fix them in one pass.
func Require(secrets map[string]string, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if secrets[key] == "" {
			missing = append(missing, fmt.Sprintf("%s (file .secrets/%s or env %s)", key, key, EnvName(key)))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required secrets: %s", strings.Join(missing, ", "))
	}
	return nil
}
