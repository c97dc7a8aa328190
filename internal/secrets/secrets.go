// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Known key files: anthropic-api-key, aws-access-key-id, aws-secret-access-key, aws-region.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/cardpress/internal/logging"
)

// Known key file names.
const (
	KeyAnthropic    = "anthropic-api-key"
	KeyAWSAccessKey = "aws-access-key-id"
	KeyAWSSecretKey = "aws-secret-access-key"
	KeyAWSRegion    = "aws-region"
)

// envNames maps key files to the environment variables the SDKs read.
var envNames = map[string]string{
	KeyAnthropic:    "ANTHROPIC_API_KEY",
	KeyAWSAccessKey: "AWS_ACCESS_KEY_ID",
	KeyAWSSecretKey: "AWS_SECRET_ACCESS_KEY",
	KeyAWSRegion:    "AWS_REGION",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	logger := logging.GetLogger("secrets")
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
			logger.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Export copies known secrets into their environment variables, so SDK
// credential chains find them. Variables that are already set win. It
// returns the names of the variables it set, sorted.
func Export(secrets map[string]string) ([]string, error) {
	var set []string
	for key, env := range envNames {
		v, ok := secrets[key]
		if !ok {
			continue
		}
		if _, present := os.LookupEnv(env); present {
			continue
		}
		if err := os.Setenv(env, v); err != nil {
			return set, fmt.Errorf("setting %s: %w", env, err)
		}
		set = append(set, env)
	}
	sort.Strings(set)
	return set, nil
}
