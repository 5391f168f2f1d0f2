// SPDX-License-Identifier: Apache-2.0

package anonymizer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadConfigFile reads the yaml rules file on the given path.
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a yaml rules document. Unknown keys are rejected so
// typos in field names don't silently disable a rule.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// an empty document leaves the config empty
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parsing rules: %w: %w", err, ErrConfiguration)
	}
	return cfg, nil
}
