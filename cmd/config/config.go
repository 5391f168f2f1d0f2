// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"path/filepath"

	"github.com/parmahealth/parma/pkg/anonymizer"
	"github.com/parmahealth/parma/pkg/otel"
	"github.com/parmahealth/parma/pkg/pipeline"
	"github.com/spf13/viper"
)

const (
	rulesFileKey     = "anonymizer.rules_file"
	envRulesFileKey  = "PARMA_ANONYMIZER_RULES_FILE"
	saltKey          = "anonymizer.salt"
	envSaltKey       = "PARMA_ANONYMIZER_SALT"
	yamlExt, ymlExt  = ".yaml", ".yml"
	defaultLogFormat = "console"
)

func Load() error {
	return LoadFile(viper.GetString("config"))
}

// LoadFile reads the .yaml or .env configuration file on input into viper.
// An empty file name loads nothing, leaving environment variables and flags.
func LoadFile(file string) error {
	if file == "" {
		return nil
	}
	ext := filepath.Ext(file)
	if ext == "" {
		return fmt.Errorf("config file %q has no extension, expected .yaml or .env", file)
	}
	viper.SetConfigFile(file)
	viper.SetConfigType(ext[1:])
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func isYAMLConfig() bool {
	switch filepath.Ext(viper.GetViper().ConfigFileUsed()) {
	case yamlExt, ymlExt:
		return true
	default:
		return false
	}
}

// ParsePipelineConfig builds the pipeline configuration from the loaded
// config file, the environment and the bound flags. Rules from a rules file
// replace the ones of the config file.
func ParsePipelineConfig() (*pipeline.Config, error) {
	var (
		cfg *pipeline.Config
		err error
	)
	if isYAMLConfig() {
		yamlCfg := YAMLConfig{}
		if err := viper.Unmarshal(&yamlCfg); err != nil {
			return nil, err
		}
		cfg, err = yamlCfg.toPipelineConfig()
	} else {
		cfg, err = envConfigToPipelineConfig()
	}
	if err != nil {
		return nil, err
	}

	rules, err := ParseRulesConfig()
	if err != nil {
		return nil, err
	}
	if rules != nil {
		cfg.Anonymizer.Rules = rules.Rules
		if rules.Salt != "" {
			cfg.Anonymizer.Salt = rules.Salt
		}
	}
	// an explicit salt wins over the one of the rules
	if salt := firstString(saltKey, envSaltKey); salt != "" {
		cfg.Anonymizer.Salt = salt
	}

	return cfg, nil
}

// ParseRulesConfig reads the rules file, if one is configured. It returns nil
// otherwise.
func ParseRulesConfig() (*anonymizer.Config, error) {
	file := RulesFile()
	if file == "" {
		return nil, nil
	}
	cfg, err := anonymizer.ReadConfigFile(file)
	if err != nil {
		return nil, fmt.Errorf("parsing anonymizer rules config: %w", err)
	}
	return cfg, nil
}

func RulesFile() string {
	return firstString(rulesFileKey, envRulesFileKey)
}

func ParseInstrumentationConfig() (*otel.Config, error) {
	if isYAMLConfig() {
		yamlCfg := YAMLConfig{}
		if err := viper.Unmarshal(&yamlCfg); err != nil {
			return nil, err
		}
		return yamlCfg.toOtelConfig()
	}
	return envToOtelConfig()
}

// LogLevel returns the configured log level, "info" when none is set.
func LogLevel() string {
	if level := firstString("log.level", "PARMA_LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}

func LogFormat() string {
	if format := firstString("log.format", "PARMA_LOG_FORMAT"); format != "" {
		return format
	}
	return defaultLogFormat
}

func firstString(keys ...string) string {
	for _, k := range keys {
		if v := viper.GetString(k); v != "" {
			return v
		}
	}
	return ""
}
