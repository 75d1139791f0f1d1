package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# zbxreport configuration\n" +
	"# Secrets can stay out of this file: set ZBXREPORT_ZABBIX_PASSWORD or\n" +
	"# ZBXREPORT_ZABBIX_TOKEN in the environment or a .env file instead.\n"

// Marshal renders cfg as YAML with a short header
func Marshal(cfg *Config) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append([]byte(fileHeader), body...), nil
}

// Write saves cfg to path, readable by the owner only since it may
// hold credentials.
func Write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
