package config

// file.go - configuration loading from a JSON file.
//
// The file contract is the classic three-key bot config:
//
//	{
//	  "server":   "irc.example.org",
//	  "channels": ["#a", "#b"],
//	  "nick":     "bot1"
//	}
//
// "server" accepts host[:port]; optional keys (realname, password)
// extend it without breaking older files.
//
// Precedence order (highest wins):
//  1. CLI flags   (handled by cmd/root.go)
//  2. Environment (env.go)
//  3. Config file (this file)
//  4. Defaults    (defaults.go)

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileConfig mirrors the JSON document.  Kept separate from Config so
// the file format stays a stable, documented contract.
type fileConfig struct {
	Server   string   `json:"server"`
	Channels []string `json:"channels"`
	Nick     string   `json:"nick"`
	RealName string   `json:"realname"`
	Password string   `json:"password"`
}

// LoadFile overlays the JSON file at path onto cfg.  Only keys present
// in the file override existing values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Server != "" {
		host, port, err := ParseServerSpec(fc.Server)
		if err != nil {
			return err
		}
		cfg.Server = host
		if port != 0 {
			cfg.Port = port
		}
	}
	if len(fc.Channels) > 0 {
		cfg.Channels = fc.Channels
	}
	if fc.Nick != "" {
		cfg.Nick = fc.Nick
	}
	if fc.RealName != "" {
		cfg.RealName = fc.RealName
	}
	if fc.Password != "" {
		cfg.Password = fc.Password
	}
	return nil
}
