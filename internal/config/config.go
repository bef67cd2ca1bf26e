package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig application configuration
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Pricing PricingConfig `toml:"pricing"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig HTTP listener
type ServerConfig struct {
	Port         int      `toml:"port"`
	DevMode      bool     `toml:"dev_mode"`
	AllowOrigins []string `toml:"allow_origins"`
}

// DataConfig storage locations
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// PricingConfig seed pricing document used when the database holds none
type PricingConfig struct {
	File        string `toml:"file"`
	PresetsFile string `toml:"presets_file"`
}

// ExportConfig document export
type ExportConfig struct {
	ChromePath         string `toml:"chrome_path"`
	PDFTimeoutSeconds  int    `toml:"pdf_timeout_seconds"`
	DownloadTTLMinutes int    `toml:"download_ttl_minutes"`
}

// LogConfig logger
type LogConfig struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// LoadConfigInfo load metadata
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig built-in defaults
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			AllowOrigins: []string{"*"},
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "ulu-pricing.db",
		},
		Pricing: PricingConfig{
			File: "config.json",
		},
		Export: ExportConfig{
			PDFTimeoutSeconds:  30,
			DownloadTTLMinutes: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir directory of the running executable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath config.toml next to the executable
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// Load reads path (a missing file keeps the defaults) and applies ULU_* environment overrides
func Load(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, info, err
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) error {
	if v := os.Getenv("ULU_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid ULU_PORT %q", v)
		}
		config.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv("ULU_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("ULU_PRICING_FILE"); v != "" {
		config.Pricing.File = v
	}
	if v := os.Getenv("ULU_CHROME_PATH"); v != "" {
		config.Export.ChromePath = v
	}
	if v := os.Getenv("ULU_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("ULU_ALLOW_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.Server.AllowOrigins = origins
	}
	return nil
}

// SaveConfig writes config as TOML
func SaveConfig(path string, config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvePath relative paths are taken from base
func ResolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDataDir creates the data directory and its exports subdirectory
func EnsureDataDir(config *AppConfig, base string) (string, error) {
	dataDir := ResolvePath(base, config.Data.DataDir)

	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DBPath database file inside the data directory
func DBPath(config *AppConfig, dataDir string) string {
	name := config.Data.DBFile
	if name == "" {
		name = "ulu-pricing.db"
	}
	return ResolvePath(dataDir, name)
}
