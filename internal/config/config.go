package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the gateway configuration, loaded from config.toml next to
// the executable.
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	API      APIConfig      `toml:"api"`
	Data     DataConfig     `toml:"data"`
	Download DownloadConfig `toml:"download"`
}

// ServerConfig configures the local HTTP server.
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// APIConfig locates the remote scheduling service.
type APIConfig struct {
	// BaseURL is the single-workbook endpoint base (the original API_BASE).
	BaseURL string `toml:"base_url"`
	// BatchBaseURL serves the four-file endpoint. Empty means same as
	// BaseURL; the original batch form posted to a same-origin path.
	BatchBaseURL   string `toml:"batch_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxUploadMB    int64  `toml:"max_upload_mb"`
}

// DataConfig configures local storage.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// DownloadConfig configures the generated-artifact download link.
type DownloadConfig struct {
	Filename string `toml:"filename"`
}

// LoadConfigInfo carries load metadata so CLI flags only override values
// the file did not set explicitly.
type LoadConfigInfo struct {
	PortSpecified    bool
	BaseURLSpecified bool
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8080,
			DevMode:     false,
			OpenBrowser: true,
		},
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			BatchBaseURL:   "",
			TimeoutSeconds: 120,
			// the scheduling service caps uploads at 25MB
			MaxUploadMB: 25,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Download: DownloadConfig{
			Filename: "schedule_output.xlsx",
		},
	}
}

// BatchBase resolves the batch endpoint base URL.
func (c *AppConfig) BatchBase() string {
	if c.API.BatchBaseURL != "" {
		return c.API.BatchBaseURL
	}
	return c.API.BaseURL
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml from the executable's directory and
// reports which values the file set explicitly.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return LoadFile(filepath.Join(exeDir, "config.toml"))
}

// LoadFile loads a specific config file. A missing file yields defaults.
func LoadFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = keySpecified(data, "server", "port")
	info.BaseURLSpecified = keySpecified(data, "api", "base_url")

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv lets TIMETABLE_API_BASE override the configured service URL,
// for local runs against a non-default backend.
func applyEnv(config *AppConfig) {
	if v := os.Getenv("TIMETABLE_API_BASE"); v != "" {
		config.API.BaseURL = v
	}
}

func keySpecified(data []byte, section, key string) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	sectionAny, ok := raw[section]
	if !ok {
		return false
	}
	sectionMap, ok := sectionAny.(map[string]any)
	if !ok {
		return false
	}
	_, ok = sectionMap[key]
	return ok
}

// EnsureDataDir creates the data directory and returns its path. Relative
// paths are resolved against the executable's directory.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
