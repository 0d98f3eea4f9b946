package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env     string        `yaml:"env"`
	Server  ServerConfig  `yaml:"http_server"`
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
}

type ServerConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Timeout     time.Duration `yaml:"timeout"`
	CORSOrigins []string      `yaml:"cors_origins"`
}

type StorageConfig struct {
	// Dir - directory for the data files; created on startup.
	Dir string `yaml:"dir"`
	// SubscriptionsFile / PreferencesFile - file names inside Dir.
	SubscriptionsFile string `yaml:"subscriptions_file"`
	PreferencesFile   string `yaml:"preferences_file"`
}

type ExportConfig struct {
	// Dir - where export files are written; empty means the OS temp dir.
	Dir string `yaml:"dir"`
	// IncludeBOM - default for the byte-order-mark toggle.
	IncludeBOM bool `yaml:"include_bom"`
}

// SubscriptionsPath is the full path of the subscriptions file.
func (c StorageConfig) SubscriptionsPath() string {
	return filepath.Join(c.Dir, c.SubscriptionsFile)
}

// PreferencesPath is the full path of the preferences file.
func (c StorageConfig) PreferencesPath() string {
	return filepath.Join(c.Dir, c.PreferencesFile)
}

func resolvePath(cwd, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	if up, ok := findUp(cwd, p, 8); ok {
		return up
	}
	return filepath.Join(cwd, p)
}

// findUp walks from start towards the filesystem root looking for rel.
func findUp(start, rel string, max int) (string, bool) {
	dir := start
	for i := 0; i <= max; i++ {
		p := filepath.Join(dir, rel)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func LoadConfig() *Config {
	var cfg Config
	cwd, _ := os.Getwd()

	// 1) optional dotenv overlay
	envPath := os.Getenv("ENV_FILE")
	if envPath == "" {
		if up, ok := findUp(cwd, ".env/local.env", 8); ok {
			envPath = up
		}
	} else {
		envPath = resolvePath(cwd, envPath)
	}
	if envPath != "" {
		_ = godotenv.Overload(envPath)
	}

	// 2) YAML
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if up, ok := findUp(cwd, "configs/local.yaml", 8); ok {
			path = up
		} else {
			log.Fatal("CONFIG_PATH not set and configs/local.yaml not found")
		}
	} else {
		path = resolvePath(cwd, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}

	expanded := os.ExpandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}

	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "local"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "data"
	}
	if cfg.Storage.SubscriptionsFile == "" {
		cfg.Storage.SubscriptionsFile = "subscriptions.json"
	}
	if cfg.Storage.PreferencesFile == "" {
		cfg.Storage.PreferencesFile = "preferences.json"
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = os.TempDir()
	}
}
