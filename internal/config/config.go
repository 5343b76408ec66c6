package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrImproperlyConfigured indicates a required setting is missing.
var ErrImproperlyConfigured = errors.New("improperly configured")

const apiPrefix = "/api/v1"

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Log    LogConfig    `yaml:"log"`
	Notes  NotesConfig  `yaml:"notes"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// NotesConfig toggles the notes feature and points at the notes storage
// service. Courses maps a course ID to its navigation tabs; when it is
// empty every course has notes.
type NotesConfig struct {
	Enabled    bool             `yaml:"enabled"`
	StorageURL string           `yaml:"storage_url"`
	Courses    map[string][]Tab `yaml:"courses"`
}

// Load reads configuration from a .env file, an optional YAML file and
// environment variables, in that order of increasing precedence.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{Port: "7521"},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "edxnotes",
		},
		Log:   LogConfig{Level: "info"},
		Notes: NotesConfig{Enabled: true},
	}

	if path := os.Getenv("EDXNOTES_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		cfg.Mongo.URI = uri
	}
	if name := os.Getenv("MONGODB_DATABASE"); name != "" {
		cfg.Mongo.Database = name
	}
	if level := os.Getenv("EDXNOTES_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if enabled := os.Getenv("EDXNOTES_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid EDXNOTES_ENABLED: %w", err)
		}
		cfg.Notes.Enabled = v
	}
	if url := os.Getenv("EDXNOTES_STORAGE_URL"); url != "" {
		cfg.Notes.StorageURL = url
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Endpoint returns the notes storage API URL for path.
func (c NotesConfig) Endpoint(path string) (string, error) {
	base := strings.TrimRight(c.StorageURL, "/")
	if base == "" {
		return "", fmt.Errorf("%w: notes storage url is not set", ErrImproperlyConfigured)
	}
	url := base + apiPrefix
	if path = strings.TrimLeft(path, "/"); path != "" {
		url += "/" + path
	}
	return url, nil
}

// Tab is a course navigation tab.
type Tab struct {
	Type string `yaml:"type" json:"type"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// TabTypeNotes marks the course tab that enables notes.
const TabTypeNotes = "edxnotes"

// CourseEnabled reports whether notes are available for courseID.
func (c NotesConfig) CourseEnabled(courseID string) bool {
	if !c.Enabled {
		return false
	}
	if len(c.Courses) == 0 {
		return true
	}
	return EnabledForCourse(c.Courses[courseID])
}

// EnabledForCourse reports whether a course's tabs include the notes tab.
func EnabledForCourse(tabs []Tab) bool {
	for _, t := range tabs {
		if t.Type == TabTypeNotes {
			return true
		}
	}
	return false
}
