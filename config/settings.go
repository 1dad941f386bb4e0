// Package config provides configuration structures for the manuscript service.
// It defines server, index, and hybrid ranking settings loaded from a YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// HybridSettings controls the merged lexical/vector ranking.
type HybridSettings struct {
	LexicalWeight    float64 `yaml:"lexical_weight"`
	VectorWeight     float64 `yaml:"vector_weight"`
	SubQueryTimeout  int     `yaml:"sub_query_timeout_ms"` // per-backend timeout in milliseconds
	PaginationMargin int     `yaml:"pagination_margin"`    // oversampling factor when pulling per-source pages
}

// SearchSettings controls query compilation and lexical matching.
type SearchSettings struct {
	DefaultPageSize      int `yaml:"default_page_size"`
	MaxPageSize          int `yaml:"max_page_size"`
	FragmentSize         int `yaml:"fragment_size"` // snippet window in bytes around the first hit
	MinWordSizeFor1Typo  int `yaml:"min_word_size_for_1_typo"`
	MinWordSizeFor2Typos int `yaml:"min_word_size_for_2_typos"`
}

// Settings is the full application configuration.
type Settings struct {
	Port           string   `yaml:"port"`
	DataDir        string   `yaml:"data_dir"`     // corpus snapshot directory
	CatalogPath    string   `yaml:"catalog_path"` // SQLite catalog database
	CacheDir       string   `yaml:"cache_dir"`    // prerendered passage cache
	AllowedOrigins []string `yaml:"allowed_origins"`

	CollectionPageSize int `yaml:"collection_page_size"`
	NavigationCap      int `yaml:"navigation_cap"` // max members per navigation expansion
	MaxTreeDepth       int `yaml:"max_tree_depth"`

	Search SearchSettings `yaml:"search"`
	Hybrid HybridSettings `yaml:"hybrid"`
}

// Load reads the YAML file at path (skipped when path is empty or missing),
// applies environment overrides, then defaults, then validates.
func Load(path string) (*Settings, error) {
	settings := &Settings{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	settings.applyEnvOverrides()
	settings.ApplyDefaults()

	if conflicts := settings.Validate(); len(conflicts) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(conflicts, "; "))
	}
	return settings, nil
}

func (s *Settings) applyEnvOverrides() {
	if v := os.Getenv("TEXTILE_PORT"); v != "" {
		s.Port = v
	}
	if v := os.Getenv("TEXTILE_DATA_DIR"); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv("TEXTILE_CATALOG_PATH"); v != "" {
		s.CatalogPath = v
	}
	if v := os.Getenv("TEXTILE_CACHE_DIR"); v != "" {
		s.CacheDir = v
	}
	if v := os.Getenv("TEXTILE_ALLOWED_ORIGINS"); v != "" {
		s.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("TEXTILE_NAVIGATION_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.NavigationCap = n
		}
	}
}

// ApplyDefaults fills zero values with the defaults used in production.
func (s *Settings) ApplyDefaults() {
	if s.Port == "" {
		s.Port = "8080"
	}
	if s.DataDir == "" {
		s.DataDir = "./data"
	}
	if s.CatalogPath == "" {
		s.CatalogPath = "./data/catalog.db"
	}
	if s.CacheDir == "" {
		s.CacheDir = "./data/cache"
	}
	if s.CollectionPageSize == 0 {
		s.CollectionPageSize = 20
	}
	if s.NavigationCap == 0 {
		s.NavigationCap = 500
	}
	if s.MaxTreeDepth == 0 {
		s.MaxTreeDepth = 10
	}

	if s.Search.DefaultPageSize == 0 {
		s.Search.DefaultPageSize = 25
	}
	if s.Search.MaxPageSize == 0 {
		s.Search.MaxPageSize = 100
	}
	if s.Search.FragmentSize == 0 {
		s.Search.FragmentSize = 160
	}
	if s.Search.MinWordSizeFor1Typo == 0 {
		s.Search.MinWordSizeFor1Typo = 4
	}
	if s.Search.MinWordSizeFor2Typos == 0 {
		s.Search.MinWordSizeFor2Typos = 7
	}
	if s.Search.MinWordSizeFor2Typos < s.Search.MinWordSizeFor1Typo {
		s.Search.MinWordSizeFor2Typos = s.Search.MinWordSizeFor1Typo + 1
	}

	if s.Hybrid.LexicalWeight == 0 && s.Hybrid.VectorWeight == 0 {
		s.Hybrid.LexicalWeight = 0.5
		s.Hybrid.VectorWeight = 0.5
	}
	if s.Hybrid.SubQueryTimeout == 0 {
		s.Hybrid.SubQueryTimeout = 2000
	}
	if s.Hybrid.PaginationMargin == 0 {
		s.Hybrid.PaginationMargin = 3
	}
}

// Validate returns a list of configuration conflicts, empty when valid.
func (s *Settings) Validate() []string {
	var conflicts []string

	if s.Hybrid.LexicalWeight < 0 || s.Hybrid.VectorWeight < 0 {
		conflicts = append(conflicts, "hybrid weights must be non-negative")
	}
	if s.Hybrid.LexicalWeight+s.Hybrid.VectorWeight == 0 {
		conflicts = append(conflicts, "at least one hybrid weight must be positive")
	}
	if s.Search.MaxPageSize < s.Search.DefaultPageSize {
		conflicts = append(conflicts, fmt.Sprintf("max_page_size %d is smaller than default_page_size %d", s.Search.MaxPageSize, s.Search.DefaultPageSize))
	}
	if s.NavigationCap < 1 {
		conflicts = append(conflicts, "navigation_cap must be positive")
	}
	if s.MaxTreeDepth < 1 {
		conflicts = append(conflicts, "max_tree_depth must be positive")
	}
	for _, origin := range s.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			conflicts = append(conflicts, "allowed origin cannot be empty or whitespace-only")
		}
	}
	return conflicts
}
