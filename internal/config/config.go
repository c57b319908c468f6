package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "NOCTUA_CONFIG"
	outputDirEnv  = "NOCTUA_OUTPUT_DIR"

	defaultIcon = "📰"
)

// Config is the root of the YAML configuration document.
type Config struct {
	Settings      Settings      `yaml:"settings"`
	Logging       LoggingConfig `yaml:"logging"`
	Sections      SectionList   `yaml:"sections"`
	Summarization Summarization `yaml:"summarization"`
}

// Settings holds global options shared by all pipeline stages.
type Settings struct {
	OutputBase string          `yaml:"output_base"`
	Website    WebsiteSettings `yaml:"website"`
	Filter     *FilterConfig   `yaml:"filter"`
}

// WebsiteSettings configures the downstream site-generation stage.
type WebsiteSettings struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Summarization configures the downstream AI-summary stage. Parsed and
// carried here so one config file serves the whole workflow.
type Summarization struct {
	Model                     string               `yaml:"model"`
	OutputLanguage            string               `yaml:"output_language"`
	ArticlesPerSectionSummary int                  `yaml:"articles_per_section_summary"`
	MaxArticlesOverall        int                  `yaml:"max_articles_overall"`
	Prompts                   SummarizationPrompts `yaml:"prompts"`
}

// SummarizationPrompts carries the prompt templates for the summary stage.
type SummarizationPrompts struct {
	Section string `yaml:"section"`
	Overall string `yaml:"overall"`
}

// FilterConfig is one override layer of filtering rules. Nil fields mean
// "not set at this layer"; the policy resolver only applies present keys.
type FilterConfig struct {
	MaxAgeHours      *int     `yaml:"max_age_hours"`
	ExcludeKeywords  []string `yaml:"exclude_keywords"`
	RequireKeywords  []string `yaml:"require_keywords"`
	MinContentLength *int     `yaml:"min_content_length"`
	ExcludeURLPart   *string  `yaml:"exclude_url_part"`
	RequireURLPart   *string  `yaml:"require_url_part"`
	Deduplicate      *bool    `yaml:"deduplicate"`
}

// FeedConfig describes a single feed inside a section.
type FeedConfig struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Enabled *bool         `yaml:"enabled"`
	Filter  *FilterConfig `yaml:"filter"`
}

// IsEnabled defaults to true when the key is absent.
func (f FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// SectionConfig describes one section and its feeds. ID is the mapping key
// from the config document, not a YAML field.
type SectionConfig struct {
	ID          string        `yaml:"-"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Icon        string        `yaml:"icon"`
	Enabled     *bool         `yaml:"enabled"`
	Filter      *FilterConfig `yaml:"filter"`
	Feeds       []FeedConfig  `yaml:"feeds"`
}

// IsEnabled defaults to true when the key is absent.
func (s SectionConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// SectionList preserves the document order of the sections mapping, which
// fixes the section order of every downstream snapshot.
type SectionList []SectionConfig

// UnmarshalYAML decodes a mapping node while keeping key order.
func (l *SectionList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("sections: expected a mapping, got %s", value.Tag)
	}

	sections := make(SectionList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]

		var section SectionConfig
		if err := valNode.Decode(&section); err != nil {
			return fmt.Errorf("section %s: %w", keyNode.Value, err)
		}
		section.ID = keyNode.Value
		if section.Icon == "" {
			section.Icon = defaultIcon
		}
		sections = append(sections, section)
	}

	*l = sections
	return nil
}

// EnabledSections returns the enabled sections in document order.
func (c Config) EnabledSections() []SectionConfig {
	enabled := make([]SectionConfig, 0, len(c.Sections))
	for _, s := range c.Sections {
		if s.IsEnabled() {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// EnabledFeeds returns the enabled feeds of a section in document order.
func (c Config) EnabledFeeds(sectionID string) []FeedConfig {
	for _, s := range c.Sections {
		if s.ID != sectionID {
			continue
		}
		feeds := make([]FeedConfig, 0, len(s.Feeds))
		for _, f := range s.Feeds {
			if f.IsEnabled() {
				feeds = append(feeds, f)
			}
		}
		return feeds
	}
	return nil
}

// Section returns the section config with the given id, or nil.
func (c Config) Section(id string) *SectionConfig {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			return &c.Sections[i]
		}
	}
	return nil
}

// OutputDir resolves the snapshot directory, honoring the environment
// override used in Docker/CI setups.
func (c Config) OutputDir() string {
	if dir := strings.TrimSpace(os.Getenv(outputDirEnv)); dir != "" {
		return dir
	}
	if c.Settings.OutputBase != "" {
		return c.Settings.OutputBase
	}
	return "output"
}

// Load reads and parses the configuration file. An empty path falls back to
// the NOCTUA_CONFIG variable and then the default search locations. A config
// that cannot be found or parsed is fatal to the run.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path == "" {
		found, err := findConfigFile()
		if err != nil {
			return Config{}, err
		}
		path = found
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

func findConfigFile() (string, error) {
	candidates := []string{"config.yaml", "config.yml"}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("configuration file not found, tried: %s", strings.Join(candidates, ", "))
}

func defaultConfig() Config {
	return Config{
		Settings: Settings{
			OutputBase: "output",
			Website: WebsiteSettings{
				Title:       "Noctua News",
				Description: "AI-curated news from your favorite sources",
				BaseURL:     "/",
			},
		},
		Logging: LoggingConfig{Level: "info"},
		Summarization: Summarization{
			Model:                     "gemini-1.5-flash",
			OutputLanguage:            "English",
			ArticlesPerSectionSummary: 20,
			MaxArticlesOverall:        30,
			Prompts: SummarizationPrompts{
				Section: "Create a brief overview of the most important stories.",
				Overall: "Create an executive summary of today's most important news.",
			},
		},
	}
}
