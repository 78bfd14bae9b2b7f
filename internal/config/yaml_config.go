package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"ranktracker/internal/models"
)

// YAMLConfig represents the structure of the config.yaml file.
// Project definitions are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Projects []ProjectConfig `yaml:"projects"`
	Defaults DefaultsConfig  `yaml:"defaults"`
}

// ProjectConfig defines a project seeded at startup.
type ProjectConfig struct {
	ID                string               `yaml:"id"`
	Name              string               `yaml:"name"`
	MainDomain        string               `yaml:"main_domain"`
	Competitors       []string             `yaml:"competitors,omitempty"`
	SubdomainsEnabled bool                 `yaml:"subdomains_enabled"`
	PaidEnabled       bool                 `yaml:"paid_enabled"`
	Language          string               `yaml:"language,omitempty"`
	Country           string               `yaml:"country,omitempty"`
	Coordinates       string               `yaml:"coordinates,omitempty"`
	Keywords          []models.KeywordMeta `yaml:"keywords"`
	Owner             string               `yaml:"owner,omitempty"`
	Inactive          bool                 `yaml:"inactive,omitempty"`
}

// DefaultsConfig defines values applied to projects that leave them empty.
type DefaultsConfig struct {
	Language    string `yaml:"language"`
	Country     string `yaml:"country"`
	Coordinates string `yaml:"coordinates"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads the YAML configuration at path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, eris.Wrapf(err, "config: read %s", path)
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}

	// Set defaults
	if cfg.Defaults.Language == "" {
		cfg.Defaults.Language = "Spanish"
	}

	return &cfg, nil
}

// SeedProjects converts the configured projects into models, filling in the
// defaults.
func (c *YAMLConfig) SeedProjects() []models.Project {
	if c == nil {
		return nil
	}
	projects := make([]models.Project, 0, len(c.Projects))
	for _, p := range c.Projects {
		status := models.ProjectActive
		if p.Inactive {
			status = models.ProjectInactive
		}
		projects = append(projects, models.Project{
			ID:                p.ID,
			Name:              p.Name,
			MainDomain:        p.MainDomain,
			Competitors:       p.Competitors,
			SubdomainsEnabled: p.SubdomainsEnabled,
			PaidEnabled:       p.PaidEnabled,
			Language:          firstNonEmpty(p.Language, c.Defaults.Language),
			Country:           firstNonEmpty(p.Country, c.Defaults.Country),
			Coordinates:       firstNonEmpty(p.Coordinates, c.Defaults.Coordinates),
			Keywords:          p.Keywords,
			Status:            status,
			Owner:             p.Owner,
		})
	}
	return projects
}

// GetProjectByID finds a configured project by its ID.
func (c *YAMLConfig) GetProjectByID(id string) *ProjectConfig {
	if c == nil {
		return nil
	}
	for i := range c.Projects {
		if c.Projects[i].ID == id {
			return &c.Projects[i]
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
