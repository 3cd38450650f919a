package config

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bucketlib/bucketlib-go/internal/types"
)

type ConfigImpl struct{}

// LoadScenario reads a JSON scenario file.
func (c *ConfigImpl) LoadScenario(path string) (types.Scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return types.Scenario{}, err
	}
	defer file.Close()
	var cfg types.Scenario
	err = json.NewDecoder(file).Decode(&cfg)
	return cfg, err
}

// LoadYAML reads the full application config.
func (c *ConfigImpl) LoadYAML(path string) (YAMLConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return YAMLConfig{}, err
	}
	defer file.Close()
	var cfg YAMLConfig
	err = yaml.NewDecoder(file).Decode(&cfg)
	return cfg, err
}
