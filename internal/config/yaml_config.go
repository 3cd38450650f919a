package config

import "github.com/bucketlib/bucketlib-go/internal/types"

// YAMLConfig represents the application's configuration.
type YAMLConfig struct {
	Pool types.Scenario `yaml:"pool"`

	// WeightFile, when set, backs the weights with an mmap'd store so
	// mutations survive restarts.
	WeightFile string `yaml:"weight_file"`

	// Draws is the number of samples batch tools should take.
	Draws int `yaml:"draws"`
}
