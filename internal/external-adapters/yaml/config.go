// Package yaml loads optional release-manager configuration from YAML files.
package yaml

import (
	"os"

	goyaml "gopkg.in/yaml.v3"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// config path is given.
const DefaultConfigFile = "release-manager.yml"

// LoadConfig returns the default release locations overridden by the YAML
// file at path. Only fields present in the file are overridden.
func LoadConfig(path string) (entities.Config, error) {
	cfg := entities.DefaultConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's own flag
	if err != nil {
		return entities.Config{}, entities.NewConfigError("failed to read config file %s: %v", path, err)
	}

	if err := goyaml.Unmarshal(data, &cfg); err != nil {
		return entities.Config{}, entities.NewConfigError("failed to parse config file %s: %v", path, err)
	}

	if err := validate(cfg); err != nil {
		return entities.Config{}, err
	}

	return cfg, nil
}

// LoadDefaultConfig loads DefaultConfigFile when it exists and falls back to
// the built-in defaults otherwise.
func LoadDefaultConfig() (entities.Config, error) {
	if _, err := os.Stat(DefaultConfigFile); os.IsNotExist(err) {
		return entities.DefaultConfig(), nil
	}
	return LoadConfig(DefaultConfigFile)
}

func validate(cfg entities.Config) error {
	required := map[string]string{
		"public_releases_bucket":     cfg.PublicReleasesBucket,
		"private_releases_bucket":    cfg.PrivateReleasesBucket,
		"primary_repo":               cfg.PrimaryRepo,
		"secondary_repo":             cfg.SecondaryRepo,
		"node_image_repo":            cfg.NodeImageRepo,
		"functional_test_image_repo": cfg.FunctionalTestImageRepo,
	}
	for name, value := range required {
		if value == "" {
			return entities.NewConfigError("config field %s must not be empty", name)
		}
	}

	if len(cfg.NodeImageArches) == 0 || len(cfg.FunctionalTestArches) == 0 {
		return entities.NewConfigError("image architecture lists must not be empty")
	}

	return nil
}
