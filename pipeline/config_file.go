package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// EnvPrefix prefixes environment overrides, e.g. CREDIT_SPLIT_SEED=7.
const EnvPrefix = "CREDIT"

// LoadConfig reads a YAML config file layered over DefaultConfig.
// Precedence: env > config file > defaults. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v, DefaultConfig()); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.NewDataAccessError(path, 0, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return c, c.Validate()
}

// SaveConfig writes c to path as YAML, creating the parent directory.
func SaveConfig(c Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewDataAccessError(dir, 0, err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.NewDataAccessError(path, 0, err)
	}
	return nil
}

// setDefaults registers every leaf of c under its dotted key so that
// AutomaticEnv can override keys the file never mentions.
func setDefaults(v *viper.Viper, c Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal defaults")
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(b, &tree); err != nil {
		return errors.Wrap(err, "decode defaults")
	}
	walkDefaults(v, "", tree)
	return nil
}

func walkDefaults(v *viper.Viper, prefix string, node map[string]interface{}) {
	for k, val := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]interface{}); ok && key != "models.variants" {
			walkDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}
