package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// LoadSlotConfig loads a slot game configuration from a YAML file and
// validates it.
func LoadSlotConfig(configPath string) (*SlotGameConfig, error) {
	var cfg SlotGameConfig
	if err := loadInto(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config %s: %w", configPath, err)
	}
	return &cfg, nil
}

// LoadSlotConfigFromDir loads a slot game configuration from a directory,
// merging all YAML files alphabetically (later files override earlier ones).
// This allows splitting config into base + game-specific overrides.
func LoadSlotConfigFromDir(configDir string) (*SlotGameConfig, error) {
	entries, err := os.ReadDir(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var yamlFiles []string
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			yamlFiles = append(yamlFiles, entry.Name())
		}
	}
	if len(yamlFiles) == 0 {
		return nil, fmt.Errorf("no YAML files found in config directory: %s", configDir)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, filename := range yamlFiles {
		v.SetConfigFile(filepath.Join(configDir, filename))
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge config from %s: %w", filename, err)
		}
	}

	var cfg SlotGameConfig
	if err := unmarshalConfig(v, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config %s: %w", configDir, err)
	}
	return &cfg, nil
}

func loadInto(configPath string, out *SlotGameConfig) error {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	return unmarshalConfig(v, out)
}

// unmarshalConfig decodes the viper tree with weakly-typed input so the
// int-keyed multiplier tables (YAML map keys arrive as strings) decode
// cleanly into map[int]float64.
func unmarshalConfig(v *viper.Viper, out *SlotGameConfig) error {
	if err := v.Unmarshal(out, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// DecodePayouts decodes a generic payout blob (e.g. a CMS config payload)
// into a PayoutConfig. Used when game definitions arrive as opaque maps
// rather than files.
func DecodePayouts(blob map[string]interface{}) (*PayoutConfig, error) {
	var cfg PayoutConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(blob); err != nil {
		return nil, fmt.Errorf("failed to decode payouts: %w", err)
	}
	return &cfg, nil
}
