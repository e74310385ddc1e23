package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. HEX2DFU_VENDOR_ID.
const EnvPrefix = "HEX2DFU"

// Config holds the values that must match the bootloader and host tooling
// the output is destined for.
type Config struct {
	VendorID      uint16 `json:"vendor-id"      mapstructure:"vendor-id"`
	ProductID     uint16 `json:"product-id"     mapstructure:"product-id"`
	DeviceVersion uint16 `json:"device-version" mapstructure:"device-version"`
}

// DefaultConfig returns the IDs the stock PIC16F1454 DFU bootloader
// enumerates with.
func DefaultConfig() *Config {
	return &Config{
		VendorID:      0x1234,
		ProductID:     0x0001,
		DeviceVersion: 0xFFFF,
	}
}

// Load returns the default configuration overridden by the file at path
// (if path is not empty) and then by HEX2DFU_* environment variables.
// Numbers may be decimal or 0x-prefixed hex.
func Load(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("vendor-id", def.VendorID)
	v.SetDefault("product-id", def.ProductID)
	v.SetDefault("device-version", def.DeviceVersion)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "can't read config file %s", path)
		}
	}

	cfg := &Config{}
	for _, f := range []struct {
		key string
		dst *uint16
	}{
		{"vendor-id", &cfg.VendorID},
		{"product-id", &cfg.ProductID},
		{"device-version", &cfg.DeviceVersion},
	} {
		val, err := strconv.ParseUint(v.GetString(f.key), 0, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", f.key)
		}
		*f.dst = uint16(val)
	}
	return cfg, nil
}
