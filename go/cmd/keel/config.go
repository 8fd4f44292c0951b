// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/Fantom-foundation/Keel/go/fees"
	"github.com/Fantom-foundation/Keel/go/processor/engine"
	"github.com/Fantom-foundation/Keel/go/system"
)

// Config is the content of the configuration file. Missing entries keep
// their default values.
type Config struct {
	Engine   EngineConfig     `toml:"engine"`
	Fees     fees.Config      `toml:"fees"`
	Costs    system.CostTable `toml:"costs"`
	Database DatabaseConfig   `toml:"database"`
}

type EngineConfig struct {
	MaxCallDepth  int `toml:"max_call_depth"`
	CodeCacheSize int `toml:"code_cache_size"`
	MaxEvents     int `toml:"max_events"`
}

type DatabaseConfig struct {
	// CacheSize is the number of substates kept in the read cache, zero
	// disables caching.
	CacheSize int `toml:"cache_size"`
}

func DefaultConfig() Config {
	defaults := engine.DefaultConfig()
	return Config{
		Engine: EngineConfig{
			MaxCallDepth:  defaults.Kernel.MaxCallDepth,
			CodeCacheSize: defaults.CodeCacheSize,
			MaxEvents:     defaults.MaxEvents,
		},
		Fees:     defaults.Fees,
		Costs:    defaults.Costs,
		Database: DatabaseConfig{CacheSize: 1 << 16},
	}
}

// LoadConfig reads the given file on top of the default configuration. An
// empty path selects the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown entries in config %s: %v", path, undecoded)
	}
	return cfg, nil
}

// toEngine converts the file content into an engine configuration.
func (c Config) toEngine() engine.Config {
	res := engine.DefaultConfig()
	res.Kernel.MaxCallDepth = c.Engine.MaxCallDepth
	res.CodeCacheSize = c.Engine.CodeCacheSize
	res.MaxEvents = c.Engine.MaxEvents
	res.Fees = c.Fees
	res.Costs = c.Costs
	return res
}
