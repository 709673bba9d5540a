package config

import (
	"github.com/spf13/viper"

	"github.com/petiibhuzah/cryptocurrency/blockchain"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 10:05
 */

// Config holds every value a node process may override at start via
// environment variable (SPEC_FULL.md §6). Defaults match the constants
// named throughout the core.
type Config struct {
	HTTPAddr            string
	NodeID              string
	BlockSizeLimit      int
	InitialMiningReward int64
	HalvingInterval     int
	DifficultyPrefix    string
}

// Load reads BLOCK_SIZE_LIMIT, INITIAL_MINING_REWARD, HALVING_INTERVAL,
// DIFFICULTY_PREFIX, HTTP_ADDR and NODE_ID from the environment via viper,
// falling back to the spec's defaults for anything unset.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("NODE_ID", "3000")
	v.SetDefault("BLOCK_SIZE_LIMIT", blockchain.BlockSizeLimit)
	v.SetDefault("INITIAL_MINING_REWARD", blockchain.InitialMiningReward)
	v.SetDefault("HALVING_INTERVAL", blockchain.HalvingInterval)
	v.SetDefault("DIFFICULTY_PREFIX", blockchain.DefaultDifficultyPrefix)

	return &Config{
		HTTPAddr:            v.GetString("HTTP_ADDR"),
		NodeID:              v.GetString("NODE_ID"),
		BlockSizeLimit:      v.GetInt("BLOCK_SIZE_LIMIT"),
		InitialMiningReward: v.GetInt64("INITIAL_MINING_REWARD"),
		HalvingInterval:     v.GetInt("HALVING_INTERVAL"),
		DifficultyPrefix:    v.GetString("DIFFICULTY_PREFIX"),
	}
}
