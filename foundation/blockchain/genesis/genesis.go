// Package genesis maintains access to the genesis configuration. These
// values are fixed for the life of a ledger.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ardanlabs/powledger/foundation/validate"
)

// Genesis represents the genesis file.
type Genesis struct {
	Symbol            string `json:"symbol" validate:"required"`                 // Ticker symbol of the coin.
	Difficulty        int    `json:"difficulty" validate:"min=1,max=64"`         // Number of leading 0's for every block after genesis.
	GenesisDifficulty int    `json:"genesis_difficulty" validate:"min=1,max=64"` // Number of leading 0's for the genesis block.
	MiningReward      int64  `json:"mining_reward" validate:"gt=0"`              // Reward for mining a block.
	TimeStamp         int64  `json:"timestamp" validate:"gt=0"`                  // Genesis block time in unix milliseconds.
	MaxAttempts       uint64 `json:"max_attempts"`                               // Mining gives up after this many nonces, 0 never gives up.
}

// Default returns the configuration the ledger ships with.
func Default() Genesis {
	return Genesis{
		Symbol:            "JLC",
		Difficulty:        3,
		GenesisDifficulty: 4,
		MiningReward:      50,
		TimeStamp:         1665525600000,
	}
}

// Validate checks the configuration can run a ledger.
func (g Genesis) Validate() error {
	if err := validate.Check(g); err != nil {
		return fmt.Errorf("validate genesis: %w", err)
	}

	return nil
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
