package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair for the wallet",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	key, err := generate(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(key.PublicIdentity())
}

// generate writes a new key to path. An existing key file is never
// overwritten.
func generate(path string) (*signature.Key, error) {
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("key file %s already exists", path)
	}

	var curve signature.Curve
	key, err := curve.Generate()
	if err != nil {
		return nil, err
	}

	if err := signature.SaveKey(path, key); err != nil {
		return nil, err
	}

	return key, nil
}
