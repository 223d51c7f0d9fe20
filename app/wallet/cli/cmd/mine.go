package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine its pending transactions",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	blk, err := mine(nodeURL)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Block: %d  Hash: %s  Nonce: %d  Txs: %d\n", blk.Number, blk.Hash, blk.Nonce, blk.Trans)
}

type minedBlock struct {
	Number uint64
	Hash   string
	Nonce  uint64
	Trans  int
}

// mine asks the node to mine a block.
func mine(url string) (minedBlock, error) {
	var resp struct {
		Number uint64 `json:"number"`
		Hash   string `json:"hash"`
		Nonce  uint64 `json:"nonce"`
		Trans  []any  `json:"txs"`
	}
	if err := call("POST", url+"/v1/mine", nil, &resp); err != nil {
		return minedBlock{}, err
	}

	return minedBlock{Number: resp.Number, Hash: resp.Hash, Nonce: resp.Nonce, Trans: len(resp.Trans)}, nil
}
