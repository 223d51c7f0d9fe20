package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/spf13/cobra"
)

var (
	to    string
	value int64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and send a transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Name or account of the receiver.")
	sendCmd.Flags().Int64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("value")
}

func sendRun(cmd *cobra.Command, args []string) {
	key, err := loadKey()
	if err != nil {
		log.Fatal(err)
	}

	ns, err := nameservice.New(accountPath)
	if err != nil {
		log.Fatal(err)
	}

	toID, err := ns.Resolve(to)
	if err != nil {
		log.Fatal(err)
	}

	fingerprint, err := send(nodeURL, key, toID, value)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Transaction:", fingerprint)
}

// send signs a transaction for the value and submits it to the node.
func send(url string, key *signature.Key, toID database.AccountID, value int64) (string, error) {
	tx := database.NewTx(database.AccountID(key.PublicIdentity()), toID, value)
	if err := tx.Sign(key); err != nil {
		return "", fmt.Errorf("signing: %w", err)
	}

	var resp struct {
		Fingerprint string `json:"fingerprint"`
	}
	if err := call("POST", url+"/v1/tx/submit", tx, &resp); err != nil {
		return "", err
	}

	return resp.Fingerprint, nil
}
