package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your settled balance and what you have pending",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	key, err := loadKey()
	if err != nil {
		log.Fatal(err)
	}

	accountID := database.AccountID(key.PublicIdentity())
	fmt.Println("For Account:", accountID)

	bal, err := balance(nodeURL, accountID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Balance: %d  Pending: %d\n", bal.Balance, bal.Pending)
}

type accountBalance struct {
	Account database.AccountID `json:"account"`
	Balance int64              `json:"balance"`
	Pending int64              `json:"pending"`
}

// balance asks the node for the balance of the account.
func balance(url string, accountID database.AccountID) (accountBalance, error) {
	var resp struct {
		Balances []accountBalance `json:"balances"`
	}
	if err := call("GET", fmt.Sprintf("%s/v1/balances/list/%s", url, accountID), nil, &resp); err != nil {
		return accountBalance{}, err
	}

	if len(resp.Balances) != 1 {
		return accountBalance{}, fmt.Errorf("expected one balance, got %d", len(resp.Balances))
	}

	return resp.Balances[0], nil
}
