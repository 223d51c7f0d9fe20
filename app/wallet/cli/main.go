// This program is a wallet for the ledger. It manages key files and talks
// to a node over its public API.
package main

import "github.com/ardanlabs/powledger/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
