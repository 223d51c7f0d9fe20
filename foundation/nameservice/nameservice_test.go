package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Lookup(t *testing.T) {
	t.Log("Given the need to name the accounts found in a folder.")
	{
		root := t.TempDir()

		var curve signature.Curve
		key, err := curve.Generate()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %s", failed, err)
		}
		if err := signature.SaveKey(filepath.Join(root, "kennedy.ecdsa"), key); err != nil {
			t.Fatalf("\t%s\tShould be able to save a key: %s", failed, err)
		}
		if err := os.WriteFile(filepath.Join(root, "README"), []byte("not a key"), 0600); err != nil {
			t.Fatalf("\t%s\tShould be able to write a file: %s", failed, err)
		}

		ns, err := nameservice.New(root)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the folder: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to read the folder.", success)

		accountID := database.AccountID(key.PublicIdentity())
		if name := ns.Lookup(accountID); name != "kennedy" {
			t.Fatalf("\t%s\tShould name the account after its file, got %q.", failed, name)
		}
		t.Logf("\t%s\tShould name the account after its file.", success)

		got, err := ns.Resolve("kennedy")
		if err != nil || got != accountID {
			t.Fatalf("\t%s\tShould resolve the name to the account: %v", failed, err)
		}
		t.Logf("\t%s\tShould resolve the name to the account.", success)

		if _, err := ns.Resolve("unknown"); err == nil {
			t.Fatalf("\t%s\tShould refuse an unknown name.", failed)
		}
		t.Logf("\t%s\tShould refuse an unknown name.", success)

		if len(ns.Copy()) != 1 {
			t.Fatalf("\t%s\tShould only hold the key files.", failed)
		}
		t.Logf("\t%s\tShould only hold the key files.", success)
	}
}
