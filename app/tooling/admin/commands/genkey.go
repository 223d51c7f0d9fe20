package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/nameservice"
)

// GenKey creates a key file for the named account in the folder the node
// reads its name service from.
func GenKey(w io.Writer, folder string, name string) error {
	if name == "" {
		return errors.New("genkey requires an account name")
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		return err
	}

	path := filepath.Join(folder, name+nameservice.KeyExt)
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("key file %s already exists", path)
	}

	var curve signature.Curve
	key, err := curve.Generate()
	if err != nil {
		return err
	}

	if err := signature.SaveKey(path, key); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %s\n", name, key.PublicIdentity())

	return nil
}
