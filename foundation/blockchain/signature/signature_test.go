package signature_test

import (
	"crypto/sha256"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	secretA   = "28CA6A9D397CA4C49A2BB9E7A5593548EBB1E9ABC6C93E859A42BC24A13D55FC"
	identityA = "04a45275eeff1718379dac3879f04960a19c6baccc3c0591c75b019f74ba36aec69f2df252ce0430ddd385c9cdf3de8e95236ccfc809b1ef3b0ed4c0d39e75ba1b"
	secretB   = "AD47604AD676051E20ABBA120ED9B65BE6BFC2E12A1653006DC051EB4BF952D0"
)

// =============================================================================

func Test_Identity(t *testing.T) {
	var curve signature.Curve

	t.Log("Given the need to derive an identity from a secret.")
	{
		key, err := curve.FromSecret(secretA)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to rebuild a key from a secret: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to rebuild a key from a secret.", success)

		if got := key.PublicIdentity(); got != identityA {
			t.Logf("\t\tgot: %s", got)
			t.Logf("\t\texp: %s", identityA)
			t.Fatalf("\t%s\tShould get back the right identity.", failed)
		}
		t.Logf("\t%s\tShould get back the right identity.", success)

		if !signature.IsIdentity(key.PublicIdentity()) {
			t.Fatalf("\t%s\tShould recognize a well formed identity.", failed)
		}
		t.Logf("\t%s\tShould recognize a well formed identity.", success)

		if signature.IsIdentity("0") || signature.IsIdentity(identityA[:128]) {
			t.Fatalf("\t%s\tShould reject malformed identities.", failed)
		}
		t.Logf("\t%s\tShould reject malformed identities.", success)
	}
}

func Test_FromSecret(t *testing.T) {
	var curve signature.Curve

	tt := []struct {
		name   string
		secret string
	}{
		{"short", secretA[:62]},
		{"long", secretA + "00"},
		{"nothex", "ZZCA6A9D397CA4C49A2BB9E7A5593548EBB1E9ABC6C93E859A42BC24A13D55FC"},
	}

	t.Log("Given the need to reject bad secrets.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				_, err := curve.FromSecret(tst.secret)
				if !errors.Is(err, signature.ErrInvalidSecret) {
					t.Fatalf("\t%s\tTest %d:\tShould get ErrInvalidSecret: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get ErrInvalidSecret.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_SignVerify(t *testing.T) {
	var curve signature.Curve

	keyA, err := curve.FromSecret(secretA)
	if err != nil {
		t.Fatalf("Should be able to rebuild key A: %s", err)
	}
	keyB, err := curve.FromSecret(secretB)
	if err != nil {
		t.Fatalf("Should be able to rebuild key B: %s", err)
	}

	digest := sha256.Sum256([]byte("Bill"))

	t.Log("Given the need to sign and verify digests.")
	{
		sig, err := keyA.Sign(digest[:])
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign a digest: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign a digest.", success)

		if !curve.Verify(digest[:], sig, keyA.PublicIdentity()) {
			t.Fatalf("\t%s\tShould verify against the signer's identity.", failed)
		}
		t.Logf("\t%s\tShould verify against the signer's identity.", success)

		if curve.Verify(digest[:], sig, keyB.PublicIdentity()) {
			t.Fatalf("\t%s\tShould not verify against another identity.", failed)
		}
		t.Logf("\t%s\tShould not verify against another identity.", success)

		other := sha256.Sum256([]byte("Jill"))
		if curve.Verify(other[:], sig, keyA.PublicIdentity()) {
			t.Fatalf("\t%s\tShould not verify a different digest.", failed)
		}
		t.Logf("\t%s\tShould not verify a different digest.", success)

		if curve.Verify(digest[:], sig[:10], keyA.PublicIdentity()) {
			t.Fatalf("\t%s\tShould not verify a truncated signature.", failed)
		}
		t.Logf("\t%s\tShould not verify a truncated signature.", success)

		if _, err := keyA.Sign(digest[:16]); err == nil {
			t.Fatalf("\t%s\tShould refuse to sign a short digest.", failed)
		}
		t.Logf("\t%s\tShould refuse to sign a short digest.", success)
	}
}

func Test_KeyFile(t *testing.T) {
	var curve signature.Curve

	t.Log("Given the need to store keys on disk.")
	{
		key, err := curve.Generate()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to generate a key.", success)

		path := filepath.Join(t.TempDir(), "kennedy.ecdsa")
		if err := signature.SaveKey(path, key); err != nil {
			t.Fatalf("\t%s\tShould be able to save the key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to save the key.", success)

		loaded, err := signature.LoadKey(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the key.", success)

		if loaded.PublicIdentity() != key.PublicIdentity() || loaded.Secret() != key.Secret() {
			t.Fatalf("\t%s\tShould load back the same key.", failed)
		}
		t.Logf("\t%s\tShould load back the same key.", success)
	}
}
