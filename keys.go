package xavassl

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"github.com/go-acme/lego/v4/certcrypto"
	"strings"
)

type KeyName string

// KeyType generates the key pair of an identity. Implementations other than
// the ones below can be passed with WithKeyType to swap the backend.
type KeyType interface {
	Name() (name KeyName)
	Generate() (key crypto.Signer, err error)
}

func RSA() KeyType {
	return RSAWithBits(2048)
}

func RSAWithBits(bits int) KeyType {
	return &rsaKeyType{
		keyBits: bits,
	}
}

const rsaKeyTypeName = KeyName("RSA")

type rsaKeyType struct {
	keyBits int
}

func (r *rsaKeyType) Name() (name KeyName) {
	name = rsaKeyTypeName
	return
}

func (r *rsaKeyType) Generate() (key crypto.Signer, err error) {
	var kt certcrypto.KeyType
	switch r.keyBits {
	case 2048:
		kt = certcrypto.RSA2048
	case 4096:
		kt = certcrypto.RSA4096
	case 8192:
		kt = certcrypto.RSA8192
	default:
		if r.keyBits < 2048 {
			err = fmt.Errorf("rsa key size %d is too small", r.keyBits)
			return
		}
		key, err = rsa.GenerateKey(rand.Reader, r.keyBits)
		return
	}
	return generateWithCertcrypto(kt)
}

func ECDSA() KeyType {
	return ECDSAWithCurve(elliptic.P256())
}

func ECDSAWithCurve(curve elliptic.Curve) KeyType {
	return &ecdsaKeyType{
		curve: curve,
	}
}

const ecdsaKeyTypeName = KeyName("ECDSA")

type ecdsaKeyType struct {
	curve elliptic.Curve
}

func (r *ecdsaKeyType) Name() (name KeyName) {
	name = ecdsaKeyTypeName
	return
}

func (r *ecdsaKeyType) Generate() (key crypto.Signer, err error) {
	switch r.curve {
	case elliptic.P256():
		return generateWithCertcrypto(certcrypto.EC256)
	case elliptic.P384():
		return generateWithCertcrypto(certcrypto.EC384)
	default:
		key, err = ecdsa.GenerateKey(r.curve, rand.Reader)
		return
	}
}

func ED25519() KeyType {
	return ED25519WithSeed(nil)
}

func ED25519WithSeed(seed []byte) KeyType {
	return &ed25519KeyType{
		seed: seed,
	}
}

const ed25519KeyTypeName = KeyName("ED25519")

type ed25519KeyType struct {
	seed []byte
}

func (r *ed25519KeyType) Name() (name KeyName) {
	name = ed25519KeyTypeName
	return
}

func (r *ed25519KeyType) Generate() (key crypto.Signer, err error) {
	if len(r.seed) == 0 {
		_, key, err = ed25519.GenerateKey(rand.Reader)
		return
	}
	if len(r.seed) != ed25519.SeedSize {
		err = fmt.Errorf("ed25519 seed must be %d bytes", ed25519.SeedSize)
		return
	}
	key = ed25519.NewKeyFromSeed(r.seed)
	return
}

func generateWithCertcrypto(kt certcrypto.KeyType) (key crypto.Signer, err error) {
	pk, genErr := certcrypto.GeneratePrivateKey(kt)
	if genErr != nil {
		err = genErr
		return
	}
	signer, ok := pk.(crypto.Signer)
	if !ok {
		err = fmt.Errorf("generated %T is not a signer", pk)
		return
	}
	key = signer
	return
}

// ParseKeyType maps a configuration name such as "ecdsa" or "rsa-4096" to
// a KeyType.
func ParseKeyType(name string) (keyType KeyType, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ecdsa", "ecdsa-p256":
		keyType = ECDSA()
	case "ecdsa-p384":
		keyType = ECDSAWithCurve(elliptic.P384())
	case "rsa", "rsa-2048":
		keyType = RSA()
	case "rsa-4096":
		keyType = RSAWithBits(4096)
	case "ed25519":
		keyType = ED25519()
	default:
		err = fmt.Errorf("xavassl: key type %q is not supported", name)
	}
	return
}
