package xavassl

import (
	"crypto"
	"fmt"
	"math/big"
	"time"
)

type CreateOption func(*CreateOptions) error

func WithSerialNumber(sn uint64) CreateOption {
	return func(options *CreateOptions) error {
		if sn < 1 {
			return fmt.Errorf("invalid serial number")
		}
		options.serialNumber = new(big.Int).SetUint64(sn)
		return nil
	}
}

func WithExpirationDays(days int) CreateOption {
	return func(options *CreateOptions) error {
		if days < 1 {
			return fmt.Errorf("invalid expiration days")
		}
		options.expire = time.Duration(days) * 24 * time.Hour
		return nil
	}
}

func WithKeyType(keyType KeyType) CreateOption {
	return func(options *CreateOptions) error {
		if keyType == nil {
			return fmt.Errorf("key type is nil")
		}
		options.keyType = keyType
		return nil
	}
}

// WithKey uses an existing signer instead of generating a key pair.
func WithKey(key crypto.Signer) CreateOption {
	return func(options *CreateOptions) error {
		if key == nil {
			return fmt.Errorf("key is nil")
		}
		options.key = key
		return nil
	}
}

type CreateOptions struct {
	keyType      KeyType
	key          crypto.Signer
	serialNumber *big.Int
	expire       time.Duration
}

const defaultExpiration = 365 * 24 * time.Hour

func newCreateOptions(opts []CreateOption) (opt *CreateOptions, err error) {
	opt = &CreateOptions{
		keyType: ECDSA(),
		expire:  defaultExpiration,
	}
	for _, option := range opts {
		if option == nil {
			continue
		}
		if optErr := option(opt); optErr != nil {
			err = optErr
			return
		}
	}
	return
}
