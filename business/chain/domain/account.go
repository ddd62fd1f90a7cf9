// Package domain contains the core types of the chain context.
package domain

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrEmptyKey = errors.New("empty private key")

// Account is a signing key and the address derived from it.
type Account struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// ParseAccount parses a hex private key, with or without 0x.
func ParseAccount(hexKey string) (Account, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return Account{}, ErrEmptyKey
	}

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return Account{}, err
	}

	return Account{
		Key:     key,
		Address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Short renders the address as 0x1234…abcd for logs and the dashboard.
func (a Account) Short() string {
	h := a.Address.Hex()
	return h[:6] + "…" + h[len(h)-4:]
}
