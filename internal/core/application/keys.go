package application

import (
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// DeriveSignerKey returns the private key of the signer at the given index
// for the given seed. Keys are derived as keccak256(seed || index) and are
// meant for development chains only.
func DeriveSignerKey(seed string, index int) (*ecdsa.PrivateKey, error) {
	i := make([]byte, 8)
	binary.BigEndian.PutUint64(i, uint64(index))

	key, err := crypto.ToECDSA(crypto.Keccak256([]byte(seed), i))
	if err != nil {
		return nil, fmt.Errorf("failed to derive signer key %d: %w", index, err)
	}
	return key, nil
}
