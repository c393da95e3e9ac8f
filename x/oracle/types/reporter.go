package types

import (
	"encoding/base64"
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
)

// Reporter is the durable record of an authorized data submitter: its
// credential, escrowed stake and trust score. The Reporter Registry is the
// sole owner of reporter lifecycle; feeds reference reporters by address only.
type Reporter struct {
	Address     string   `json:"address"`
	Credential  string   `json:"credential"` // base64 ed25519 public key
	Stake       math.Int `json:"stake"`
	Reputation  uint32   `json:"reputation"`
	Submissions uint64   `json:"submissions"`
	Slashes     uint64   `json:"slashes"`
}

// Validate performs stateless checks on a reporter record.
func (r Reporter) Validate() error {
	if r.Address == "" {
		return fmt.Errorf("reporter address cannot be empty")
	}
	if _, err := r.PubKey(); err != nil {
		return err
	}
	if r.Stake.IsNil() || r.Stake.IsNegative() {
		return fmt.Errorf("stake cannot be negative")
	}
	return nil
}

// PubKey decodes the reporter's credential into an ed25519 public key.
func (r Reporter) PubKey() (cryptotypes.PubKey, error) {
	bz, err := base64.StdEncoding.DecodeString(r.Credential)
	if err != nil {
		return nil, fmt.Errorf("malformed credential: %w", err)
	}
	if len(bz) != ed25519.PubKeySize {
		return nil, fmt.Errorf("credential must be %d bytes, got %d", ed25519.PubKeySize, len(bz))
	}
	return &ed25519.PubKey{Key: bz}, nil
}

// Weight returns the reporter's aggregation weight: stake scaled by
// reputation. A zero-reputation reporter contributes nothing to consensus.
func (r Reporter) Weight() math.Int {
	return r.Stake.MulRaw(int64(r.Reputation))
}

// EncodeCredential encodes a raw ed25519 public key as a stored credential.
func EncodeCredential(pubKey []byte) string {
	return base64.StdEncoding.EncodeToString(pubKey)
}
