package submit

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"slices"
	"strings"

	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/cloudflare/circl/sign/ed448"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

var ErrMissingKey = errors.New("signing key not available")

var signDomain = []byte("astatine-transfer")

// SignedInstruction is a transfer instruction together with the owner key and
// the signature over its digest. It is the body posted to the submission
// endpoint.
type SignedInstruction struct {
	distribution.TransferInstruction
	Owner     string `json:"owner"`
	Signature string `json:"signature"`

	digest [32]byte
}

// IdempotencyKey is the base58 encoded digest, identical for identical
// instructions.
func (s *SignedInstruction) IdempotencyKey() string {
	return base58.Encode(s.digest[:])
}

type Signer struct {
	privateKey ed448.PrivateKey
	publicKey  ed448.PublicKey
}

// NewSigner accepts either a 57 byte seed or a full 114 byte private key.
func NewSigner(key []byte) (*Signer, error) {
	var privateKey ed448.PrivateKey
	switch len(key) {
	case ed448.SeedSize:
		privateKey = ed448.NewKeyFromSeed(key)
	case ed448.PrivateKeySize:
		privateKey = ed448.PrivateKey(slices.Clone(key))
	default:
		return nil, errors.Wrapf(ErrMissingKey, "invalid key length %d", len(key))
	}

	return &Signer{
		privateKey: privateKey,
		publicKey:  privateKey.Public().(ed448.PublicKey),
	}, nil
}

// SignerFromEnv reads a hex encoded key from the named environment variable.
func SignerFromEnv(name string) (*Signer, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return nil, errors.Wrapf(ErrMissingKey, "environment variable %s is empty", name)
	}

	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, errors.Wrap(err, "signer from env")
	}

	return NewSigner(key)
}

func GenerateSigner() (*Signer, error) {
	_, privateKey, err := ed448.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate signer")
	}
	return NewSigner(privateKey)
}

// Owner returns the base58 encoded public key.
func (s *Signer) Owner() string {
	return base58.Encode(s.publicKey)
}

func (s *Signer) Sign(
	instruction distribution.TransferInstruction,
) (*SignedInstruction, error) {
	digest, err := Digest(instruction)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}

	signature := ed448.Sign(s.privateKey, digest[:], "")
	return &SignedInstruction{
		TransferInstruction: instruction,
		Owner:               s.Owner(),
		Signature:           base58.Encode(signature),
		digest:              digest,
	}, nil
}

// Verify checks the signature against the instruction it carries.
func (s *Signer) Verify(signed *SignedInstruction) bool {
	digest, err := Digest(signed.TransferInstruction)
	if err != nil {
		return false
	}

	signature, err := base58.Decode(signed.Signature)
	if err != nil {
		return false
	}

	return ed448.Verify(s.publicKey, digest[:], signature, "")
}

// Digest hashes the canonical JSON encoding of the instruction.
func Digest(instruction distribution.TransferInstruction) ([32]byte, error) {
	payload, err := json.Marshal(instruction)
	if err != nil {
		return [32]byte{}, err
	}
	return sha3.Sum256(slices.Concat(signDomain, payload)), nil
}
