package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/cryptox"
	"github.com/dmitrijs2005/recordkeeper/internal/filex"
)

const (
	KeystoreFileName = "keystore.json"
	GrantsFileName   = "grants.json"

	keystoreVersion = 1
	saltSize        = 16
)

var (
	ErrKeystoreExists   = errors.New("keystore already exists")
	ErrKeystoreNotFound = errors.New("keystore not found")
	ErrWrongPassphrase  = errors.New("wrong passphrase")
)

// Keystore is the on-disk form of a wallet: an ed25519 seed sealed with a
// key derived from the user's passphrase.
type Keystore struct {
	Version    int       `json:"version"`
	Address    string    `json:"address"`
	Network    string    `json:"network"`
	Salt       []byte    `json:"salt"`
	Nonce      []byte    `json:"nonce"`
	Ciphertext []byte    `json:"ciphertext"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateKeystore seals seed (a fresh one when nil) under passphrase and
// writes it to dir. An existing keystore is never overwritten.
func CreateKeystore(dir string, passphrase, seed []byte, network string) (*Keystore, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, KeystoreFileName)
	if filex.Exists(path) {
		return nil, ErrKeystoreExists
	}

	if seed == nil {
		if seed, err = cryptox.GenerateSeed(); err != nil {
			return nil, fmt.Errorf("generate seed: %w", err)
		}
		defer common.WipeByteArray(seed)
	}

	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	ct, nonce, err := cryptox.Seal(seed, key)
	if err != nil {
		return nil, fmt.Errorf("seal seed: %w", err)
	}

	ks := &Keystore{
		Version:    keystoreVersion,
		Address:    cryptox.EncodeAddress(cryptox.PublicKey(seed)),
		Network:    network,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ct,
		CreatedAt:  time.Now().UTC(),
	}

	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return nil, err
	}
	return ks, nil
}

func LoadKeystore(dir string) (*Keystore, error) {
	data, err := os.ReadFile(filepath.Join(dir, KeystoreFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrKeystoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}

	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if ks.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", ks.Version)
	}
	if _, err := cryptox.DecodeAddress(ks.Address); err != nil {
		return nil, fmt.Errorf("keystore address: %w", err)
	}
	return &ks, nil
}

// Unlock returns the seed. The caller should wipe it after use.
func (k *Keystore) Unlock(passphrase []byte) ([]byte, error) {
	key := cryptox.DeriveMasterKey(passphrase, k.Salt)
	defer common.WipeByteArray(key)

	seed, err := cryptox.Open(k.Ciphertext, k.Nonce, key)
	if errors.Is(err, cryptox.ErrDecrypt) {
		return nil, ErrWrongPassphrase
	}
	if err != nil {
		return nil, err
	}
	if cryptox.EncodeAddress(cryptox.PublicKey(seed)) != k.Address {
		common.WipeByteArray(seed)
		return nil, fmt.Errorf("keystore seed does not match address %s", k.Address)
	}
	return seed, nil
}
