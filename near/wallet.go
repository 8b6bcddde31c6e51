package near

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const keyringService = "agent-arcade"

// CredentialStore persists a wallet's function-call key.
type CredentialStore interface {
	Set(accountID, key string) error
	Get(accountID string) (string, error)
	Delete(accountID string) error
}

// ErrNoCredentials is returned when no key is stored for an account.
var ErrNoCredentials = errors.New("no credentials stored")

// KeyringStore keeps credentials in the OS keychain with a JSON file
// fallback for headless environments.
type KeyringStore struct {
	service      string
	fallbackPath string
	mu           sync.Mutex
}

func NewKeyringStore(fallbackPath string) *KeyringStore {
	return &KeyringStore{service: keyringService, fallbackPath: fallbackPath}
}

func (k *KeyringStore) Set(accountID, key string) error {
	if err := keyring.Set(k.service, accountID, key); err == nil {
		return nil
	}
	return k.setFallback(accountID, key)
}

func (k *KeyringStore) Get(accountID string) (string, error) {
	if v, err := keyring.Get(k.service, accountID); err == nil {
		return v, nil
	} else if !errors.Is(err, keyring.ErrNotFound) {
		if v, ferr := k.getFallback(accountID); ferr == nil {
			return v, nil
		}
		return "", err
	}
	return k.getFallback(accountID)
}

// Delete clears the credential from the keychain and the fallback file. A
// keychain failure falls through to the fallback, matching Set.
func (k *KeyringStore) Delete(accountID string) error {
	_ = keyring.Delete(k.service, accountID)
	return k.deleteFallback(accountID)
}

func (k *KeyringStore) setFallback(accountID, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	entries, _ := k.readFallback()
	entries[accountID] = key
	return k.writeFallback(entries)
}

func (k *KeyringStore) getFallback(accountID string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entries, err := k.readFallback()
	if err != nil {
		return "", ErrNoCredentials
	}
	v, ok := entries[accountID]
	if !ok {
		return "", ErrNoCredentials
	}
	return v, nil
}

func (k *KeyringStore) deleteFallback(accountID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	entries, err := k.readFallback()
	if err != nil {
		return nil
	}
	delete(entries, accountID)
	return k.writeFallback(entries)
}

func (k *KeyringStore) readFallback() (map[string]string, error) {
	entries := make(map[string]string)
	if k.fallbackPath == "" {
		return entries, nil
	}
	data, err := os.ReadFile(k.fallbackPath)
	if err != nil {
		return entries, err
	}
	err = json.Unmarshal(data, &entries)
	return entries, err
}

func (k *KeyringStore) writeFallback(entries map[string]string) error {
	if k.fallbackPath == "" {
		return fmt.Errorf("no fallback credential path configured")
	}
	if err := os.MkdirAll(filepath.Dir(k.fallbackPath), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(k.fallbackPath, data, 0o600)
}

// Wallet is a NEAR account with locally stored credentials. The login
// state check is synchronous; no network calls are involved.
type Wallet struct {
	AccountID string
	NetworkID string

	store CredentialStore
}

// NewWallet binds an account to a credential store. A nil store uses the
// OS keychain with a file fallback under the arcade directory.
func NewWallet(accountID string, store CredentialStore) *Wallet {
	if store == nil {
		fallback := ""
		if dir, err := ArcadeDir(); err == nil {
			fallback = filepath.Join(dir, "credentials.json")
		}
		store = NewKeyringStore(fallback)
	}
	return &Wallet{
		AccountID: accountID,
		NetworkID: resolved.NetworkID,
		store:     store,
	}
}

// Login stores the account's function-call key.
func (w *Wallet) Login(privateKey string) error {
	if strings.TrimSpace(w.AccountID) == "" {
		return fmt.Errorf("wallet has no account id")
	}
	if strings.TrimSpace(privateKey) == "" {
		return fmt.Errorf("private key is required")
	}
	return w.store.Set(w.AccountID, privateKey)
}

// Logout removes the stored key.
func (w *Wallet) Logout() error {
	return w.store.Delete(w.AccountID)
}

// IsLoggedIn reports whether credentials are stored for the account.
func (w *Wallet) IsLoggedIn() bool {
	if w == nil || strings.TrimSpace(w.AccountID) == "" {
		return false
	}
	_, err := w.store.Get(w.AccountID)
	return err == nil
}

// PrivateKey returns the stored key for signing.
func (w *Wallet) PrivateKey() (string, error) {
	key, err := w.store.Get(w.AccountID)
	if err != nil {
		return "", fmt.Errorf("load credentials for %s: %w", w.AccountID, err)
	}
	return key, nil
}
