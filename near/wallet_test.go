package near

import (
	"path/filepath"
	"testing"
)

type memStore map[string]string

func (m memStore) Set(accountID, key string) error {
	m[accountID] = key
	return nil
}

func (m memStore) Get(accountID string) (string, error) {
	v, ok := m[accountID]
	if !ok {
		return "", ErrNoCredentials
	}
	return v, nil
}

func (m memStore) Delete(accountID string) error {
	delete(m, accountID)
	return nil
}

func TestWalletLoginCycle(t *testing.T) {
	wallet := NewWallet("alice.testnet", memStore{})

	if wallet.IsLoggedIn() {
		t.Error("fresh wallet reports logged in")
	}
	if _, err := wallet.PrivateKey(); err == nil {
		t.Error("PrivateKey before login succeeded, want error")
	}

	if err := wallet.Login("ed25519:secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !wallet.IsLoggedIn() {
		t.Error("wallet reports logged out after Login")
	}
	key, err := wallet.PrivateKey()
	if err != nil {
		t.Fatalf("PrivateKey failed: %v", err)
	}
	if key != "ed25519:secret" {
		t.Errorf("PrivateKey = %q, want the stored key", key)
	}

	if err := wallet.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if wallet.IsLoggedIn() {
		t.Error("wallet reports logged in after Logout")
	}
}

func TestWalletRejectsEmptyInput(t *testing.T) {
	wallet := NewWallet("", memStore{})
	if err := wallet.Login("ed25519:secret"); err == nil {
		t.Error("Login with empty account id succeeded, want error")
	}
	if wallet.IsLoggedIn() {
		t.Error("wallet with empty account id reports logged in")
	}

	wallet = NewWallet("alice.testnet", memStore{})
	if err := wallet.Login("  "); err == nil {
		t.Error("Login with blank key succeeded, want error")
	}
}

func TestNilWalletIsLoggedOut(t *testing.T) {
	var wallet *Wallet
	if wallet.IsLoggedIn() {
		t.Error("nil wallet reports logged in")
	}
}

func TestWalletLogoutWithKeyringStore(t *testing.T) {
	// Logout must succeed on machines without an OS keychain, where only
	// the fallback file holds the credential.
	path := filepath.Join(t.TempDir(), "credentials.json")
	wallet := NewWallet("alice.testnet", NewKeyringStore(path))
	if err := wallet.Login("ed25519:secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := wallet.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if wallet.IsLoggedIn() {
		t.Error("wallet reports logged in after Logout")
	}
}

func TestKeyringStoreFileFallback(t *testing.T) {
	// The OS keychain is unavailable in test environments, so the store
	// lands on the JSON file.
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewKeyringStore(path)

	if _, err := store.Get("alice.testnet"); err == nil {
		t.Error("Get on empty store succeeded, want error")
	}
	if err := store.Set("alice.testnet", "ed25519:secret"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get("alice.testnet")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "ed25519:secret" {
		t.Errorf("Get = %q, want the stored key", got)
	}
	if err := store.Delete("alice.testnet"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get("alice.testnet"); err == nil {
		t.Error("Get after Delete succeeded, want error")
	}
}
