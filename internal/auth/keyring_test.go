package auth

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"

	siteerrors "github.com/salmonumbrella/notion-site/internal/errors"
)

// fakeProvider is an in-memory keyring.
type fakeProvider struct {
	items map[string]keyring.Item
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{items: make(map[string]keyring.Item)}
}

func (f *fakeProvider) Get(key string) (keyring.Item, error) {
	item, ok := f.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return item, nil
}

func (f *fakeProvider) Set(item keyring.Item) error {
	f.items[item.Key] = item
	return nil
}

func (f *fakeProvider) Remove(key string) error {
	if _, ok := f.items[key]; !ok {
		return keyring.ErrKeyNotFound
	}
	delete(f.items, key)
	return nil
}

func withFakeKeyring(t *testing.T) *fakeProvider {
	t.Helper()
	fake := newFakeProvider()
	orig := SetOpenKeyringFunc(func() (Provider, error) { return fake, nil })
	t.Cleanup(func() { SetOpenKeyringFunc(orig) })
	return fake
}

func TestSetGetRemoveToken(t *testing.T) {
	withFakeKeyring(t)

	if err := SetToken("ntn_secret"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	token, err := GetKeyringToken()
	if err != nil {
		t.Fatalf("GetKeyringToken() error = %v", err)
	}
	if token != "ntn_secret" {
		t.Errorf("token = %q", token)
	}

	if err := RemoveToken(); err != nil {
		t.Fatalf("RemoveToken() error = %v", err)
	}
	if _, err := GetKeyringToken(); err == nil {
		t.Error("expected an error after removal")
	}
}

func TestSetTokenRejectsEmpty(t *testing.T) {
	withFakeKeyring(t)
	if err := SetToken(""); err == nil {
		t.Error("expected an error for an empty token")
	}
}

func TestGetTokenPrefersEnvironment(t *testing.T) {
	fake := withFakeKeyring(t)
	fake.items[KeyName] = keyring.Item{Key: KeyName, Data: []byte("from-keyring")}

	t.Setenv(EnvVarName, "from-env")
	token, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if token != "from-env" {
		t.Errorf("token = %q, want the environment value", token)
	}
}

func TestGetTokenFallsBackToKeyring(t *testing.T) {
	fake := withFakeKeyring(t)
	fake.items[KeyName] = keyring.Item{Key: KeyName, Data: []byte("from-keyring")}

	t.Setenv(EnvVarName, "")
	token, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if token != "from-keyring" {
		t.Errorf("token = %q", token)
	}
}

func TestGetKeyringTokenMissingIsUserError(t *testing.T) {
	withFakeKeyring(t)

	_, err := GetKeyringToken()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !siteerrors.IsUserError(err) {
		t.Errorf("error %T should be a UserError", err)
	}
	if suggestion := siteerrors.UserSuggestion(err); suggestion == "" {
		t.Error("expected a suggestion on the auth error")
	}
}

func TestKeyringOpenFailure(t *testing.T) {
	orig := SetOpenKeyringFunc(func() (Provider, error) { return nil, errors.New("no backend") })
	t.Cleanup(func() { SetOpenKeyringFunc(orig) })

	if _, err := GetKeyringToken(); err == nil {
		t.Error("GetKeyringToken: expected an error")
	}
	if err := SetToken("x"); err == nil {
		t.Error("SetToken: expected an error")
	}
	if err := RemoveToken(); err == nil {
		t.Error("RemoveToken: expected an error")
	}
}
