package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "shopfront"

// KeyringStorage stores each key as a secret in the OS keychain/credential manager.
type KeyringStorage struct {
	service string
	// account prefix, so several API endpoints can keep separate sessions
	prefix string
}

// NewKeyringStorage scopes entries under the given profile (usually the API URL).
func NewKeyringStorage(profile string) *KeyringStorage {
	return &KeyringStorage{service: keyringService, prefix: profile}
}

func (k *KeyringStorage) account(key string) string {
	if k.prefix == "" {
		return key
	}
	return k.prefix + "|" + key
}

func (k *KeyringStorage) Get(_ context.Context, key string) (string, bool, error) {
	v, err := keyring.Get(k.service, k.account(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv.KeyringStorage.Get: %w", err)
	}
	return v, true, nil
}

func (k *KeyringStorage) Set(_ context.Context, key, value string) error {
	if err := keyring.Set(k.service, k.account(key), value); err != nil {
		return fmt.Errorf("kv.KeyringStorage.Set: %w", err)
	}
	return nil
}

func (k *KeyringStorage) Delete(_ context.Context, key string) error {
	if err := keyring.Delete(k.service, k.account(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("kv.KeyringStorage.Delete: %w", err)
	}
	return nil
}
