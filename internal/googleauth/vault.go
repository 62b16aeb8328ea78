// Package googleauth obtains usable Google access tokens for sweep work:
// refresh tokens live encrypted at rest, access tokens are validated with a
// leeway and refreshed on demand through the OAuth2 token endpoint.
package googleauth

import (
	"github.com/hebsync/hebsync/internal/cryptox"
)

// vaultSalt fixes the key derivation so the sealing key is a pure function
// of the configured secret. Changing it invalidates every stored token.
const vaultSalt = "hebsync-token-vault-v1"

// tokenPayload is the JSON shape sealed at rest.
type tokenPayload struct {
	RefreshToken string `json:"refresh_token"`
}

// Vault seals and opens refresh tokens with a key derived from the
// configured secret.
type Vault struct {
	key []byte
}

func NewVault(secret string) *Vault {
	return &Vault{key: cryptox.DeriveKey([]byte(secret), []byte(vaultSalt))}
}

// Seal encrypts a refresh token for storage.
func (v *Vault) Seal(refreshToken string) (ciphertext, nonce []byte, err error) {
	return cryptox.SealJSON(tokenPayload{RefreshToken: refreshToken}, v.key)
}

// Open decrypts a stored refresh token.
func (v *Vault) Open(ciphertext, nonce []byte) (string, error) {
	var payload tokenPayload
	if err := cryptox.OpenJSON(ciphertext, nonce, v.key, &payload); err != nil {
		return "", err
	}
	return payload.RefreshToken, nil
}
