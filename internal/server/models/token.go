package models

import "time"

// TokenRecord is the stored OAuth credential for one user. The refresh
// token is sealed with AES-GCM; only the ciphertext and nonce touch the
// database. The access token is short-lived and kept in the clear.
type TokenRecord struct {
	UserID      string
	AccessToken string
	// AccessTokenExpiry is nil when the issuer did not report a lifetime.
	AccessTokenExpiry *time.Time
	RefreshCiphertext []byte
	RefreshNonce      []byte
	UpdatedAt         time.Time
}
