package googleauth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/logging"
	"github.com/hebsync/hebsync/internal/server/models"
	"github.com/hebsync/hebsync/internal/server/repositories/repomanager"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// expiryLeeway is subtracted from the stored expiry so a token about to
// lapse mid-batch is refreshed up front.
const expiryLeeway = 2 * time.Minute

// Provider turns a stored credential into a usable access token. Any error
// it returns means "skip this user this sweep".
type Provider struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	vault       *Vault

	clientID     string
	clientSecret string
	// tokenEndpoint overrides Google's token URL; tests point it at a
	// local server.
	tokenEndpoint string

	log logging.Logger
	now func() time.Time
}

func NewProvider(db *sql.DB, rm repomanager.RepositoryManager, vault *Vault, clientID, clientSecret string, log logging.Logger) *Provider {
	return &Provider{
		db:           db,
		repomanager:  rm,
		vault:        vault,
		clientID:     clientID,
		clientSecret: clientSecret,
		log:          log,
		now:          time.Now,
	}
}

// GetValidAccessToken returns the stored access token when it is still
// comfortably valid, otherwise refreshes through the OAuth2 endpoint and
// persists the rotated credential before returning.
func (p *Provider) GetValidAccessToken(ctx context.Context, userID string) (string, error) {
	repo := p.repomanager.Tokens(p.db)

	rec, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCredentialUnavailable, err)
	}

	if rec.AccessToken != "" && p.stillValid(rec) {
		return rec.AccessToken, nil
	}

	refreshToken, err := p.vault.Open(rec.RefreshCiphertext, rec.RefreshNonce)
	if err != nil {
		return "", fmt.Errorf("%w: open sealed refresh token: %v", common.ErrCredentialUnavailable, err)
	}

	tok, err := p.refresh(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCredentialUnavailable, err)
	}
	p.log.Info(ctx, "refreshed access token", "user_id", userID)

	rec.AccessToken = tok.AccessToken
	if tok.Expiry.IsZero() {
		rec.AccessTokenExpiry = nil
	} else {
		expiry := tok.Expiry
		rec.AccessTokenExpiry = &expiry
	}
	if tok.RefreshToken != "" && tok.RefreshToken != refreshToken {
		ciphertext, nonce, err := p.vault.Seal(tok.RefreshToken)
		if err != nil {
			return "", fmt.Errorf("%w: seal rotated refresh token: %v", common.ErrCredentialUnavailable, err)
		}
		rec.RefreshCiphertext, rec.RefreshNonce = ciphertext, nonce
	}

	if err := repo.Upsert(ctx, rec); err != nil {
		return "", fmt.Errorf("%w: persist refreshed token: %v", common.ErrCredentialUnavailable, err)
	}

	return tok.AccessToken, nil
}

// StoreRefreshToken seals a newly obtained refresh token and persists it,
// replacing whatever credential the user had. The access token is left
// empty so the first sweep refreshes.
func (p *Provider) StoreRefreshToken(ctx context.Context, userID, refreshToken string) error {
	ciphertext, nonce, err := p.vault.Seal(refreshToken)
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}

	repo := p.repomanager.Tokens(p.db)
	return repo.Upsert(ctx, &models.TokenRecord{
		UserID:            userID,
		RefreshCiphertext: ciphertext,
		RefreshNonce:      nonce,
	})
}

func (p *Provider) stillValid(rec *models.TokenRecord) bool {
	deadline := p.now().Add(expiryLeeway)
	if rec.AccessTokenExpiry != nil {
		return rec.AccessTokenExpiry.After(deadline)
	}
	if exp, ok := unverifiedExpiry(rec.AccessToken); ok {
		return exp.After(deadline)
	}
	return false
}

func (p *Provider) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	endpoint := google.Endpoint
	if p.tokenEndpoint != "" {
		endpoint = oauth2.Endpoint{TokenURL: p.tokenEndpoint}
	}

	cfg := &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		Endpoint:     endpoint,
	}

	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	return tok, nil
}

// unverifiedExpiry extracts the exp claim without verifying the signature.
// Most Google access tokens are opaque; when the token is not a JWT there
// is nothing to read and the probe reports false.
func unverifiedExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
