package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playpool/billiard/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Clients manages API clients and their hashed secrets.
type Clients struct {
	db *sqlx.DB
}

func NewClients(db *sqlx.DB) *Clients {
	return &Clients{db: db}
}

// Create inserts or replaces a client, hashing secret with bcrypt.
func (s *Clients) Create(ctx context.Context, clientID, name, secret string, scopes []string) error {
	hash, err := HashSecret(secret)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO api_clients (client_id, name, secret_hash, scopes, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (client_id) DO UPDATE SET
			name = EXCLUDED.name,
			secret_hash = EXCLUDED.secret_hash,
			scopes = EXCLUDED.scopes`,
		clientID, name, hash, pq.Array(scopes))
	return err
}

func (s *Clients) Get(ctx context.Context, clientID string) (*models.APIClient, error) {
	var c models.APIClient
	err := s.db.GetContext(ctx, &c,
		`SELECT client_id, name, secret_hash, scopes, created_at, last_used_at FROM api_clients WHERE client_id=$1`,
		clientID)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Authenticate checks secret against the stored hash and records the use.
// Unknown clients and wrong secrets both yield ErrInvalidCredentials.
func (s *Clients) Authenticate(ctx context.Context, clientID, secret string) (*models.APIClient, error) {
	c, err := s.Get(ctx, clientID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifySecret(c.SecretHash, secret) {
		return nil, ErrInvalidCredentials
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE api_clients SET last_used_at=NOW() WHERE client_id=$1`, clientID); err != nil {
		return nil, err
	}
	return c, nil
}

func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}

func VerifySecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
