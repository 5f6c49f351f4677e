// Package snapshot persists the session identity and the transport's cookie
// jar in the local SQLite database, optionally sealed with a user secret.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/repositories/metadata"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/session"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/cryptox"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/dbx"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
)

const (
	IdentityKey = "session.identity"
	CookiesKey  = "session.cookies"
	// SaltKey lives outside the session namespace so it survives Clear.
	SaltKey = "snapshot.salt"

	DefaultTTL = 7 * 24 * time.Hour
)

type record struct {
	Payload json.RawMessage `json:"payload"`
	SavedAt time.Time       `json:"saved_at"`
}

// Store is the durable session snapshot. Records older than the TTL are
// treated as absent and removed on read.
type Store struct {
	db     *sql.DB
	repo   metadata.Repository
	ttl    time.Duration
	secret string
	key    []byte
	now    func() time.Time
	log    logging.Logger
}

var (
	_ session.SnapshotStore = (*Store)(nil)
	_ client.CookieStore    = (*Store)(nil)
)

type Option func(*Store)

func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithSecret seals every record with a key derived from secret.
func WithSecret(secret string) Option {
	return func(s *Store) { s.secret = secret }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open prepares a Store over an already migrated database. With a secret,
// the per-database salt is created on first use.
func Open(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{
		db:   db,
		repo: metadata.NewSQLiteRepository(db),
		ttl:  DefaultTTL,
		now:  time.Now,
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.secret != "" {
		salt, err := s.repo.Get(ctx, SaltKey)
		if err != nil {
			return nil, fmt.Errorf("snapshot salt: %w", err)
		}
		if salt == nil {
			salt = common.GenerateRandByteArray(16)
			if err := s.repo.Set(ctx, SaltKey, salt); err != nil {
				return nil, fmt.Errorf("snapshot salt: %w", err)
			}
		}
		s.key = cryptox.DeriveKey([]byte(s.secret), salt)
	}
	return s, nil
}

func (s *Store) encode(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(record{Payload: raw, SavedAt: s.now().UTC()})
	if err != nil {
		return nil, err
	}
	if s.key == nil {
		return b, nil
	}
	return cryptox.Seal(s.key, b)
}

var errExpired = errors.New("snapshot expired")

func (s *Store) decode(value []byte) (json.RawMessage, error) {
	if s.key != nil {
		plain, err := cryptox.Open(s.key, value)
		if err != nil {
			return nil, err
		}
		value = plain
	}

	var rec record
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.now().Sub(rec.SavedAt) > s.ttl {
		return nil, errExpired
	}
	return rec.Payload, nil
}

// read returns the payload under key, or nil when absent. Expired or
// unreadable records are deleted.
func (s *Store) read(ctx context.Context, key string) (json.RawMessage, error) {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}

	payload, err := s.decode(value)
	if err != nil {
		s.log.Info(ctx, "discarding stored record", "key", key, "reason", err)
		if derr := s.repo.Delete(ctx, key); derr != nil {
			return nil, derr
		}
		return nil, nil
	}
	return payload, nil
}

func (s *Store) write(ctx context.Context, key string, payload any) error {
	b, err := s.encode(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.repo.Set(ctx, key, b)
}

func (s *Store) Load(ctx context.Context) (*session.Identity, error) {
	payload, err := s.read(ctx, IdentityKey)
	if err != nil || payload == nil {
		return nil, err
	}

	var id session.Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		s.log.Info(ctx, "discarding stored identity", "reason", err)
		return nil, s.repo.Delete(ctx, IdentityKey)
	}
	return &id, nil
}

func (s *Store) Save(ctx context.Context, id session.Identity) error {
	return s.write(ctx, IdentityKey, id)
}

// Clear removes the identity and the cookie jar in one transaction.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, IdentityKey, CookiesKey)
	})
}

func (s *Store) LoadCookies(ctx context.Context) ([]byte, error) {
	payload, err := s.read(ctx, CookiesKey)
	if err != nil || payload == nil {
		return nil, err
	}
	return payload, nil
}

func (s *Store) SaveCookies(ctx context.Context, data []byte) error {
	return s.write(ctx, CookiesKey, json.RawMessage(data))
}
