// Package session keeps short lived server side state, such as the OIDC
// state of a pending login, in a fiber storage.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/redis/go-redis/v9"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/db/dsn"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
	StorageRedis    = "redis"
)

// RedisPrefix namespaces the sessions in redis.
const RedisPrefix = "session:"

// DefaultTable holds the sessions in SQL backends.
const DefaultTable = "dms_sessions"

// ExportTable and ExportRedisPrefix hold the scheduled report exports.
const (
	ExportTable       = "dms_report_exports"
	ExportRedisPrefix = "report_export:"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")

	// ErrUnknownStorage is returned for an unsupported storage backend.
	ErrUnknownStorage = errors.New("unknown session storage")

	// ErrNoRedis is returned for the redis backend without a client.
	ErrNoRedis = errors.New("session storage redis needs a redis client")
)

// Data is stored between the OIDC login redirect and its callback.
type Data struct {
	ReturnTo  string    `json:"returnTo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store reads and writes Data.
type Store struct {
	storage fiber.Storage
}

// New creates a store on storage, nil keeps the sessions in memory.
func New(storage fiber.Storage) *Store {
	if storage == nil {
		storage = MemoryStorage()
	}

	return &Store{storage: storage}
}

// NewStorage opens the storage backend configured in cfg.Session. The memory
// backend returns nil, the redis backend uses rdb.
func NewStorage(cfg *config.Config, rdb redis.UniversalClient) (fiber.Storage, error) {
	table := cfg.Session.Table
	if table == "" {
		table = DefaultTable
	}

	return openStorage(cfg, rdb, table, RedisPrefix)
}

// NewExportStorage opens the backend of cfg.Session for scheduled report
// exports, in its own table or key prefix. It never returns a nil storage.
func NewExportStorage(cfg *config.Config, rdb redis.UniversalClient) (fiber.Storage, error) {
	storage, err := openStorage(cfg, rdb, ExportTable, ExportRedisPrefix)
	if err != nil || storage != nil {
		return storage, err
	}

	return MemoryStorage(), nil
}

// MemoryStorage returns a new in-process storage.
func MemoryStorage() fiber.Storage {
	return session.New().Storage
}

func openStorage(cfg *config.Config, rdb redis.UniversalClient, table, prefix string) (fiber.Storage, error) {
	switch cfg.Session.Storage {
	case "", StorageMemory:
		return nil, nil //nolint:nilnil
	case StoragePostgres:
		return postgres.New(postgres.Config{ConnectionURI: dsn.Postgres(&cfg.DB), Table: table}), nil
	case StorageMySQL:
		return mysql.New(mysql.Config{ConnectionURI: dsn.MySQL(&cfg.DB), Table: table}), nil
	case StorageRedis:
		if rdb == nil {
			return nil, ErrNoRedis
		}

		return NewRedisStorage(rdb, prefix), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownStorage, cfg.Session.Storage)
}

// Save writes the data of session id.
func (s *Store) Save(id string, d Data, exp time.Duration) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	out, err := json.Marshal(d)
	if err != nil {
		return err
	}

	return s.storage.Set(id, out, exp)
}

// Take reads and deletes the data of session id.
func (s *Store) Take(id string) (Data, error) {
	var d Data

	if id == "" {
		return d, ErrNotFound
	}

	raw, err := s.storage.Get(id)
	if err != nil {
		return d, err
	}

	if len(raw) == 0 {
		return d, ErrNotFound
	}

	if err := s.storage.Delete(id); err != nil {
		return d, err
	}

	return d, json.Unmarshal(raw, &d)
}

// Close releases the storage.
func (s *Store) Close() error {
	return s.storage.Close()
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
