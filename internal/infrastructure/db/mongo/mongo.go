package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Provider hands out the database handle the repositories work on.
type Provider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

type fixedProvider struct{ db *mongo.Database }

func (p fixedProvider) Database(context.Context) (*mongo.Database, error) { return p.db, nil }

// Fixed wraps an already connected database as a Provider.
func Fixed(db *mongo.Database) Provider {
	return fixedProvider{db: db}
}

func collection(ctx context.Context, p Provider, name string) (*mongo.Collection, error) {
	db, err := p.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Store owns the single MongoDB client shared by every repository in the
// process. The connection is opened on the first call to Database and torn
// down by Close; a failed attempt is retried on the next call.
type Store struct {
	cfg     Config
	connect func(context.Context, Config) (*mongo.Client, *mongo.Database, error)

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg, connect: Connect}
}

var _ Provider = (*Store)(nil)

// Database returns the configured database, connecting first if needed.
func (s *Store) Database(ctx context.Context) (*mongo.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	client, db, err := s.connect(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	s.client, s.db = client, db
	return db, nil
}

// Close disconnects the client. It is safe to call on a store that never
// connected, and more than once.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client, s.db = nil, nil
	if err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}
