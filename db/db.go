package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection        = "users"
	PackagesCollection     = "packages"
	BookingsCollection     = "bookings"
	HomeConfigCollection   = "homeconfig"
	LegacyAdminsCollection = "admins"
)

// ErrCoolingDown is returned while the pool refuses to dial after too many
// consecutive failures.
var ErrCoolingDown = errors.New("database connection cooling down")

// DialFunc opens and verifies a client for uri.
type DialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

type Options struct {
	URI         string
	Database    string
	MaxAttempts int
	Cooldown    time.Duration
	Dial        DialFunc
	Now         func() time.Time
}

// Pool owns the process's MongoDB client. It connects lazily, caches the
// client, and after MaxAttempts consecutive dial failures stops dialing
// until Cooldown has elapsed.
type Pool struct {
	uri         string
	database    string
	maxAttempts int
	cooldown    time.Duration
	dial        DialFunc
	now         func() time.Time

	mu         sync.Mutex
	client     *mongo.Client
	failures   int
	retryAfter time.Time
}

func NewPool(opts Options) *Pool {
	p := &Pool{
		uri:         opts.URI,
		database:    opts.Database,
		maxAttempts: opts.MaxAttempts,
		cooldown:    opts.Cooldown,
		dial:        opts.Dial,
		now:         opts.Now,
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = 3
	}
	if p.cooldown <= 0 {
		p.cooldown = 30 * time.Second
	}
	if p.dial == nil {
		p.dial = dialMongo
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Connect returns the cached client, dialing when none exists yet.
func (p *Pool) Connect(ctx context.Context) (*mongo.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	now := p.now()
	if now.Before(p.retryAfter) {
		return nil, fmt.Errorf("%w: retry in %s", ErrCoolingDown, p.retryAfter.Sub(now).Round(time.Second))
	}

	client, err := p.dial(ctx, p.uri)
	if err != nil {
		p.failures++
		log.Printf("[db] connect attempt %d/%d failed: %v", p.failures, p.maxAttempts, err)
		if p.failures >= p.maxAttempts {
			p.retryAfter = now.Add(p.cooldown)
			p.failures = 0
			log.Printf("[db] too many failures; cooling down for %s", p.cooldown)
		}
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	p.failures = 0
	p.retryAfter = time.Time{}
	p.client = client
	log.Printf("[db] connected to database %q", p.database)
	return client, nil
}

// Collection returns a handle on name in the configured database.
func (p *Pool) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	client, err := p.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(p.database).Collection(name), nil
}

// Ping checks the live connection, dialing if needed.
func (p *Pool) Ping(ctx context.Context) error {
	client, err := p.Connect(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Shutdown disconnects the cached client. The pool may be reused afterwards.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	log.Println("[db] connection closed")
	return nil
}

// IsDuplicateKey reports whether err came from a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNoDocuments reports whether err is mongo's "no documents" sentinel.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
