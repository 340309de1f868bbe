package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/pkg/model"
)

// Store defines the contract for the submission audit trail and the
// newsletter subscriber table. Everything here is a best-effort side channel:
// callers log failures and move on.
type Store interface {
	RecordSubmission(ctx context.Context, rec model.SubmissionRecord) error
	SaveSubscriber(ctx context.Context, sub model.Subscriber) error
	GetSubscriber(ctx context.Context, email string) (*model.Subscriber, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// HybridStore is Redis-first for recent-result lookups, Postgres-backed for
// durable rows.
type HybridStore struct {
	redis  *redis.Client
	PG     *pgxpool.Pool
	logger *zap.Logger
}

type PGPoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// NewHybrid creates a Redis + Postgres store. pgURL may be empty, in which
// case only the Redis half is available and durable writes fail.
func NewHybrid(redisAddr string, redisDB int, redisPass, pgURL string, pgPoolConfig PGPoolConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		DB:       redisDB,
		Password: redisPass,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	var pgPool *pgxpool.Pool
	if pgURL != "" {
		cfg, err := pgxpool.ParseConfig(pgURL)
		if err != nil {
			return nil, fmt.Errorf("invalid pg config: %w", err)
		}
		if pgPoolConfig.MaxConns > 0 {
			cfg.MaxConns = pgPoolConfig.MaxConns
		}
		if pgPoolConfig.MinConns > 0 {
			cfg.MinConns = pgPoolConfig.MinConns
		}
		if pgPoolConfig.MaxConnLifetime > 0 {
			cfg.MaxConnLifetime = pgPoolConfig.MaxConnLifetime
		}
		if pgPoolConfig.MaxConnIdleTime > 0 {
			cfg.MaxConnIdleTime = pgPoolConfig.MaxConnIdleTime
		}
		if pgPoolConfig.HealthCheckPeriod > 0 {
			cfg.HealthCheckPeriod = pgPoolConfig.HealthCheckPeriod
		}
		pgPool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	return &HybridStore{redis: rdb, PG: pgPool, logger: logger}, nil
}

// RecordSubmission inserts the audit row and caches the latest outcome per
// email for quick lookup.
func (s *HybridStore) RecordSubmission(ctx context.Context, rec model.SubmissionRecord) error {
	// Cache regardless of Postgres availability.
	if err := s.SetJSON(ctx, lastSubmissionKey(rec.Email), rec, 24*time.Hour); err != nil {
		s.logger.Warn("store.cache_submission_failed",
			zap.String("submission_id", rec.ID),
			zap.Error(err))
	}

	if s.PG == nil {
		return fmt.Errorf("postgres unavailable")
	}

	_, err := s.PG.Exec(ctx, `
		INSERT INTO crm.submissions (id, kind, email, success, client_id, errors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Kind, rec.Email, rec.Success, rec.ClientID,
		strings.Join(rec.Errors, "; "), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// SaveSubscriber upserts a newsletter subscriber keyed by email.
func (s *HybridStore) SaveSubscriber(ctx context.Context, sub model.Subscriber) error {
	if s.PG == nil {
		return fmt.Errorf("postgres unavailable")
	}

	_, err := s.PG.Exec(ctx, `
		INSERT INTO crm.newsletter_subscribers (email, name, interests, source, subscribed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    interests = EXCLUDED.interests,
		    source = EXCLUDED.source,
		    updated_at = now()`,
		sub.Email, sub.Name, strings.Join(sub.Interests, ","), sub.Source, sub.SubscribedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	return nil
}

// GetSubscriber returns a subscriber row, or nil when unknown.
func (s *HybridStore) GetSubscriber(ctx context.Context, email string) (*model.Subscriber, error) {
	if s.PG == nil {
		return nil, fmt.Errorf("postgres unavailable")
	}

	var sub model.Subscriber
	var interests string
	err := s.PG.QueryRow(ctx, `
		SELECT email, name, interests, source, subscribed_at
		FROM crm.newsletter_subscribers
		WHERE email = $1`, email,
	).Scan(&sub.Email, &sub.Name, &interests, &sub.Source, &sub.SubscribedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select subscriber: %w", err)
	}
	if interests != "" {
		sub.Interests = strings.Split(interests, ",")
	}
	return &sub, nil
}

// SetJSON stores a JSON-encoded value in Redis with TTL.
func (s *HybridStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, ttl).Err()
}

// GetJSON reads a JSON-encoded value from Redis.
func (s *HybridStore) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// HealthCheck pings both halves of the store.
func (s *HybridStore) HealthCheck(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if s.PG != nil {
		if err := s.PG.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	return nil
}

func (s *HybridStore) Close() error {
	if s.PG != nil {
		s.PG.Close()
	}
	return s.redis.Close()
}

func lastSubmissionKey(email string) string {
	return "submission:last:" + strings.ToLower(email)
}
