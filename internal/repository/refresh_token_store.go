package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"piq/internal/domain"
)

const (
	tracerName = "piq/internal/repository"

	refreshKeyPrefix = "refreshToken:"
)

// Cmdable is the subset of go-redis used by the refresh token store.
type Cmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

var _ Cmdable = (*redis.Client)(nil)

// RefreshTokenStore keeps one refresh token per email with a TTL.
type RefreshTokenStore struct {
	rdb    Cmdable
	ttl    time.Duration
	tracer trace.Tracer
}

func NewRefreshTokenStore(rdb Cmdable, ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{
		rdb:    rdb,
		ttl:    ttl,
		tracer: otel.Tracer(tracerName),
	}
}

// NewRedisClient connects to Redis and checks the connection with a ping.
// url takes precedence over addr when set.
func NewRedisClient(ctx context.Context, url, addr, password string, db int, dialTimeout time.Duration) (*redis.Client, error) {
	var opts *redis.Options
	if url != "" {
		var err error
		opts, err = redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("redis: parse url: %w", err)
		}
	} else {
		opts = &redis.Options{Addr: addr, Password: password, DB: db}
	}
	if dialTimeout > 0 {
		opts.DialTimeout = dialTimeout
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

func RefreshTokenKey(email string) string {
	return refreshKeyPrefix + domain.NormalizeEmail(email)
}

// EmailFromKey is the inverse of RefreshTokenKey.
func EmailFromKey(key string) (string, bool) {
	if len(key) <= len(refreshKeyPrefix) || key[:len(refreshKeyPrefix)] != refreshKeyPrefix {
		return "", false
	}
	return key[len(refreshKeyPrefix):], true
}

// Save stores token for email, replacing any previous value.
func (s *RefreshTokenStore) Save(ctx context.Context, email, token string) error {
	key := RefreshTokenKey(email)
	ctx, span := s.startSpan(ctx, "Set")
	err := s.rdb.Set(ctx, key, token, s.ttl).Err()
	finishSpan(span, err)
	if err != nil {
		return fmt.Errorf("refresh token save: %w", err)
	}
	return nil
}

// Find returns the stored token. found is false when there is none.
func (s *RefreshTokenStore) Find(ctx context.Context, email string) (string, bool, error) {
	key := RefreshTokenKey(email)
	ctx, span := s.startSpan(ctx, "Get")
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		finishSpan(span, nil)
		return "", false, nil
	}
	finishSpan(span, err)
	if err != nil {
		return "", false, fmt.Errorf("refresh token find: %w", err)
	}
	return val, true, nil
}

// Delete removes the token. Deleting a missing key is not an error.
func (s *RefreshTokenStore) Delete(ctx context.Context, email string) error {
	key := RefreshTokenKey(email)
	ctx, span := s.startSpan(ctx, "Del")
	err := s.rdb.Del(ctx, key).Err()
	finishSpan(span, err)
	if err != nil {
		return fmt.Errorf("refresh token delete: %w", err)
	}
	return nil
}

// ScanEmails walks every stored refresh token key and calls fn with its email.
func (s *RefreshTokenStore) ScanEmails(ctx context.Context, batch int64, fn func(email string) error) error {
	ctx, span := s.startSpan(ctx, "Scan")
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, refreshKeyPrefix+"*", batch).Result()
		if err != nil {
			finishSpan(span, err)
			return fmt.Errorf("refresh token scan: %w", err)
		}
		for _, key := range keys {
			email, ok := EmailFromKey(key)
			if !ok {
				continue
			}
			if err := fn(email); err != nil {
				finishSpan(span, err)
				return err
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	finishSpan(span, nil)
	return nil
}

func (s *RefreshTokenStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// startSpan never records the email part of the key.
func (s *RefreshTokenStore) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "redis."+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.statement", op+" "+refreshKeyPrefix+"<email>"),
	)
	return ctx, span
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
