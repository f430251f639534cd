package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
	"github.com/redis/go-redis/v9"
)

const (
	namesKey     = "characters:names"
	orderKey     = "characters:order"
	recordPrefix = "character:"
)

// RedisStorage keeps character records in Redis: a set of names for
// uniqueness, a list for roster order and one hash per character.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a Redis storage from a redis:// URL.
// It does not connect; use Ping or WaitForConnection.
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Character operations

func (r *RedisStorage) ListCharacters(ctx context.Context) ([]string, error) {
	names, err := r.client.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		r.logger.Error("Failed to list characters", "error", err)
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return names, nil
}

func (r *RedisStorage) GetCharacter(ctx context.Context, name string) (sheet.Record, error) {
	name = sheet.NormalizeName(name)

	exists, err := r.client.SIsMember(ctx, namesKey, name).Result()
	if err != nil {
		r.logger.Error("Failed to check character", "name", name, "error", err)
		return nil, fmt.Errorf("failed to load character: %w", err)
	}
	if !exists {
		return nil, ErrCharacterNotFound
	}

	fields, err := r.client.HGetAll(ctx, recordPrefix+name).Result()
	if err != nil {
		r.logger.Error("Failed to load character", "name", name, "error", err)
		return nil, fmt.Errorf("failed to load character: %w", err)
	}
	return sheet.Record(fields), nil
}

func (r *RedisStorage) CreateCharacter(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	added, err := r.client.SAdd(ctx, namesKey, name).Result()
	if err != nil {
		r.logger.Error("Failed to reserve character name", "name", name, "error", err)
		return fmt.Errorf("failed to create character: %w", err)
	}
	if added == 0 {
		return ErrCharacterExists
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, recordPrefix+name, recordArgs(DefaultRecord())...)
		pipe.RPush(ctx, orderKey, name)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to create character", "name", name, "error", err)
		// release the name so a retry can succeed
		if remErr := r.client.SRem(ctx, namesKey, name).Err(); remErr != nil {
			err = errors.Join(err, remErr)
		}
		return fmt.Errorf("failed to create character: %w", err)
	}

	r.logger.Debug("Character created", "name", name)
	return nil
}

func (r *RedisStorage) UpdateCharacter(ctx context.Context, name string, data sheet.Record) error {
	name = sheet.NormalizeName(name)

	exists, err := r.client.SIsMember(ctx, namesKey, name).Result()
	if err != nil {
		r.logger.Error("Failed to check character", "name", name, "error", err)
		return fmt.Errorf("failed to update character: %w", err)
	}
	if !exists {
		return ErrCharacterNotFound
	}

	cols := schemaColumns(data)
	if len(cols) == 0 {
		return nil
	}
	if err := r.client.HSet(ctx, recordPrefix+name, recordArgs(cols)...).Err(); err != nil {
		r.logger.Error("Failed to update character", "name", name, "error", err)
		return fmt.Errorf("failed to update character: %w", err)
	}

	r.logger.Debug("Character updated", "name", name, "fields", len(cols))
	return nil
}

// recordArgs flattens a record into HSET field/value arguments
func recordArgs(rec sheet.Record) []any {
	args := make([]any, 0, 2*len(rec))
	for k, v := range rec {
		args = append(args, k, v)
	}
	return args
}
