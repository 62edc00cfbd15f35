package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "arena:auth:"

// RedisProvider looks tokens up in hashes written by the login service:
// arena:auth:<token> -> {user_id, display_name}.
type RedisProvider struct {
	client *redis.Client
}

func NewRedisProvider(client *redis.Client) *RedisProvider {
	return &RedisProvider{client: client}
}

// DialRedis parses a redis:// URL and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (p *RedisProvider) Resolve(ctx context.Context, token string) (Identity, error) {
	vals, err := p.client.HGetAll(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrUnknownToken
		}
		return Identity{}, fmt.Errorf("lookup token: %w", err)
	}
	id := vals["user_id"]
	if id == "" {
		return Identity{}, ErrUnknownToken
	}
	return Identity{PlayerID: id, DisplayName: vals["display_name"]}, nil
}

// IssueToken stores a token for userID that expires after ttl.
func (p *RedisProvider) IssueToken(ctx context.Context, token, userID, displayName string, ttl time.Duration) error {
	key := tokenKeyPrefix + token
	pipe := p.client.TxPipeline()
	pipe.HSet(ctx, key, "user_id", userID, "display_name", displayName)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (p *RedisProvider) RevokeToken(ctx context.Context, token string) error {
	return p.client.Del(ctx, tokenKeyPrefix+token).Err()
}
