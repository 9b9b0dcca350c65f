package repository

import (
	"context"
	"errors"
	"file-service/config"
	"file-service/internal/model"
	"file-service/internal/util"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionSeqKey       = "session:seq"
	sessionTokenPrefix  = "session:token:"
	sessionDevicePrefix = "session:device:"
)

// KEYS[1] запись токена, KEYS[2] индекс пары; ARGV: id, user_id, token, device_id, is_active, expires_at, created_at
var createSessionScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1],
  "id", ARGV[1], "user_id", ARGV[2], "token", ARGV[3], "device_id", ARGV[4],
  "is_active", ARGV[5], "expires_at", ARGV[6], "created_at", ARGV[7])
redis.call("ZADD", KEYS[2], ARGV[1], ARGV[3])
return 1
`)

// KEYS[1] индекс пары; ARGV[1] префикс ключа записи
var deactivateSessionsScript = redis.NewScript(`
local tokens = redis.call("ZRANGE", KEYS[1], 0, -1)
for _, token in ipairs(tokens) do
  local key = ARGV[1] .. token
  if redis.call("HGET", key, "is_active") == "1" then
    redis.call("HSET", key, "is_active", "0")
  end
end
return #tokens
`)

// RedisSessionRepository : хранилище сессий в Redis.
// Порядок создания задаётся атомарным INCR, поэтому FindLatest не видит записи пары не по порядку.
type RedisSessionRepository struct {
	client *config.RedisClient
}

func NewRedisSessionRepository(rdb *config.RedisClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: rdb}
}

func (r *RedisSessionRepository) Create(ctx context.Context, session *model.Session) error {
	id, err := r.client.Client.Incr(ctx, sessionSeqKey).Result()
	if err != nil {
		return util.LogError("[RedisSessionRepo] ошибка получения id сессии", err)
	}

	created, err := createSessionScript.Run(ctx, r.client.Client,
		[]string{r.tokenKey(session.Token), r.deviceKey(session.UserID, session.DeviceID)},
		id,
		session.UserID,
		session.Token,
		session.DeviceID,
		boolFlag(session.IsActive),
		session.ExpiresAt.UnixNano(),
		session.CreatedAt.UnixNano(),
	).Int()
	if err != nil {
		return util.LogError("[RedisSessionRepo] ошибка сохранения сессии", err)
	}
	if created == 0 {
		return fmt.Errorf("[RedisSessionRepo] refresh токен уже сохранён: %w", model.ErrAlreadyExists)
	}

	session.ID = id
	return nil
}

func (r *RedisSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	values, err := r.client.Client.HGetAll(ctx, r.tokenKey(token)).Result()
	if err != nil {
		return nil, util.LogError("[RedisSessionRepo] ошибка поиска токена", err)
	}
	if len(values) == 0 {
		return nil, model.ErrNotFound
	}

	session, err := sessionFromHash(values)
	if err != nil {
		return nil, util.LogError("[RedisSessionRepo] повреждённая запись сессии", err)
	}
	return session, nil
}

func (r *RedisSessionRepository) FindLatest(ctx context.Context, userID int64, deviceID string) (*model.Session, error) {
	tokens, err := r.client.Client.ZRevRange(ctx, r.deviceKey(userID, deviceID), 0, 0).Result()
	if err != nil {
		return nil, util.LogError("[RedisSessionRepo] ошибка поиска последней сессии", err)
	}
	if len(tokens) == 0 {
		return nil, model.ErrNotFound
	}

	return r.FindByToken(ctx, tokens[0])
}

func (r *RedisSessionRepository) DeactivateAll(ctx context.Context, userID int64, deviceID string) error {
	err := deactivateSessionsScript.Run(ctx, r.client.Client,
		[]string{r.deviceKey(userID, deviceID)},
		sessionTokenPrefix,
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return util.LogError("[RedisSessionRepo] не удалось деактивировать сессии", err)
	}
	return nil
}

func (r *RedisSessionRepository) tokenKey(token string) string {
	return sessionTokenPrefix + token
}

func (r *RedisSessionRepository) deviceKey(userID int64, deviceID string) string {
	return fmt.Sprintf("%s%d:%s", sessionDevicePrefix, userID, deviceID)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func sessionFromHash(values map[string]string) (*model.Session, error) {
	id, err := strconv.ParseInt(values["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	userID, err := strconv.ParseInt(values["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("user_id: %w", err)
	}
	expiresAt, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("expires_at: %w", err)
	}
	createdAt, err := strconv.ParseInt(values["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}

	return &model.Session{
		ID:        id,
		UserID:    userID,
		Token:     values["token"],
		DeviceID:  values["device_id"],
		IsActive:  values["is_active"] == "1",
		ExpiresAt: time.Unix(0, expiresAt),
		CreatedAt: time.Unix(0, createdAt),
	}, nil
}
