package repository

import (
	"context"
	"encoding/json"
	"errors"
	"file-service/config"
	"file-service/internal/model"
	"file-service/internal/util"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetFile(ctx context.Context, file *model.File) error {
	data, err := json.Marshal(file)
	if err != nil {
		return util.LogError("ошибка сериализации файла", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(file.ID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

// GetFile : nil, nil если файла нет в кэше
func (r *CacheRepository) GetFile(ctx context.Context, id int64) (*model.File, error) {
	val, err := r.client.Client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("ошибка получения файла из Redis", err)
	}

	var file model.File
	if err := json.Unmarshal([]byte(val), &file); err != nil {
		return nil, util.LogError("ошибка десериализации файла из кэша", err)
	}
	return &file, nil
}

func (r *CacheRepository) DeleteFile(ctx context.Context, id int64) error {
	if err := r.client.Client.Del(ctx, r.key(id)).Err(); err != nil {
		return util.LogError("ошибка удаления файла из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(id int64) string {
	return fmt.Sprintf("file:%d", id)
}
