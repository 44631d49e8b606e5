package store

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// ErrKeyMissing 表示键或哈希字段不存在。
var ErrKeyMissing = errors.New("store: key missing")

// ErrUnavailable 表示键值后端不可用。除会话创建外的调用方都应把它
// 当作降级信号而不是失败：读路径返回空结果，写路径静默跳过。
var ErrUnavailable = errors.New("store: kv backend unavailable")

// KV 抽象了事实存储和会话存储需要的键值操作：不透明 blob 的 get/set、
// 哈希字段操作和只追加列表操作。生产实现是 Redis；测试使用内存替身。
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error

	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key, field, value string) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	RPush(ctx context.Context, key, value string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// redisKV 用 go-redis 客户端实现 KV 接口。
type redisKV struct {
	client *redis.Client
}

// NewRedisKV 将一个已连接的 Redis 客户端包装为 KV。
func NewRedisKV(client *redis.Client) KV {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyMissing
	}
	return val, err
}

func (r *redisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *redisKV) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisKV) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := r.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyMissing
	}
	return val, err
}

func (r *redisKV) HSet(ctx context.Context, key, field, value string) error {
	return r.client.HSet(ctx, key, field, value).Err()
}

func (r *redisKV) HDel(ctx context.Context, key string, fields ...string) error {
	return r.client.HDel(ctx, key, fields...).Err()
}

func (r *redisKV) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}

func (r *redisKV) RPush(ctx context.Context, key, value string) error {
	return r.client.RPush(ctx, key, value).Err()
}

func (r *redisKV) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}
