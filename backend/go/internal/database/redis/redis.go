package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"Lumina_AI/backend/go/internal/config"
)

// NewClient 根据配置创建并返回一个 Redis 客户端实例。
//
// 客户端由调用方显式持有并在进程退出时关闭；这里不做任何全局单例，
// 以便在测试中注入替身。连接失败时返回 nil 客户端和错误，调用方可以
// 选择在无 Redis 的降级模式下继续运行。
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用 Ping 检查连接是否成功。
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("无法连接到 Redis: %w", err)
	}

	return rdb, nil
}

// HealthCheck 检查 Redis 连接的健康状况。
func HealthCheck(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return fmt.Errorf("Redis 客户端未初始化")
	}
	return client.Ping(ctx).Err()
}
