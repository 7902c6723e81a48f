// internal/pkg/redis/client.go
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Client 封装了 go-redis 客户端，并维护一个按名字索引的 Lua 脚本注册表。
// 脚本在服务初始化时加载一次，之后通过 EVALSHA 执行。
type Client struct {
	rdb     *redis.Client
	scripts map[string]*redis.Script
	lock    sync.RWMutex
}

// NewClient 创建并检查一个 Redis 连接。
func NewClient(ctx context.Context, addr string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Client{
		rdb:     rdb,
		scripts: make(map[string]*redis.Script),
	}, nil
}

// GetClient 暴露底层客户端，供需要 pipeline 等高级能力的调用方使用。
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// LoadScriptFromContent 注册一段 Lua 脚本。重复注册同名脚本会被覆盖。
func (c *Client) LoadScriptFromContent(name, content string) error {
	if content == "" {
		return fmt.Errorf("script %q has empty content", name)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.scripts[name] = redis.NewScript(content)
	return nil
}

// RunScript 执行一段已注册的脚本。
// redis.Script 内部会先尝试 EVALSHA，脚本未缓存时自动回退到 EVAL。
func (c *Client) RunScript(ctx context.Context, name string, keys []string, args ...interface{}) (interface{}, error) {
	c.lock.RLock()
	script, ok := c.scripts[name]
	c.lock.RUnlock()
	if !ok {
		return nil, fmt.Errorf("lua script %q is not registered", name)
	}
	return script.Run(ctx, c.rdb, keys, args...).Result()
}

// Close 关闭底层连接。
func (c *Client) Close() error {
	return c.rdb.Close()
}
