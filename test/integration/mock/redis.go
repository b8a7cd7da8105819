package mock

import (
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce sync.Once
	redisMock *Redis
)

// Redis pairs an in-process Redis server with a client connected to it.
type Redis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// NewRedis starts the shared server on first use.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisMock = &Redis{
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
			Server: server,
		}
	})
	return redisMock
}

// Clear drops every key.
func (r *Redis) Clear() {
	r.Server.FlushAll()
}
