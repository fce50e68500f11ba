package redisClient

import "github.com/go-redis/redis"

// NewRedis connects to the redis instance used for the incoming-like
// counters. The cache is advisory; callers must tolerate a cold cache.
func NewRedis(host, port string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port,
	})

	if err := client.Ping().Err(); err != nil {
		return nil, err
	}

	return client, nil
}
