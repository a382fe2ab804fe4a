package invite

import (
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
)

// releaseScript deletes the key only if it still holds the token of the caller, so an expired lock
// taken over by another batch isn't released.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

type RedisLock struct {
	client *redis.Client
}

// Acquire sets key unless it exists. The returned token is needed to release the lock.
func (l RedisLock) Acquire(key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %q: %v", key, err)
	}
	return token, ok, nil
}

func (l RedisLock) Release(key, token string) error {
	if err := releaseScript.Run(l.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %q: %v", key, err)
	}
	return nil
}
