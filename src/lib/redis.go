package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// SetPaymentDeadline mirrors a transaction's payment deadline into a key
// with matching TTL so the UI countdown survives page refreshes.
func SetPaymentDeadline(txnID string, deadline time.Time) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	ttl := time.Until(deadline)
	if ttl <= 0 {
		return
	}
	key := fmt.Sprintf("txn:%s:deadline", txnID)
	if err := rd.SetEx(context.Background(), key, deadline.UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		log.Printf("Error caching deadline for [%s]: %s\n", txnID, err.Error())
	}
}

// GetPaymentDeadline returns the cached deadline, or nil once the window
// has elapsed and the key expired.
func GetPaymentDeadline(txnID string) *time.Time {
	rd := GetRedisClient()
	if rd == nil {
		return nil
	}
	key := fmt.Sprintf("txn:%s:deadline", txnID)
	val, err := rd.Get(context.Background(), key).Result()
	if err != nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}
