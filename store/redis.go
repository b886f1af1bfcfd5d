package store

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/cinekit/cinekit/core"
)

// RedisStore 是 Redis 实现的 PreferenceStore，用于多进程共享偏好数据。
//
// 数据布局：
//   - prefs:user:{userID} — Hash，field 为 movieID，value 为 "1"（喜欢）/ "-1"（不喜欢）
//   - prefs:users         — Set，全部出现过的 userID（用于 Snapshot 枚举）
type RedisStore struct {
	client *redis.Client
}

const (
	redisUserSetKey  = "prefs:users"
	redisUserKeyPref = "prefs:user:"
)

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Record(ctx context.Context, userID string, movieID int64, liked bool) error {
	value := "-1"
	if liked {
		value = "1"
	}
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, redisUserKeyPref+userID, strconv.FormatInt(movieID, 10), value)
	pipe.SAdd(ctx, redisUserSetKey, userID)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Preferences(ctx context.Context, userID string) ([]int64, []int64, error) {
	fields, err := r.client.HGetAll(ctx, redisUserKeyPref+userID).Result()
	if err != nil {
		return nil, nil, err
	}
	liked := []int64{}
	disliked := []int64{}
	for field, value := range fields {
		movieID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		if value == "1" {
			liked = append(liked, movieID)
		} else {
			disliked = append(disliked, movieID)
		}
	}
	sortInt64s(liked)
	sortInt64s(disliked)
	return liked, disliked, nil
}

func (r *RedisStore) Snapshot(ctx context.Context) (map[string]map[int64]bool, error) {
	users, err := r.client.SMembers(ctx, redisUserSetKey).Result()
	if err != nil {
		return nil, err
	}

	snap := make(map[string]map[int64]bool, len(users))
	for _, user := range users {
		fields, err := r.client.HGetAll(ctx, redisUserKeyPref+user).Result()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}
		row := make(map[int64]bool, len(fields))
		for field, value := range fields {
			movieID, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				continue
			}
			row[movieID] = value == "1"
		}
		snap[user] = row
	}
	return snap, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ core.PreferenceStore = (*RedisStore)(nil)
