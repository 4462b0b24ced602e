package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"strings"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

// Redis backed coordinate store. Each address lives under "geocode:<address>"
// and is written with SETNX so the first resolution of a key is the one kept.
type RedisCoordinateStore struct {
	Client redis.Cmdable
}

func NewRedisCoordinateStore(client redis.Cmdable) *RedisCoordinateStore {
	return &RedisCoordinateStore{Client: client}
}

// NewRedisClient builds a client from an address and optional password.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func geocodeKey(address string) string { return geocodeKeyPrefix + address }

type redisCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (r *RedisCoordinateStore) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, a := range uniq {
		keys = append(keys, geocodeKey(a))
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: redis mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var c redisCoordinate
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return nil, fmt.Errorf("get geocode cache: decode %q: %w", uniq[i], err)
		}
		out[uniq[i]] = domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
	}

	return out, nil
}

func (r *RedisCoordinateStore) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.Pipeline()
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}
		payload, err := json.Marshal(redisCoordinate{Lat: c.Lat, Lon: c.Lon})
		if err != nil {
			return fmt.Errorf("insert geocode cache address=%q: %w", addr, err)
		}
		pipe.SetNX(ctx, geocodeKey(addr), payload, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: redis pipeline: %w", err)
	}

	return nil
}
