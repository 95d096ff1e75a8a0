package redis

import (
	"context"
	"encoding/json"

	redislib "github.com/redis/go-redis/v9"

	"github.com/shopcore/inventory/domain"
	"github.com/shopcore/inventory/repository"
)

type thresholdRepository struct {
	client   *redislib.Client
	key      string
	fallback domain.Thresholds
}

// NewThresholdRepository creates a Redis-backed global threshold store.
// When no configuration has been saved yet, Load returns the fallback.
func NewThresholdRepository(client *redislib.Client, fallback domain.Thresholds) repository.ThresholdRepository {
	if fallback.Validate() != nil {
		fallback = domain.DefaultThresholds
	}
	return &thresholdRepository{
		client:   client,
		key:      "config:stock_thresholds",
		fallback: fallback,
	}
}

func (r *thresholdRepository) Load(ctx context.Context) (domain.Thresholds, error) {
	result, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if err == redislib.Nil {
			return r.fallback, nil
		}
		return r.fallback, domain.StoreError("load thresholds", err)
	}

	var thresholds domain.Thresholds
	if err := json.Unmarshal([]byte(result), &thresholds); err != nil {
		return r.fallback, domain.WrapError(domain.ErrCodeStore, "corrupt threshold configuration", err)
	}
	if thresholds.Validate() != nil {
		return r.fallback, nil
	}
	return thresholds, nil
}

func (r *thresholdRepository) Save(ctx context.Context, thresholds domain.Thresholds) error {
	if err := thresholds.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(thresholds)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return domain.StoreError("save thresholds", err)
	}
	return nil
}
