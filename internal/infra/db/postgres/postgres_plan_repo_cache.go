package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bos-storefront/internal/domain/model"
	"bos-storefront/internal/domain/ports/repository"
	"bos-storefront/internal/infra/logging"
	"bos-storefront/internal/infra/metrics"
	red "bos-storefront/internal/infra/redis"
)

var _ repository.SubscriptionPlanRepository = (*planRepoCacheDecorator)(nil)

const (
	planCacheKeyAll = "plans:all"
	planCacheTTL    = 1 * time.Hour
)

type planRepoCacheDecorator struct {
	inner repository.SubscriptionPlanRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

// NewPlanRepoCacheDecorator caches plan reads in redis for ttl (planCacheTTL when
// zero). Reads issued inside a transaction always go to the database.
func NewPlanRepoCacheDecorator(inner repository.SubscriptionPlanRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.SubscriptionPlanRepository {
	if ttl <= 0 {
		ttl = planCacheTTL
	}
	l := logging.OrNop(logger).With().Str("component", "plan_cache").Logger()
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   &l,
	}
}

func planCacheKey(id string) string { return fmt.Sprintf("plan:%s", id) }

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := planCacheKey(id)
	val, err := d.cache.Get(ctx, key)
	switch {
	case err == nil:
		var plan model.SubscriptionPlan
		if json.Unmarshal([]byte(val), &plan) == nil {
			metrics.IncCacheRequest("plan", "hit")
			return &plan, nil
		}
		metrics.IncCacheRequest("plan", "error")
	case red.IsNil(err):
		metrics.IncCacheRequest("plan", "miss")
	default:
		metrics.IncCacheRequest("plan", "error")
		d.log.Warn().Err(err).Str("key", key).Msg("plan cache read failed")
	}

	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	d.store(ctx, key, plan)
	return plan, nil
}

// Save invalidates both the single-plan key and the list.
func (d *planRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
	if err := d.inner.Save(ctx, tx, plan); err != nil {
		return err
	}
	if err := d.cache.Del(ctx, planCacheKey(plan.ID), planCacheKeyAll); err != nil {
		d.log.Warn().Err(err).Str("plan_id", plan.ID).Msg("plan cache invalidation failed")
	}
	return nil
}

func (d *planRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	if tx != nil {
		return d.inner.ListAll(ctx, tx)
	}
	val, err := d.cache.Get(ctx, planCacheKeyAll)
	switch {
	case err == nil:
		var plans []*model.SubscriptionPlan
		if json.Unmarshal([]byte(val), &plans) == nil {
			metrics.IncCacheRequest("plan_list", "hit")
			return plans, nil
		}
		metrics.IncCacheRequest("plan_list", "error")
	case red.IsNil(err):
		metrics.IncCacheRequest("plan_list", "miss")
	default:
		metrics.IncCacheRequest("plan_list", "error")
		d.log.Warn().Err(err).Msg("plan list cache read failed")
	}

	plans, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(plans) > 0 {
		d.store(ctx, planCacheKeyAll, plans)
	}
	return plans, nil
}

func (d *planRepoCacheDecorator) store(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, key, b, d.ttl); err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("plan cache write failed")
	}
}
