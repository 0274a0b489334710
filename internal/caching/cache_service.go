package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"steelstore/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Product caching
	GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, tenantID uuid.UUID, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error

	// Category breakdown caching
	GetCategoryCounts(ctx context.Context, tenantID uuid.UUID) ([]*models.CategoryCount, error)
	SetCategoryCounts(ctx context.Context, tenantID uuid.UUID, counts []*models.CategoryCount, ttl time.Duration) error
	DeleteCategoryCounts(ctx context.Context, tenantID uuid.UUID) error

	// Dashboard stats caching
	GetDashboardStats(ctx context.Context, tenantID uuid.UUID) (map[string]float64, error)
	SetDashboardStats(ctx context.Context, tenantID uuid.UUID, stats map[string]float64, ttl time.Duration) error
	DeleteDashboardStats(ctx context.Context, tenantID uuid.UUID) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	key := fmt.Sprintf("steelstore:product:%s:%s", tenantID.String(), productID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, tenantID uuid.UUID, product *models.Product, ttl time.Duration) error {
	key := fmt.Sprintf("steelstore:product:%s:%s", tenantID.String(), product.ID.String())
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	key := fmt.Sprintf("steelstore:product:%s:%s", tenantID.String(), productID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetCategoryCounts(ctx context.Context, tenantID uuid.UUID) ([]*models.CategoryCount, error) {
	key := fmt.Sprintf("steelstore:categories:%s", tenantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var counts []*models.CategoryCount
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *redisCacheService) SetCategoryCounts(ctx context.Context, tenantID uuid.UUID, counts []*models.CategoryCount, ttl time.Duration) error {
	key := fmt.Sprintf("steelstore:categories:%s", tenantID.String())
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteCategoryCounts(ctx context.Context, tenantID uuid.UUID) error {
	key := fmt.Sprintf("steelstore:categories:%s", tenantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDashboardStats(ctx context.Context, tenantID uuid.UUID) (map[string]float64, error) {
	key := fmt.Sprintf("steelstore:dashboard:%s", tenantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var stats map[string]float64
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *redisCacheService) SetDashboardStats(ctx context.Context, tenantID uuid.UUID, stats map[string]float64, ttl time.Duration) error {
	key := fmt.Sprintf("steelstore:dashboard:%s", tenantID.String())
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteDashboardStats(ctx context.Context, tenantID uuid.UUID) error {
	key := fmt.Sprintf("steelstore:dashboard:%s", tenantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("steelstore:*%s*", tenantID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}
