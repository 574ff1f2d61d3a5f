package choice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fleetrepair/backend/internal/domain/choice"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const keyPrefix = "choice:"

// Manager resolves configured status tokens from the choices table with
// a Redis read-through cache. The value sets change rarely (operator
// edits) so a short TTL keeps instances convergent without invalidation
// plumbing.
type Manager struct {
	db     *gorm.DB
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager creates a new choice Manager. A nil Redis client disables
// caching and every lookup hits the database.
func NewManager(db *gorm.DB, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Manager{db: db, client: client, ttl: ttl, logger: logger}
}

// GetChoice resolves a (type, value) pair to a configured token. A nil
// value requests the default token of the type. Returns (nil, nil) when
// the token is not configured.
func (m *Manager) GetChoice(ctx context.Context, choiceType string, value *string) (*choice.Token, error) {
	key := m.cacheKey(choiceType, value)

	if token, ok := m.fromCache(ctx, key); ok {
		return token, nil
	}

	query := m.db.WithContext(ctx).Where("type = ?", choiceType)
	if value != nil {
		query = query.Where("value = ?", *value)
	} else {
		query = query.Where("is_default = true")
	}

	var model models.ChoiceModel
	if err := query.Order("position ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			m.toCache(ctx, key, nil)
			return nil, nil
		}
		return nil, err
	}

	token := model.ToDomain()
	m.toCache(ctx, key, token)
	return token, nil
}

func (m *Manager) cacheKey(choiceType string, value *string) string {
	if value == nil {
		return fmt.Sprintf("%s%s:__default__", keyPrefix, choiceType)
	}
	return fmt.Sprintf("%s%s:%s", keyPrefix, choiceType, *value)
}

// fromCache returns (token, true) on a hit. A cached empty payload marks
// a confirmed-missing token.
func (m *Manager) fromCache(ctx context.Context, key string) (*choice.Token, bool) {
	if m.client == nil {
		return nil, false
	}
	payload, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			m.logger.Warn("choice cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if payload == "" {
		return nil, true
	}
	var token choice.Token
	if err := json.Unmarshal([]byte(payload), &token); err != nil {
		m.logger.Warn("choice cache payload corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &token, true
}

func (m *Manager) toCache(ctx context.Context, key string, token *choice.Token) {
	if m.client == nil {
		return
	}
	payload := ""
	if token != nil {
		data, err := json.Marshal(token)
		if err != nil {
			return
		}
		payload = string(data)
	}
	if err := m.client.Set(ctx, key, payload, m.ttl).Err(); err != nil {
		m.logger.Warn("choice cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Ensure Manager implements the domain choice manager
var _ choice.Manager = (*Manager)(nil)
