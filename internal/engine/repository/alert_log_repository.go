package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradeidea/internal/entity"
	"tradeidea/internal/signal"
	"tradeidea/pkg/common"
)

// AlertLogRepository implements the alert dedup state. TryAcquire is the
// single logical check-and-set for a dedup key: Redis SETNX with the
// window as TTL, so two concurrent sweeps cannot both fire the same
// alert. The alert_logs table mirrors the state for durability; LastFired
// backs the check when Redis state was lost.
type AlertLogRepository interface {
	TryAcquire(ctx context.Context, event signal.AlertEvent, window time.Duration) (bool, error)
	Release(ctx context.Context, event signal.AlertEvent) error
	LastFired(ctx context.Context, event signal.AlertEvent) (*time.Time, error)
	Record(ctx context.Context, event signal.AlertEvent, firedAt time.Time) error
}

type alertLogRepository struct {
	db          *gorm.DB
	redisClient *redis.Client
}

func NewAlertLogRepository(db *gorm.DB, redisClient *redis.Client) AlertLogRepository {
	return &alertLogRepository{db: db, redisClient: redisClient}
}

func (r *alertLogRepository) dedupKey(event signal.AlertEvent) string {
	return fmt.Sprintf(common.RedisKeyAlertDedup, event.EntityType, event.EntityID, event.Kind)
}

func (r *alertLogRepository) TryAcquire(ctx context.Context, event signal.AlertEvent, window time.Duration) (bool, error) {
	return r.redisClient.SetNX(ctx, r.dedupKey(event), time.Now().Unix(), window).Result()
}

// Release frees a dedup key after a failed delivery so the alert can
// retry before the window expires.
func (r *alertLogRepository) Release(ctx context.Context, event signal.AlertEvent) error {
	return r.redisClient.Del(ctx, r.dedupKey(event)).Err()
}

func (r *alertLogRepository) LastFired(ctx context.Context, event signal.AlertEvent) (*time.Time, error) {
	var log entity.AlertLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND kind = ?", event.EntityType, event.EntityID, event.Kind).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log.LastFiredAt, nil
}

func (r *alertLogRepository) Record(ctx context.Context, event signal.AlertEvent, firedAt time.Time) error {
	log := entity.AlertLog{
		EntityType:  string(event.EntityType),
		EntityID:    event.EntityID,
		Kind:        string(event.Kind),
		Message:     event.Message,
		LastFiredAt: firedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"message", "last_fired_at", "updated_at"}),
	}).Create(&log).Error
}
