package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db, now: time.Now}
}

type repository struct {
	db  *gorm.DB
	now func() time.Time
}

// createWithCreator inserts the event and makes its creator a host with the CREATOR role in the
// same transaction.
func (r repository) createWithCreator(ctx context.Context, event *model.Event) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(event).Error; err != nil {
			return err
		}

		host := &model.Host{
			EventID: event.ID,
			UserID:  event.CreatorID,
			Role:    model.RoleCreator,
		}
		return tx.Omit(clause.Associations).Create(host).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("event %q already exists", event.Slug)
	}
	if err != nil {
		return fmt.Errorf("failed to create event: %v", err)
	}
	return nil
}

// FindById returns the event unless it's soft deleted.
func (r repository) FindById(ctx context.Context, id uint) (*model.Event, error) {
	var event *model.Event
	err := r.db.
		WithContext(ctx).
		Where("is_deleted = ?", false).
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find event with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %v", err)
	}
	return event, nil
}

func (r repository) findBySlug(ctx context.Context, slug string) (*model.Event, error) {
	var event *model.Event
	err := r.db.
		WithContext(ctx).
		Where("slug = ? AND is_deleted = ?", slug, false).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find event with slug %q", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %v", err)
	}
	return event, nil
}

func (r repository) update(ctx context.Context, event *model.Event) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(event).Error
	if err != nil {
		return fmt.Errorf("failed to update event %d: %v", event.ID, err)
	}
	return nil
}

func (r repository) softDelete(ctx context.Context, id uint) error {
	ctx = context.WithoutCancel(ctx)
	db := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if db.Error != nil {
		return fmt.Errorf("failed to delete event %d: %v", id, db.Error)
	}
	if db.RowsAffected == 0 {
		return errdef.NewNotFound("failed to find event with id %d", id)
	}
	return nil
}

// CountCreatedThisMonth counts the events of given visibility the user created in the current
// calendar month in UTC. Deleted events are counted as well.
func (r repository) CountCreatedThisMonth(ctx context.Context, userID uint, discoverable bool) (int64, error) {
	start, end := monthBounds(r.now())

	var count int64
	err := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Where("creator_id = ? AND discoverable = ? AND created_at >= ? AND created_at < ?", userID, discoverable, start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count events of user %d: %v", userID, err)
	}
	return count, nil
}

// monthBounds returns the first instant of the calendar month t falls in and the first instant of
// the following month, both in UTC.
func monthBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (r repository) findHostedBy(ctx context.Context, userID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Joins("JOIN hosts ON hosts.event_id = events.id").
		Where("hosts.user_id = ? AND hosts.is_deleted = ? AND events.is_deleted = ?", userID, false, false).
		Order("events.start_time").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find events hosted by user %d: %v", userID, err)
	}
	return events, nil
}

// findUpcoming lists the discoverable events which are active and haven't ended.
func (r repository) findUpcoming(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Where("discoverable = ? AND is_active = ? AND is_deleted = ? AND end_time > ?", true, true, false, r.now()).
		Order("start_time").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find upcoming events: %v", err)
	}
	return events, nil
}
