package cohost

import (
	"context"
	"errors"
	"fmt"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

// find returns the host row of the user for the event if it isn't soft deleted.
func (r repository) find(ctx context.Context, userID, eventID uint) (*model.Host, error) {
	var host *model.Host
	err := r.db.
		WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND is_deleted = ?", userID, eventID, false).
		First(&host).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("user %d is not hosting event %d", userID, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find host: %v", err)
	}
	return host, nil
}

// findDeleted returns the most recently soft deleted host row of the user for the event.
func (r repository) findDeleted(ctx context.Context, userID, eventID uint) (*model.Host, error) {
	var host *model.Host
	err := r.db.
		WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND is_deleted = ?", userID, eventID, true).
		Order("updated_at DESC").
		First(&host).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("no removed host %d for event %d", userID, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find removed host: %v", err)
	}
	return host, nil
}

func (r repository) create(ctx context.Context, host *model.Host) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Create(host).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewBadRequest("Host already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create host: %v", err)
	}
	return nil
}

func (r repository) restore(ctx context.Context, host *model.Host, role model.Role) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.
		WithContext(ctx).
		Model(host).
		Select("IsDeleted", "Role").
		Updates(model.Host{IsDeleted: false, Role: role}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewBadRequest("Host already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to restore host: %v", err)
	}
	host.IsDeleted = false
	host.Role = role
	return nil
}

// softDelete marks the host row of the user for the event deleted and returns the number of rows
// affected.
func (r repository) softDelete(ctx context.Context, userID, eventID uint) (int64, error) {
	ctx = context.WithoutCancel(ctx)
	db := r.db.
		WithContext(ctx).
		Model(&model.Host{}).
		Where("user_id = ? AND event_id = ? AND is_deleted = ?", userID, eventID, false).
		Update("is_deleted", true)
	if db.Error != nil {
		return 0, fmt.Errorf("failed to remove host %d from event %d: %v", userID, eventID, db.Error)
	}
	return db.RowsAffected, nil
}

func (r repository) findByEvent(ctx context.Context, eventID uint) ([]model.Host, error) {
	var hosts []model.Host
	err := r.db.
		WithContext(ctx).
		Preload("User").
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Order("id").
		Find(&hosts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find hosts of event %d: %v", eventID, err)
	}
	return hosts, nil
}

func (r repository) findByUser(ctx context.Context, userID uint) ([]model.Host, error) {
	var hosts []model.Host
	err := r.db.
		WithContext(ctx).
		Joins("Event").
		Where("hosts.user_id = ? AND hosts.is_deleted = ? AND \"Event\".is_deleted = ?", userID, false, false).
		Order("hosts.id").
		Find(&hosts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find hosted events of user %d: %v", userID, err)
	}
	return hosts, nil
}
