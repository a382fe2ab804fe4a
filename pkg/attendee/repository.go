package attendee

import (
	"context"
	"errors"
	"fmt"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) findById(ctx context.Context, id uint) (*model.Attendee, error) {
	var attendee *model.Attendee
	err := r.db.
		WithContext(ctx).
		Preload("User").
		Where("is_deleted = ?", false).
		First(&attendee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find attendee with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find attendee: %v", err)
	}
	return attendee, nil
}

func (r repository) findByQRToken(ctx context.Context, token uuid.UUID) (*model.Attendee, error) {
	var attendee *model.Attendee
	err := r.db.
		WithContext(ctx).
		Where("qr_token = ? AND is_deleted = ?", token, false).
		First(&attendee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("ticket %s not found", token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find attendee by ticket: %v", err)
	}
	return attendee, nil
}

// findByUserAndEvent returns the registration of the user for the event unless it's cancelled.
func (r repository) findByUserAndEvent(ctx context.Context, userID, eventID uint) (*model.Attendee, error) {
	var attendee *model.Attendee
	err := r.db.
		WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND is_deleted = ?", userID, eventID, false).
		First(&attendee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("user %d isn't registered for event %d", userID, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find attendee: %v", err)
	}
	return attendee, nil
}

// findLatestCancelled returns the most recently cancelled registration of the user for the event.
func (r repository) findLatestCancelled(ctx context.Context, userID, eventID uint) (*model.Attendee, error) {
	var attendee *model.Attendee
	err := r.db.
		WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND is_deleted = ? AND status = ?", userID, eventID, true, model.AttendeeCancelled).
		Order("updated_at DESC").
		First(&attendee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("no cancelled registration of user %d for event %d", userID, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cancelled attendee: %v", err)
	}
	return attendee, nil
}

func (r repository) create(ctx context.Context, attendee *model.Attendee) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Create(attendee).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %d is already registered for event %d", attendee.UserID, attendee.EventID)
	}
	if err != nil {
		return fmt.Errorf("failed to create attendee: %v", err)
	}
	return nil
}

// setStatus writes the status and allowed status of a registration which isn't cancelled.
func (r repository) setStatus(ctx context.Context, attendee *model.Attendee) error {
	ctx = context.WithoutCancel(ctx)
	return updateLive(r.db.WithContext(ctx), attendee.ID, map[string]any{
		"status":         attendee.Status,
		"allowed_status": attendee.AllowedStatus,
	})
}

// checkIn writes the check-in of a registration which isn't cancelled.
func (r repository) checkIn(ctx context.Context, attendee *model.Attendee) error {
	ctx = context.WithoutCancel(ctx)
	return updateLive(r.db.WithContext(ctx), attendee.ID, map[string]any{
		"has_attended":  attendee.HasAttended,
		"check_in_time": attendee.CheckInTime,
	})
}

// updateLive updates the columns of the attendee unless it has been cancelled in the meantime.
func updateLive(db *gorm.DB, id uint, values map[string]any) error {
	db = db.
		Model(&model.Attendee{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(values)
	if db.Error != nil {
		return fmt.Errorf("failed to update attendee %d: %v", id, db.Error)
	}
	if db.RowsAffected == 0 {
		return errdef.NewNotFound("attendee %d is no longer registered", id)
	}
	return nil
}

// admit locks the event row, counts the attendees going and writes the attendee only if the count
// is below capacity. Concurrent admissions to the same event are serialized by the lock. A new
// attendee is inserted, a restored one is reinstated and any other is moved to its new status as
// long as it hasn't been cancelled.
func (r repository) admit(ctx context.Context, attendee *model.Attendee, capacity int, restored bool) (bool, error) {
	ctx = context.WithoutCancel(ctx)
	admitted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&event, attendee.EventID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errdef.NewNotFound("failed to find event with id %d", attendee.EventID)
		}
		if err != nil {
			return err
		}

		var going int64
		err = tx.
			Model(&model.Attendee{}).
			Where("event_id = ? AND status = ? AND is_deleted = ? AND id <> ?", attendee.EventID, model.AttendeeGoing, false, attendee.ID).
			Count(&going).Error
		if err != nil {
			return err
		}
		if going >= int64(capacity) {
			return nil
		}

		switch {
		case attendee.ID == 0:
			err = tx.Omit(clause.Associations).Create(attendee).Error
		case restored:
			err = reinstate(tx, attendee)
		default:
			err = updateLive(tx, attendee.ID, map[string]any{
				"status":         attendee.Status,
				"allowed_status": attendee.AllowedStatus,
			})
		}
		if err != nil {
			return err
		}
		admitted = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, errdef.NewDuplicated("user %d is already registered for event %d", attendee.UserID, attendee.EventID)
	}
	if errdef.IsNotFound(err) {
		return false, err
	}
	if err != nil {
		return false, fmt.Errorf("failed to admit attendee to event %d: %v", attendee.EventID, err)
	}
	if admitted && restored {
		attendee.IsDeleted = false
		attendee.HasAttended = false
		attendee.CheckInTime = nil
	}
	return admitted, nil
}

// updateWaiting moves every waiting registration of the event to status in a single statement.
func (r repository) updateWaiting(ctx context.Context, eventID uint, status model.AttendeeStatus) (int64, error) {
	ctx = context.WithoutCancel(ctx)
	db := r.db.
		WithContext(ctx).
		Model(&model.Attendee{}).
		Where("event_id = ? AND status = ? AND is_deleted = ?", eventID, model.AttendeeWaiting, false).
		Updates(map[string]any{
			"status":         status,
			"allowed_status": status == model.AttendeeGoing,
		})
	if db.Error != nil {
		return 0, fmt.Errorf("failed to update waiting attendees of event %d: %v", eventID, db.Error)
	}
	return db.RowsAffected, nil
}

func (r repository) cancel(ctx context.Context, attendee *model.Attendee) error {
	ctx = context.WithoutCancel(ctx)
	err := updateLive(r.db.WithContext(ctx), attendee.ID, map[string]any{
		"is_deleted":     true,
		"status":         model.AttendeeCancelled,
		"allowed_status": false,
	})
	if err != nil {
		return err
	}
	attendee.IsDeleted = true
	attendee.Status = model.AttendeeCancelled
	attendee.AllowedStatus = false
	return nil
}

// restore reinstates a cancelled registration with the status and allowed status already set on
// attendee. The check-in of the previous registration is cleared.
func (r repository) restore(ctx context.Context, attendee *model.Attendee) error {
	ctx = context.WithoutCancel(ctx)
	err := reinstate(r.db.WithContext(ctx), attendee)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %d is already registered for event %d", attendee.UserID, attendee.EventID)
	}
	if err != nil {
		return err
	}
	attendee.IsDeleted = false
	attendee.HasAttended = false
	attendee.CheckInTime = nil
	return nil
}

// reinstate brings back the attendee if it's still cancelled.
func reinstate(db *gorm.DB, attendee *model.Attendee) error {
	db = db.
		Model(&model.Attendee{}).
		Where("id = ? AND is_deleted = ?", attendee.ID, true).
		Updates(map[string]any{
			"is_deleted":     false,
			"status":         attendee.Status,
			"allowed_status": attendee.AllowedStatus,
			"has_attended":   false,
			"check_in_time":  nil,
		})
	if errors.Is(db.Error, gorm.ErrDuplicatedKey) {
		return db.Error
	}
	if db.Error != nil {
		return fmt.Errorf("failed to restore attendee %d: %v", attendee.ID, db.Error)
	}
	if db.RowsAffected == 0 {
		return errdef.NewNotFound("attendee %d has already been restored", attendee.ID)
	}
	return nil
}

func (r repository) countByStatus(ctx context.Context, eventID uint, status model.AttendeeStatus) (int64, error) {
	var count int64
	err := r.db.
		WithContext(ctx).
		Model(&model.Attendee{}).
		Where("event_id = ? AND status = ? AND is_deleted = ?", eventID, status, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s attendees of event %d: %v", status, eventID, err)
	}
	return count, nil
}

func (r repository) findByEvent(ctx context.Context, eventID uint) ([]model.Attendee, error) {
	var attendees []model.Attendee
	err := r.db.
		WithContext(ctx).
		Preload("User").
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Order("id").
		Find(&attendees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find attendees of event %d: %v", eventID, err)
	}
	return attendees, nil
}

func (r repository) findByUser(ctx context.Context, userID uint) ([]model.Attendee, error) {
	var attendees []model.Attendee
	err := r.db.
		WithContext(ctx).
		Joins("Event").
		Where("attendees.user_id = ? AND attendees.is_deleted = ? AND \"Event\".is_deleted = ?", userID, false, false).
		Order("attendees.id").
		Find(&attendees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find registrations of user %d: %v", userID, err)
	}
	return attendees, nil
}
