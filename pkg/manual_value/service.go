package manual_value

import (
	"context"
	"fmt"
	"time"

	"github.com/asutp/flowdesk/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetByDate(ctx context.Context, day time.Time) ([]Row, error)
	// UpdateRow overwrites every value of the row. Updating an id that matches no row is not an error.
	UpdateRow(ctx context.Context, id int64, values Values) error
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetByDate(ctx context.Context, day time.Time) ([]Row, error) {
	rows, err := s.repo.GetByDate(ctx, day)
	if err != nil {
		log.Errorf("failed to get manual values for %s: %v", day.Format("2006-01-02"), err)
		return nil, fmt.Errorf("failed to get manual values: %w", err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

func (s *ServiceImpl) UpdateRow(ctx context.Context, id int64, values Values) error {
	affected, err := s.repo.UpdateRow(ctx, id, values)
	if err != nil {
		log.Errorf("failed to update manual value %d: %v", id, err)
		return fmt.Errorf("failed to update manual value: %w", err)
	}
	if affected == 0 {
		log.Debugf("manual value %d not found, nothing updated", id)
		return nil
	}

	// The row is already written; a failing subscriber must not turn the update into an error.
	err = s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		event_bus.ManualValueUpdatedEvent,
		event_bus.ManualValueUpdated{
			RowId:        id,
			InitialValue: values.InitialValue,
			Expense:      values.Expense,
			Remainder:    values.Remainder,
			ChangeTime:   values.ChangeTime,
		},
	))
	if err != nil {
		log.Errorf("failed to publish manual value update event: %v", err)
	}
	return nil
}
