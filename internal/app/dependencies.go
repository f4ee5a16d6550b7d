package app

import (
	"github.com/asutp/flowdesk/internal/event_bus"
	"github.com/asutp/flowdesk/pkg/manual_value"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	ManualValueRepo    manual_value.Repository
	ManualValueService *manual_value.ServiceImpl
	ManualValueHandler *manual_value.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db manual_value.DB) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	event_bus.SubscribeTyped(deps.EventBus, event_bus.ManualValueUpdatedEvent, logManualValueUpdate)

	deps.ManualValueRepo = manual_value.NewRepo(db)
	deps.ManualValueService = manual_value.NewService(deps.ManualValueRepo, deps.EventBus)
	deps.ManualValueHandler = manual_value.NewHandler(deps.ManualValueService)

	return deps
}

func logManualValueUpdate(e event_bus.EventT[event_bus.ManualValueUpdated]) error {
	log.WithFields(log.Fields{
		"request_id":    RequestIdFrom(e.Context()),
		"row_id":        e.Data.RowId,
		"initial_value": e.Data.InitialValue,
		"expense":       e.Data.Expense,
		"remainder":     e.Data.Remainder,
	}).Info("manual value updated")
	return nil
}
