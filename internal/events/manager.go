package events

import (
	"github.com/rs/zerolog"
)

// Manager handles event emission and logging
type Manager struct {
	bus *Bus
	log zerolog.Logger
}

// NewManager creates a new event manager
func NewManager(bus *Bus, log zerolog.Logger) *Manager {
	return &Manager{
		bus: bus,
		log: log.With().Str("service", "events").Logger(),
	}
}

// Emit publishes typed data on the bus and logs it
func (m *Manager) Emit(module string, data EventData) {
	eventType := data.EventType()
	m.bus.Emit(eventType, module, data)

	m.log.Info().
		Str("event_type", string(eventType)).
		Str("module", module).
		Interface("data", data).
		Msg("Event emitted")
}

// EmitError publishes a JobFailed event for a failed background job
func (m *Manager) EmitError(module, job string, err error) {
	m.Emit(module, &JobFailedData{Job: job, Error: err.Error()})
}

// Bus returns the underlying bus for subscribers
func (m *Manager) Bus() *Bus {
	return m.bus
}
