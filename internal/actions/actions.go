// Package actions binds backend writes to cache invalidation. Each action
// runs as a query.Mutation so views can disable their controls while it is
// pending and refetch once it succeeds.
package actions

import (
	"context"

	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/logger"
	"github.com/uptimestars/starsctl/internal/query"
)

// MonitorAPI is the part of the API client that writes monitors.
type MonitorAPI interface {
	CreateMonitor(ctx context.Context, payload api.MonitorPayload) (string, error)
	UpdateMonitor(ctx context.Context, id string, patch api.MonitorPatch) error
	EnableMonitor(ctx context.Context, id string) error
	DisableMonitor(ctx context.Context, id string) error
	DeleteMonitor(ctx context.Context, id string) error
}

// EventAPI is the part of the API client that writes events.
type EventAPI interface {
	UpdateEvent(ctx context.Context, id string, patch api.EventPatch) error
}

type monitorUpdate struct {
	id    string
	patch api.MonitorPatch
}

type eventUpdate struct {
	id    string
	patch api.EventPatch
}

// monitorResources are refetched after any monitor write: the list carries
// the active flag and the detail view shows it too.
var monitorResources = []query.Resource{query.ResourceMonitors, query.ResourceMonitor}

// Monitors runs monitor writes.
type Monitors struct {
	enable  *query.Mutation[string, struct{}]
	disable *query.Mutation[string, struct{}]
	remove  *query.Mutation[string, struct{}]
	create  *query.Mutation[api.MonitorPayload, string]
	update  *query.Mutation[monitorUpdate, struct{}]
	log     logger.Logger
}

// NewMonitors creates the monitor actions.
func NewMonitors(client MonitorAPI, store *query.Store, log logger.Logger) *Monitors {
	if log == nil {
		log = logger.Noop()
	}
	byID := func(call func(context.Context, string) error) func(context.Context, string) (struct{}, error) {
		return func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, call(ctx, id)
		}
	}
	return &Monitors{
		enable:  query.NewMutation(store, byID(client.EnableMonitor), monitorResources...),
		disable: query.NewMutation(store, byID(client.DisableMonitor), monitorResources...),
		remove:  query.NewMutation(store, byID(client.DeleteMonitor), monitorResources...),
		create:  query.NewMutation(store, client.CreateMonitor, monitorResources...),
		update: query.NewMutation(store, func(ctx context.Context, u monitorUpdate) (struct{}, error) {
			return struct{}{}, client.UpdateMonitor(ctx, u.id, u.patch)
		}, monitorResources...),
		log: log,
	}
}

// Busy reports whether any monitor write is in flight. Controls that start a
// monitor write must be disabled while it is true.
func (m *Monitors) Busy() bool {
	return m.enable.Pending() || m.disable.Pending() || m.remove.Pending() ||
		m.create.Pending() || m.update.Pending()
}

// Enable resumes a paused monitor.
func (m *Monitors) Enable(ctx context.Context, id string) error {
	if m.Busy() {
		return query.ErrMutationPending
	}
	if _, err := m.enable.Run(ctx, id); err != nil {
		return err
	}
	m.log.Info("resumed monitor %s", id)
	return nil
}

// Disable pauses a monitor.
func (m *Monitors) Disable(ctx context.Context, id string) error {
	if m.Busy() {
		return query.ErrMutationPending
	}
	if _, err := m.disable.Run(ctx, id); err != nil {
		return err
	}
	m.log.Info("paused monitor %s", id)
	return nil
}

// Delete removes a monitor.
func (m *Monitors) Delete(ctx context.Context, id string) error {
	if m.Busy() {
		return query.ErrMutationPending
	}
	if _, err := m.remove.Run(ctx, id); err != nil {
		return err
	}
	m.log.Info("deleted monitor %s", id)
	return nil
}

// Create creates a monitor and returns its id.
func (m *Monitors) Create(ctx context.Context, payload api.MonitorPayload) (string, error) {
	if m.Busy() {
		return "", query.ErrMutationPending
	}
	id, err := m.create.Run(ctx, payload)
	if err != nil {
		return "", err
	}
	m.log.Info("created monitor %s (%s)", id, payload.Name)
	return id, nil
}

// Update applies a partial update to a monitor.
func (m *Monitors) Update(ctx context.Context, id string, patch api.MonitorPatch) error {
	if m.Busy() {
		return query.ErrMutationPending
	}
	if _, err := m.update.Run(ctx, monitorUpdate{id: id, patch: patch}); err != nil {
		return err
	}
	m.log.Info("updated monitor %s", id)
	return nil
}

// Toggle pauses an active monitor or resumes a paused one, and returns the
// resulting active flag.
func (m *Monitors) Toggle(ctx context.Context, mon api.Monitor) (bool, error) {
	if mon.IsActive {
		if err := m.Disable(ctx, mon.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := m.Enable(ctx, mon.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Events runs event writes.
type Events struct {
	annotate *query.Mutation[eventUpdate, struct{}]
	log      logger.Logger
}

// NewEvents creates the event actions.
func NewEvents(client EventAPI, store *query.Store, log logger.Logger) *Events {
	if log == nil {
		log = logger.Noop()
	}
	return &Events{
		annotate: query.NewMutation(store, func(ctx context.Context, u eventUpdate) (struct{}, error) {
			return struct{}{}, client.UpdateEvent(ctx, u.id, u.patch)
		}, query.ResourceEvents, query.ResourceMonitor),
		log: log,
	}
}

// Busy reports whether an annotation is in flight.
func (e *Events) Busy() bool {
	return e.annotate.Pending()
}

// Annotate updates an event's editable fields.
func (e *Events) Annotate(ctx context.Context, id string, patch api.EventPatch) error {
	if _, err := e.annotate.Run(ctx, eventUpdate{id: id, patch: patch}); err != nil {
		return err
	}
	e.log.Info("annotated event %s", id)
	return nil
}
