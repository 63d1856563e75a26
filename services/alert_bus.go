package services

import (
	"rightssphere/metrics"
	"rightssphere/models"
)

// AlertEvent is the websocket payload for alert lifecycle changes.
type AlertEvent struct {
	Kind      string           `json:"kind"`
	Alert     *models.Alert    `json:"alert"`
	Results   []DispatchResult `json:"results,omitempty"`
	SentCount int              `json:"sentCount"`
}

// AlertBus publishes alert lifecycle events. A nil hub only records metrics.
type AlertBus struct {
	rt *RealtimeHub
}

func NewAlertBus(rt *RealtimeHub) *AlertBus {
	return &AlertBus{rt: rt}
}

func (b *AlertBus) Created(a *models.Alert) {
	if b == nil || b.rt == nil {
		return
	}
	b.rt.Broadcast(a.UserID, AlertEvent{Kind: "alert.created", Alert: a})
}

func (b *AlertBus) Updated(a *models.Alert, results []DispatchResult, sent int) {
	metrics.AlertsTotal.WithLabelValues(string(a.Status)).Inc()
	if b == nil || b.rt == nil {
		return
	}
	b.rt.Broadcast(a.UserID, AlertEvent{
		Kind:      "alert.updated",
		Alert:     a,
		Results:   results,
		SentCount: sent,
	})
}
