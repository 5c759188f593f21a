package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	AlertKindArbOpportunity    = "arb_opportunity"
	AlertKindPositionUnhealthy = "position_unhealthy"
)

var (
	ErrAlertCooldown       = errors.New("unclaimed alert still in cooldown")
	ErrAlertNotFound       = errors.New("no alert of this kind")
	ErrAlertAlreadyClaimed = errors.New("alert already claimed")
)

// PositionAlertPayload carries the unhealthy position, its evaluation and
// the planner's suggested replacement ranges.
type PositionAlertPayload struct {
	Position  *Position         `json:"position"`
	Health    PositionHealth    `json:"health"`
	Suggested *RangeSuggestions `json:"suggested,omitempty"`
}

// Alert is the durable record one executor at a time consumes. Version is
// bumped on every rewrite; a multi-consumer deployment would CAS on it, the
// single-consumer claim protocol here does not.
type Alert struct {
	Kind          string                `json:"kind"`
	Timestamp     time.Time             `json:"timestamp"`
	Read          bool                  `json:"read"`
	Version       uint64                `json:"version"`
	FailureReason string                `json:"failure_reason,omitempty"`
	Opportunity   *Opportunity          `json:"opportunity,omitempty"`
	Unhealthy     *PositionAlertPayload `json:"unhealthy,omitempty"`
}

func alertKey(kind string) []byte {
	return []byte("alert:" + kind)
}

var opportunitiesKey = []byte("opportunities:snapshot")

// AlertCoordinator owns the durable alert slot per kind and the top-N
// opportunity snapshot. Single-writer: exactly one detector process and one
// consumer process may touch the store at a time.
type AlertCoordinator struct {
	kv        KV
	cooldowns map[string]time.Duration
	topN      int
	now       func() time.Time
}

func NewAlertCoordinator(kv KV, conf *AlertsConf, topN int) *AlertCoordinator {
	if topN <= 0 {
		topN = 10
	}
	return &AlertCoordinator{
		kv: kv,
		cooldowns: map[string]time.Duration{
			AlertKindArbOpportunity:    time.Duration(conf.ArbCooldownBySecond) * time.Second,
			AlertKindPositionUnhealthy: time.Duration(conf.PositionCooldownBySecond) * time.Second,
		},
		topN: topN,
		now:  time.Now,
	}
}

func (c *AlertCoordinator) load(kind string) (*Alert, error) {
	data, err := c.kv.Get(alertKey(kind))
	if err != nil {
		if IsNotExist(err) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	alert := &Alert{}
	if err := json.Unmarshal(data, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (c *AlertCoordinator) store(alert *Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return c.kv.Set(alertKey(alert.Kind), data)
}

// Raise writes a fresh unclaimed alert. It is refused only while an
// unclaimed alert of the same kind sits inside its cooldown window, so a
// persistent condition re-alerts at most once per window instead of on
// every poll. A claimed alert never blocks a raise, and an unclaimed one
// past its cooldown is superseded.
func (c *AlertCoordinator) Raise(alert *Alert) error {
	existing, err := c.load(alert.Kind)
	if err != nil && !errors.Is(err, ErrAlertNotFound) {
		return err
	}

	if existing != nil && !existing.Read {
		if c.now().Sub(existing.Timestamp) < c.cooldowns[alert.Kind] {
			return ErrAlertCooldown
		}
	}

	alert.Timestamp = c.now()
	alert.Read = false
	if existing != nil {
		alert.Version = existing.Version + 1
	}
	return c.store(alert)
}

// Pending returns the unclaimed alert of a kind, if any.
func (c *AlertCoordinator) Pending(kind string) (*Alert, error) {
	alert, err := c.load(kind)
	if err != nil {
		return nil, err
	}
	if alert.Read {
		return nil, ErrAlertNotFound
	}
	return alert, nil
}

// Claim flips read to true synchronously, before the caller attempts any
// execution. That ordering is the whole at-most-once guarantee: a consumer
// that crashes mid-execution leaves a claimed record behind, and no second
// consumer will re-attempt it. A second Claim on the same record is
// rejected.
func (c *AlertCoordinator) Claim(kind string) (*Alert, error) {
	alert, err := c.load(kind)
	if err != nil {
		return nil, err
	}
	if alert.Read {
		return nil, ErrAlertAlreadyClaimed
	}

	alert.Read = true
	alert.Version++
	if err := c.store(alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Resolve finishes a claimed alert: deleted on success, retained with the
// failure reason on failure for manual inspection. Failures are not retried
// automatically.
func (c *AlertCoordinator) Resolve(kind string, ok bool, reason string) error {
	alert, err := c.load(kind)
	if err != nil {
		return err
	}
	if !alert.Read {
		return fmt.Errorf("cannot resolve unclaimed %s alert", kind)
	}

	if ok {
		return c.kv.Del(alertKey(kind))
	}

	alert.FailureReason = reason
	alert.Version++
	return c.store(alert)
}

// SaveOpportunities persists the scan's top-N opportunities as one JSON
// document. Purely informational, outside the claim protocol.
func (c *AlertCoordinator) SaveOpportunities(opportunities []*Opportunity) error {
	if len(opportunities) > c.topN {
		opportunities = opportunities[:c.topN]
	}
	data, err := json.Marshal(opportunities)
	if err != nil {
		return err
	}
	return c.kv.Set(opportunitiesKey, data)
}

func (c *AlertCoordinator) Opportunities() ([]*Opportunity, error) {
	data, err := c.kv.Get(opportunitiesKey)
	if err != nil {
		if IsNotExist(err) {
			return []*Opportunity{}, nil
		}
		return nil, err
	}

	var opportunities []*Opportunity
	if err := json.Unmarshal(data, &opportunities); err != nil {
		return nil, err
	}
	return opportunities, nil
}
