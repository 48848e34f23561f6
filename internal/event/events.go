package event

import (
	"mmclient/internal/domain"
	"mmclient/pkg/quant"
)

// Type defines the type of event.
type Type uint16

const (
	EvMarketUpdate Type = iota + 1
	EvOrderUpdate
	EvGatewayStatus
)

// StatusKind classifies gateway status events.
type StatusKind uint8

const (
	StatusAuthenticated StatusKind = iota + 1
	StatusError
	StatusClosed
)

// Event is the interface for all sequencer events.
type Event interface {
	GetSeq() uint64
	GetTs() quant.TimeStamp
	GetType() Type
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	Seq uint64
	Ts  quant.TimeStamp
}

func (e BaseEvent) GetSeq() uint64         { return e.Seq }
func (e BaseEvent) GetTs() quant.TimeStamp { return e.Ts }

// MarketUpdateEvent carries one market snapshot from the feed.
type MarketUpdateEvent struct {
	BaseEvent
	Snapshot domain.Snapshot
}

func (e MarketUpdateEvent) GetType() Type { return EvMarketUpdate }

// OrderUpdateEvent carries one fill from the order gateway.
type OrderUpdateEvent struct {
	BaseEvent
	Fill domain.Fill
}

func (e OrderUpdateEvent) GetType() Type { return EvOrderUpdate }

// GatewayStatusEvent carries out-of-band gateway notices
// (AUTHENTICATED, ERROR, channel closed).
type GatewayStatusEvent struct {
	BaseEvent
	Kind    StatusKind
	Message string
}

func (e GatewayStatusEvent) GetType() Type { return EvGatewayStatus }
