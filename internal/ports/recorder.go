package ports

import "time"

type DeliveryResult string

const (
	DeliveryDelivered DeliveryResult = "delivered"
	DeliveryFailed    DeliveryResult = "failed"
	DeliveryMissing   DeliveryResult = "missing"
)

// DispatchRecorder observes the daemon loop.
type DispatchRecorder interface {
	LineRead()
	LineMalformed()
	ChannelOpened()
	Delivery(handler string, result DeliveryResult, elapsed time.Duration)
}

type NopRecorder struct{}

func (NopRecorder) LineRead()                                      {}
func (NopRecorder) LineMalformed()                                 {}
func (NopRecorder) ChannelOpened()                                 {}
func (NopRecorder) Delivery(string, DeliveryResult, time.Duration) {}
