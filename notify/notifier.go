package notify

import (
	"errors"
	"log"

	"stuywatch/models"
)

// Notifier delivers word of newly found apartments over one channel.
type Notifier interface {
	// Name identifies the channel in logs and the notification history.
	Name() string
	// Notify announces a non-empty batch of new apartments.
	Notify(apartments []models.Apartment) error
	// Test sends a fixed probe message to verify the channel works.
	Test() error
}

// Multi fans a batch out to every channel. One channel failing never stops
// the others; the joined error is returned so the caller can log it, but a
// notification failure is never allowed to block persistence.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Name() string { return "all" }

func (m *Multi) Notify(apartments []models.Apartment) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(apartments); err != nil {
			log.Printf("Notification via %s failed: %v", n.Name(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Test() error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Test(); err != nil {
			log.Printf("Test notification via %s failed: %v", n.Name(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
