// Package wizard implements the counter's multi-step transaction flows: a controller
// holding the run state and the steps that feed it through the remote gateway.
package wizard

import (
	"time"

	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// Options tunes a wizard. Zero values are usable.
type Options struct {
	// ConfirmDelay is the artificial pause before the final confirmation completes.
	ConfirmDelay time.Duration
	// Currency is used when the backend quote carries none.
	Currency string
	Now      func() time.Time
}

// Wizard bundles a controller with the steps of its flow. Steps not part of
// the flow are nil (Payment in delivery, Confirm in sale).
type Wizard struct {
	*Controller

	Lookup  *LookupStep
	Payment *PaymentStep
	Confirm *ConfirmStep
	Final   *FinalStep
}

// NewDelivery builds the vignette-delivery wizard: Lookup -> Confirm -> Deliver.
func NewDelivery(gw vignette.Gateway, sess *session.Session, opts Options) *Wizard {
	sess = orAnonymous(sess)
	ctrl := NewController(FlowDelivery, guardsFor(FlowDelivery)...)

	return &Wizard{
		Controller: ctrl,
		Lookup:     NewLookupStep(ctrl, gw, sess),
		Confirm:    NewConfirmStep(ctrl),
		Final:      NewFinalStep(ctrl, gw, sess, opts.ConfirmDelay, opts.Now),
	}
}

// NewSale builds the plate-sale wizard: PlateEntry -> Payment -> Confirmation.
func NewSale(gw vignette.Gateway, sess *session.Session, opts Options) *Wizard {
	sess = orAnonymous(sess)
	ctrl := NewController(FlowSale, guardsFor(FlowSale)...)

	return &Wizard{
		Controller: ctrl,
		Lookup:     NewLookupStep(ctrl, gw, sess),
		Payment:    NewPaymentStep(ctrl, gw, sess, opts.Currency, opts.Now),
		Final:      NewFinalStep(ctrl, gw, sess, opts.ConfirmDelay, opts.Now),
	}
}

func orAnonymous(sess *session.Session) *session.Session {
	if sess == nil {
		return session.Anonymous()
	}

	return sess
}
