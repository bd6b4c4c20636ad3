package vignette

import "context"

// Gateway is the remote backend the counter wizards talk to.
// Lookups report missing records as nil fields on the Resolution, not as errors.
//
//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=vignette
type Gateway interface {
	// LookupAsset resolves a plate for the sale flow, including its price quote.
	LookupAsset(ctx context.Context, plate string) (*Resolution, error)
	// LookupTransaction resolves a plate and a payment reference in a single round-trip.
	LookupTransaction(ctx context.Context, plate, reference string) (*Resolution, error)
	RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error)
	FinalizeDelivery(ctx context.Context, req DeliveryRequest) (*DeliveryReceipt, error)
}
