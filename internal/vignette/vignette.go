package vignette

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a plate's vignette.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusExpired   Status = "expired"
)

// PaymentMethod is how a transaction was settled at the counter.
type PaymentMethod string

const (
	MethodCash        PaymentMethod = "cash"
	MethodMobileMoney PaymentMethod = "mobile_money"
	MethodCard        PaymentMethod = "card"
)

// TxStatus is the lifecycle state of a payment.
type TxStatus string

const (
	TxPaid      TxStatus = "paid"
	TxPending   TxStatus = "pending"
	TxCancelled TxStatus = "cancelled"
)

// Owner is the taxpayer (assujetti) a vehicle is registered to.
type Owner struct {
	ID       string
	FullName string
	Phone    string
	Address  string
	TaxID    string
	Email    string
}

// Registration records where, when and by whom a vehicle was registered.
type Registration struct {
	Site  string
	Date  time.Time
	Agent string
}

// Asset is a registered vehicle (engin).
type Asset struct {
	ID             string
	OwnerID        string
	Plate          string // canonical uppercase
	Make           string
	Model          string
	Category       string
	ChassisNumber  string
	EngineNumber   string
	Registration   Registration
	VignetteStatus Status
	DeliveredAt    *time.Time
}

// Delivered reports whether the asset's vignette has already been handed over.
func (a *Asset) Delivered() bool {
	return a != nil && a.VignetteStatus == StatusDelivered
}

// Vignette is an existing vignette record for a plate.
type Vignette struct {
	Reference   string
	Plate       string
	Status      Status
	DeliveredAt *time.Time
}

// Transaction is a recorded payment for exactly one asset.
type Transaction struct {
	Reference        string
	AssetID          string
	Amount           decimal.Decimal
	Currency         string
	Method           PaymentMethod
	Operator         Operator
	Phone            string
	ConfirmationCode string
	MaskedCard       string
	Status           TxStatus
	CreatedAt        time.Time
}

// Quote is the price the backend asks for a vignette of a given category.
type Quote struct {
	Amount   decimal.Decimal
	Currency string
	Category string
}

// Resolution is everything the gateway knows about a looked-up plate.
// Any field may be nil when the backend has no matching record.
type Resolution struct {
	Vignette    *Vignette
	Owner       *Owner
	Asset       *Asset
	Transaction *Transaction
	Quote       *Quote
}

// PaymentRequest is sent to record a payment at the counter.
type PaymentRequest struct {
	OwnerID          string
	AssetID          string
	Amount           decimal.Decimal
	Currency         string
	Method           PaymentMethod
	Operator         Operator
	Phone            string
	ConfirmationCode string
	MaskedCard       string
	Reference        string
	AgentID          string
	Site             string
}

// PaymentReceipt is the gateway's answer to a recorded payment.
// Reference is empty when the backend leaves reference allocation to the client.
type PaymentReceipt struct {
	Reference string
	Status    TxStatus
}

// DeliveryRequest finalizes the hand-over of a paid vignette.
type DeliveryRequest struct {
	Reference string
	AssetID   string
	AgentID   string
	Site      string
}

// DeliveryReceipt is the gateway's answer to a finalized delivery.
type DeliveryReceipt struct {
	Reference   string
	DeliveredAt time.Time
}
