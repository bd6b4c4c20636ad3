// Package fixture is an in-memory Gateway holding demo records. It backs the
// sandbox server and the tests; nothing in the wizard depends on it directly.
package fixture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// Record is one plate with its owner and, optionally, a payment already made for it.
type Record struct {
	Owner       vignette.Owner
	Asset       vignette.Asset
	Transaction *vignette.Transaction
}

// Gateway implements vignette.Gateway over in-memory tables.
type Gateway struct {
	mu sync.RWMutex

	owners       map[string]*vignette.Owner       // by id
	assets       map[string]*vignette.Asset       // by plate
	vignettes    map[string]*vignette.Vignette    // by plate
	transactions map[string]*vignette.Transaction // by reference
	prices       map[string]decimal.Decimal       // by asset category
	currency     string

	latency time.Duration
	now     func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLatency delays every call, to exercise in-flight UI states.
func WithLatency(d time.Duration) Option {
	return func(g *Gateway) { g.latency = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithPrices replaces the price list per asset category.
func WithPrices(prices map[string]decimal.Decimal, currency string) Option {
	return func(g *Gateway) {
		g.prices = prices
		g.currency = currency
	}
}

// New creates a gateway holding records.
func New(records []Record, opts ...Option) *Gateway {
	g := &Gateway{
		owners:       make(map[string]*vignette.Owner),
		assets:       make(map[string]*vignette.Asset),
		vignettes:    make(map[string]*vignette.Vignette),
		transactions: make(map[string]*vignette.Transaction),
		prices:       DefaultPrices(),
		currency:     "USD",
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	for _, r := range records {
		g.Add(r)
	}

	return g
}

// Add inserts or replaces a record. Missing ids are generated.
func (g *Gateway) Add(r Record) {
	g.mu.Lock()
	defer g.mu.Unlock()

	owner := r.Owner
	if owner.ID == "" {
		owner.ID = uuid.NewString()
	}

	asset := r.Asset
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}

	asset.Plate = vignette.NormalizeIdentifier(asset.Plate)
	asset.OwnerID = owner.ID

	if asset.VignetteStatus == "" {
		asset.VignetteStatus = vignette.StatusPending
	}

	g.owners[owner.ID] = &owner
	g.assets[asset.Plate] = &asset

	if asset.VignetteStatus == vignette.StatusDelivered {
		g.vignettes[asset.Plate] = &vignette.Vignette{
			Plate:       asset.Plate,
			Status:      vignette.StatusDelivered,
			DeliveredAt: asset.DeliveredAt,
		}
	}

	if r.Transaction != nil {
		tx := *r.Transaction
		tx.Reference = vignette.NormalizeIdentifier(tx.Reference)
		tx.AssetID = asset.ID

		g.transactions[tx.Reference] = &tx

		if v := g.vignettes[asset.Plate]; v != nil {
			v.Reference = tx.Reference
		}
	}
}

func (g *Gateway) LookupAsset(ctx context.Context, plate string) (*vignette.Resolution, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	res := g.resolvePlate(vignette.NormalizeIdentifier(plate))

	if res.Asset != nil {
		if price, ok := g.prices[res.Asset.Category]; ok {
			res.Quote = &vignette.Quote{Amount: price, Currency: g.currency, Category: res.Asset.Category}
		}
	}

	return res, nil
}

func (g *Gateway) LookupTransaction(ctx context.Context, plate, reference string) (*vignette.Resolution, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	res := g.resolvePlate(vignette.NormalizeIdentifier(plate))

	if tx, ok := g.transactions[vignette.NormalizeIdentifier(reference)]; ok {
		c := *tx
		res.Transaction = &c
	}

	return res, nil
}

func (g *Gateway) RecordPayment(ctx context.Context, req vignette.PaymentRequest) (*vignette.PaymentReceipt, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	asset := g.assetByID(req.AssetID)
	if asset == nil {
		return nil, &vignette.Error{Kind: vignette.KindNotFound, Message: "Engin inconnu."}
	}

	if asset.Delivered() {
		return nil, &vignette.Error{Kind: vignette.KindAlreadyProcessed, Message: "Vignette déjà délivrée pour cet engin."}
	}

	ref := vignette.NormalizeIdentifier(req.Reference)
	if ref == "" {
		ref = vignette.NewReference(g.now())
	}

	if _, taken := g.transactions[ref]; taken {
		return nil, &vignette.Error{Kind: vignette.KindMismatch, Message: fmt.Sprintf("La référence %s existe déjà.", ref)}
	}

	g.transactions[ref] = &vignette.Transaction{
		Reference:        ref,
		AssetID:          asset.ID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Method:           req.Method,
		Operator:         req.Operator,
		Phone:            req.Phone,
		ConfirmationCode: req.ConfirmationCode,
		MaskedCard:       req.MaskedCard,
		Status:           vignette.TxPaid,
		CreatedAt:        g.now(),
	}

	g.vignettes[asset.Plate] = &vignette.Vignette{Reference: ref, Plate: asset.Plate, Status: vignette.StatusPending}

	return &vignette.PaymentReceipt{Reference: ref, Status: vignette.TxPaid}, nil
}

func (g *Gateway) FinalizeDelivery(ctx context.Context, req vignette.DeliveryRequest) (*vignette.DeliveryReceipt, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ref := vignette.NormalizeIdentifier(req.Reference)

	tx, ok := g.transactions[ref]
	if !ok {
		return nil, &vignette.Error{Kind: vignette.KindNotFound, Message: fmt.Sprintf("Transaction %s introuvable.", ref)}
	}

	if tx.Status != vignette.TxPaid {
		return nil, &vignette.Error{Kind: vignette.KindValidation, Message: fmt.Sprintf("La transaction %s n'est pas payée.", ref)}
	}

	asset := g.assetByID(tx.AssetID)
	if asset == nil || (req.AssetID != "" && req.AssetID != asset.ID) {
		return nil, &vignette.Error{Kind: vignette.KindMismatch, Message: fmt.Sprintf("La référence %s ne correspond pas à l'engin.", ref)}
	}

	if asset.Delivered() {
		return nil, &vignette.Error{Kind: vignette.KindAlreadyProcessed, Message: "Vignette déjà délivrée."}
	}

	at := g.now()
	asset.VignetteStatus = vignette.StatusDelivered
	asset.DeliveredAt = &at
	g.vignettes[asset.Plate] = &vignette.Vignette{Reference: ref, Plate: asset.Plate, Status: vignette.StatusDelivered, DeliveredAt: &at}

	return &vignette.DeliveryReceipt{Reference: ref, DeliveredAt: at}, nil
}

// resolvePlate returns copies so callers never share mutable records with the store.
func (g *Gateway) resolvePlate(plate string) *vignette.Resolution {
	res := &vignette.Resolution{}

	if v, ok := g.vignettes[plate]; ok {
		c := *v
		res.Vignette = &c
	}

	a, ok := g.assets[plate]
	if !ok {
		return res
	}

	asset := *a
	res.Asset = &asset

	if o, ok := g.owners[a.OwnerID]; ok {
		owner := *o
		res.Owner = &owner
	}

	return res
}

func (g *Gateway) assetByID(id string) *vignette.Asset {
	for _, a := range g.assets {
		if a.ID == id {
			return a
		}
	}

	return nil
}

func (g *Gateway) wait(ctx context.Context) error {
	if g.latency <= 0 {
		return ctx.Err()
	}

	select {
	case <-time.After(g.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
