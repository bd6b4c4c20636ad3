package gateway

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// Envelope wraps every backend response. Older endpoints answer with
// "success": bool, newer ones with "status": "success"|"error".
type Envelope struct {
	Status  string          `json:"status,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OK reports whether the envelope signals success.
func (e Envelope) OK() bool {
	if e.Success != nil {
		return *e.Success
	}

	return e.Status == "success"
}

type OwnerPayload struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	TaxID    string `json:"tax_id,omitempty"`
	Email    string `json:"email,omitempty"`
}

type AssetPayload struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	Plate            string     `json:"plate"`
	Make             string     `json:"make,omitempty"`
	Model            string     `json:"model,omitempty"`
	Category         string     `json:"category,omitempty"`
	ChassisNumber    string     `json:"chassis_number,omitempty"`
	EngineNumber     string     `json:"engine_number,omitempty"`
	RegistrationSite string     `json:"registration_site,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	RegisteredBy     string     `json:"registered_by,omitempty"`
	VignetteStatus   string     `json:"vignette_status,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
}

type VignettePayload struct {
	Reference   string     `json:"reference,omitempty"`
	Plate       string     `json:"plate"`
	Status      string     `json:"status"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

type TransactionPayload struct {
	Reference        string          `json:"reference"`
	AssetID          string          `json:"asset_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency,omitempty"`
	Method           string          `json:"method"`
	Operator         string          `json:"operator,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	ConfirmationCode string          `json:"confirmation_code,omitempty"`
	MaskedCard       string          `json:"masked_card,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

type QuotePayload struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Category string          `json:"category,omitempty"`
}

// ResolutionPayload is the data of both lookup endpoints.
type ResolutionPayload struct {
	Vignette    *VignettePayload    `json:"vignette,omitempty"`
	Owner       *OwnerPayload       `json:"owner,omitempty"`
	Asset       *AssetPayload       `json:"asset,omitempty"`
	Transaction *TransactionPayload `json:"transaction,omitempty"`
	Quote       *QuotePayload       `json:"quote,omitempty"`
}

type PaymentPayload struct {
	OwnerID          string          `json:"owner_id"`
	AssetID          string          `json:"asset_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Method           string          `json:"method"`
	Operator         string          `json:"operator,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	ConfirmationCode string          `json:"confirmation_code,omitempty"`
	MaskedCard       string          `json:"masked_card,omitempty"`
	Reference        string          `json:"reference,omitempty"`
	AgentID          string          `json:"agent_id,omitempty"`
	Site             string          `json:"site,omitempty"`
}

type PaymentReceiptPayload struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type DeliveryPayload struct {
	Reference string `json:"reference"`
	AssetID   string `json:"asset_id,omitempty"`
	AgentID   string `json:"agent_id,omitempty"`
	Site      string `json:"site,omitempty"`
}

type DeliveryReceiptPayload struct {
	Reference   string    `json:"reference"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// EncodeResolution converts a domain resolution to its wire form.
func EncodeResolution(r *vignette.Resolution) ResolutionPayload {
	var p ResolutionPayload
	if r == nil {
		return p
	}

	if v := r.Vignette; v != nil {
		p.Vignette = &VignettePayload{Reference: v.Reference, Plate: v.Plate, Status: string(v.Status), DeliveredAt: v.DeliveredAt}
	}

	if o := r.Owner; o != nil {
		p.Owner = &OwnerPayload{ID: o.ID, FullName: o.FullName, Phone: o.Phone, Address: o.Address, TaxID: o.TaxID, Email: o.Email}
	}

	if a := r.Asset; a != nil {
		p.Asset = &AssetPayload{
			ID:               a.ID,
			OwnerID:          a.OwnerID,
			Plate:            a.Plate,
			Make:             a.Make,
			Model:            a.Model,
			Category:         a.Category,
			ChassisNumber:    a.ChassisNumber,
			EngineNumber:     a.EngineNumber,
			RegistrationSite: a.Registration.Site,
			RegisteredBy:     a.Registration.Agent,
			VignetteStatus:   string(a.VignetteStatus),
			DeliveredAt:      a.DeliveredAt,
		}

		if !a.Registration.Date.IsZero() {
			d := a.Registration.Date
			p.Asset.RegistrationDate = &d
		}
	}

	if t := r.Transaction; t != nil {
		p.Transaction = &TransactionPayload{
			Reference:        t.Reference,
			AssetID:          t.AssetID,
			Amount:           t.Amount,
			Currency:         t.Currency,
			Method:           string(t.Method),
			Operator:         string(t.Operator),
			Phone:            t.Phone,
			ConfirmationCode: t.ConfirmationCode,
			MaskedCard:       t.MaskedCard,
			Status:           string(t.Status),
			CreatedAt:        t.CreatedAt,
		}
	}

	if q := r.Quote; q != nil {
		p.Quote = &QuotePayload{Amount: q.Amount, Currency: q.Currency, Category: q.Category}
	}

	return p
}

// Decode converts the wire form back to a domain resolution.
func (p ResolutionPayload) Decode() *vignette.Resolution {
	r := &vignette.Resolution{}

	if v := p.Vignette; v != nil {
		r.Vignette = &vignette.Vignette{Reference: v.Reference, Plate: v.Plate, Status: vignette.Status(v.Status), DeliveredAt: v.DeliveredAt}
	}

	if o := p.Owner; o != nil {
		r.Owner = &vignette.Owner{ID: o.ID, FullName: o.FullName, Phone: o.Phone, Address: o.Address, TaxID: o.TaxID, Email: o.Email}
	}

	if a := p.Asset; a != nil {
		r.Asset = &vignette.Asset{
			ID:             a.ID,
			OwnerID:        a.OwnerID,
			Plate:          a.Plate,
			Make:           a.Make,
			Model:          a.Model,
			Category:       a.Category,
			ChassisNumber:  a.ChassisNumber,
			EngineNumber:   a.EngineNumber,
			Registration:   vignette.Registration{Site: a.RegistrationSite, Agent: a.RegisteredBy},
			VignetteStatus: vignette.Status(a.VignetteStatus),
			DeliveredAt:    a.DeliveredAt,
		}

		if a.RegistrationDate != nil {
			r.Asset.Registration.Date = *a.RegistrationDate
		}
	}

	if t := p.Transaction; t != nil {
		r.Transaction = &vignette.Transaction{
			Reference:        t.Reference,
			AssetID:          t.AssetID,
			Amount:           t.Amount,
			Currency:         t.Currency,
			Method:           vignette.PaymentMethod(t.Method),
			Operator:         vignette.Operator(t.Operator),
			Phone:            t.Phone,
			ConfirmationCode: t.ConfirmationCode,
			MaskedCard:       t.MaskedCard,
			Status:           vignette.TxStatus(t.Status),
			CreatedAt:        t.CreatedAt,
		}
	}

	if q := p.Quote; q != nil {
		r.Quote = &vignette.Quote{Amount: q.Amount, Currency: q.Currency, Category: q.Category}
	}

	return r
}

func EncodePayment(req vignette.PaymentRequest) PaymentPayload {
	return PaymentPayload{
		OwnerID:          req.OwnerID,
		AssetID:          req.AssetID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Method:           string(req.Method),
		Operator:         string(req.Operator),
		Phone:            req.Phone,
		ConfirmationCode: req.ConfirmationCode,
		MaskedCard:       req.MaskedCard,
		Reference:        req.Reference,
		AgentID:          req.AgentID,
		Site:             req.Site,
	}
}

func (p PaymentPayload) Decode() vignette.PaymentRequest {
	return vignette.PaymentRequest{
		OwnerID:          p.OwnerID,
		AssetID:          p.AssetID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Method:           vignette.PaymentMethod(p.Method),
		Operator:         vignette.Operator(p.Operator),
		Phone:            p.Phone,
		ConfirmationCode: p.ConfirmationCode,
		MaskedCard:       p.MaskedCard,
		Reference:        p.Reference,
		AgentID:          p.AgentID,
		Site:             p.Site,
	}
}

// ParseKind maps an envelope "kind" back to an error kind.
func ParseKind(s string) (vignette.ErrorKind, bool) {
	for _, k := range []vignette.ErrorKind{
		vignette.KindValidation,
		vignette.KindNotFound,
		vignette.KindMismatch,
		vignette.KindAlreadyProcessed,
		vignette.KindBackend,
		vignette.KindPriceUnavailable,
	} {
		if k.String() == s {
			return k, true
		}
	}

	return vignette.KindBackend, false
}
