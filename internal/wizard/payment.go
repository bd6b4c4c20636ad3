package wizard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// PaymentStep records the sale of a vignette for the resolved asset.
type PaymentStep struct {
	ctrl     *Controller
	gw       vignette.Gateway
	session  *session.Session
	currency string
	now      func() time.Time
}

func NewPaymentStep(ctrl *Controller, gw vignette.Gateway, sess *session.Session, currency string, now func() time.Time) *PaymentStep {
	if now == nil {
		now = time.Now
	}

	return &PaymentStep{ctrl: ctrl, gw: gw, session: sess, currency: currency, now: now}
}

// Submit validates the payment fields, records the payment and advances to confirmation.
func (s *PaymentStep) Submit(ctx context.Context, d vignette.PaymentDetails) error {
	st := s.ctrl.State()
	if s.ctrl.Flow() != FlowSale || st.Step != StepSecond {
		return ErrWrongStep
	}

	if err := s.precheck(st, d); err != nil {
		s.ctrl.Fail(ModalFor(err))
		return err
	}

	gen, err := s.ctrl.begin()
	if err != nil {
		return err
	}
	defer s.ctrl.finish(gen)

	req := s.request(st, d)

	rcpt, err := s.gw.RecordPayment(ctx, req)
	if err != nil {
		slog.Warn("payment failed", "plate", st.Asset.Plate, "method", d.Method, "error", err)
		return s.fail(gen, backendError(err))
	}

	tx := &vignette.Transaction{
		Reference:        req.Reference,
		AssetID:          req.AssetID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Method:           req.Method,
		Operator:         req.Operator,
		Phone:            req.Phone,
		ConfirmationCode: req.ConfirmationCode,
		MaskedCard:       req.MaskedCard,
		Status:           vignette.TxPaid,
		CreatedAt:        s.now(),
	}

	if rcpt != nil {
		if rcpt.Reference != "" {
			tx.Reference = rcpt.Reference
		}

		if rcpt.Status != "" {
			tx.Status = rcpt.Status
		}
	}

	if err := s.ctrl.advanceAt(gen, Output{Transaction: tx}); err != nil {
		if errors.Is(err, ErrStale) {
			return err
		}

		return s.fail(gen, err)
	}

	return nil
}

func (s *PaymentStep) precheck(st State, d vignette.PaymentDetails) error {
	if st.Asset.Delivered() {
		return alreadyDelivered(st.Asset.Plate, st.Asset.DeliveredAt)
	}

	if st.Quote == nil {
		return priceUnavailable()
	}

	return d.Validate()
}

func (s *PaymentStep) request(st State, d vignette.PaymentDetails) vignette.PaymentRequest {
	currency := st.Quote.Currency
	if currency == "" {
		currency = s.currency
	}

	req := vignette.PaymentRequest{
		OwnerID:   st.Owner.ID,
		AssetID:   st.Asset.ID,
		Amount:    st.Quote.Amount,
		Currency:  currency,
		Method:    d.Method,
		Reference: vignette.NewReference(s.now()),
		AgentID:   s.session.User.ID,
		Site:      s.session.User.Site,
	}

	switch d.Method {
	case vignette.MethodMobileMoney:
		req.Phone = d.Phone
		req.ConfirmationCode = d.ConfirmationCode
		req.Operator = vignette.DetectOperator(d.Phone)
	case vignette.MethodCard:
		req.MaskedCard = vignette.MaskCard(d.CardNumber)
	}

	return req
}

func (s *PaymentStep) fail(gen uint64, err error) error {
	if showErr := s.ctrl.showAt(gen, ModalFor(err)); showErr != nil {
		return showErr
	}

	return err
}
