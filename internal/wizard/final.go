package wizard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/vignettes/internal/receipt"
	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// ConfirmStep is the delivery flow's second step: the agent checks the resolved
// records against the documents presented at the counter.
type ConfirmStep struct {
	ctrl *Controller
}

func NewConfirmStep(ctrl *Controller) *ConfirmStep {
	return &ConfirmStep{ctrl: ctrl}
}

// Confirm advances to delivery once the transaction is paid and linked to the asset.
func (s *ConfirmStep) Confirm() error {
	if s.ctrl.Flow() != FlowDelivery || s.ctrl.State().Step != StepSecond {
		return ErrWrongStep
	}

	if err := s.ctrl.Advance(Output{}); err != nil {
		s.ctrl.Fail(ModalFor(err))
		return err
	}

	return nil
}

// FinalStep closes a run: it finalizes the delivery (delivery flow), then shows
// the receipt in a success modal whose confirm action starts a new run.
type FinalStep struct {
	ctrl    *Controller
	gw      vignette.Gateway
	session *session.Session
	delay   time.Duration
	now     func() time.Time

	mu   sync.Mutex
	last *receipt.Receipt
}

func NewFinalStep(ctrl *Controller, gw vignette.Gateway, sess *session.Session, delay time.Duration, now func() time.Time) *FinalStep {
	if now == nil {
		now = time.Now
	}

	return &FinalStep{ctrl: ctrl, gw: gw, session: sess, delay: delay, now: now}
}

// Confirm waits the fixed confirmation delay, finalizes and shows the success modal.
func (s *FinalStep) Confirm(ctx context.Context) error {
	st := s.ctrl.State()
	if st.Step != StepFinal {
		return ErrWrongStep
	}

	gen, err := s.ctrl.begin()
	if err != nil {
		return err
	}
	defer s.ctrl.finish(gen)

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			interrupted := vignette.Backend("La confirmation a été interrompue.", ctx.Err())
			if showErr := s.ctrl.showAt(gen, ModalFor(interrupted)); showErr != nil {
				return showErr
			}

			return ctx.Err()
		}
	}

	r := receipt.Receipt{
		Owner:       st.Owner,
		Asset:       st.Asset,
		Transaction: st.Transaction,
		Agent:       s.session.User.Name,
		Site:        s.session.User.Site,
	}

	title := "Vente enregistrée"

	if s.ctrl.Flow() == FlowDelivery {
		dr, err := s.gw.FinalizeDelivery(ctx, vignette.DeliveryRequest{
			Reference: st.Transaction.Reference,
			AssetID:   st.Asset.ID,
			AgentID:   s.session.User.ID,
			Site:      s.session.User.Site,
		})
		if err != nil {
			slog.Warn("delivery failed", "reference", st.Transaction.Reference, "error", err)

			if showErr := s.ctrl.showAt(gen, ModalFor(backendError(err))); showErr != nil {
				return showErr
			}

			return err
		}

		at := s.now()
		if dr != nil && !dr.DeliveredAt.IsZero() {
			at = dr.DeliveredAt
		}

		r.DeliveredAt = &at
		title = "Vignette délivrée"
	}

	s.mu.Lock()
	s.last = &r
	s.mu.Unlock()

	return s.ctrl.showAt(gen, Modal{
		Kind:         ModalSuccess,
		Title:        title,
		Message:      receipt.Render(r),
		ConfirmLabel: "Nouvelle recherche",
		OnConfirm:    s.ctrl.Reset,
	})
}

// Receipt returns the receipt of the last completed run.
func (s *FinalStep) Receipt() (receipt.Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return receipt.Receipt{}, false
	}

	return *s.last, true
}

// Acknowledge dismisses the completion modal and starts a new run.
func (s *FinalStep) Acknowledge() {
	s.ctrl.Reset()
}
