package wizard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// LookupInput is what the operator types in step 1.
// Reference is only used by the delivery flow.
type LookupInput struct {
	Plate     string
	Reference string
}

// LookupStep resolves a plate (and a payment reference) into Owner and Asset.
type LookupStep struct {
	ctrl    *Controller
	gw      vignette.Gateway
	session *session.Session
}

func NewLookupStep(ctrl *Controller, gw vignette.Gateway, sess *session.Session) *LookupStep {
	return &LookupStep{ctrl: ctrl, gw: gw, session: sess}
}

// Submit validates the input, performs one gateway round-trip and advances on success.
// Every failure is also shown as the controller's modal.
func (s *LookupStep) Submit(ctx context.Context, in LookupInput) error {
	if s.ctrl.State().Step != StepFirst {
		return ErrWrongStep
	}

	flow := s.ctrl.Flow()
	plate := vignette.NormalizeIdentifier(in.Plate)
	reference := vignette.NormalizeIdentifier(in.Reference)

	if err := validateLookup(flow, plate, reference); err != nil {
		s.ctrl.Fail(ModalFor(err))
		return err
	}

	gen, err := s.ctrl.begin()
	if err != nil {
		return err
	}
	defer s.ctrl.finish(gen)

	var res *vignette.Resolution

	switch flow {
	case FlowDelivery:
		res, err = s.gw.LookupTransaction(ctx, plate, reference)
	default:
		res, err = s.gw.LookupAsset(ctx, plate)
	}

	if err != nil {
		slog.Warn("lookup failed", "flow", flow, "plate", plate, "agent", s.session.User.ID, "error", err)
		return s.fail(gen, backendError(err))
	}

	out, err := resolveLookup(flow, plate, reference, res)
	if err != nil {
		return s.fail(gen, err)
	}

	if err := s.ctrl.advanceAt(gen, out); err != nil {
		if errors.Is(err, ErrStale) {
			return err
		}

		return s.fail(gen, err)
	}

	return nil
}

func (s *LookupStep) fail(gen uint64, err error) error {
	if showErr := s.ctrl.showAt(gen, ModalFor(err)); showErr != nil {
		return showErr
	}

	return err
}

func validateLookup(flow Flow, plate, reference string) error {
	if plate == "" {
		return vignette.Validation("plate", "Veuillez saisir un numéro de plaque.")
	}

	if flow == FlowDelivery && reference == "" {
		return vignette.Validation("reference", "Veuillez saisir la référence de la transaction.")
	}

	return nil
}

// backendError keeps categorized gateway errors and wraps anything else.
func backendError(err error) error {
	var e *vignette.Error
	if errors.As(err, &e) {
		return e
	}

	if errors.Is(err, vignette.ErrNotFound) {
		return &vignette.Error{Kind: vignette.KindNotFound, Message: "Aucun enregistrement ne correspond à la recherche.", Cause: err}
	}

	return vignette.Backend("Le serveur est injoignable.", err)
}
