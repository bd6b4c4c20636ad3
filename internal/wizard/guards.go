package wizard

import (
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

const dateLayout = "02/01/2006"

// resolveLookup turns a gateway answer into the lookup step's output.
// Checks run in a fixed order: an already-delivered vignette wins over every other
// finding, then a missing asset, then (delivery only) a missing or foreign transaction.
func resolveLookup(flow Flow, plate, reference string, res *vignette.Resolution) (Output, error) {
	if res == nil {
		res = &vignette.Resolution{}
	}

	if v := res.Vignette; v != nil && v.Status == vignette.StatusDelivered {
		return Output{}, alreadyDelivered(plate, v.DeliveredAt)
	}

	if res.Asset.Delivered() {
		return Output{}, alreadyDelivered(plate, res.Asset.DeliveredAt)
	}

	if res.Asset == nil {
		return Output{}, &vignette.Error{
			Kind:    vignette.KindNotFound,
			Field:   "plate",
			Message: fmt.Sprintf("Aucun engin trouvé pour la plaque %s.", plate),
		}
	}

	if res.Owner == nil {
		return Output{}, &vignette.Error{
			Kind:    vignette.KindNotFound,
			Field:   "plate",
			Message: fmt.Sprintf("Aucun assujetti n'est rattaché à la plaque %s.", plate),
		}
	}

	out := Output{Owner: res.Owner, Asset: res.Asset}

	switch flow {
	case FlowDelivery:
		if res.Transaction == nil {
			return Output{}, &vignette.Error{
				Kind:    vignette.KindNotFound,
				Field:   "reference",
				Message: fmt.Sprintf("Aucune transaction trouvée pour la référence %s.", reference),
			}
		}

		if err := checkLinked(res.Transaction, res.Asset); err != nil {
			return Output{}, err
		}

		out.Transaction = res.Transaction
	case FlowSale:
		out.Quote = res.Quote
	}

	return out, nil
}

func alreadyDelivered(plate string, at *time.Time) error {
	msg := fmt.Sprintf("La vignette de la plaque %s a déjà été délivrée.", plate)
	if at != nil {
		msg = fmt.Sprintf("La vignette de la plaque %s a déjà été délivrée le %s.", plate, at.Format(dateLayout))
	}

	return &vignette.Error{Kind: vignette.KindAlreadyProcessed, Field: "plate", Message: msg}
}

func checkLinked(tx *vignette.Transaction, asset *vignette.Asset) error {
	if tx.AssetID == asset.ID {
		return nil
	}

	return &vignette.Error{
		Kind:    vignette.KindMismatch,
		Field:   "reference",
		Message: fmt.Sprintf("La référence %s ne correspond pas à la plaque %s.", tx.Reference, asset.Plate),
	}
}

func missing(what string) error {
	return vignette.Validation(what, fmt.Sprintf("Donnée manquante : %s.", what))
}

// lookupGuard is the exit guard of step 1 in both flows.
func lookupGuard(flow Flow) Guard {
	return func(_ State, out Output) error {
		if out.Owner == nil {
			return missing("assujetti")
		}

		if out.Asset == nil {
			return missing("engin")
		}

		if out.Asset.Delivered() {
			return alreadyDelivered(out.Asset.Plate, out.Asset.DeliveredAt)
		}

		if flow != FlowDelivery {
			return nil
		}

		if out.Transaction == nil {
			return missing("transaction")
		}

		return checkLinked(out.Transaction, out.Asset)
	}
}

// confirmGuard is the exit guard of the delivery flow's confirmation step.
func confirmGuard(s State, _ Output) error {
	if s.Owner == nil || s.Asset == nil || s.Transaction == nil {
		return missing("transaction")
	}

	if err := checkLinked(s.Transaction, s.Asset); err != nil {
		return err
	}

	if s.Transaction.Status != vignette.TxPaid {
		return &vignette.Error{
			Kind:    vignette.KindValidation,
			Field:   "reference",
			Message: fmt.Sprintf("La transaction %s n'est pas payée (statut : %s).", s.Transaction.Reference, s.Transaction.Status),
		}
	}

	return nil
}

// paymentGuard is the exit guard of the sale flow's payment step.
func paymentGuard(s State, out Output) error {
	if s.Asset == nil || s.Owner == nil {
		return missing("engin")
	}

	if s.Quote == nil {
		return priceUnavailable()
	}

	if out.Transaction == nil {
		return missing("transaction")
	}

	if !out.Transaction.Amount.Equal(s.Quote.Amount) {
		return &vignette.Error{
			Kind:    vignette.KindMismatch,
			Field:   "amount",
			Message: fmt.Sprintf("Montant %s différent du prix %s.", out.Transaction.Amount, s.Quote.Amount),
		}
	}

	return checkLinked(out.Transaction, s.Asset)
}

func priceUnavailable() error {
	return &vignette.Error{
		Kind:    vignette.KindPriceUnavailable,
		Message: "Prix indisponible pour cet engin, veuillez réessayer.",
	}
}

func guardsFor(flow Flow) []Guard {
	switch flow {
	case FlowDelivery:
		return []Guard{lookupGuard(flow), confirmGuard}
	case FlowSale:
		return []Guard{lookupGuard(flow), paymentGuard}
	}

	return nil
}
