package wizard

import (
	"errors"
	"strings"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// ModalKind selects the severity and styling of a dialog.
type ModalKind int

const (
	ModalError ModalKind = iota
	ModalWarning
	ModalSuccess
	ModalInfo
)

func (k ModalKind) String() string {
	switch k {
	case ModalError:
		return "error"
	case ModalWarning:
		return "warning"
	case ModalSuccess:
		return "success"
	case ModalInfo:
		return "info"
	}

	return "unknown"
}

// Modal is the pending dialog shown to the operator.
// OnConfirm, when set, is the confirm-and-continue action; otherwise the only action is dismiss.
type Modal struct {
	Kind         ModalKind
	Title        string
	Message      string
	ConfirmLabel string
	OnConfirm    func()
}

const retryHint = "Veuillez réessayer."

// ModalFor maps a step failure to the dialog the operator sees.
func ModalFor(err error) Modal {
	var e *vignette.Error
	if !errors.As(err, &e) {
		if errors.Is(err, vignette.ErrNotFound) {
			return Modal{Kind: ModalError, Title: "Introuvable", Message: "Aucun enregistrement ne correspond à la recherche."}
		}

		return Modal{Kind: ModalError, Title: "Erreur", Message: "Une erreur est survenue. " + retryHint}
	}

	switch e.Kind {
	case vignette.KindValidation:
		return Modal{Kind: ModalError, Title: "Saisie invalide", Message: e.Message}
	case vignette.KindNotFound:
		return Modal{Kind: ModalError, Title: "Introuvable", Message: e.Message}
	case vignette.KindMismatch:
		return Modal{Kind: ModalError, Title: "Incohérence", Message: e.Message}
	case vignette.KindAlreadyProcessed:
		return Modal{Kind: ModalWarning, Title: "Déjà traité", Message: e.Message}
	case vignette.KindPriceUnavailable:
		return Modal{Kind: ModalError, Title: "Prix indisponible", Message: e.Message}
	}

	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "Le serveur n'a pas pu traiter la demande."
	}

	return Modal{Kind: ModalError, Title: "Erreur serveur", Message: msg + " " + retryHint}
}
