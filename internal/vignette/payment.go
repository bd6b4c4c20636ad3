package vignette

import (
	"regexp"
	"strings"
)

// Operator is a mobile money network.
type Operator string

const (
	OperatorUnknown  Operator = ""
	OperatorVodacom  Operator = "vodacom"
	OperatorOrange   Operator = "orange"
	OperatorAirtel   Operator = "airtel"
	OperatorAfricell Operator = "africell"
)

// operatorPrefixes maps the two digits following the country/trunk prefix to a network.
var operatorPrefixes = map[string]Operator{
	"81": OperatorVodacom,
	"82": OperatorVodacom,
	"83": OperatorVodacom,
	"84": OperatorOrange,
	"85": OperatorOrange,
	"89": OperatorOrange,
	"90": OperatorAfricell,
	"91": OperatorAfricell,
	"97": OperatorAirtel,
	"98": OperatorAirtel,
	"99": OperatorAirtel,
}

// DetectOperator infers the mobile network from a phone number.
// Accepts local (0812345678), international (+243812345678) and spaced forms.
func DetectOperator(phone string) Operator {
	digits := onlyDigits(phone)

	switch {
	case strings.HasPrefix(digits, "243"):
		digits = digits[3:]
	case strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}

	if len(digits) < 2 {
		return OperatorUnknown
	}

	return operatorPrefixes[digits[:2]]
}

// PaymentDetails holds the method-specific fields typed at the counter.
type PaymentDetails struct {
	Method           PaymentMethod
	Phone            string
	ConfirmationCode string
	CardNumber       string
	CardHolder       string
	Expiry           string
	CVV              string
}

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3}$`)
)

// Validate checks the fields required by the selected method.
func (d PaymentDetails) Validate() error {
	switch d.Method {
	case MethodCash:
		return nil
	case MethodMobileMoney:
		if strings.TrimSpace(d.Phone) == "" {
			return Validation("phone", "Le numéro de téléphone est requis pour un paiement mobile money.")
		}

		if strings.TrimSpace(d.ConfirmationCode) == "" {
			return Validation("confirmation_code", "Le code de confirmation de la transaction est requis.")
		}

		return nil
	case MethodCard:
		if n := onlyDigits(d.CardNumber); len(n) != 16 || len(n) != len(stripSeparators(d.CardNumber)) {
			return Validation("card_number", "Numéro de carte invalide : 16 chiffres attendus.")
		}

		if strings.TrimSpace(d.CardHolder) == "" {
			return Validation("card_holder", "Le nom du titulaire de la carte est requis.")
		}

		if !expiryPattern.MatchString(strings.TrimSpace(d.Expiry)) {
			return Validation("expiry", "Date d'expiration invalide (format MM/AA).")
		}

		if !cvvPattern.MatchString(strings.TrimSpace(d.CVV)) {
			return Validation("cvv", "CVV invalide : 3 chiffres attendus.")
		}

		return nil
	}

	return Validation("method", "Mode de paiement inconnu.")
}

// MaskCard keeps only the last four digits of a card number.
func MaskCard(number string) string {
	digits := onlyDigits(number)
	if len(digits) < 4 {
		return ""
	}

	return "**** **** **** " + digits[len(digits)-4:]
}

func onlyDigits(s string) string {
	var sb strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func stripSeparators(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}
