package vignette_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "AB123CD", vignette.NormalizeIdentifier(" ab123cd "))
	assert.Equal(t, vignette.NormalizeIdentifier("AB123CD"), vignette.NormalizeIdentifier("\tab123Cd\n"))
	assert.Equal(t, "", vignette.NormalizeIdentifier("   "))
}

func TestDetectOperator(t *testing.T) {
	tests := []struct {
		phone string
		want  vignette.Operator
	}{
		{phone: "0812345678", want: vignette.OperatorVodacom},
		{phone: "+243 82 123 4567", want: vignette.OperatorVodacom},
		{phone: "243851234567", want: vignette.OperatorOrange},
		{phone: "0891234567", want: vignette.OperatorOrange},
		{phone: "0971234567", want: vignette.OperatorAirtel},
		{phone: "+243 99 000 0000", want: vignette.OperatorAirtel},
		{phone: "0901234567", want: vignette.OperatorAfricell},
		{phone: "0701234567", want: vignette.OperatorUnknown},
		{phone: "", want: vignette.OperatorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, vignette.DetectOperator(tt.phone))
		})
	}
}

func TestPaymentDetails_Validate(t *testing.T) {
	validCard := vignette.PaymentDetails{
		Method:     vignette.MethodCard,
		CardNumber: "4111 1111 1111 1111",
		CardHolder: "JEAN MUKENDI",
		Expiry:     "09/27",
		CVV:        "123",
	}

	tests := []struct {
		name      string
		details   vignette.PaymentDetails
		wantField string
	}{
		{name: "Cash", details: vignette.PaymentDetails{Method: vignette.MethodCash}},
		{
			name:    "MobileMoney",
			details: vignette.PaymentDetails{Method: vignette.MethodMobileMoney, Phone: "0812345678", ConfirmationCode: "MP240101.1234"},
		},
		{
			name:      "MobileMoneyMissingPhone",
			details:   vignette.PaymentDetails{Method: vignette.MethodMobileMoney, ConfirmationCode: "X"},
			wantField: "phone",
		},
		{
			name:      "MobileMoneyMissingCode",
			details:   vignette.PaymentDetails{Method: vignette.MethodMobileMoney, Phone: "0812345678", ConfirmationCode: "  "},
			wantField: "confirmation_code",
		},
		{name: "Card", details: validCard},
		{
			name: "CardFifteenDigits",
			details: func() vignette.PaymentDetails {
				d := validCard
				d.CardNumber = "4111 1111 1111 111"
				return d
			}(),
			wantField: "card_number",
		},
		{
			name: "CardTwelveDigits",
			details: func() vignette.PaymentDetails {
				d := validCard
				d.CardNumber = "4111 1111 1111"
				return d
			}(),
			wantField: "card_number",
		},
		{
			name: "CardLetters",
			details: func() vignette.PaymentDetails {
				d := validCard
				d.CardNumber = "4111 1111 1111 111A"
				return d
			}(),
			wantField: "card_number",
		},
		{
			name: "CardMissingHolder",
			details: func() vignette.PaymentDetails {
				d := validCard
				d.CardHolder = ""
				return d
			}(),
			wantField: "card_holder",
		},
		{
			name: "CardBadExpiry",
			details: func() vignette.PaymentDetails {
				d := validCard
				d.Expiry = "13/27"
				return d
			}(),
			wantField: "expiry",
		},
		{
			name: "CardBadCVV",
			details: func() vignette.PaymentDetails {
				d := validCard
				d.CVV = "12"
				return d
			}(),
			wantField: "cvv",
		},
		{name: "UnknownMethod", details: vignette.PaymentDetails{Method: "cheque"}, wantField: "method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.details.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *vignette.Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, vignette.KindValidation, verr.Kind)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestMaskCard(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", vignette.MaskCard("4111 1111 1111 1111"))
	assert.Equal(t, "", vignette.MaskCard("12"))
}

func TestNewReference(t *testing.T) {
	ref := vignette.NewReference(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^VGN-2024-\d{6}$`), ref)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, vignette.KindMismatch, vignette.KindOf(&vignette.Error{Kind: vignette.KindMismatch}))
	assert.Equal(t, vignette.KindNotFound, vignette.KindOf(vignette.ErrNotFound))
	assert.Equal(t, vignette.KindBackend, vignette.KindOf(errors.New("boom")))
}
