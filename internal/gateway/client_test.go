package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vignettes/internal/fixture"
	"github.com/MrJamesThe3rd/vignettes/internal/gateway"
	apphttp "github.com/MrJamesThe3rd/vignettes/internal/http"
	httpvignette "github.com/MrJamesThe3rd/vignettes/internal/http/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/session"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/wizard"
)

var fixedNow = time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)

func newSandbox(t *testing.T) *gateway.Client {
	t.Helper()

	store := fixture.NewDemo(fixture.WithClock(func() time.Time { return fixedNow }))
	ts := httptest.NewServer(apphttp.New(httpvignette.NewHandler(store), []string{"*"}))
	t.Cleanup(ts.Close)

	return gateway.New(ts.URL+"/api", "", time.Second)
}

func TestClient_LookupAsset(t *testing.T) {
	c := newSandbox(t)

	res, err := c.LookupAsset(context.Background(), "AB123CD")
	require.NoError(t, err)
	require.NotNil(t, res.Asset)
	require.NotNil(t, res.Owner)
	require.NotNil(t, res.Quote)
	assert.Equal(t, "Jean Mukendi", res.Owner.FullName)
	assert.Equal(t, "Gombe", res.Asset.Registration.Site)
	assert.Equal(t, 2023, res.Asset.Registration.Date.Year())
	assert.True(t, res.Quote.Amount.Equal(decimal.NewFromInt(55)))

	unknown, err := c.LookupAsset(context.Background(), "ZZ999ZZ")
	require.NoError(t, err)
	assert.Nil(t, unknown.Asset)
}

func TestClient_LookupTransaction(t *testing.T) {
	c := newSandbox(t)

	res, err := c.LookupTransaction(context.Background(), "CD456EF", "VGN-2024-001235")
	require.NoError(t, err)
	require.NotNil(t, res.Vignette)
	assert.Equal(t, vignette.StatusDelivered, res.Vignette.Status)
	require.NotNil(t, res.Vignette.DeliveredAt)
	assert.Equal(t, 9, res.Vignette.DeliveredAt.Hour())

	res, err = c.LookupTransaction(context.Background(), "AB123CD", "VGN-2024-001234")
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, vignette.MethodMobileMoney, res.Transaction.Method)
	assert.Equal(t, vignette.OperatorVodacom, res.Transaction.Operator)
}

func TestClient_PaymentAndDelivery(t *testing.T) {
	c := newSandbox(t)
	ctx := context.Background()

	rcpt, err := c.RecordPayment(ctx, vignette.PaymentRequest{
		OwnerID:  "own-001",
		AssetID:  "eng-004",
		Amount:   decimal.NewFromInt(15),
		Currency: "USD",
		Method:   vignette.MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, vignette.TxPaid, rcpt.Status)

	delivered, err := c.FinalizeDelivery(ctx, vignette.DeliveryRequest{Reference: rcpt.Reference, AssetID: "eng-004"})
	require.NoError(t, err)
	assert.Equal(t, rcpt.Reference, delivered.Reference)
	assert.True(t, fixedNow.Equal(delivered.DeliveredAt))

	_, err = c.FinalizeDelivery(ctx, vignette.DeliveryRequest{Reference: rcpt.Reference})

	var verr *vignette.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, vignette.KindAlreadyProcessed, verr.Kind)
	assert.Equal(t, "Vignette déjà délivrée.", verr.Message)
}

func TestClient_Envelopes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind vignette.ErrorKind
		wantMsg  string
		wantErr  bool
	}{
		{
			name:   "legacy success flag",
			status: http.StatusOK,
			body:   `{"success": true, "data": {"reference": "VGN-2024-000001", "status": "paid"}}`,
		},
		{
			name:     "legacy failure flag on 200",
			status:   http.StatusOK,
			body:     `{"success": false, "message": "Solde insuffisant"}`,
			wantErr:  true,
			wantKind: vignette.KindBackend,
			wantMsg:  "Solde insuffisant",
		},
		{
			name:     "status error with kind",
			status:   http.StatusConflict,
			body:     `{"status": "error", "kind": "mismatch", "message": "Référence déjà utilisée"}`,
			wantErr:  true,
			wantKind: vignette.KindMismatch,
			wantMsg:  "Référence déjà utilisée",
		},
		{
			name:     "kind from http status",
			status:   http.StatusUnprocessableEntity,
			body:     `{"status": "error"}`,
			wantErr:  true,
			wantKind: vignette.KindValidation,
			wantMsg:  "Le serveur a refusé la demande (HTTP 422).",
		},
		{
			name:     "not an envelope",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			wantErr:  true,
			wantKind: vignette.KindBackend,
			wantMsg:  "Réponse inattendue du serveur (HTTP 502).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.Equal(t, "/api/paiements", r.URL.Path)

				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "eng-001", body["asset_id"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := gateway.New(ts.URL+"/api/", "secret", time.Second)

			rcpt, err := c.RecordPayment(context.Background(), vignette.PaymentRequest{AssetID: "eng-001", Amount: decimal.NewFromInt(55)})
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "VGN-2024-000001", rcpt.Reference)

				return
			}

			var verr *vignette.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantKind, verr.Kind)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	c := gateway.New(ts.URL, "", time.Second)

	_, err := c.LookupAsset(context.Background(), "AB123CD")
	assert.Equal(t, vignette.KindBackend, vignette.KindOf(err))
}

func TestDeliveryWizardOverHTTP(t *testing.T) {
	c := newSandbox(t)
	ctx := context.Background()

	w := wizard.NewDelivery(c, session.Anonymous(), wizard.Options{Now: func() time.Time { return fixedNow }})

	require.NoError(t, w.Lookup.Submit(ctx, wizard.LookupInput{Plate: " ab123cd ", Reference: "vgn-2024-001234"}))
	assert.Equal(t, wizard.StepSecond, w.State().Step)

	require.NoError(t, w.Confirm.Confirm())
	require.NoError(t, w.Final.Confirm(ctx))

	st := w.State()
	require.NotNil(t, st.Modal)
	assert.Equal(t, wizard.ModalSuccess, st.Modal.Kind)
	assert.Contains(t, st.Modal.Message, "AB123CD")

	again := wizard.NewDelivery(c, session.Anonymous(), wizard.Options{})
	err := again.Lookup.Submit(ctx, wizard.LookupInput{Plate: "AB123CD", Reference: "VGN-2024-001234"})
	assert.Equal(t, vignette.KindAlreadyProcessed, vignette.KindOf(err))
	assert.Equal(t, wizard.StepFirst, again.State().Step)
}
