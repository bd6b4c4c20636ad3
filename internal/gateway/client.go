// Package gateway is the HTTP implementation of vignette.Gateway against the
// fiscal backend's JSON API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// DefaultBaseURL is used when no API_URL is configured.
const DefaultBaseURL = "http://localhost:8000/api"

const maxBody = 1 << 20

// Client talks to the backend. It never retries.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a client. An empty baseURL falls back to DefaultBaseURL and a
// zero timeout to 30s.
func New(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) LookupAsset(ctx context.Context, plate string) (*vignette.Resolution, error) {
	return c.lookup(ctx, "/engins/"+url.PathEscape(plate))
}

func (c *Client) LookupTransaction(ctx context.Context, plate, reference string) (*vignette.Resolution, error) {
	q := url.Values{}
	q.Set("plaque", plate)
	q.Set("reference", reference)

	return c.lookup(ctx, "/vignettes/lookup?"+q.Encode())
}

// lookup treats a 404 as an empty resolution so the caller reports which
// identifier is unknown.
func (c *Client) lookup(ctx context.Context, path string) (*vignette.Resolution, error) {
	var data ResolutionPayload

	err := c.do(ctx, http.MethodGet, path, nil, &data)
	if vignette.KindOf(err) == vignette.KindNotFound {
		return &vignette.Resolution{}, nil
	}

	if err != nil {
		return nil, err
	}

	return data.Decode(), nil
}

func (c *Client) RecordPayment(ctx context.Context, req vignette.PaymentRequest) (*vignette.PaymentReceipt, error) {
	var data PaymentReceiptPayload
	if err := c.do(ctx, http.MethodPost, "/paiements", EncodePayment(req), &data); err != nil {
		return nil, err
	}

	return &vignette.PaymentReceipt{Reference: data.Reference, Status: vignette.TxStatus(data.Status)}, nil
}

func (c *Client) FinalizeDelivery(ctx context.Context, req vignette.DeliveryRequest) (*vignette.DeliveryReceipt, error) {
	body := DeliveryPayload{Reference: req.Reference, AssetID: req.AssetID, AgentID: req.AgentID, Site: req.Site}

	var data DeliveryReceiptPayload
	if err := c.do(ctx, http.MethodPost, "/vignettes/livraison", body, &data); err != nil {
		return nil, err
	}

	return &vignette.DeliveryReceipt{Reference: data.Reference, DeliveredAt: data.DeliveredAt}, nil
}

// do sends one request and decodes the envelope's data into out.
// Failures are returned as *vignette.Error carrying the backend's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}

		slog.Error("gateway request failed", "method", method, "path", path, "error", err)

		return vignette.Backend("Le serveur est injoignable.", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return vignette.Backend("Réponse du serveur illisible.", err)
	}

	var env Envelope

	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("gateway response is not an envelope", "method", method, "path", path, "status", resp.StatusCode)

		if resp.StatusCode == http.StatusNotFound {
			return &vignette.Error{Kind: vignette.KindNotFound, Message: "Ressource introuvable."}
		}

		return vignette.Backend(fmt.Sprintf("Réponse inattendue du serveur (HTTP %d).", resp.StatusCode), err)
	}

	if resp.StatusCode >= 300 || !env.OK() {
		return envelopeError(resp.StatusCode, env)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return vignette.Backend("Réponse du serveur illisible.", fmt.Errorf("decoding data: %w", err))
	}

	return nil
}

func envelopeError(status int, env Envelope) error {
	kind, ok := ParseKind(env.Kind)
	if !ok {
		kind = kindForStatus(status)
	}

	msg := env.Message
	if msg == "" {
		msg = fmt.Sprintf("Le serveur a refusé la demande (HTTP %d).", status)
	}

	return &vignette.Error{Kind: kind, Message: msg}
}

func kindForStatus(status int) vignette.ErrorKind {
	switch status {
	case http.StatusNotFound:
		return vignette.KindNotFound
	case http.StatusConflict:
		return vignette.KindMismatch
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return vignette.KindValidation
	}

	return vignette.KindBackend
}
