package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// Store implements vignette.Gateway on Postgres. It backs the sandbox server
// when SANDBOX_STORE=postgres.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

const schema = `
CREATE TABLE IF NOT EXISTS owners (
	id         TEXT PRIMARY KEY,
	full_name  TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	tax_id     TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assets (
	id                 TEXT PRIMARY KEY,
	owner_id           TEXT NOT NULL REFERENCES owners (id),
	plate              TEXT NOT NULL UNIQUE,
	make               TEXT NOT NULL DEFAULT '',
	model              TEXT NOT NULL DEFAULT '',
	category           TEXT NOT NULL DEFAULT '',
	chassis_number     TEXT NOT NULL DEFAULT '',
	engine_number      TEXT NOT NULL DEFAULT '',
	registration_site  TEXT NOT NULL DEFAULT '',
	registration_date  DATE,
	registered_by      TEXT NOT NULL DEFAULT '',
	vignette_status    TEXT NOT NULL DEFAULT 'pending',
	vignette_reference TEXT,
	delivered_at       TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS vignette_transactions (
	reference         TEXT PRIMARY KEY,
	asset_id          TEXT NOT NULL REFERENCES assets (id),
	amount            NUMERIC(12, 2) NOT NULL,
	currency          TEXT NOT NULL,
	method            TEXT NOT NULL,
	operator          TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	confirmation_code TEXT NOT NULL DEFAULT '',
	masked_card       TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL,
	agent_id          TEXT NOT NULL DEFAULT '',
	site              TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS vignette_prices (
	category TEXT PRIMARY KEY,
	amount   NUMERIC(12, 2) NOT NULL,
	currency TEXT NOT NULL
);
`

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectAssetColumns = `
	a.id, a.owner_id, a.plate, a.make, a.model, a.category, a.chassis_number, a.engine_number,
	a.registration_site, a.registration_date, a.registered_by, a.vignette_status, a.vignette_reference, a.delivered_at,
	o.id, o.full_name, o.phone, o.address, o.tax_id, o.email
`

// scanAsset reads an asset joined with its owner, and the vignette derived from the asset's status.
func scanAsset(s scanner) (*vignette.Asset, *vignette.Owner, *vignette.Vignette, error) {
	var (
		a         vignette.Asset
		o         vignette.Owner
		status    string
		regDate   sql.NullTime
		reference sql.NullString
		delivered sql.NullTime
	)

	if err := s.Scan(
		&a.ID, &a.OwnerID, &a.Plate, &a.Make, &a.Model, &a.Category, &a.ChassisNumber, &a.EngineNumber,
		&a.Registration.Site, &regDate, &a.Registration.Agent, &status, &reference, &delivered,
		&o.ID, &o.FullName, &o.Phone, &o.Address, &o.TaxID, &o.Email,
	); err != nil {
		return nil, nil, nil, err
	}

	a.VignetteStatus = vignette.Status(status)
	a.Registration.Date = regDate.Time

	if delivered.Valid {
		a.DeliveredAt = &delivered.Time
	}

	var v *vignette.Vignette
	if reference.Valid || a.VignetteStatus == vignette.StatusDelivered {
		v = &vignette.Vignette{
			Reference:   reference.String,
			Plate:       a.Plate,
			Status:      a.VignetteStatus,
			DeliveredAt: a.DeliveredAt,
		}
	}

	return &a, &o, v, nil
}

const selectTransactionColumns = `
	reference, asset_id, amount, currency, method, operator, phone, confirmation_code, masked_card, status, created_at
`

func scanTransaction(s scanner) (*vignette.Transaction, error) {
	var (
		tx                       vignette.Transaction
		method, operator, status string
	)

	if err := s.Scan(
		&tx.Reference, &tx.AssetID, &tx.Amount, &tx.Currency, &method, &operator,
		&tx.Phone, &tx.ConfirmationCode, &tx.MaskedCard, &status, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Method = vignette.PaymentMethod(method)
	tx.Operator = vignette.Operator(operator)
	tx.Status = vignette.TxStatus(status)

	return &tx, nil
}

func (s *Store) resolvePlate(ctx context.Context, plate string) (*vignette.Resolution, error) {
	query := `SELECT ` + selectAssetColumns + `
		FROM assets a
		JOIN owners o ON o.id = a.owner_id
		WHERE a.plate = $1`

	a, o, v, err := scanAsset(s.db.QueryRowContext(ctx, query, vignette.NormalizeIdentifier(plate)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &vignette.Resolution{}, nil
		}

		return nil, fmt.Errorf("getting asset: %w", err)
	}

	return &vignette.Resolution{Vignette: v, Owner: o, Asset: a}, nil
}

func (s *Store) LookupAsset(ctx context.Context, plate string) (*vignette.Resolution, error) {
	res, err := s.resolvePlate(ctx, plate)
	if err != nil || res.Asset == nil {
		return res, err
	}

	q := vignette.Quote{Category: res.Asset.Category}

	err = s.db.QueryRowContext(ctx,
		`SELECT amount, currency FROM vignette_prices WHERE category = $1`, res.Asset.Category,
	).Scan(&q.Amount, &q.Currency)

	switch {
	case err == nil:
		res.Quote = &q
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("getting price: %w", err)
	}

	return res, nil
}

func (s *Store) LookupTransaction(ctx context.Context, plate, reference string) (*vignette.Resolution, error) {
	res, err := s.resolvePlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + selectTransactionColumns + ` FROM vignette_transactions WHERE reference = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, vignette.NormalizeIdentifier(reference)))

	switch {
	case err == nil:
		res.Transaction = tx
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return res, nil
}

// RecordPayment inserts a paid transaction. Both the delivered check and the
// insert run in one database transaction holding the asset row lock.
func (s *Store) RecordPayment(ctx context.Context, req vignette.PaymentRequest) (*vignette.PaymentReceipt, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var status string

	err = dbTx.QueryRowContext(ctx, `SELECT vignette_status FROM assets WHERE id = $1 FOR UPDATE`, req.AssetID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &vignette.Error{Kind: vignette.KindNotFound, Message: "Engin inconnu."}
		}

		return nil, fmt.Errorf("locking asset: %w", err)
	}

	if vignette.Status(status) == vignette.StatusDelivered {
		return nil, &vignette.Error{Kind: vignette.KindAlreadyProcessed, Message: "Vignette déjà délivrée pour cet engin."}
	}

	ref := vignette.NormalizeIdentifier(req.Reference)
	if ref == "" {
		ref = vignette.NewReference(s.now())
	}

	res, err := dbTx.ExecContext(ctx, `
		INSERT INTO vignette_transactions
			(reference, asset_id, amount, currency, method, operator, phone, confirmation_code, masked_card, status, agent_id, site, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (reference) DO NOTHING`,
		ref, req.AssetID, req.Amount, req.Currency, req.Method, req.Operator, req.Phone,
		req.ConfirmationCode, req.MaskedCard, vignette.TxPaid, req.AgentID, req.Site, s.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &vignette.Error{Kind: vignette.KindMismatch, Message: fmt.Sprintf("La référence %s existe déjà.", ref)}
	}

	if _, err := dbTx.ExecContext(ctx, `UPDATE assets SET vignette_reference = $1 WHERE id = $2`, ref, req.AssetID); err != nil {
		return nil, fmt.Errorf("linking vignette: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &vignette.PaymentReceipt{Reference: ref, Status: vignette.TxPaid}, nil
}

func (s *Store) FinalizeDelivery(ctx context.Context, req vignette.DeliveryRequest) (*vignette.DeliveryReceipt, error) {
	ref := vignette.NormalizeIdentifier(req.Reference)

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var assetID, txStatus, vStatus string

	err = dbTx.QueryRowContext(ctx, `
		SELECT t.asset_id, t.status, a.vignette_status
		FROM vignette_transactions t
		JOIN assets a ON a.id = t.asset_id
		WHERE t.reference = $1
		FOR UPDATE OF a`, ref,
	).Scan(&assetID, &txStatus, &vStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &vignette.Error{Kind: vignette.KindNotFound, Message: fmt.Sprintf("Transaction %s introuvable.", ref)}
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	switch {
	case vignette.TxStatus(txStatus) != vignette.TxPaid:
		return nil, &vignette.Error{Kind: vignette.KindValidation, Message: fmt.Sprintf("La transaction %s n'est pas payée.", ref)}
	case req.AssetID != "" && req.AssetID != assetID:
		return nil, &vignette.Error{Kind: vignette.KindMismatch, Message: fmt.Sprintf("La référence %s ne correspond pas à l'engin.", ref)}
	case vignette.Status(vStatus) == vignette.StatusDelivered:
		return nil, &vignette.Error{Kind: vignette.KindAlreadyProcessed, Message: "Vignette déjà délivrée."}
	}

	at := s.now().UTC()

	if _, err := dbTx.ExecContext(ctx, `
		UPDATE assets
		SET vignette_status = $1, vignette_reference = $2, delivered_at = $3
		WHERE id = $4`,
		vignette.StatusDelivered, ref, at, assetID,
	); err != nil {
		return nil, fmt.Errorf("marking delivered: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &vignette.DeliveryReceipt{Reference: ref, DeliveredAt: at}, nil
}

// Add upserts an owner, its asset and an optional transaction. Missing ids are generated.
func (s *Store) Add(ctx context.Context, owner vignette.Owner, asset vignette.Asset, tx *vignette.Transaction) error {
	if owner.ID == "" {
		owner.ID = uuid.NewString()
	}

	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}

	if asset.VignetteStatus == "" {
		asset.VignetteStatus = vignette.StatusPending
	}

	var regDate *time.Time
	if !asset.Registration.Date.IsZero() {
		regDate = &asset.Registration.Date
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO owners (id, full_name, phone, address, tax_id, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, phone = EXCLUDED.phone,
			address = EXCLUDED.address, tax_id = EXCLUDED.tax_id, email = EXCLUDED.email`,
		owner.ID, owner.FullName, owner.Phone, owner.Address, owner.TaxID, owner.Email,
	); err != nil {
		return fmt.Errorf("upserting owner: %w", err)
	}

	var ref *string
	if tx != nil {
		r := vignette.NormalizeIdentifier(tx.Reference)
		ref = &r
	}

	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO assets (id, owner_id, plate, make, model, category, chassis_number, engine_number,
			registration_site, registration_date, registered_by, vignette_status, vignette_reference, delivered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (plate) DO UPDATE SET owner_id = EXCLUDED.owner_id, make = EXCLUDED.make, model = EXCLUDED.model,
			category = EXCLUDED.category, vignette_status = EXCLUDED.vignette_status,
			vignette_reference = EXCLUDED.vignette_reference, delivered_at = EXCLUDED.delivered_at`,
		asset.ID, owner.ID, vignette.NormalizeIdentifier(asset.Plate), asset.Make, asset.Model, asset.Category,
		asset.ChassisNumber, asset.EngineNumber, asset.Registration.Site, regDate, asset.Registration.Agent,
		asset.VignetteStatus, ref, asset.DeliveredAt,
	); err != nil {
		return fmt.Errorf("upserting asset: %w", err)
	}

	if tx != nil {
		createdAt := tx.CreatedAt
		if createdAt.IsZero() {
			createdAt = s.now()
		}

		if _, err := dbTx.ExecContext(ctx, `
			INSERT INTO vignette_transactions
				(reference, asset_id, amount, currency, method, operator, phone, confirmation_code, masked_card, status, created_at)
			SELECT $1, a.id, $3, $4, $5, $6, $7, $8, $9, $10, $11 FROM assets a WHERE a.plate = $2
			ON CONFLICT (reference) DO NOTHING`,
			*ref, vignette.NormalizeIdentifier(asset.Plate), tx.Amount, tx.Currency, tx.Method, tx.Operator,
			tx.Phone, tx.ConfirmationCode, tx.MaskedCard, tx.Status, createdAt,
		); err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// SetPrice upserts the tariff for an asset category.
func (s *Store) SetPrice(ctx context.Context, category string, amount decimal.Decimal, currency string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vignette_prices (category, amount, currency)
		VALUES ($1, $2, $3)
		ON CONFLICT (category) DO UPDATE SET amount = EXCLUDED.amount, currency = EXCLUDED.currency`,
		category, amount, currency,
	)
	if err != nil {
		return fmt.Errorf("setting price: %w", err)
	}

	return nil
}
