package repository

import (
	"context"

	"project_waRelay/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantRepository stores tenant configs locally. It backs the resolver
// when no external config service is configured, and the dashboard CRUD.
type TenantRepository struct {
	db *pgxpool.Pool
}

func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: db}
}

// Resolve implements interfaces.ConfigSource against the local registry.
func (r *TenantRepository) Resolve(ctx context.Context, phoneNumberID string) (*entities.TenantConfig, error) {
	var t entities.TenantConfig
	err := r.db.QueryRow(ctx, `
		SELECT phone_number_id, whatsapp_token, reply_hi, reply_price, reply_demo, reply_help, reply_default, sheet_webhook
		FROM tenants WHERE phone_number_id = $1
	`, phoneNumberID).Scan(
		&t.PhoneNumberID, &t.WhatsAppToken,
		&t.ReplyHi, &t.ReplyPrice, &t.ReplyDemo, &t.ReplyHelp, &t.ReplyDefault,
		&t.SheetWebhook,
	)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Upsert creates or updates a tenant row for the given owner.
func (r *TenantRepository) Upsert(ctx context.Context, ownerID int, t *entities.TenantConfig) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tenants (phone_number_id, whatsapp_token, reply_hi, reply_price, reply_demo, reply_help, reply_default, sheet_webhook, owner_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (phone_number_id) DO UPDATE SET
			whatsapp_token = EXCLUDED.whatsapp_token,
			reply_hi = EXCLUDED.reply_hi,
			reply_price = EXCLUDED.reply_price,
			reply_demo = EXCLUDED.reply_demo,
			reply_help = EXCLUDED.reply_help,
			reply_default = EXCLUDED.reply_default,
			sheet_webhook = EXCLUDED.sheet_webhook,
			updated_at = NOW()
	`, t.PhoneNumberID, t.WhatsAppToken, t.ReplyHi, t.ReplyPrice, t.ReplyDemo, t.ReplyHelp, t.ReplyDefault, t.SheetWebhook, ownerID)
	return err
}

// ListByOwner returns the tenants registered by one operator.
func (r *TenantRepository) ListByOwner(ctx context.Context, ownerID int) ([]entities.TenantConfig, error) {
	rows, err := r.db.Query(ctx, `
		SELECT phone_number_id, whatsapp_token, reply_hi, reply_price, reply_demo, reply_help, reply_default, sheet_webhook
		FROM tenants WHERE owner_id = $1 ORDER BY phone_number_id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := []entities.TenantConfig{}
	for rows.Next() {
		var t entities.TenantConfig
		if err := rows.Scan(
			&t.PhoneNumberID, &t.WhatsAppToken,
			&t.ReplyHi, &t.ReplyPrice, &t.ReplyDemo, &t.ReplyHelp, &t.ReplyDefault,
			&t.SheetWebhook,
		); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// Delete removes a tenant owned by the operator. Returns pgx.ErrNoRows
// semantics via rowsAffected=0 silently (idempotent delete).
func (r *TenantRepository) Delete(ctx context.Context, ownerID int, phoneNumberID string) error {
	_, err := r.db.Exec(ctx,
		"DELETE FROM tenants WHERE phone_number_id = $1 AND owner_id = $2",
		phoneNumberID, ownerID)
	return err
}

// Count returns the total number of registered tenants (admin stats).
func (r *TenantRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM tenants").Scan(&n)
	return n, err
}
