package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UsageRepository struct {
	db *pgxpool.Pool
}

type DailyUsage struct {
	Date             time.Time `json:"date"`
	MessagesSent     int       `json:"messages_sent"`
	MessagesReceived int       `json:"messages_received"`
}

func NewUsageRepository(db *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{db: db}
}

// IncrementSent increments messages_sent for today
func (r *UsageRepository) IncrementSent(phoneNumberID string) error {
	today := time.Now().Format("2006-01-02")
	_, err := r.db.Exec(context.Background(), `
		INSERT INTO message_usage (phone_number_id, date, messages_sent, messages_received)
		VALUES ($1, $2, 1, 0)
		ON CONFLICT (phone_number_id, date)
		DO UPDATE SET messages_sent = message_usage.messages_sent + 1
	`, phoneNumberID, today)
	return err
}

// IncrementReceived increments messages_received for today
func (r *UsageRepository) IncrementReceived(phoneNumberID string) error {
	today := time.Now().Format("2006-01-02")
	_, err := r.db.Exec(context.Background(), `
		INSERT INTO message_usage (phone_number_id, date, messages_sent, messages_received)
		VALUES ($1, $2, 0, 1)
		ON CONFLICT (phone_number_id, date)
		DO UPDATE SET messages_received = message_usage.messages_received + 1
	`, phoneNumberID, today)
	return err
}

// GetTodayUsage returns today's message counts for a tenant
func (r *UsageRepository) GetTodayUsage(phoneNumberID string) (sent, received int, err error) {
	today := time.Now().Format("2006-01-02")
	err = r.db.QueryRow(context.Background(), `
		SELECT COALESCE(messages_sent, 0), COALESCE(messages_received, 0)
		FROM message_usage WHERE phone_number_id = $1 AND date = $2
	`, phoneNumberID, today).Scan(&sent, &received)
	if err != nil {
		return 0, 0, nil // No record means 0 usage
	}
	return sent, received, nil
}

// GetUsageHistory returns last N days of usage for a tenant
func (r *UsageRepository) GetUsageHistory(phoneNumberID string, days int) ([]DailyUsage, error) {
	startDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := r.db.Query(context.Background(), `
		SELECT date, messages_sent, messages_received
		FROM message_usage
		WHERE phone_number_id = $1 AND date >= $2
		ORDER BY date ASC
	`, phoneNumberID, startDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := []DailyUsage{}
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.MessagesSent, &u.MessagesReceived); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
