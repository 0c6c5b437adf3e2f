package sqlite

import (
	"context"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
)

type devicesRepo struct {
	db dbtx
}

func (r *devicesRepo) CreateDevice(ctx context.Context, d domain.Device) error {
	now := time.Now().UTC()
	if d.LastActive.IsZero() {
		d.LastActive = now
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (id, user_id, user_agent, ip, last_active, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.UserAgent, d.IP, d.LastActive, d.IsActive, d.CreatedAt,
	)
	return classifyErr(err)
}

func (r *devicesRepo) GetDeviceByID(ctx context.Context, id string) (domain.Device, error) {
	var d domain.Device
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_agent, ip, last_active, is_active, created_at
		FROM devices WHERE id = ?`, id).
		Scan(&d.ID, &d.UserID, &d.UserAgent, &d.IP, &d.LastActive, &d.IsActive, &d.CreatedAt)
	if err != nil {
		return domain.Device{}, classifyErr(err)
	}
	return d, nil
}

func (r *devicesRepo) TouchDevice(ctx context.Context, deviceID, userAgent, ip string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE devices SET user_agent = ?, ip = ?, last_active = ? WHERE id = ?`,
		userAgent, ip, time.Now().UTC(), deviceID,
	)
	return checkAffected(res, err)
}

func (r *devicesRepo) DeactivateDevice(ctx context.Context, deviceID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE devices SET is_active = 0, last_active = ? WHERE id = ?`,
		time.Now().UTC(), deviceID,
	)
	return checkAffected(res, err)
}
