package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
	"github.com/shopvn/authcore/internal/authcore/store"
	"github.com/shopvn/authcore/pkg/cryptox"
	"github.com/shopvn/authcore/pkg/idx"
)

// CodeDigits is the length of every emailed verification code.
const CodeDigits = 6

// VerificationCodeManager issues, validates and retires short-lived one-time
// codes. Expiry is checked lazily at validation time; nothing sweeps codes
// proactively on the request path.
type VerificationCodeManager struct {
	Store store.Store
	TTL   time.Duration // code lifetime from issue to expiry
}

// NewCode generates a 6-digit uniform random code, leading zeros preserved.
func (m *VerificationCodeManager) NewCode() (string, error) {
	return cryptox.GenerateNumericCode(CodeDigits)
}

// Issue persists code for (email, purpose) with a fresh expiry, overwriting
// any outstanding code for that pair. At most one valid code per
// (email, purpose) exists at a time.
func (m *VerificationCodeManager) Issue(ctx context.Context, email, code string, purpose domain.CodePurpose) (domain.VerificationCode, error) {
	now := time.Now().UTC()
	vc := domain.VerificationCode{
		ID:        idx.New().String(),
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(m.TTL),
		CreatedAt: now,
	}

	if err := m.Store.VerificationCodes().UpsertVerificationCode(ctx, vc); err != nil {
		return domain.VerificationCode{}, err
	}
	return vc, nil
}

// Validate checks that a code exists under its (email, code, purpose)
// uniqueness key and has not expired. A lookup miss yields ErrInvalidCode,
// a stale row ErrExpiredCode; both report the offending field as "code".
func (m *VerificationCodeManager) Validate(ctx context.Context, email, code string, purpose domain.CodePurpose) (domain.VerificationCode, error) {
	vc, err := m.Store.VerificationCodes().GetVerificationCode(ctx, email, code, purpose)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.VerificationCode{}, ErrInvalidCode
		}
		return domain.VerificationCode{}, err
	}

	if vc.Expired(time.Now().UTC()) {
		return domain.VerificationCode{}, ErrExpiredCode
	}
	return vc, nil
}

// Redeem validates and consumes a code as one transaction. Of two flows
// presenting the same code, exactly one gets the nil error; the loser sees
// ErrInvalidCode as if the code never existed.
func (m *VerificationCodeManager) Redeem(ctx context.Context, email, code string, purpose domain.CodePurpose) (domain.VerificationCode, error) {
	var vc domain.VerificationCode
	err := m.Store.WithTx(ctx, func(tx store.Tx) error {
		got, err := tx.VerificationCodes().GetVerificationCode(ctx, email, code, purpose)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidCode
			}
			return err
		}
		if got.Expired(time.Now().UTC()) {
			return ErrExpiredCode
		}
		if err := tx.VerificationCodes().DeleteVerificationCode(ctx, email, code, purpose); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidCode
			}
			return err
		}
		vc = got
		return nil
	})
	if err != nil {
		return domain.VerificationCode{}, err
	}
	return vc, nil
}

// Consume deletes a code after successful use, enforcing single-use.
func (m *VerificationCodeManager) Consume(ctx context.Context, email, code string, purpose domain.CodePurpose) error {
	err := m.Store.VerificationCodes().DeleteVerificationCode(ctx, email, code, purpose)
	if errors.Is(err, store.ErrNotFound) {
		// Already consumed by a concurrent request; single-use still holds.
		return nil
	}
	return err
}
