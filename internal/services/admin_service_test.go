package services

import (
	"context"
	"errors"
	"testing"
)

func TestSetFeesOperatorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	operator := env.createOperator(t, "operator")
	user := env.createUser(t, "someone")

	_, err := env.admin.SetFees(ctx, user, 300, 600)
	if !errors.Is(err, ErrNotOperator) {
		t.Errorf("expected ErrNotOperator, got %v", err)
	}

	cfg, err := env.admin.SetFees(ctx, operator, 300, 600)
	if err != nil {
		t.Fatalf("SetFees failed: %v", err)
	}
	if cfg.StandardFeeBps != 300 || cfg.PlatformFeeBps != 600 {
		t.Errorf("unexpected fees: standard=%d platform=%d", cfg.StandardFeeBps, cfg.PlatformFeeBps)
	}

	// Fees are capped at 20%
	_, err = env.admin.SetFees(ctx, operator, 2_500, 600)
	if err == nil {
		t.Errorf("expected error for fee above cap")
	}
}

func TestSetFeeRecipient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	operator := env.createOperator(t, "operator")

	cfg, err := env.admin.SetFeeRecipient(ctx, operator, "new-fee-wallet")
	if err != nil {
		t.Fatalf("SetFeeRecipient failed: %v", err)
	}
	if cfg.FeeRecipient != "new-fee-wallet" {
		t.Errorf("expected new-fee-wallet, got %s", cfg.FeeRecipient)
	}

	_, err = env.admin.SetFeeRecipient(ctx, operator, "")
	if err == nil {
		t.Errorf("expected error for empty recipient")
	}
}

func TestRegistrarGatesFeeTierWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	operator := env.createOperator(t, "operator")
	registrar := env.createUser(t, "launchpad")
	stranger := env.createUser(t, "stranger")

	// A plain wallet cannot write fee-tier rows
	err := env.admin.SetCollectionFeeTier(ctx, stranger, "col", true)
	if !errors.Is(err, ErrNotRegistrar) {
		t.Errorf("expected ErrNotRegistrar, got %v", err)
	}

	// Only the operator can grant registrar rights
	if err := env.admin.AddRegistrar(ctx, stranger, "launchpad"); !errors.Is(err, ErrNotOperator) {
		t.Errorf("expected ErrNotOperator, got %v", err)
	}
	if err := env.admin.AddRegistrar(ctx, operator, "launchpad"); err != nil {
		t.Fatalf("AddRegistrar failed: %v", err)
	}

	if err := env.admin.SetCollectionFeeTier(ctx, registrar, "col", true); err != nil {
		t.Fatalf("SetCollectionFeeTier failed: %v", err)
	}
	flagged, err := env.repo.IsPlatformOriginated(ctx, "col")
	if err != nil {
		t.Fatalf("IsPlatformOriginated failed: %v", err)
	}
	if !flagged {
		t.Errorf("expected collection flagged platform-originated")
	}

	// The flag is mutable: unflagging moves the collection back to the
	// standard tier
	if err := env.admin.SetCollectionFeeTier(ctx, operator, "col", false); err != nil {
		t.Fatalf("SetCollectionFeeTier failed: %v", err)
	}
	flagged, _ = env.repo.IsPlatformOriginated(ctx, "col")
	if flagged {
		t.Errorf("expected collection back on standard tier")
	}

	// Revocation closes the door
	if err := env.admin.RemoveRegistrar(ctx, operator, "launchpad"); err != nil {
		t.Fatalf("RemoveRegistrar failed: %v", err)
	}
	err = env.admin.SetCollectionFeeTier(ctx, registrar, "col-2", true)
	if !errors.Is(err, ErrNotRegistrar) {
		t.Errorf("expected ErrNotRegistrar after revocation, got %v", err)
	}
}
