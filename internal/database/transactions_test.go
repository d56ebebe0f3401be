package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestInsertTransaction_RoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	alice := insertTestUser(t, service, "alice@example.com")
	bob := insertTestUser(t, service, "bob@example.com")

	tx := &models.Transaction{
		Id:          uuid.New().String(),
		IssuerId:    alice.Id,
		PayeeId:     bob.Id,
		Date:        time.Now().UTC(),
		Amount:      decimal.RequireFromString("100.00"),
		Fee:         decimal.RequireFromString("0.50"),
		Description: "Lunch",
	}
	if err := service.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("InsertTransaction failed: %v", err)
	}

	got, err := service.GetTransactionById(ctx, tx.Id)
	if err != nil {
		t.Fatalf("GetTransactionById failed: %v", err)
	}
	if !got.Amount.Equal(tx.Amount) {
		t.Errorf("Expected amount %s, got %s", tx.Amount.String(), got.Amount.String())
	}
	if !got.Fee.Equal(tx.Fee) {
		t.Errorf("Expected fee %s, got %s", tx.Fee.String(), got.Fee.String())
	}
	if got.Description != "Lunch" {
		t.Errorf("Expected description Lunch, got %s", got.Description)
	}

	if _, err := service.GetTransactionById(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTransactionQueries_ByParticipant(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	alice := insertTestUser(t, service, "alice@example.com")
	bob := insertTestUser(t, service, "bob@example.com")
	carol := insertTestUser(t, service, "carol@example.com")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	insert := func(issuer, payee string, offset time.Duration) string {
		tx := &models.Transaction{Id: uuid.New().String(), IssuerId: issuer, PayeeId: payee,
			Date: base.Add(offset), Amount: decimal.NewFromInt(1), Fee: decimal.Zero}
		if err := service.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("InsertTransaction failed: %v", err)
		}
		return tx.Id
	}

	first := insert(alice.Id, bob.Id, 0)
	second := insert(bob.Id, alice.Id, time.Minute)
	insert(bob.Id, carol.Id, 2*time.Minute)

	forAlice, err := service.GetTransactionsByUser(ctx, alice.Id)
	if err != nil {
		t.Fatalf("GetTransactionsByUser failed: %v", err)
	}
	if len(forAlice) != 2 {
		t.Fatalf("Expected 2 transactions for alice, got %d", len(forAlice))
	}
	if forAlice[0].Id != second || forAlice[1].Id != first {
		t.Errorf("Expected newest first, got %s then %s", forAlice[0].Id, forAlice[1].Id)
	}

	issued, err := service.GetTransactionsByIssuer(ctx, bob.Id)
	if err != nil {
		t.Fatalf("GetTransactionsByIssuer failed: %v", err)
	}
	if len(issued) != 2 {
		t.Errorf("Expected 2 issued by bob, got %d", len(issued))
	}

	received, err := service.GetTransactionsByPayee(ctx, carol.Id)
	if err != nil {
		t.Fatalf("GetTransactionsByPayee failed: %v", err)
	}
	if len(received) != 1 {
		t.Errorf("Expected 1 received by carol, got %d", len(received))
	}

	all, err := service.GetTransactions(ctx)
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 transactions, got %d", len(all))
	}
}
