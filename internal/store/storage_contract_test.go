package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quest-ledger/models"
)

// runStorageContract exercises behaviour every Storage driver must share.
// newStorage must return an empty storage.
func runStorageContract(t *testing.T, newStorage func(t *testing.T) Storage) {
	t.Run("users", func(t *testing.T) { testUsersContract(t, newStorage(t)) })
	t.Run("user version guard", func(t *testing.T) { testUserVersionContract(t, newStorage(t)) })
	t.Run("payments", func(t *testing.T) { testPaymentsContract(t, newStorage(t)) })
	t.Run("payment status guard", func(t *testing.T) { testPaymentStatusContract(t, newStorage(t)) })
	t.Run("empty patches", func(t *testing.T) { testEmptyPatchContract(t, newStorage(t)) })
	t.Run("progress", func(t *testing.T) { testProgressContract(t, newStorage(t)) })
	t.Run("concurrent progress", func(t *testing.T) { testConcurrentProgressContract(t, newStorage(t)) })
	t.Run("reset requests", func(t *testing.T) { testResetRequestsContract(t, newStorage(t)) })
}

func contractUser(n int, createdAt time.Time) models.User {
	return models.User{
		ID:           fmt.Sprintf("user-%d", n),
		Name:         fmt.Sprintf("User %d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		Phone:        fmt.Sprintf("99890000000%d", n),
		PasswordHash: "hash",
		FreeTrials:   5,
		CreatedAt:    createdAt,
	}
}

func testUsersContract(t *testing.T, s Storage) {
	ctx := context.Background()
	first := contractUser(1, testTime)
	second := contractUser(2, testTime.Add(time.Hour))

	require.NoError(t, s.CreateUser(ctx, first))
	require.NoError(t, s.CreateUser(ctx, second))

	got, err := s.GetUserByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Email, got.Email)
	assert.Equal(t, int64(5), got.FreeTrials)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	got, err = s.GetUserByEmail(ctx, second.Email)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	exists, err := s.PhoneExists(ctx, first.Phone)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.PhoneExists(ctx, "000")
	require.NoError(t, err)
	assert.False(t, exists)

	dupEmail := contractUser(3, testTime)
	dupEmail.Email = first.Email
	err = s.CreateUser(ctx, dupEmail)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, ErrConflict)

	dupPhone := contractUser(4, testTime)
	dupPhone.Phone = second.Phone
	assert.ErrorIs(t, s.CreateUser(ctx, dupPhone), ErrPhoneAlreadyExists)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID, "newest first")
	assert.Equal(t, first.ID, users[1].ID)
}

func testUserVersionContract(t *testing.T, s Storage) {
	ctx := context.Background()
	u := contractUser(1, testTime)
	require.NoError(t, s.CreateUser(ctx, u))

	stored, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)

	trials := stored.FreeTrials - 1
	updated, err := s.UpdateUser(ctx, u.ID, models.UserPatch{
		FreeTrials:      &trials,
		ExpectedVersion: &stored.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.FreeTrials)
	assert.Equal(t, stored.Version+1, updated.Version)

	// stale version
	_, err = s.UpdateUser(ctx, u.ID, models.UserPatch{
		FreeTrials:      &trials,
		ExpectedVersion: &stored.Version,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, err = s.UpdateUser(ctx, "missing", models.UserPatch{FreeTrials: &trials})
	assert.ErrorIs(t, err, ErrUserNotFound)

	negative := int64(-1)
	_, err = s.UpdateUser(ctx, u.ID, models.UserPatch{Points: &negative})
	assert.ErrorIs(t, err, ErrNegativeBalance)

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.FreeTrials)
	assert.Equal(t, int64(0), got.Points)
}

func contractPayment(id, userID string, createdAt time.Time) models.Payment {
	return models.Payment{
		ID:             id,
		UserID:         userID,
		UserName:       "User",
		UserEmail:      "user@example.com",
		PackageType:    models.PackageSingle,
		PackageName:    "Single Language (300 pts)",
		Points:         300,
		Amount:         15000,
		Method:         "transfer",
		ProofReference: "proofs/" + id,
		Status:         models.PaymentPending,
		CreatedAt:      createdAt,
	}
}

func testPaymentsContract(t *testing.T, s Storage) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, contractUser(1, testTime)))
	require.NoError(t, s.CreateUser(ctx, contractUser(2, testTime)))

	older := contractPayment("pay-1", "user-1", testTime)
	newer := contractPayment("pay-2", "user-1", testTime.Add(time.Minute))
	other := contractPayment("pay-3", "user-2", testTime.Add(2*time.Minute))
	for _, p := range []models.Payment{older, newer, other} {
		require.NoError(t, s.CreatePayment(ctx, p))
	}

	got, err := s.GetPaymentByID(ctx, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, got.Status)
	assert.Equal(t, int64(300), got.Points)
	assert.Nil(t, got.ApprovedAt)

	_, err = s.GetPaymentByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"pay-3", "pay-2", "pay-1"}, paymentIDs(all))

	mine, err := s.ListPaymentsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pay-2", "pay-1"}, paymentIDs(mine))

	none, err := s.ListPaymentsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testPaymentStatusContract(t *testing.T, s Storage) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, contractUser(1, testTime)))
	require.NoError(t, s.CreatePayment(ctx, contractPayment("pay-1", "user-1", testTime)))

	pending := models.PaymentPending
	approved := models.PaymentApproved
	rejected := models.PaymentRejected
	approvedAt := testTime.Add(time.Hour)

	updated, err := s.UpdatePayment(ctx, "pay-1", models.PaymentPatch{
		Status:         &approved,
		ApprovedAt:     &approvedAt,
		ExpectedStatus: &pending,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, updated.Status)
	require.NotNil(t, updated.ApprovedAt)
	assert.True(t, approvedAt.Equal(*updated.ApprovedAt))

	reason := "late"
	_, err = s.UpdatePayment(ctx, "pay-1", models.PaymentPatch{
		Status:         &rejected,
		RejectReason:   &reason,
		ExpectedStatus: &pending,
	})
	assert.ErrorIs(t, err, ErrPaymentStateConflict)

	creditedAt := approvedAt.Add(time.Second)
	updated, err = s.UpdatePayment(ctx, "pay-1", models.PaymentPatch{CreditedAt: &creditedAt})
	require.NoError(t, err)
	require.NotNil(t, updated.CreditedAt)
	assert.Equal(t, models.PaymentApproved, updated.Status)
	assert.Nil(t, updated.RejectReason)

	_, err = s.UpdatePayment(ctx, "missing", models.PaymentPatch{Status: &approved, ExpectedStatus: &pending})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

// testEmptyPatchContract pins that a patch without changes still honours
// its guard and, for users, still bumps the version.
func testEmptyPatchContract(t *testing.T, s Storage) {
	ctx := context.Background()
	u := contractUser(1, testTime)
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.CreatePayment(ctx, contractPayment("pay-1", "user-1", testTime)))

	stored, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)

	updated, err := s.UpdateUser(ctx, u.ID, models.UserPatch{ExpectedVersion: &stored.Version})
	require.NoError(t, err)
	assert.Equal(t, stored.Version+1, updated.Version)
	assert.Equal(t, stored.FreeTrials, updated.FreeTrials)
	assert.Equal(t, stored.Points, updated.Points)

	_, err = s.UpdateUser(ctx, u.ID, models.UserPatch{ExpectedVersion: &stored.Version})
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, err = s.UpdateUser(ctx, "missing", models.UserPatch{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	pending := models.PaymentPending
	approved := models.PaymentApproved

	payment, err := s.UpdatePayment(ctx, "pay-1", models.PaymentPatch{ExpectedStatus: &pending})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)

	_, err = s.UpdatePayment(ctx, "pay-1", models.PaymentPatch{ExpectedStatus: &approved})
	assert.ErrorIs(t, err, ErrPaymentStateConflict)

	_, err = s.UpdatePayment(ctx, "missing", models.PaymentPatch{})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func testProgressContract(t *testing.T, s Storage) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, contractUser(1, testTime)))

	entry := models.ProgressEntry{UserID: "user-1", LanguageID: "go", DifficultyID: "easy", Level: 3, Score: 100}

	got, err := s.UpsertProgress(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	entry.Level, entry.Score = 2, 50
	got, err = s.UpsertProgress(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Level, "level never decreases")
	assert.Equal(t, int64(150), got.Score, "scores accumulate")

	_, err = s.UpsertProgress(ctx, models.ProgressEntry{UserID: "user-1", LanguageID: "en_us", DifficultyID: "hard", Level: 1, Score: 10})
	require.NoError(t, err)

	progress, err := s.GetProgress(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, models.ProgressEntry{UserID: "user-1", LanguageID: "go", DifficultyID: "easy", Level: 3, Score: 150}, progress["go_easy"])
	assert.Equal(t, "en_us", progress["en_us_hard"].LanguageID)
	assert.Equal(t, "hard", progress["en_us_hard"].DifficultyID)

	empty, err := s.GetProgress(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testConcurrentProgressContract(t *testing.T, s Storage) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, contractUser(1, testTime)))

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(level int64) {
			defer wg.Done()
			_, err := s.UpsertProgress(ctx, models.ProgressEntry{
				UserID: "user-1", LanguageID: "go", DifficultyID: "easy", Level: level, Score: 1,
			})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	progress, err := s.GetProgress(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), progress["go_easy"].Score)
	assert.Equal(t, int64(workers-1), progress["go_easy"].Level)
}

func testResetRequestsContract(t *testing.T, s Storage) {
	ctx := context.Background()

	older := models.ResetRequest{ID: "r-1", UserID: "user-1", UserEmail: "a@example.com", RequestedAt: testTime, Status: models.ResetRequestPending}
	newer := models.ResetRequest{ID: "r-2", UserID: "user-1", UserEmail: "a@example.com", RequestedAt: testTime.Add(time.Hour), Status: models.ResetRequestPending}
	require.NoError(t, s.AddResetRequest(ctx, older))
	require.NoError(t, s.AddResetRequest(ctx, newer))

	requests, err := s.ListResetRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "r-2", requests[0].ID)
	assert.Equal(t, models.ResetRequestPending, requests[1].Status)
}

func paymentIDs(payments []models.Payment) []string {
	ids := make([]string, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.ID)
	}
	return ids
}
