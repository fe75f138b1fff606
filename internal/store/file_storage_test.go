package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/models"
)

func newTestFileStorage(t *testing.T) Storage {
	t.Helper()
	s, err := NewFileStorage(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	return s
}

func TestFileStorage_Contract(t *testing.T) {
	runStorageContract(t, newTestFileStorage)
}

func TestNewFileStorage_CreatesCollections(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)

	for _, name := range []string{usersFile, paymentsFile, progressFile, resetsFile} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, raw, name)
	}
}

func TestNewFileStorage_KeepsExistingData(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, first.CreateUser(context.Background(), contractUser(1, testTime)))

	reopened, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)

	u, err := reopened.GetUserByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user1@example.com", u.Email)
}

func TestFileStorage_EmptyFileReadsAsEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte("  \n"), 0o600))

	s, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, paymentsFile), []byte("{not json"), 0o600))

	_, err = s.ListPayments(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.ErrorIs(t, err, ErrReadingFile)

	err = s.CreatePayment(context.Background(), contractPayment("pay-1", "user-1", testTime))
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestFileStorage_FailedMutationWritesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, contractUser(1, testTime)))
	before, err := os.ReadFile(filepath.Join(dir, usersFile))
	require.NoError(t, err)

	negative := int64(-3)
	_, err = s.UpdateUser(ctx, "user-1", models.UserPatch{FreeTrials: &negative})
	require.ErrorIs(t, err, ErrNegativeBalance)

	after, err := os.ReadFile(filepath.Join(dir, usersFile))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "no temp files left behind")
	}
}

func TestFileStorage_ProgressLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)

	_, err = s.UpsertProgress(context.Background(), models.ProgressEntry{
		UserID: "user-1", LanguageID: "en_us", DifficultyID: "beginner", Level: 2, Score: 40,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, progressFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"user-1":{"en_us_beginner":{"level":2,"score":40}}}`, string(raw))
}

func TestFileStorage_PhoneExistsIgnoresEmpty(t *testing.T) {
	s := newTestFileStorage(t)
	ctx := context.Background()

	u := contractUser(1, testTime)
	u.Phone = ""
	require.NoError(t, s.CreateUser(ctx, u))

	second := contractUser(2, testTime)
	second.Phone = ""
	require.NoError(t, s.CreateUser(ctx, second), "empty phones never collide")

	exists, err := s.PhoneExists(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStorage_CanceledContext(t *testing.T) {
	s := newTestFileStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetUserByID(ctx, "user-1")
	assert.ErrorIs(t, err, context.Canceled)

	err = s.CreateUser(ctx, contractUser(1, testTime))
	assert.ErrorIs(t, err, context.Canceled)

	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}

func TestFileStorage_Ping(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(dir))
	assert.ErrorIs(t, s.Ping(context.Background()), ErrBackendUnavailable)
	assert.NoError(t, s.Close())
}

func TestFileStorage_WriteSyncsDirectory(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir, logger.Nop())
	require.NoError(t, err)

	realSync := syncDir
	t.Cleanup(func() { syncDir = realSync })

	var synced []string
	syncDir = func(d string) error {
		synced = append(synced, d)
		return realSync(d)
	}

	require.NoError(t, s.CreateUser(context.Background(), contractUser(1, testTime)))
	assert.Equal(t, []string{dir}, synced)

	syncDir = func(string) error { return errors.New("disk gone") }

	err = s.CreateUser(context.Background(), contractUser(2, testTime))
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.ErrorIs(t, err, ErrWritingFile)
}
