package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/metrics"
	"github.com/MKhiriev/go-quest-ledger/internal/mock"
	"github.com/MKhiriev/go-quest-ledger/internal/proof"
	"github.com/MKhiriev/go-quest-ledger/internal/service"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
	"github.com/MKhiriev/go-quest-ledger/models"
)

const (
	testAdminKey = "admin-secret"
	testToken    = "valid-token"
)

type testHandler struct {
	handler *Handler
	router  http.Handler

	auth     *mock.MockAuthService
	ledger   *mock.MockLedgerService
	payments *mock.MockPaymentService
	appInfo  *mock.MockAppInfoService
	proofs   *memoryProofStore
	metrics  *metrics.Metrics
}

func newTestHandler(t *testing.T) *testHandler {
	t.Helper()
	ctrl := gomock.NewController(t)

	th := &testHandler{
		auth:     mock.NewMockAuthService(ctrl),
		ledger:   mock.NewMockLedgerService(ctrl),
		payments: mock.NewMockPaymentService(ctrl),
		appInfo:  mock.NewMockAppInfoService(ctrl),
		proofs:   newMemoryProofStore(),
		metrics:  metrics.New(),
	}

	services := &service.Services{
		AuthService:    th.auth,
		LedgerService:  th.ledger,
		PaymentService: th.payments,
		AppInfoService: th.appInfo,
	}
	cfg := config.StructuredConfig{
		App:    config.App{AdminKey: testAdminKey},
		Server: config.Server{RequestTimeout: 5 * time.Second},
	}

	th.handler = NewHandler(services, th.proofs, th.metrics, cfg, logger.Nop())
	th.router = th.handler.Init()
	return th
}

// signedIn makes the next bearer token check resolve to userID.
func (th *testHandler) signedIn(userID string) {
	th.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(models.Token{UserID: userID}, nil)
}

func (th *testHandler) serve(r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	th.router.ServeHTTP(rr, r)
	return rr
}

func withToken(r *http.Request) *http.Request {
	r.Header.Set("Authorization", "Bearer "+testToken)
	return r
}

func asAdmin(r *http.Request) *http.Request {
	r.Header.Set(adminKeyHeader, testAdminKey)
	return r
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(method, target, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Error
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// memoryProofStore keeps proofs in a map.
type memoryProofStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	saveErr   error
	deleteErr error
}

func newMemoryProofStore() *memoryProofStore {
	return &memoryProofStore{files: map[string][]byte{}}
}

func (s *memoryProofStore) Save(_ context.Context, upload proof.Upload) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("proofs/%d%s", len(s.files)+1, filepath.Ext(upload.Filename))
	s.files[key] = data
	return key, nil
}

func (s *memoryProofStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, proof.ErrProofNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryProofStore) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

func (s *memoryProofStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
