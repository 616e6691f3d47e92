package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/store"
	"github.com/dwarvesf/payment-forwarder/internal/types/environments"
	"github.com/dwarvesf/payment-forwarder/internal/utils/config"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

type fakeForwarder struct {
	outcome *model.ForwardingOutcome
	batch   *model.BatchForwardResult
	lastID  uint
}

func (f *fakeForwarder) Forward(ctx context.Context, paymentID uint) *model.ForwardingOutcome {
	f.lastID = paymentID
	return f.outcome
}

func (f *fakeForwarder) Retry(ctx context.Context, paymentID uint) *model.ForwardingOutcome {
	f.lastID = paymentID
	return f.outcome
}

func (f *fakeForwarder) BatchForward(ctx context.Context, limit int) *model.BatchForwardResult {
	return f.batch
}

func (f *fakeForwarder) ConfirmPending(ctx context.Context) error {
	return nil
}

type fakePaymentStore struct {
	payments map[string]*model.Payment
}

func (s *fakePaymentStore) Create(tx *gorm.DB, p *model.Payment) (*model.Payment, error) {
	s.payments[p.PaymentCode] = p
	return p, nil
}

func (s *fakePaymentStore) GetByID(tx *gorm.DB, id uint) (*model.Payment, error) {
	for _, p := range s.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakePaymentStore) GetByCode(tx *gorm.DB, code string) (*model.Payment, error) {
	p, ok := s.payments[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *fakePaymentStore) FindByStatus(tx *gorm.DB, status model.PaymentStatus, limit int) ([]model.Payment, error) {
	return nil, nil
}

func (s *fakePaymentStore) TransitionStatus(tx *gorm.DB, id uint, from []model.PaymentStatus, to model.PaymentStatus) (int64, error) {
	return 0, nil
}

func (s *fakePaymentStore) Save(tx *gorm.DB, p *model.Payment) error {
	return nil
}

func setupRouter(fwd *fakeForwarder, payments map[string]*model.Payment) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := New(fwd,
		&store.Store{Payment: &fakePaymentStore{payments: payments}},
		nil,
		&config.AppConfig{},
		logger.New(environments.Test),
	)

	r := gin.New()
	r.GET("/api/v1/payments/:code", h.Get)
	r.POST("/api/v1/payments/:code/forward", h.Forward)
	r.POST("/api/v1/payments/:code/retry", h.Retry)
	r.POST("/api/v1/payments/batch-forward", h.BatchForward)
	return r
}

func paymentFixture() *model.Payment {
	p := &model.Payment{
		PaymentCode: "abc-123",
		Chain:       model.ChainBTC,
		Amount:      "100",
		Status:      model.PaymentStatusConfirmed,
	}
	p.ID = 7
	return p
}

func TestGetPayment(t *testing.T) {
	p := paymentFixture()
	r := setupRouter(&fakeForwarder{}, map[string]*model.Payment{p.PaymentCode: p})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/payments/abc-123", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abc-123")
}

func TestGetPaymentNotFound(t *testing.T) {
	r := setupRouter(&fakeForwarder{}, map[string]*model.Payment{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/payments/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestForwardResolvesCode(t *testing.T) {
	p := paymentFixture()
	fwd := &fakeForwarder{outcome: &model.ForwardingOutcome{
		Success:     true,
		PaymentCode: p.PaymentCode,
	}}
	r := setupRouter(fwd, map[string]*model.Payment{p.PaymentCode: p})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/payments/abc-123/forward", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), fwd.lastID)
}

func TestForwardConflictOnAlreadyForwarded(t *testing.T) {
	p := paymentFixture()
	fwd := &fakeForwarder{outcome: &model.ForwardingOutcome{
		Success:   false,
		ErrorKind: "already_forwarded",
	}}
	r := setupRouter(fwd, map[string]*model.Payment{p.PaymentCode: p})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/payments/abc-123/retry", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBatchForward(t *testing.T) {
	fwd := &fakeForwarder{batch: &model.BatchForwardResult{Processed: 3, Successful: 2, Failed: 1}}
	r := setupRouter(fwd, map[string]*model.Payment{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/payments/batch-forward", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"processed":3`)
}
