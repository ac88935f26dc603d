package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/config"
	"github.com/qs3c/boost_stream_server/internal/api/middleware"
	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/pkg/notify"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/repository"
	"github.com/qs3c/boost_stream_server/internal/service"
	"github.com/qs3c/boost_stream_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// testContext 本地测试上下文
type testContext struct {
	DB    *gorm.DB
	Clock clockwork.FakeClock

	Streams       *StreamHandler
	Quota         *QuotaHandler
	Plans         *PlanHandler
	Subscriptions *SubscriptionHandler
	Payments      *PaymentHandler
	Streamers     *StreamerHandler
}

func setupHandlers(t *testing.T) (*testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	clock := clockwork.NewFakeClockAt(testNow)

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	streamRepo := repository.NewStreamRepository(db)
	streamerRepo := repository.NewStreamerRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	quota := service.NewQuotaCalculator(&cfg.Quota)

	ctx := &testContext{
		DB:    db,
		Clock: clock,
		Streams: NewStreamHandler(service.NewStreamService(db, streamRepo, streamerRepo, subRepo,
			quota, notify.NopNotifier{}, clock, cfg)),
		Quota:         NewQuotaHandler(service.NewQuotaService(streamRepo, subRepo, quota, clock)),
		Plans:         NewPlanHandler(service.NewPlanService(db, planRepo, subRepo, clock)),
		Subscriptions: NewSubscriptionHandler(service.NewSubscriptionService(db, subRepo, planRepo, streamerRepo, clock)),
		Payments:      NewPaymentHandler(service.NewPaymentService(db, paymentRepo, subRepo, clock)),
		Streamers:     NewStreamerHandler(service.NewStreamerService(streamerRepo, subRepo, clock)),
	}

	return ctx, func() { testutil.CleanupTestDB(t, db) }
}

// mockAuth 模拟认证中间件
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

// mockStreamer 模拟已解析的主播
func mockStreamer(streamerID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.StreamerIDKey, streamerID)
		c.Next()
	}
}

// subscribedStreamer 创建带有效订阅的主播
func subscribedStreamer(t *testing.T, db *gorm.DB, hours float64) *model.Streamer {
	t.Helper()
	p := testutil.TestPlan(t, db, testutil.WithPlanHours(hours))
	s := testutil.TestStreamer(t, db)
	testutil.TestSubscription(t, db, s.ID, p, testNow)
	return s
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return data
}
