//go:build integration

// Database-backed lifecycle tests. They need a reachable Postgres and are
// skipped unless TEST_DB_NAME is set:
//
//	TEST_DB_NAME=gigbridge_test go test -tags integration ./internal/offers/
package offers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbridge/gigbridge/internal/config"
	"github.com/gigbridge/gigbridge/internal/db"
	"github.com/gigbridge/gigbridge/internal/jobs"
	"github.com/gigbridge/gigbridge/internal/offers"
	"github.com/gigbridge/gigbridge/internal/orders"
	"github.com/gigbridge/gigbridge/internal/validation"
)

var dbOnce sync.Once

func setupDB(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_DB_NAME") == "" {
		t.Skip("TEST_DB_NAME not set, skipping database-backed tests")
	}
	dbOnce.Do(func() {
		db.Init(&config.Config{
			DBUser:     envOr("TEST_DB_USER", "postgres"),
			DBPassword: os.Getenv("TEST_DB_PASSWORD"),
			DBHost:     envOr("TEST_DB_HOST", "localhost"),
			DBPort:     envOr("TEST_DB_PORT", "5432"),
			DBName:     os.Getenv("TEST_DB_NAME"),
		})
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRequest(t *testing.T, method string, body any, userID, role string, params map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	e.Validator = validation.New()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return rec, c
}

func perform(t *testing.T, h echo.HandlerFunc, method string, body any, userID, role string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	rec, c := newRequest(t, method, body, userID, role, params)
	require.NoError(t, h(c))
	return rec
}

func createUser(t *testing.T, role string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, $2, $3, 'x', $4)
	`, id, "test-"+role, id+"@example.com", role)
	require.NoError(t, err)
	return id
}

func createOpenJob(t *testing.T, clientID string) string {
	t.Helper()
	rec := perform(t, jobs.CreateJob, http.MethodPost, map[string]any{
		"title":           "Data pipeline cleanup",
		"description":     "Tidy up the nightly ingest jobs",
		"assignment_type": "programming",
		"subject":         "go",
		"deadline":        time.Now().AddDate(0, 0, 14).Format(time.RFC3339),
		"budget_min":      100,
		"budget_max":      500,
	}, clientID, "client", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var job struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	return job.ID
}

func placeOffer(t *testing.T, freelancerID, jobID string, amount float64) string {
	t.Helper()
	rec := perform(t, offers.CreateOffer, http.MethodPost, map[string]any{
		"job_id":        jobID,
		"description":   "I can take this on",
		"delivery_time": 5,
		"amount":        amount,
	}, freelancerID, "freelancer", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var o struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	return o.ID
}

func jobStatus(t *testing.T, jobID string) string {
	t.Helper()
	var s string
	require.NoError(t, db.Conn.QueryRow(context.Background(),
		`SELECT status FROM jobs WHERE id = $1`, jobID).Scan(&s))
	return s
}

func offerStatus(t *testing.T, offerID string) string {
	t.Helper()
	var s string
	require.NoError(t, db.Conn.QueryRow(context.Background(),
		`SELECT status FROM offers WHERE id = $1`, offerID).Scan(&s))
	return s
}

func TestAcceptOfferCompoundTransition(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	client := createUser(t, "client")
	winner := createUser(t, "freelancer")
	loser := createUser(t, "freelancer")
	jobID := createOpenJob(t, client)
	winningOffer := placeOffer(t, winner, jobID, 300)
	losingOffer := placeOffer(t, loser, jobID, 250)

	rec := perform(t, offers.AcceptOffer, http.MethodPost, nil, client, "client",
		map[string]string{"id": winningOffer})
	require.Equal(t, http.StatusOK, rec.Code)

	// Job closed, winner accepted, every sibling rejected.
	assert.Equal(t, "closed", jobStatus(t, jobID))
	assert.Equal(t, "accepted", offerStatus(t, winningOffer))
	assert.Equal(t, "rejected", offerStatus(t, losingOffer))

	// Exactly one order, referencing this job and the winning offer.
	var orderCount int
	require.NoError(t, db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE job_id = $1`, jobID).Scan(&orderCount))
	assert.Equal(t, 1, orderCount)

	var orderID string
	var amount float64
	require.NoError(t, db.Conn.QueryRow(ctx, `
		SELECT id, amount FROM orders WHERE job_id = $1 AND offer_id = $2
	`, jobID, winningOffer).Scan(&orderID, &amount))
	assert.InDelta(t, 300, amount, 0.001)

	// One pending ledger entry opened with the order.
	var payStatus string
	require.NoError(t, db.Conn.QueryRow(ctx,
		`SELECT status FROM payments WHERE order_id = $1`, orderID).Scan(&payStatus))
	assert.Equal(t, "pending", payStatus)
}

func TestAcceptOfferConcurrentSingleWinner(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	client := createUser(t, "client")
	f1 := createUser(t, "freelancer")
	f2 := createUser(t, "freelancer")
	jobID := createOpenJob(t, client)
	o1 := placeOffer(t, f1, jobID, 300)
	o2 := placeOffer(t, f2, jobID, 280)

	codes := make(chan int, 2)
	var wg sync.WaitGroup
	for _, offerID := range []string{o1, o2} {
		wg.Add(1)
		go func(offerID string) {
			defer wg.Done()
			rec, c := newRequest(t, http.MethodPost, nil, client, "client",
				map[string]string{"id": offerID})
			if err := offers.AcceptOffer(c); err != nil {
				codes <- http.StatusInternalServerError
				return
			}
			codes <- rec.Code
		}(offerID)
	}
	wg.Wait()
	close(codes)

	var wins, losses int
	for code := range codes {
		switch code {
		case http.StatusOK:
			wins++
		case http.StatusBadRequest:
			losses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one accept must win")
	assert.Equal(t, 1, losses, "the other accept must fail the state guard")

	assert.Equal(t, "closed", jobStatus(t, jobID))

	var orderCount int
	require.NoError(t, db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE job_id = $1`, jobID).Scan(&orderCount))
	assert.Equal(t, 1, orderCount)
}

func TestOrderLifecycleRoundTrip(t *testing.T) {
	setupDB(t)
	ctx := context.Background()

	client := createUser(t, "client")
	freelancer := createUser(t, "freelancer")
	jobID := createOpenJob(t, client)
	offerID := placeOffer(t, freelancer, jobID, 300)

	rec := perform(t, offers.AcceptOffer, http.MethodPost, nil, client, "client",
		map[string]string{"id": offerID})
	require.Equal(t, http.StatusOK, rec.Code)

	var accepted struct {
		OrderID string `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.OrderID)

	rec = perform(t, orders.SubmitWork, http.MethodPost, map[string]any{
		"submission_text": "done, see the linked branch",
	}, freelancer, "freelancer", map[string]string{"id": accepted.OrderID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(t, orders.Approve, http.MethodPost, map[string]any{
		"rating":   5,
		"feedback": "great work",
	}, client, "client", map[string]string{"id": accepted.OrderID})
	require.Equal(t, http.StatusOK, rec.Code)

	var status string
	var rating int
	var completedAt *time.Time
	var dueDate time.Time
	require.NoError(t, db.Conn.QueryRow(ctx, `
		SELECT status, client_rating, completed_at, due_date
		FROM orders WHERE id = $1
	`, accepted.OrderID).Scan(&status, &rating, &completedAt, &dueDate))
	assert.Equal(t, "completed", status)
	assert.Equal(t, 5, rating)
	require.NotNil(t, completedAt)
	assert.InDelta(t, 5*24, time.Until(dueDate).Hours(), 1, "due date is acceptance + delivery_time days")

	assert.Equal(t, "closed", jobStatus(t, jobID))

	var payStatus string
	var paidAt *time.Time
	require.NoError(t, db.Conn.QueryRow(ctx, `
		SELECT status, paid_at FROM payments WHERE order_id = $1 AND payment_type = 'order'
	`, accepted.OrderID).Scan(&payStatus, &paidAt))
	assert.Equal(t, "paid", payStatus)
	assert.NotNil(t, paidAt)
}

func TestCreateOfferOnClosedJob(t *testing.T) {
	setupDB(t)

	client := createUser(t, "client")
	f1 := createUser(t, "freelancer")
	f2 := createUser(t, "freelancer")
	jobID := createOpenJob(t, client)
	offerID := placeOffer(t, f1, jobID, 300)

	rec := perform(t, offers.AcceptOffer, http.MethodPost, nil, client, "client",
		map[string]string{"id": offerID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = perform(t, offers.CreateOffer, http.MethodPost, map[string]any{
		"job_id":        jobID,
		"description":   "late to the party",
		"delivery_time": 3,
		"amount":        200,
	}, f2, "freelancer", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRejectOfferAfterJobClosed(t *testing.T) {
	setupDB(t)

	client := createUser(t, "client")
	freelancer := createUser(t, "freelancer")
	jobID := createOpenJob(t, client)
	offerID := placeOffer(t, freelancer, jobID, 300)

	// Client takes the job off the board without picking anyone.
	rec := perform(t, jobs.UpdateStatus, http.MethodPut, map[string]any{
		"status": "closed",
	}, client, "client", map[string]string{"id": jobID})
	require.Equal(t, http.StatusOK, rec.Code)

	// The pending offer must still be rejectable.
	rec = perform(t, offers.RejectOffer, http.MethodPost, nil, client, "client",
		map[string]string{"id": offerID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rejected", offerStatus(t, offerID))
}

func TestUpdateStatusAdminOverride(t *testing.T) {
	setupDB(t)

	client := createUser(t, "client")
	admin := createUser(t, "admin")
	jobID := createOpenJob(t, client)

	rec := perform(t, jobs.UpdateStatus, http.MethodPut, map[string]any{
		"status": "cancelled",
	}, admin, "admin", map[string]string{"id": jobID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", jobStatus(t, jobID))
}
