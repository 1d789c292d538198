package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gigbridge/gigbridge/internal/db"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the Asynq server and initializes a shared client.
func Init(redisAddr string) {
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskJobOpened, handleJobOpened)
	mux.HandleFunc(TaskOfferReceived, handleOfferReceived)
	mux.HandleFunc(TaskOfferAccepted, handleOfferAccepted)
	mux.HandleFunc(TaskOfferRejected, handleOfferRejected)
	mux.HandleFunc(TaskWorkSubmitted, handleWorkSubmitted)
	mux.HandleFunc(TaskRevisionRequested, handleRevisionRequested)
	mux.HandleFunc(TaskOrderCompleted, handleOrderCompleted)
	mux.HandleFunc(TaskOrderCancelled, handleOrderCancelled)
	mux.HandleFunc(TaskMessageNew, handleMessageNew)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"events": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			slog.Error("asynq server stopped", "err", err)
		}
	}()

	slog.Info("asynq initialized", "addr", redisAddr)
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

func userEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	return email, err
}

// notify writes an in-app notification row and sends a best-effort email.
// Email failures are logged, never retried through the queue.
func notify(ctx context.Context, userID, ntype, title, body string, reference *string) error {
	if err := CreateNotification(userID, ntype, title, body, reference, nil); err != nil {
		return err
	}
	email, err := userEmail(ctx, userID)
	if err != nil {
		slog.Error("notify email lookup failed", "user_id", userID, "err", err)
		return nil
	}
	if err := SendEmail(email, title, body); err != nil {
		slog.Error("notify email send failed", "user_id", userID, "type", ntype, "err", err)
	}
	return nil
}

// handleJobOpened fans out to every freelancer account. Acceptable at the
// current scale; a matching-based audience would replace this query.
func handleJobOpened(ctx context.Context, t *asynq.Task) error {
	var p JobOpenedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	rows, err := db.Conn.Query(ctx, `SELECT id::text FROM users WHERE role = 'freelancer'`)
	if err != nil {
		return err
	}
	defer rows.Close()

	title := "New job posted"
	body := fmt.Sprintf("A new job is open for offers: %s", p.Title)
	for rows.Next() {
		var fid string
		if err := rows.Scan(&fid); err != nil {
			return err
		}
		if err := notify(ctx, fid, NotifyNewJob, title, body, &p.JobID); err != nil {
			slog.Error("job_opened fan-out failed", "user_id", fid, "err", err)
		}
	}
	return rows.Err()
}

func handleOfferReceived(ctx context.Context, t *asynq.Task) error {
	var p OfferReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("You received a new offer of %.2f on your job.", p.Amount)
	return notify(ctx, p.ClientID, NotifyNewOffer, "New offer on your job", body, &p.OfferID)
}

func handleOfferAccepted(ctx context.Context, t *asynq.Task) error {
	var p OfferDecisionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("Your offer on %q was accepted. An order has been created.", p.JobTitle)
	return notify(ctx, p.FreelancerID, NotifyOfferAccepted, "Offer accepted", body, &p.OfferID)
}

func handleOfferRejected(ctx context.Context, t *asynq.Task) error {
	var p OfferDecisionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("Your offer on %q was not accepted.", p.JobTitle)
	return notify(ctx, p.FreelancerID, NotifyOfferRejected, "Offer rejected", body, &p.OfferID)
}

func handleWorkSubmitted(ctx context.Context, t *asynq.Task) error {
	var p WorkSubmittedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("Work was submitted on %q. Review it to approve or request a revision.", p.Title)
	return notify(ctx, p.ClientID, NotifyWorkSubmitted, "Work submitted for review", body, &p.OrderID)
}

func handleRevisionRequested(ctx context.Context, t *asynq.Task) error {
	var p RevisionRequestedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("The client requested changes on %q.", p.Title)
	return notify(ctx, p.FreelancerID, NotifyRevisionRequested, "Revision requested", body, &p.OrderID)
}

func handleOrderCompleted(ctx context.Context, t *asynq.Task) error {
	var p OrderCompletedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("Order %q was approved. Payment of %.2f has been released.", p.Title, p.Amount)
	return notify(ctx, p.FreelancerID, NotifyOrderCompleted, "Order completed and paid", body, &p.OrderID)
}

func handleOrderCancelled(ctx context.Context, t *asynq.Task) error {
	var p OrderCancelledPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("Order %q was cancelled by the other party.", p.Title)
	return notify(ctx, p.NotifyID, NotifyOrderCancelled, "Order cancelled", body, &p.OrderID)
}

func handleMessageNew(ctx context.Context, t *asynq.Task) error {
	var p MessageNewPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	preview := truncate(p.Content, 120)
	return notify(ctx, p.RecipientID, NotifyNewMessage, "New message", preview, &p.ChatID)
}

// truncate shortens s to at most n runes, never splitting a multi-byte
// character, and appends an ellipsis when it cuts.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
