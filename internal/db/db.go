package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigbridge/gigbridge/internal/config"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and makes sure the schema exists.
func Init(cfg *config.Config) {
	var err error
	Conn, err = pgxpool.New(context.Background(), cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	ensureSchema()
}

// Close releases the pool.
func Close() {
	if Conn != nil {
		Conn.Close()
	}
}

// ensureSchema creates every table the handlers rely on (idempotent).
func ensureSchema() {
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('client','freelancer','admin')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			assignment_type TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			deadline TIMESTAMPTZ NOT NULL,
			pages INTEGER NOT NULL DEFAULT 1,
			urgency TEXT NOT NULL DEFAULT 'medium',
			budget_min NUMERIC(10,2) NOT NULL,
			budget_max NUMERIC(10,2) NOT NULL,
			instructions TEXT NOT NULL DEFAULT '',
			skills_required JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL CHECK (status IN (
				'pending_registration','open','closed','in_progress','completed','cancelled'
			)),
			views_count INTEGER NOT NULL DEFAULT 0,
			offers_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_client ON jobs(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status_created ON jobs(status, created_at DESC)`,

		// one recorded view per viewer identity (user, or ip for anonymous)
		`CREATE TABLE IF NOT EXISTS job_views (
			id UUID PRIMARY KEY,
			job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			user_id UUID NULL REFERENCES users(id) ON DELETE CASCADE,
			ip_address TEXT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_job_views_user
			ON job_views(job_id, user_id) WHERE user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_job_views_ip
			ON job_views(job_id, ip_address) WHERE user_id IS NULL`,

		`CREATE TABLE IF NOT EXISTS chats (
			id UUID PRIMARY KEY,
			job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			client_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			freelancer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (job_id, freelancer_id)
		)`,

		// uq_offers_job_freelancer closes the duplicate-offer race at the store
		`CREATE TABLE IF NOT EXISTS offers (
			id UUID PRIMARY KEY,
			job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			freelancer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			chat_id UUID NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			delivery_time INTEGER NOT NULL CHECK (delivery_time > 0),
			payment_type TEXT NOT NULL DEFAULT 'fixed' CHECK (payment_type IN ('fixed','hourly')),
			amount NUMERIC(10,2) NOT NULL CHECK (amount > 0),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN (
				'pending','accepted','rejected','withdrawn'
			)),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uq_offers_job_freelancer UNIQUE (job_id, freelancer_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_job_status ON offers(job_id, status)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			job_id UUID NOT NULL UNIQUE REFERENCES jobs(id) ON DELETE CASCADE,
			offer_id UUID NOT NULL UNIQUE REFERENCES offers(id) ON DELETE CASCADE,
			client_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			freelancer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			delivery_time INTEGER NOT NULL,
			amount NUMERIC(10,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN (
				'active','submitted','revision_requested','completed','cancelled','disputed'
			)),
			due_date TIMESTAMPTZ NOT NULL,
			submitted_at TIMESTAMPTZ NULL,
			completed_at TIMESTAMPTZ NULL,
			revision_count INTEGER NOT NULL DEFAULT 0,
			max_revisions INTEGER NOT NULL DEFAULT 3,
			client_rating INTEGER NULL,
			client_feedback TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// append-only work submission history
		`CREATE TABLE IF NOT EXISTS order_submissions (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			freelancer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			submission_text TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS order_revisions (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			requested_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			notes TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			payer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			payee_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			amount NUMERIC(10,2) NOT NULL,
			platform_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			freelancer_amount NUMERIC(10,2) NOT NULL,
			payment_type TEXT NOT NULL DEFAULT 'order' CHECK (payment_type IN ('order','refund')),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN (
				'pending','initiated','processing','paid','failed','refunded','partially_refunded'
			)),
			paid_at TIMESTAMPTZ NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			chat_id UUID NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
			sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			read_at TIMESTAMPTZ NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages(chat_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS message_attachments (
			id UUID PRIMARY KEY,
			message_id UUID NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
			original_name TEXT NOT NULL,
			file_size INTEGER NOT NULL,
			content_type TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT,
			reference UUID NULL,
			metadata JSONB NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			read_at TIMESTAMPTZ NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL`,
	}

	for _, stmt := range stmts {
		if _, err := Conn.Exec(ctx, stmt); err != nil {
			log.Printf("schema statement failed: %v", err)
		}
	}
}
