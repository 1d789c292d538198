package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigbridge/gigbridge/internal/apperr"
	"github.com/gigbridge/gigbridge/internal/db"
)

const jobColumns = `id, client_id, title, description, assignment_type, subject,
	deadline, pages, urgency, budget_min, budget_max, instructions,
	skills_required, status, views_count, offers_count, created_at, updated_at`

// orderable whitelists the sortable columns for the public listing.
var orderable = map[string]bool{
	"created_at": true,
	"deadline":   true,
	"budget_min": true,
	"budget_max": true,
}

// ListJobs - public job board with filtering, search and ordering.
// Defaults to open jobs, newest first.
func ListJobs(c echo.Context) error {
	where := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	status := c.QueryParam("status")
	if status == "" {
		status = string(StatusOpen)
	}
	if !Status(status).Valid() {
		return apperr.JSON(c, apperr.Validation("invalid status filter"))
	}
	where = append(where, "status = "+arg(status))

	if v := c.QueryParam("assignment_type"); v != "" {
		where = append(where, "assignment_type = "+arg(v))
	}
	if v := c.QueryParam("urgency"); v != "" {
		where = append(where, "urgency = "+arg(v))
	}
	if v := c.QueryParam("min_budget"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperr.JSON(c, apperr.Validation("invalid min_budget"))
		}
		where = append(where, "budget_max >= "+arg(f))
	}
	if v := c.QueryParam("max_budget"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperr.JSON(c, apperr.Validation("invalid max_budget"))
		}
		where = append(where, "budget_min <= "+arg(f))
	}
	if v := c.QueryParam("search"); v != "" {
		p := arg("%" + v + "%")
		where = append(where, fmt.Sprintf(
			"(title ILIKE %s OR description ILIKE %s OR subject ILIKE %s)", p, p, p))
	}

	orderBy := "created_at"
	dir := "DESC"
	if v := c.QueryParam("ordering"); v != "" {
		if strings.HasPrefix(v, "-") {
			v = v[1:]
		} else {
			dir = "ASC"
		}
		if !orderable[v] {
			return apperr.JSON(c, apperr.Validation("invalid ordering field"))
		}
		orderBy = v
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY %s %s LIMIT 100`,
		jobColumns, strings.Join(where, " AND "), orderBy, dir)

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer rows.Close()

	items, err := scanJobs(rows)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": items})
}

// MyJobs - jobs posted by the authenticated client, newest first.
func MyJobs(c echo.Context) error {
	clientID, ok := c.Get("user_id").(string)
	if !ok || clientID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT `+jobColumns+` FROM jobs WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	defer rows.Close()

	items, err := scanJobs(rows)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": items})
}

func scanJobs(rows pgx.Rows) ([]Job, error) {
	items := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	return items, rows.Err()
}

// scanJob scans one job row in jobColumns order.
func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	var skills []byte
	err := row.Scan(&j.ID, &j.ClientID, &j.Title, &j.Description, &j.AssignmentType,
		&j.Subject, &j.Deadline, &j.Pages, &j.Urgency, &j.BudgetMin, &j.BudgetMax,
		&j.Instructions, &skills, &j.Status, &j.ViewsCount, &j.OffersCount,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &j.SkillsRequired); err != nil {
		j.SkillsRequired = []string{}
	}
	return &j, nil
}
