package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/utils"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

const complaintColumns = `id, created_at, updated_at, title, description, category, subcategory,
	lat, lon, address, zipcode, city,
	priority, status, sla_hours, sla_deadline, escalation_level,
	group_id, group_size, meta`

func (s *Store) SaveComplaint(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	meta, err := json.Marshal(c.Meta)
	if err != nil {
		return models.Complaint{}, err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO complaints (`+complaintColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`, c.ID, c.CreatedAt, c.UpdatedAt, c.Title, c.Description, c.Category, c.Subcategory,
		c.Lat, c.Lon, c.Address, c.Zipcode, c.City,
		c.Priority, c.Status, c.SLAHours, c.SLADeadline, c.EscalationLevel,
		nilIfEmpty(c.GroupID), c.GroupSize, meta)
	if err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

func (s *Store) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id)
	return scanComplaint(row)
}

type ListFilter struct {
	Status   string
	Category string
	Priority string
	Limit    int
	Offset   int
}

func (s *Store) ListComplaints(ctx context.Context, filter ListFilter) ([]models.Complaint, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	query := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []any
	var wheres []string
	if filter.Status != "" {
		args = append(args, filter.Status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		wheres = append(wheres, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		wheres = append(wheres, fmt.Sprintf("priority = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// FindNear returns complaints within radiusMeters of (lat, lon) created
// after since. A bounding box narrows the SQL scan; the exact great-circle
// check happens here, so no spatial index extension is required.
func (s *Store) FindNear(ctx context.Context, lat, lon, radiusMeters float64, since time.Time, excludeID string, limit int) ([]models.Complaint, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	radiusKm := radiusMeters / 1000
	minLat, maxLat, minLon, maxLon := utils.BoundingBox(lat, lon, radiusKm)

	rows, err := s.Pool.Query(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE lat IS NOT NULL AND lon IS NOT NULL
		  AND lat BETWEEN $1 AND $2
		  AND lon BETWEEN $3 AND $4
		  AND created_at >= $5
		  AND id <> $6
		ORDER BY created_at DESC
		LIMIT $7
	`, minLat, maxLat, minLon, maxLon, since, excludeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates, err := scanComplaints(rows)
	if err != nil {
		return nil, err
	}

	out := make([]models.Complaint, 0, len(candidates))
	for _, c := range candidates {
		if utils.HaversineKm(lat, lon, *c.Lat, *c.Lon) <= radiusKm {
			out = append(out, c)
		}
	}
	return out, nil
}

// Located returns every complaint carrying coordinates, newest first, for
// hotspot and heatmap snapshots.
func (s *Store) Located(ctx context.Context, category string, limit int) ([]models.Complaint, error) {
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE lat IS NOT NULL AND lon IS NOT NULL`
	var args []any
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1)
	args = append(args, limit)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (s *Store) OpenComplaints(ctx context.Context) ([]models.Complaint, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+complaintColumns+` FROM complaints WHERE status <> $1 ORDER BY created_at ASC
	`, models.StatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (s *Store) ResolvedComplaints(ctx context.Context, category, priority string, since time.Time, limit int) ([]models.Complaint, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE status = $1 AND category = $2 AND priority = $3 AND created_at >= $4
		ORDER BY created_at DESC
		LIMIT $5
	`, models.StatusResolved, category, priority, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (s *Store) UpdateGroup(ctx context.Context, complaintID, groupID string, groupSize int) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE complaints SET group_id = $1, group_size = $2, updated_at = NOW() WHERE id = $3
	`, groupID, groupSize, complaintID)
	return err
}

// UpdateEscalation persists the escalation state the engine computed. The
// level guard keeps a slow concurrent sweep from ever lowering a level.
func (s *Store) UpdateEscalation(ctx context.Context, c models.Complaint) error {
	meta, err := json.Marshal(c.Meta)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		UPDATE complaints
		SET status = $1, escalation_level = $2, meta = $3, updated_at = NOW()
		WHERE id = $4 AND escalation_level <= $2
	`, c.Status, c.EscalationLevel, meta, c.ID)
	return err
}

func (s *Store) ResolveComplaint(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE complaints SET status = $1, updated_at = NOW() WHERE id = $2
	`, models.StatusResolved, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) AppendEscalation(ctx context.Context, e models.Escalation) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO escalations (complaint_id, title, category, created_at, escalation_time, escalation_level)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, e.ComplaintID, e.Title, e.Category, e.CreatedAt, e.EscalationTime, e.EscalationLevel)
	return err
}

// Analytics is the counts summary consumed by the dashboard.
type Analytics struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	ByCategory map[string]int `json:"by_category"`
	Breached   int            `json:"breached"`
}

func (s *Store) ComplaintAnalytics(ctx context.Context) (Analytics, error) {
	out := Analytics{
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
		ByCategory: map[string]int{},
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT status, priority, category, COALESCE((meta->>'sla_breached')::boolean, false), COUNT(*)
		FROM complaints
		GROUP BY 1, 2, 3, 4
	`)
	if err != nil {
		return Analytics{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status, priority, category string
		var breached bool
		var count int
		if err := rows.Scan(&status, &priority, &category, &breached, &count); err != nil {
			return Analytics{}, err
		}
		out.Total += count
		out.ByStatus[status] += count
		out.ByPriority[priority] += count
		out.ByCategory[category] += count
		if breached {
			out.Breached += count
		}
	}
	return out, rows.Err()
}

func scanComplaints(rows pgx.Rows) ([]models.Complaint, error) {
	var out []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanComplaint(row pgx.Row) (models.Complaint, error) {
	var (
		c       models.Complaint
		groupID *string
		meta    []byte
	)
	if err := row.Scan(
		&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Title, &c.Description, &c.Category, &c.Subcategory,
		&c.Lat, &c.Lon, &c.Address, &c.Zipcode, &c.City,
		&c.Priority, &c.Status, &c.SLAHours, &c.SLADeadline, &c.EscalationLevel,
		&groupID, &c.GroupSize, &meta,
	); err != nil {
		return models.Complaint{}, err
	}
	if groupID != nil {
		c.GroupID = *groupID
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &c.Meta); err != nil {
			return models.Complaint{}, err
		}
	}
	return c, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
