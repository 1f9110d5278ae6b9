package branding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"logosnap/internal/palette"
)

var ErrExtractionNotFound = errors.New("palette extraction not found")

const maxRecentExtractions = 100

// Extraction is one recorded palette derivation: which logo produced which
// theme, and when.
type Extraction struct {
	ID        string          `json:"id"`
	LogoPath  string          `json:"logoPath"`
	Palette   palette.Palette `json:"palette"`
	CreatedAt string          `json:"createdAt"`
}

type ExtractionRepository struct {
	db *sql.DB
}

func NewExtractionRepository(database *sql.DB) *ExtractionRepository {
	return &ExtractionRepository{db: database}
}

func (r *ExtractionRepository) Record(ctx context.Context, logoPath string, p palette.Palette) (Extraction, error) {
	if strings.TrimSpace(logoPath) == "" {
		return Extraction{}, errors.New("logo path is required")
	}

	record := Extraction{
		ID:        uuid.NewString(),
		LogoPath:  logoPath,
		Palette:   p,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO palette_extractions(
			id, logo_path,
			primary_hex, secondary_hex, accent_hex, dark_hex,
			light_hex, text_dark_hex, text_light_hex, text_muted_hex,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.LogoPath,
		p.Primary,
		p.Secondary,
		p.Accent,
		p.Dark,
		p.Light,
		p.TextDark,
		p.TextLight,
		p.TextMuted,
		record.CreatedAt,
	); err != nil {
		return Extraction{}, fmt.Errorf("insert palette extraction: %w", err)
	}

	return record, nil
}

func (r *ExtractionRepository) Recent(ctx context.Context, limit int) ([]Extraction, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxRecentExtractions {
		limit = maxRecentExtractions
	}

	rows, err := r.db.QueryContext(
		ctx,
		extractionColumns+" ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent palette extractions: %w", err)
	}
	defer rows.Close()

	records := make([]Extraction, 0, limit)
	for rows.Next() {
		record, err := scanExtraction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan palette extraction row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate palette extraction rows: %w", err)
	}

	return records, nil
}

func (r *ExtractionRepository) GetByID(ctx context.Context, id string) (Extraction, error) {
	row := r.db.QueryRowContext(ctx, extractionColumns+" WHERE id = ?", id)

	record, err := scanExtraction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Extraction{}, ErrExtractionNotFound
		}
		return Extraction{}, fmt.Errorf("get palette extraction %s: %w", id, err)
	}

	return record, nil
}

const extractionColumns = `SELECT
	id, logo_path,
	primary_hex, secondary_hex, accent_hex, dark_hex,
	light_hex, text_dark_hex, text_light_hex, text_muted_hex,
	created_at
FROM palette_extractions`

func scanExtraction(scan func(dest ...any) error) (Extraction, error) {
	var record Extraction
	err := scan(
		&record.ID,
		&record.LogoPath,
		&record.Palette.Primary,
		&record.Palette.Secondary,
		&record.Palette.Accent,
		&record.Palette.Dark,
		&record.Palette.Light,
		&record.Palette.TextDark,
		&record.Palette.TextLight,
		&record.Palette.TextMuted,
		&record.CreatedAt,
	)
	if err != nil {
		return Extraction{}, err
	}

	return record, nil
}
