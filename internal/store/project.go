package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oneselect/oneselect/internal/domain"
)

type ProjectStore struct {
	db *pgxpool.Pool
}

func NewProjectStore(db *pgxpool.Pool) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) Create(ctx context.Context, p *domain.Project) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO projects (name, description, owner_id, comparison_mode)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.OwnerID, p.ComparisonMode,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *ProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	p := &domain.Project{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, owner_id, comparison_mode, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.ComparisonMode, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProjectStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Project, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, owner_id, comparison_mode, created_at, updated_at
		 FROM projects WHERE owner_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (s *ProjectStore) ListAll(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, owner_id, comparison_mode, created_at, updated_at
		 FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.ComparisonMode, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) Update(ctx context.Context, p *domain.Project) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE projects SET name = $2, description = $3, comparison_mode = $4, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.ComparisonMode,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
