package repo

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5"

	"server/internal/db"
	"server/internal/domain"
)

const imageColumns = `i.id, i.title, i.public_id, i.secure_url, i.transformation_type, i.config,
       i.transformation_url, i.aspect_ratio, i.color, i.prompt, i.width, i.height,
       i.author_id, u.clerk_id, u.first_name, u.last_name, i.created_at, i.updated_at`

// ImageRepositoryPG implements domain.ImageRepository using PostgreSQL.
type ImageRepositoryPG struct {
	db db.DBTX
}

// NewImageRepository creates a new image repo.
func NewImageRepository(db db.DBTX) *ImageRepositoryPG {
	return &ImageRepositoryPG{db: db}
}

// Create inserts a new image record. A foreign-key failure on the author
// surfaces as domain.ErrNotFound.
func (r *ImageRepositoryPG) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	row := r.db.QueryRow(ctx, `
INSERT INTO images (id, title, public_id, secure_url, transformation_type, config,
                    transformation_url, aspect_ratio, color, prompt, width, height, author_id)
VALUES (gen_random_uuid(), $1, $2, $3, $4, COALESCE($5::jsonb, '{}'::jsonb), $6, $7, $8, $9, $10, $11, $12::uuid)
RETURNING id, created_at, updated_at;
`,
		image.Title,
		image.PublicID,
		image.SecureURL,
		image.TransformationType,
		image.Config,
		image.TransformationURL,
		image.AspectRatio,
		image.Color,
		image.Prompt,
		image.Width,
		image.Height,
		image.AuthorID,
	)

	created := *image
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, mapPGError(err)
	}
	return &created, nil
}

// Update overwrites the mutable fields of an image.
func (r *ImageRepositoryPG) Update(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	row := r.db.QueryRow(ctx, `
UPDATE images
SET title = $2,
    public_id = $3,
    secure_url = $4,
    transformation_type = $5,
    config = COALESCE($6::jsonb, '{}'::jsonb),
    transformation_url = $7,
    aspect_ratio = $8,
    color = $9,
    prompt = $10,
    width = $11,
    height = $12,
    updated_at = NOW()
WHERE id = $1::uuid
RETURNING id, author_id, created_at, updated_at;
`,
		image.ID,
		image.Title,
		image.PublicID,
		image.SecureURL,
		image.TransformationType,
		image.Config,
		image.TransformationURL,
		image.AspectRatio,
		image.Color,
		image.Prompt,
		image.Width,
		image.Height,
	)

	updated := *image
	if err := row.Scan(&updated.ID, &updated.AuthorID, &updated.CreatedAt, &updated.UpdatedAt); err != nil {
		return nil, mapPGError(err)
	}
	return &updated, nil
}

// Delete removes an image. Deleting an absent record is a no-op.
func (r *ImageRepositoryPG) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM images WHERE id = $1::uuid`, id)
	return err
}

// GetByID fetches an image with its author fields populated.
func (r *ImageRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	row := r.db.QueryRow(ctx, `
SELECT `+imageColumns+`
FROM images i
JOIN users u ON u.id = i.author_id
WHERE i.id = $1::uuid;
`, id)
	return scanImage(row)
}

// List returns one page of images ordered by most-recently-updated. A nil
// PublicIDs slice leaves the listing unrestricted; AuthorID narrows to one
// author's images.
func (r *ImageRepositoryPG) List(ctx context.Context, q domain.ImageQuery) (*domain.ImagePage, error) {
	if q.PageSize <= 0 {
		q.PageSize = 9
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	offset := (q.Page - 1) * q.PageSize

	var publicIDs any
	if q.PublicIDs != nil {
		publicIDs = q.PublicIDs
	}
	var authorID any
	if q.AuthorID != "" {
		authorID = q.AuthorID
	}

	rows, err := r.db.Query(ctx, `
SELECT `+imageColumns+`
FROM images i
JOIN users u ON u.id = i.author_id
WHERE ($1::text[] IS NULL OR i.public_id = ANY($1))
  AND ($2::uuid IS NULL OR i.author_id = $2::uuid)
ORDER BY i.updated_at DESC
LIMIT $3 OFFSET $4;
`, publicIDs, authorID, q.PageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var matching int64
	row := r.db.QueryRow(ctx, `
SELECT COUNT(*)
FROM images i
WHERE ($1::text[] IS NULL OR i.public_id = ANY($1))
  AND ($2::uuid IS NULL OR i.author_id = $2::uuid);
`, publicIDs, authorID)
	if err := row.Scan(&matching); err != nil {
		return nil, err
	}

	var saved int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM images;`).Scan(&saved); err != nil {
		return nil, err
	}

	return &domain.ImagePage{
		Items:       items,
		TotalPages:  int(math.Ceil(float64(matching) / float64(q.PageSize))),
		SavedImages: saved,
	}, nil
}

func scanImage(row pgx.Row) (*domain.Image, error) {
	var img domain.Image
	var author domain.ImageAuthor
	if err := row.Scan(
		&img.ID,
		&img.Title,
		&img.PublicID,
		&img.SecureURL,
		&img.TransformationType,
		&img.Config,
		&img.TransformationURL,
		&img.AspectRatio,
		&img.Color,
		&img.Prompt,
		&img.Width,
		&img.Height,
		&img.AuthorID,
		&author.ClerkID,
		&author.FirstName,
		&author.LastName,
		&img.CreatedAt,
		&img.UpdatedAt,
	); err != nil {
		return nil, mapPGError(err)
	}
	author.ID = img.AuthorID
	img.Author = &author
	return &img, nil
}
