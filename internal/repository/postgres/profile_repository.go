package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devconnector/internal/models"
	"devconnector/internal/repository"
)

// Optional text columns are nullable so an upsert can tell "absent" from "".
const profileSelect = `
	SELECT p.id, p.user_id,
		COALESCE(p.company, '') AS company,
		COALESCE(p.website, '') AS website,
		COALESCE(p.location, '') AS location,
		COALESCE(p.bio, '') AS bio,
		p.status,
		COALESCE(p.githubusername, '') AS githubusername,
		p.skills, p.social, p.experience, p.education, p.date,
		COALESCE(u.name, '') AS owner_name,
		COALESCE(u.avatar, '') AS owner_avatar
	FROM profiles p
	LEFT JOIN users u ON u.id = p.user_id
`

type profileRow struct {
	models.Profile
	OwnerName   string `db:"owner_name"`
	OwnerAvatar string `db:"owner_avatar"`
}

func (row *profileRow) toModel() models.Profile {
	p := row.Profile
	p.User = &models.UserRef{ID: p.UserID, Name: row.OwnerName, Avatar: row.OwnerAvatar}
	p.Normalize()
	return p
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Upsert(ctx context.Context, req repository.UpsertProfileRequest) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (id, user_id, company, website, location, bio, status, githubusername, skills, social, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			company = COALESCE(EXCLUDED.company, profiles.company),
			website = COALESCE(EXCLUDED.website, profiles.website),
			location = COALESCE(EXCLUDED.location, profiles.location),
			bio = COALESCE(EXCLUDED.bio, profiles.bio),
			githubusername = COALESCE(EXCLUDED.githubusername, profiles.githubusername),
			status = EXCLUDED.status,
			skills = EXCLUDED.skills,
			social = EXCLUDED.social
	`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.UserID,
		req.Company, req.Website, req.Location, req.Bio,
		req.Status, req.GitHubUsername,
		pq.StringArray(req.Skills), req.Social,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return r.GetByUserID(ctx, req.UserID)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var row profileRow

	err := r.db.GetContext(ctx, &row, profileSelect+` WHERE p.user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile of user %s: %w", userID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p := row.toModel()
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	var rows []profileRow

	if err := r.db.SelectContext(ctx, &rows, profileSelect+` ORDER BY p.date DESC`); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]models.Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toModel())
	}

	return profiles, nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (r *profileRepository) PushExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return r.pushEntry(ctx, userID, "experience", exp)
}

func (r *profileRepository) PullExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return r.pullEntry(ctx, userID, "experience", expID)
}

func (r *profileRepository) PushEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return r.pushEntry(ctx, userID, "education", edu)
}

func (r *profileRepository) PullEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return r.pullEntry(ctx, userID, "education", eduID)
}

// pushEntry prepends entry to the JSONB array held in column.
// column is always one of the package's own constants.
func (r *profileRepository) pushEntry(ctx context.Context, userID, column string, entry any) (*models.Profile, error) {
	payload, err := json.Marshal([]any{entry})
	if err != nil {
		return nil, fmt.Errorf("encode %s entry: %w", column, err)
	}

	query := fmt.Sprintf(`UPDATE profiles SET %[1]s = $2::jsonb || %[1]s WHERE user_id = $1`, column)

	result, err := r.db.ExecContext(ctx, query, userID, string(payload))
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("push %s rows affected: %w", column, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("profile of user %s: %w", userID, repository.ErrNotFound)
	}

	return r.GetByUserID(ctx, userID)
}

// pullEntry removes the entry with entryID from column. The containment guard
// makes the statement a no-op when the entry is absent, which is then told
// apart from a missing profile.
func (r *profileRepository) pullEntry(ctx context.Context, userID, column, entryID string) (*models.Profile, error) {
	query := fmt.Sprintf(`
		UPDATE profiles SET %[1]s = COALESCE((
			SELECT jsonb_agg(e ORDER BY ord)
			FROM jsonb_array_elements(%[1]s) WITH ORDINALITY AS t(e, ord)
			WHERE e->>'_id' <> $2
		), '[]'::jsonb)
		WHERE user_id = $1 AND %[1]s @> jsonb_build_array(jsonb_build_object('_id', $2::text))
	`, column)

	result, err := r.db.ExecContext(ctx, query, userID, entryID)
	if err != nil {
		return nil, fmt.Errorf("pull %s: %w", column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("pull %s rows affected: %w", column, err)
	}

	if rowsAffected == 0 {
		var exists bool
		err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`, userID)
		if err != nil {
			return nil, fmt.Errorf("check profile: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("profile of user %s: %w", userID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("%s %s: %w", column, entryID, repository.ErrEntryNotFound)
	}

	return r.GetByUserID(ctx, userID)
}
