package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"devconnector/internal/apperr"
	"devconnector/internal/models"
	"devconnector/internal/repository"
)

const (
	msgNoProfile       = "There is no profile for this user"
	msgProfileNotFound = "Profile not found"
)

// ProfileInput mirrors the profile form. Empty strings count as absent.
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         string // comma separated
	YouTube        string
	Twitter        string
	Facebook       string
	LinkedIn       string
	Instagram      string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

type ProfileService interface {
	Upsert(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error)
	Me(ctx context.Context, userID string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	AddExperience(ctx context.Context, userID string, in ExperienceInput) (*models.Profile, error)
	DeleteExperience(ctx context.Context, userID, expID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID string, in EducationInput) (*models.Profile, error)
	DeleteEducation(ctx context.Context, userID, eduID string) (*models.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

// SplitSkills turns "go, sql,,js" into [go sql js].
func SplitSkills(raw string) []string {
	skills := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func (s *profileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error) {
	const op = "ProfileService.Upsert"

	req := repository.UpsertProfileRequest{
		ID:             uuid.NewString(),
		UserID:         userID,
		Company:        optional(in.Company),
		Website:        optional(in.Website),
		Location:       optional(in.Location),
		Bio:            optional(in.Bio),
		GitHubUsername: optional(in.GitHubUsername),
		Status:         strings.TrimSpace(in.Status),
		Skills:         SplitSkills(in.Skills),
		Social: models.Social{
			YouTube:   strings.TrimSpace(in.YouTube),
			Twitter:   strings.TrimSpace(in.Twitter),
			Facebook:  strings.TrimSpace(in.Facebook),
			LinkedIn:  strings.TrimSpace(in.LinkedIn),
			Instagram: strings.TrimSpace(in.Instagram),
		},
	}

	err := requireFields(op,
		requiredField{"status", req.Status, "status is required"},
		requiredField{"skills", strings.Join(req.Skills, ","), "skills are required"},
	)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.Upsert(ctx, req)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	return profile, nil
}

func (s *profileService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.Me"

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.BadRequest(op, msgNoProfile)
		}
		return nil, apperr.Internal(op, err)
	}
	return profile, nil
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetByUserID"

	if !validID(userID) {
		return nil, apperr.NotFound(op, msgProfileNotFound)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(op, msgProfileNotFound)
		}
		return nil, apperr.Internal(op, err)
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("ProfileService.List", err)
	}
	return profiles, nil
}

func (s *profileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*models.Profile, error) {
	const op = "ProfileService.AddExperience"

	err := requireFields(op,
		requiredField{"title", in.Title, "Title is required"},
		requiredField{"company", in.Company, "Company is required"},
	)
	if err != nil {
		return nil, err
	}

	from, to, err := parseRange(op, in.From, in.To)
	if err != nil {
		return nil, err
	}

	exp := models.Experience{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}

	profile, err := s.profileRepo.PushExperience(ctx, userID, exp)
	return entryResult(op, profile, err, "")
}

func (s *profileService) DeleteExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	const op = "ProfileService.DeleteExperience"

	profile, err := s.profileRepo.PullExperience(ctx, userID, expID)
	return entryResult(op, profile, err, "Experience not found")
}

func (s *profileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*models.Profile, error) {
	const op = "ProfileService.AddEducation"

	err := requireFields(op,
		requiredField{"school", in.School, "School is required"},
		requiredField{"degree", in.Degree, "Degree is required"},
		requiredField{"fieldofstudy", in.FieldOfStudy, "Field of study is required"},
	)
	if err != nil {
		return nil, err
	}

	from, to, err := parseRange(op, in.From, in.To)
	if err != nil {
		return nil, err
	}

	edu := models.Education{
		ID:           uuid.NewString(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}

	profile, err := s.profileRepo.PushEducation(ctx, userID, edu)
	return entryResult(op, profile, err, "")
}

func (s *profileService) DeleteEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	const op = "ProfileService.DeleteEducation"

	profile, err := s.profileRepo.PullEducation(ctx, userID, eduID)
	return entryResult(op, profile, err, "Education not found")
}

type requiredField struct {
	param, value, msg string
}

// requireFields rejects values that are empty once trimmed.
func requireFields(op string, fields ...requiredField) error {
	var missing []apperr.FieldError
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, apperr.FieldError{Msg: f.msg, Param: f.param, Location: "body"})
		}
	}
	if len(missing) > 0 {
		return apperr.Validation(op, missing...)
	}
	return nil
}

func parseRange(op, fromRaw, toRaw string) (time.Time, *time.Time, error) {
	from, err := ParseDate(strings.TrimSpace(fromRaw))
	if err != nil {
		return time.Time{}, nil, apperr.Validation(op, apperr.FieldError{
			Msg: "From date is invalid", Param: "from", Location: "body",
		})
	}

	if strings.TrimSpace(toRaw) == "" {
		return from, nil, nil
	}
	to, err := ParseDate(strings.TrimSpace(toRaw))
	if err != nil {
		return time.Time{}, nil, apperr.Validation(op, apperr.FieldError{
			Msg: "To date is invalid", Param: "to", Location: "body",
		})
	}
	return from, &to, nil
}

// entryResult maps the outcome of an experience or education write.
func entryResult(op string, profile *models.Profile, err error, missingEntry string) (*models.Profile, error) {
	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.BadRequest(op, msgNoProfile)
	case errors.Is(err, repository.ErrEntryNotFound):
		return nil, apperr.NotFound(op, missingEntry)
	default:
		return nil, apperr.Internal(op, err)
	}
}
