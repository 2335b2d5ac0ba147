package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"devconnector/internal/service"
)

// SkillList accepts either "go, sql" or ["go", "sql"].
type SkillList string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = SkillList(strings.Join(list, ","))
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SkillList(raw)
	return nil
}

type ProfileRequest struct {
	Company        string    `json:"company"`
	Website        string    `json:"website"`
	Location       string    `json:"location"`
	Bio            string    `json:"bio"`
	Status         string    `json:"status" validate:"required,notblank" msg:"status is required"`
	GitHubUsername string    `json:"githubusername"`
	Skills         SkillList `json:"skills" validate:"required,skills" msg:"skills are required"`
	YouTube        string    `json:"youtube"`
	Twitter        string    `json:"twitter"`
	Facebook       string    `json:"facebook"`
	LinkedIn       string    `json:"linkedin"`
	Instagram      string    `json:"instagram"`
}

type ExperienceRequest struct {
	Title       string `json:"title" validate:"required,notblank" msg:"Title is required"`
	Company     string `json:"company" validate:"required,notblank" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required,notblank" msg:"From date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationRequest struct {
	School       string `json:"school" validate:"required,notblank" msg:"School is required"`
	Degree       string `json:"degree" validate:"required,notblank" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required,notblank" msg:"Field of study is required"`
	From         string `json:"from" validate:"required,notblank" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (h *Handlers) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.ProfileService.Me(r.Context(), userID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

// UpsertProfile creates the caller's profile or updates the provided fields.
func (h *Handlers) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := h.bind(r, &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	profile, err := h.ProfileService.Upsert(r.Context(), userID, service.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GitHubUsername: req.GitHubUsername,
		Skills:         string(req.Skills),
		YouTube:        req.YouTube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		LinkedIn:       req.LinkedIn,
		Instagram:      req.Instagram,
	})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.ProfileService.List(r.Context())
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, profiles, http.StatusOK)
}

func (h *Handlers) GetProfileByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.ProfileService.GetByUserID(r.Context(), mux.Vars(r)["user_id"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

// DeleteAccount removes the caller's posts, profile and user.
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteAccount(r.Context(), userID); err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, MessageResponse{Msg: "User Deleted"}, http.StatusOK)
}

func (h *Handlers) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ExperienceRequest
	if err := h.bind(r, &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	profile, err := h.ProfileService.AddExperience(r.Context(), userID, service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.ProfileService.DeleteExperience(r.Context(), userID, mux.Vars(r)["exp_id"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req EducationRequest
	if err := h.bind(r, &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	profile, err := h.ProfileService.AddEducation(r.Context(), userID, service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.ProfileService.DeleteEducation(r.Context(), userID, mux.Vars(r)["edu_id"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}
