package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// GitHubRepos relays the user's latest public repositories unchanged.
func (h *Handlers) GitHubRepos(w http.ResponseWriter, r *http.Request) {
	body, err := h.GitHubService.Repos(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
