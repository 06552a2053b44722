package handler

import (
	"errors"
	"net/http"

	"medical-tourism-concierge/internal/delivery/http/middleware"
	"medical-tourism-concierge/internal/usecase"
	"medical-tourism-concierge/pkg/response"
)

var favoriteFilterKeys = []string{"city", "country"}

type FavoriteHandler struct {
	favoriteUsecase usecase.FavoriteUsecase
}

func NewFavoriteHandler(favoriteUsecase usecase.FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUsecase: favoriteUsecase,
	}
}

func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	q := listQuery(r, favoriteFilterKeys...)
	hospitals, total, err := h.favoriteUsecase.List(r.Context(), userID, q)
	if err != nil {
		writeListError(w, err, "Failed to get favorites")
		return
	}

	writeList(w, "Favorites retrieved successfully", hospitals, q, total)
}

// AddFavorite is idempotent.
// @Summary Favorite a hospital
// @Tags Favorites
// @Security BearerAuth
// @Param hospitalId path string true "Hospital ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /me/favorites/{hospitalId} [put]
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	hospitalID, ok := pathUUID(w, r, "hospitalId", "hospital")
	if !ok {
		return
	}

	if err := h.favoriteUsecase.Add(r.Context(), userID, hospitalID); err != nil {
		if errors.Is(err, usecase.ErrHospitalNotFound) {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to add favorite")
		return
	}

	response.Success(w, http.StatusOK, "Hospital added to favorites", nil)
}

func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	hospitalID, ok := pathUUID(w, r, "hospitalId", "hospital")
	if !ok {
		return
	}

	if err := h.favoriteUsecase.Remove(r.Context(), userID, hospitalID); err != nil {
		response.InternalServerError(w, "Failed to remove favorite")
		return
	}

	response.Success(w, http.StatusOK, "Hospital removed from favorites", nil)
}
