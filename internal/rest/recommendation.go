package rest

import (
	"context"
	"errors"
	"myBookShelf/business/recommendation"
	"myBookShelf/domain"
	"net/http"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
	}

	RecommendationService interface {
		RecommendBooks(ctx context.Context, userID uint64, topN int) []domain.BookRecord
		SimilarBooks(ctx context.Context, bookID uint64, topN int) []domain.BookRecord
		TrainModel(ctx context.Context, force bool) (recommendation.TrainResult, error)
		ReloadModel(ctx context.Context) (bool, error)
	}

	TopNQuery struct {
		TopN int `query:"top_n" validate:"omitempty,min=1,max=100"`
	}

	TrainQuery struct {
		Force bool
	}

	ResponseError struct {
		Message string `json:"message"`
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// GET /api/v1/recommendations?top_n=10
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q TopNQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	books := h.service.RecommendBooks(c.Request().Context(), userID, q.TopN)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(books))
}

// GET /api/v1/books/:id/similar?top_n=6
func (h *RecommendationHandler) Similar(c echo.Context) error {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid book id"})
	}

	var q TopNQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	books := h.service.SimilarBooks(c.Request().Context(), bookID, q.TopN)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(books))
}

// POST /api/v1/admin/recommendations/train?force=true
func (h *RecommendationHandler) Train(c echo.Context) error {
	var q TrainQuery
	if err := echo.QueryParamsBinder(c).Bool("force", &q.Force).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid force flag"})
	}

	res, err := h.service.TrainModel(c.Request().Context(), q.Force)
	if err != nil {
		if errors.Is(err, recommendation.ErrNotTrainable) {
			return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/admin/recommendations/reload
func (h *RecommendationHandler) Reload(c echo.Context) error {
	loaded, err := h.service.ReloadModel(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if !loaded {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "no stored model"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("model reloaded"))
}
