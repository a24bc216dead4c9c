package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"esanspool/internal/delivery/http/middleware"
	"esanspool/internal/delivery/http/response"
	"esanspool/internal/domain/pool"
	"esanspool/internal/usecase"
)

// EssenceHandler holds dependencies for catalog-related handlers.
type EssenceHandler struct {
	uc usecase.CatalogUsecase
}

// NewEssenceHandler is the constructor for EssenceHandler, injected by Fx.
func NewEssenceHandler(uc usecase.CatalogUsecase) *EssenceHandler {
	return &EssenceHandler{uc: uc}
}

// List returns the catalog filtered by search term, category and status.
func (h *EssenceHandler) List(c echo.Context) error {
	query := pool.Query{
		Term:     c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Status:   pool.StatusFilter(c.QueryParam("status")),
	}

	views, err := h.uc.ListEssences(c.Request().Context(), query)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, views, "")
}

// Get returns one essence by id.
func (h *EssenceHandler) Get(c echo.Context) error {
	view, err := h.uc.GetEssence(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "")
}

// Categories returns the distinct catalog categories for the filter bar.
func (h *EssenceHandler) Categories(c echo.Context) error {
	categories, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "")
}

// Create adds a catalog item. Admin only.
func (h *EssenceHandler) Create(c echo.Context) error {
	var input *usecase.CreateEssenceInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid essence input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	view, err := h.uc.CreateEssence(c.Request().Context(), middleware.ActorFromContext(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, view, "Essence created")
}

// Update edits a catalog item. Admin only.
func (h *EssenceHandler) Update(c echo.Context) error {
	var input *usecase.UpdateEssenceInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid essence input")
	}

	if err := h.uc.UpdateEssence(c.Request().Context(), middleware.ActorFromContext(c), c.Param("id"), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Essence updated")
}

// Delete removes an essence together with every demand referencing it. Admin only.
func (h *EssenceHandler) Delete(c echo.Context) error {
	if err := h.uc.DeleteEssence(c.Request().Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Essence deleted")
}

// QR streams a printable PNG QR code linking to the essence detail page.
func (h *EssenceHandler) QR(c echo.Context) error {
	png, err := h.uc.EssenceQR(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// Watch streams the live catalog as server-sent events.
func (h *EssenceHandler) Watch(c echo.Context) error {
	ctx := c.Request().Context()

	ch, err := h.uc.WatchCatalog(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return streamSSE(c, func() (any, bool) {
		views, ok := <-ch
		return views, ok
	})
}

// streamSSE writes each payload produced by next as one server-sent event
// until the producer closes or the client disconnects.
func streamSSE(c echo.Context, next func() (any, bool)) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		payload, ok := next()
		if !ok {
			return nil
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return errors.WithStack(err)
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", data); err != nil {
			// Client went away.
			return nil
		}
		resp.Flush()
	}
}
