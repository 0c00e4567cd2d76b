package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pizzabook/pizza-api/internal/api/metrics"
	"github.com/pizzabook/pizza-api/internal/core/domain"
	"github.com/pizzabook/pizza-api/internal/core/ports"
)

// PizzaHandler handles HTTP requests for pizza operations. Errors are
// returned to echo and rendered by the central error handler.
type PizzaHandler struct {
	service ports.PizzaService
	users   ports.UserDirectory
}

func NewPizzaHandler(service ports.PizzaService, users ports.UserDirectory) *PizzaHandler {
	return &PizzaHandler{service: service, users: users}
}

// Create handles POST /pizzas.
//
// @Summary      Create a pizza
// @Description  Stores a new visible pizza owned by the signed-in user.
// @Tags         pizzas
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        body  body      createPizzaRequest  true  "Pizza name and ingredients"
// @Success      201   {object}  pizzaResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /pizzas [post]
// @Router       /pizzas/create [post]
func (h *PizzaHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	input, err := decodeCreate(c)
	if err != nil {
		// An unknown caller is reported before a malformed body.
		if _, lookupErr := h.users.Lookup(ctx, callerEmail(c)); lookupErr != nil {
			return lookupErr
		}
		return err
	}

	pizza, err := h.service.CreatePizza(ctx, input)
	if err != nil {
		return err
	}

	metrics.PizzasCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toPizzaResponse(pizza))
}

// List handles GET /pizzas.
//
// @Summary      List pizzas
// @Description  Returns one page of the caller's visible pizzas, 20 per page in creation order.
// @Tags         pizzas
// @Produce      json
// @Security     SessionToken
// @Param        page  query     int  false  "1-based page number"  default(1)
// @Success      200   {array}   pizzaResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /pizzas [get]
func (h *PizzaHandler) List(c echo.Context) error {
	pizzas, err := h.service.ListPizzas(c.Request().Context(), ports.ListPizzasInput{
		CallerEmail: callerEmail(c),
		Page:        parsePage(c.QueryParam("page")),
	})
	if err != nil {
		return err
	}

	metrics.ListPageSize.Observe(float64(len(pizzas)))
	return c.JSON(http.StatusOK, toPizzaResponses(pizzas))
}

// Hide handles PUT /pizzas/delete/:id.
//
// @Summary      Soft-delete a pizza
// @Description  Hides one of the caller's pizzas. Hiding an already hidden pizza succeeds without changes.
// @Tags         pizzas
// @Produce      json
// @Security     SessionToken
// @Param        id   path      string  true  "Pizza id"
// @Success      200  {object}  pizzaResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /pizzas/delete/{id} [put]
func (h *PizzaHandler) Hide(c echo.Context) error {
	result, err := h.service.HidePizza(c.Request().Context(), ports.HidePizzaInput{
		CallerEmail: callerEmail(c),
		PizzaID:     c.Param("id"),
	})
	if err != nil {
		return err
	}

	if result.AlreadyHidden {
		return c.JSON(http.StatusOK, messageResponse{Message: "pizza is already hidden"})
	}

	metrics.PizzasHiddenTotal.Inc()
	return c.JSON(http.StatusOK, toPizzaResponse(result.Pizza))
}

func decodeCreate(c echo.Context) (ports.CreatePizzaInput, error) {
	var req createPizzaRequest
	if err := c.Bind(&req); err != nil {
		return ports.CreatePizzaInput{}, fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return ports.CreatePizzaInput{}, err
	}
	return toCreateInput(req, callerEmail(c))
}

// parsePage reads the page query parameter; anything that is not a positive
// integer means the first page.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
