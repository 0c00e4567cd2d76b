package handler

import (
	"encoding/json"
	"time"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is returned when a request succeeds without a resource body.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

// ingredientRequest accepts quantity as a JSON number or a numeric string.
type ingredientRequest struct {
	Name     string      `json:"name"     validate:"required"`
	Quantity json.Number `json:"quantity" validate:"required" swaggertype:"number"`
	Unit     string      `json:"unit"     validate:"required,unit"`
}

type createPizzaRequest struct {
	Name        string              `json:"name"        validate:"required"`
	Ingredients []ingredientRequest `json:"ingredients" validate:"dive"`
}

type ingredientResponse struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type pizzaResponse struct {
	ID          string               `json:"_id"`
	Name        string               `json:"name"`
	Ingredients []ingredientResponse `json:"ingredients"`
	Show        bool                 `json:"show"`
	CreatedBy   string               `json:"createdBy"`
	CreatedAt   time.Time            `json:"createdAt"`
}
