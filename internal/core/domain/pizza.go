package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// QuantityType is the unit an ingredient quantity is measured in.
type QuantityType string

const (
	UnitMilliliter QuantityType = "ml"
	UnitLiter      QuantityType = "l"
	UnitGram       QuantityType = "g"
	UnitKilogram   QuantityType = "kg"
	UnitTeaspoon   QuantityType = "tsp"
	UnitTablespoon QuantityType = "tbsp"
	UnitCup        QuantityType = "cup"
	UnitOunce      QuantityType = "oz"
	UnitPound      QuantityType = "lb"
	UnitPinch      QuantityType = "pinch"
	UnitSlice      QuantityType = "slice"
	UnitPiece      QuantityType = "piece"
)

// QuantityTypes lists every recognised unit, in display order.
var QuantityTypes = []QuantityType{
	UnitMilliliter, UnitLiter,
	UnitGram, UnitKilogram,
	UnitTeaspoon, UnitTablespoon, UnitCup,
	UnitOunce, UnitPound,
	UnitPinch, UnitSlice, UnitPiece,
}

// Valid reports whether q is a member of the unit enumeration.
func (q QuantityType) Valid() bool {
	for _, u := range QuantityTypes {
		if u == q {
			return true
		}
	}
	return false
}

// PageSize is the fixed number of pizzas returned per list page.
const PageSize = 20

var (
	ErrPizzaNotFound = errors.New("pizza not found")
	ErrPizzaExists   = errors.New("a pizza with this name already exists")
	ErrValidation    = errors.New("please input valid fields")
	ErrRateLimited   = errors.New("rate limit exceeded")
)

// Ingredient is embedded in a Pizza; it has no identity of its own.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     QuantityType
}

// Pizza is a named recipe owned by a single user. Show=false marks it as
// soft-deleted; documents are never physically removed.
type Pizza struct {
	ID          string
	Name        string
	Ingredients []Ingredient
	Show        bool
	CreatedBy   string
	CreatedAt   time.Time
}

// Validate checks the field-level invariants of a pizza before it is stored.
// The returned error wraps ErrValidation.
func (p *Pizza) Validate() error {
	if len(p.Name) < 1 {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	for i, ing := range p.Ingredients {
		if err := ing.validate(); err != nil {
			return fmt.Errorf("%w: ingredients[%d]: %s", ErrValidation, i, err)
		}
	}
	return nil
}

func (i Ingredient) validate() error {
	switch {
	case i.Name == "":
		return errors.New("name is required")
	case math.IsNaN(i.Quantity) || math.IsInf(i.Quantity, 0):
		return errors.New("quantity must be numeric")
	case i.Quantity <= 0:
		return errors.New("quantity must be greater than 0")
	case !i.Unit.Valid():
		return fmt.Errorf("invalid unit: %s", i.Unit)
	}
	return nil
}

// Hide flips the pizza to invisible. It reports false when the pizza was
// already hidden, in which case nothing changes.
func (p *Pizza) Hide() bool {
	if !p.Show {
		return false
	}
	p.Show = false
	return true
}
