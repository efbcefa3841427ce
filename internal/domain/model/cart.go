package model

import (
	"fmt"

	"bos-storefront/internal/domain"
)

type LineKind string

const (
	LineProduct   LineKind = "product"
	LinePromotion LineKind = "promotion"
)

// CartLine references a product or a promotion by id.
type CartLine struct {
	Kind     LineKind `json:"kind"`
	ItemRef  string   `json:"itemRef"`
	Quantity int      `json:"quantity"`
}

func (l CartLine) Validate() error {
	if l.Kind != LineProduct && l.Kind != LinePromotion {
		return fmt.Errorf("%w: unknown line kind %q", domain.ErrInvalidArgument, l.Kind)
	}
	if l.ItemRef == "" {
		return fmt.Errorf("%w: line item reference is required", domain.ErrInvalidArgument)
	}
	if l.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidArgument)
	}
	return nil
}

// Cart is an ordered list of lines, unique by (Kind, ItemRef).
type Cart struct {
	lines []CartLine
}

// NewCart validates lines and merges duplicates in first-seen order.
func NewCart(lines ...CartLine) (*Cart, error) {
	c := &Cart{}
	for _, l := range lines {
		if err := c.Add(l.Kind, l.ItemRef, l.Quantity); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a line or bumps the quantity of an existing one.
func (c *Cart) Add(kind LineKind, ref string, qty int) error {
	line := CartLine{Kind: kind, ItemRef: ref, Quantity: qty}
	if err := line.Validate(); err != nil {
		return err
	}
	if i := c.index(kind, ref); i >= 0 {
		c.lines[i].Quantity += qty
		return nil
	}
	c.lines = append(c.lines, line)
	return nil
}

// UpdateQty applies delta and drops the line when it reaches zero or below.
func (c *Cart) UpdateQty(kind LineKind, ref string, delta int) {
	i := c.index(kind, ref)
	if i < 0 {
		return
	}
	c.lines[i].Quantity += delta
	if c.lines[i].Quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Lines returns a copy.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) index(kind LineKind, ref string) int {
	for i, l := range c.lines {
		if l.Kind == kind && l.ItemRef == ref {
			return i
		}
	}
	return -1
}
