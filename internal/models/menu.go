package models

import "fmt"

// MenuItem represents a dish on a restaurant's menu. The engine treats menu
// items as read-only snapshots owned by the restaurant that supplied them.
type MenuItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Veg       bool    `json:"veg"`
	Available *bool   `json:"available,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// IsAvailable reports whether the item can be ordered. Items with no
// explicit availability are treated as available.
func (mi *MenuItem) IsAvailable() bool {
	return mi.Available == nil || *mi.Available
}

// ValidateMenuItem validates a menu item snapshot
func ValidateMenuItem(item *MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("menu item name is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("menu item price must not be negative")
	}
	return nil
}
