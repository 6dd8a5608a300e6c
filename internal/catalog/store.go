package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"maitred/internal/models"
)

// Restaurant is the persisted form of a catalog restaurant
type Restaurant struct {
	gorm.Model
	Name             string
	Lat              *float64
	Lng              *float64
	DeliveryRadiusKm *float64
	Rating           *float64
	FeedbackCount    int
	Cuisines         string     // comma-separated tags
	Items            []MenuItem `gorm:"foreignkey:RestaurantID"`
}

// MenuItem is the persisted form of a menu item
type MenuItem struct {
	gorm.Model
	RestaurantID uint
	Name         string
	Price        float64
	Veg          bool
	Available    *bool
	Category     string
}

// Store is a gorm-backed catalog source
type Store struct {
	db *gorm.DB
}

// Open connects to the catalog database and migrates the schema. dialect is
// "sqlite3" or "postgres".
func Open(dialect, dsn string) (*Store, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := db.AutoMigrate(&Restaurant{}, &MenuItem{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// ListRestaurants implements Source with a full snapshot per call
func (s *Store) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var rows []Restaurant
	if err := s.db.Preload("Items").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	out := make([]models.Restaurant, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toSnapshot())
	}
	return out, nil
}

func (r *Restaurant) toSnapshot() models.Restaurant {
	snap := models.Restaurant{
		ID:               strconv.FormatUint(uint64(r.ID), 10),
		Name:             r.Name,
		DeliveryRadiusKm: r.DeliveryRadiusKm,
		Rating:           r.Rating,
		FeedbackCount:    r.FeedbackCount,
	}
	if r.Lat != nil && r.Lng != nil {
		snap.Location = &models.Coordinate{Lat: *r.Lat, Lng: *r.Lng}
	}
	if r.Cuisines != "" {
		for _, c := range strings.Split(r.Cuisines, ",") {
			if c = strings.TrimSpace(c); c != "" {
				snap.Cuisines = append(snap.Cuisines, c)
			}
		}
	}
	for j := range r.Items {
		item := &r.Items[j]
		snap.Menu = append(snap.Menu, models.MenuItem{
			ID:        strconv.FormatUint(uint64(item.ID), 10),
			Name:      item.Name,
			Price:     item.Price,
			Veg:       item.Veg,
			Available: item.Available,
			Category:  item.Category,
		})
	}
	return snap
}

// Seed inserts the demo catalog when the table is empty
func (s *Store) Seed() error {
	var count int
	if err := s.db.Model(&Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, r := range demoRestaurants() {
		if err := s.db.Create(&r).Error; err != nil {
			return fmt.Errorf("failed to seed restaurant %q: %w", r.Name, err)
		}
	}
	return nil
}

func floatPtr(f float64) *float64 { return &f }

func demoRestaurants() []Restaurant {
	return []Restaurant{
		{
			Name:             "Udupi Palace",
			Lat:              floatPtr(12.9716),
			Lng:              floatPtr(77.5946),
			DeliveryRadiusKm: floatPtr(8),
			Rating:           floatPtr(4.5),
			FeedbackCount:    412,
			Cuisines:         "south indian",
			Items: []MenuItem{
				{Name: "Masala Dosa", Price: 90, Veg: true, Category: "main"},
				{Name: "Idli Sambar", Price: 60, Veg: true, Category: "main"},
				{Name: "Filter Coffee", Price: 30, Veg: true, Category: "beverage"},
			},
		},
		{
			Name:             "Pizza Roma",
			Lat:              floatPtr(12.9780),
			Lng:              floatPtr(77.6000),
			DeliveryRadiusKm: floatPtr(6),
			Rating:           floatPtr(4.2),
			FeedbackCount:    188,
			Cuisines:         "italian",
			Items: []MenuItem{
				{Name: "Margherita Pizza", Price: 250, Veg: true, Category: "main"},
				{Name: "Chicken Pepperoni Pizza", Price: 340, Veg: false, Category: "main"},
				{Name: "Garlic Bread", Price: 120, Veg: true, Category: "side"},
			},
		},
		{
			Name:             "Biryani House",
			Lat:              floatPtr(12.9650),
			Lng:              floatPtr(77.5870),
			DeliveryRadiusKm: floatPtr(10),
			Rating:           floatPtr(4.7),
			FeedbackCount:    530,
			Cuisines:         "hyderabadi,north indian",
			Items: []MenuItem{
				{Name: "Chicken Biryani", Price: 220, Veg: false, Category: "main"},
				{Name: "Veg Biryani", Price: 180, Veg: true, Category: "main"},
				{Name: "Mutton Keema", Price: 260, Veg: false, Category: "main"},
			},
		},
	}
}
