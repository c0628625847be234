package shopdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var ErrPhoneNotFound = errors.New("phone not found")

// Store exposes the fixed query set used by the MCP tool server.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

func NewStore(db *bun.DB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

type SearchFilter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Year     *int
}

// SearchPhones returns phones matching the filter, cheapest first, with
// feature lists populated. Name matching is substring and case-insensitive.
func (s *Store) SearchPhones(ctx context.Context, f SearchFilter) ([]*Phone, error) {
	var phones []*Phone

	q := s.db.NewSelect().
		Model(&phones).
		Relation("CameraFeatures").
		Relation("ChargingFeatures").
		Order("p.price ASC")

	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		q = q.Where("p.model_name LIKE ? OR p.chipset_name LIKE ? OR p.operating_system LIKE ?",
			pattern, pattern, pattern)
	}
	if f.MinPrice != nil {
		q = q.Where("p.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("p.price <= ?", *f.MaxPrice)
	}
	if f.Year != nil {
		q = q.Where("p.year = ?", *f.Year)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("search phones: %w", err)
	}
	return phones, nil
}

// PhoneByName returns the first phone whose model name contains name,
// with features, inventory, and offers populated.
func (s *Store) PhoneByName(ctx context.Context, name string) (*Phone, error) {
	phone := new(Phone)

	err := s.db.NewSelect().
		Model(phone).
		Relation("CameraFeatures").
		Relation("ChargingFeatures").
		Relation("Inventory").
		Relation("Offers").
		Where("p.model_name LIKE ?", "%"+name+"%").
		Order("p.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrPhoneNotFound, name)
		}
		return nil, fmt.Errorf("load phone %q: %w", name, err)
	}

	return phone, nil
}

// ActivePhoneOffers returns the currently valid offers attached to the phone.
func (s *Store) ActivePhoneOffers(p *Phone) []*Offer {
	now := s.now()
	var active []*Offer
	for _, offer := range p.Offers {
		if offer.ActiveAt(now) {
			active = append(active, offer)
		}
	}
	return active
}

// ActiveOffers returns currently valid offers, newest first. With a phone
// name, only offers for matching phones are returned; otherwise shop-wide
// offers are included too.
func (s *Store) ActiveOffers(ctx context.Context, phoneName string) ([]*Offer, error) {
	var offers []*Offer

	q := s.db.NewSelect().
		Model(&offers).
		Relation("Phone").
		Where("o.is_active = 1").
		Order("o.created_at DESC")

	if phoneName != "" {
		q = q.Where("phone.model_name LIKE ?", "%"+phoneName+"%")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("load offers: %w", err)
	}

	now := s.now()
	valid := offers[:0]
	for _, offer := range offers {
		if offer.ActiveAt(now) {
			valid = append(valid, offer)
		}
	}
	return valid, nil
}

// Inventory returns stock records joined with phone name and price,
// ordered by model name. An empty phoneName returns the whole inventory.
func (s *Store) Inventory(ctx context.Context, phoneName string) ([]*InventoryRecord, error) {
	var records []*InventoryRecord

	q := s.db.NewSelect().
		Model(&records).
		Relation("Phone").
		Order("phone.model_name ASC")

	if phoneName != "" {
		q = q.Where("phone.model_name LIKE ?", "%"+phoneName+"%")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	return records, nil
}

// CountPhones reports the catalog size; used by setup verification.
func (s *Store) CountPhones(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*Phone)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count phones: %w", err)
	}
	return count, nil
}
