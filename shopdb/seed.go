package shopdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

const defaultStockQuantity = 50

// PhoneSeed mirrors one entry of the JSON catalog file.
type PhoneSeed struct {
	ModelName        string   `json:"model_name"`
	Year             int      `json:"year"`
	ChipsetName      string   `json:"chipset_name"`
	RAMSize          string   `json:"ram_size"`
	StorageSize      string   `json:"storage_size"`
	DisplaySize      string   `json:"display_size"`
	CameraFeatures   []string `json:"camera_features"`
	ChargingFeatures string   `json:"charging_features"`
	BatteryCapacity  string   `json:"battery_capacity"`
	OperatingSystem  string   `json:"operating_system"`
	Price            float64  `json:"price"`
}

// SeedFromFile loads the JSON catalog and upserts every phone, replacing
// feature lists and resetting stock. Re-running it is safe.
func SeedFromFile(ctx context.Context, db *bun.DB, catalogPath string) error {
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	var seeds []PhoneSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	return Seed(ctx, db, seeds)
}

// Seed upserts phones, their feature rows, and default inventory. Demo
// offers are created once, only when the offers table is empty.
func Seed(ctx context.Context, db *bun.DB, seeds []PhoneSeed) error {
	for _, seed := range seeds {
		if err := seedPhone(ctx, db, seed); err != nil {
			return fmt.Errorf("seed %q: %w", seed.ModelName, err)
		}
	}

	if err := seedDemoOffers(ctx, db); err != nil {
		return err
	}

	log.Info().Int("phones", len(seeds)).Msg("catalog seeded")
	return nil
}

func seedPhone(ctx context.Context, db *bun.DB, seed PhoneSeed) error {
	phone := &Phone{
		ModelName:       seed.ModelName,
		Year:            seed.Year,
		ChipsetName:     seed.ChipsetName,
		RAMSize:         seed.RAMSize,
		StorageSize:     seed.StorageSize,
		DisplaySize:     seed.DisplaySize,
		BatteryCapacity: seed.BatteryCapacity,
		OperatingSystem: seed.OperatingSystem,
		Price:           seed.Price,
	}

	if _, err := db.NewInsert().
		Model(phone).
		On("CONFLICT (model_name) DO UPDATE").
		Set("year = EXCLUDED.year").
		Set("chipset_name = EXCLUDED.chipset_name").
		Set("ram_size = EXCLUDED.ram_size").
		Set("storage_size = EXCLUDED.storage_size").
		Set("display_size = EXCLUDED.display_size").
		Set("battery_capacity = EXCLUDED.battery_capacity").
		Set("operating_system = EXCLUDED.operating_system").
		Set("price = EXCLUDED.price").
		Exec(ctx); err != nil {
		return fmt.Errorf("upsert phone: %w", err)
	}

	// The conflict path does not report the row id, so look it up.
	stored := new(Phone)
	if err := db.NewSelect().
		Model(stored).
		Column("id").
		Where("model_name = ?", seed.ModelName).
		Scan(ctx); err != nil {
		return fmt.Errorf("resolve phone id: %w", err)
	}

	if _, err := db.NewDelete().
		Model((*CameraFeature)(nil)).
		Where("phone_id = ?", stored.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("clear camera features: %w", err)
	}
	if _, err := db.NewDelete().
		Model((*ChargingFeature)(nil)).
		Where("phone_id = ?", stored.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("clear charging features: %w", err)
	}

	if len(seed.CameraFeatures) > 0 {
		features := make([]*CameraFeature, 0, len(seed.CameraFeatures))
		for _, f := range seed.CameraFeatures {
			features = append(features, &CameraFeature{PhoneID: stored.ID, Feature: strings.TrimSpace(f)})
		}
		if _, err := db.NewInsert().Model(&features).Exec(ctx); err != nil {
			return fmt.Errorf("insert camera features: %w", err)
		}
	}

	if seed.ChargingFeatures != "" {
		parts := strings.Split(seed.ChargingFeatures, ",")
		features := make([]*ChargingFeature, 0, len(parts))
		for _, f := range parts {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			features = append(features, &ChargingFeature{PhoneID: stored.ID, Feature: f})
		}
		if len(features) > 0 {
			if _, err := db.NewInsert().Model(&features).Exec(ctx); err != nil {
				return fmt.Errorf("insert charging features: %w", err)
			}
		}
	}

	inventory := &InventoryRecord{
		PhoneID:       stored.ID,
		StockQuantity: defaultStockQuantity,
	}
	if _, err := db.NewInsert().
		Model(inventory).
		On("CONFLICT (phone_id) DO UPDATE").
		Set("stock_quantity = EXCLUDED.stock_quantity").
		Exec(ctx); err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}

	return nil
}

// seedDemoOffers creates a launch discount on the cheapest phone and one
// shop-wide promotion, mirroring the demo data the shop opens with.
func seedDemoOffers(ctx context.Context, db *bun.DB) error {
	count, err := db.NewSelect().Model((*Offer)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count offers: %w", err)
	}
	if count > 0 {
		return nil
	}

	cheapest := new(Phone)
	err = db.NewSelect().
		Model(cheapest).
		Order("price ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("load cheapest phone: %w", err)
	}

	now := time.Now().UTC()
	end := now.AddDate(0, 1, 0)
	tenPercent := 10.0
	offerPrice := cheapest.Price * 0.9

	offers := []*Offer{
		{
			PhoneID:            &cheapest.ID,
			Title:              "Launch Discount",
			Description:        fmt.Sprintf("10%% off the %s for one month", cheapest.ModelName),
			DiscountPercentage: &tenPercent,
			OriginalPrice:      &cheapest.Price,
			OfferPrice:         &offerPrice,
			StartDate:          &now,
			EndDate:            &end,
			IsActive:           true,
		},
		{
			Title:       "Free Screen Protector",
			Description: "Free screen protector with any phone purchase",
			IsActive:    true,
		},
	}

	if _, err := db.NewInsert().Model(&offers).Exec(ctx); err != nil {
		return fmt.Errorf("insert demo offers: %w", err)
	}

	log.Info().Int("offers", len(offers)).Msg("demo offers created")
	return nil
}
