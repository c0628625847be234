package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/shoplite/phone-shop-agent/shopdb"
)

const dateLayout = "2006-01-02"

// SearchInput is shared by search_phones and get_price_range.
type SearchInput struct {
	Query    string   `json:"query,omitempty" jsonschema:"phone name, brand, or feature to search for"`
	MinPrice *float64 `json:"min_price,omitempty" jsonschema:"minimum price filter"`
	MaxPrice *float64 `json:"max_price,omitempty" jsonschema:"maximum price filter"`
	Year     *int     `json:"year,omitempty" jsonschema:"release year filter"`
}

type PhoneNameInput struct {
	PhoneName string `json:"phone_name" jsonschema:"exact or partial phone model name"`
}

type OptionalPhoneNameInput struct {
	PhoneName string `json:"phone_name,omitempty" jsonschema:"phone model name; omit for all phones"`
}

type CompareInput struct {
	Phone1 string `json:"phone1" jsonschema:"first phone model name"`
	Phone2 string `json:"phone2" jsonschema:"second phone model name"`
}

type PriceRangeInput struct {
	MinPrice float64 `json:"min_price" jsonschema:"minimum price"`
	MaxPrice float64 `json:"max_price" jsonschema:"maximum price"`
}

type PhoneOutput struct {
	ID               int64    `json:"id"`
	ModelName        string   `json:"model_name"`
	Year             int      `json:"year"`
	ChipsetName      string   `json:"chipset_name"`
	RAMSize          string   `json:"ram_size"`
	StorageSize      string   `json:"storage_size"`
	DisplaySize      string   `json:"display_size"`
	BatteryCapacity  string   `json:"battery_capacity"`
	OperatingSystem  string   `json:"operating_system"`
	Price            float64  `json:"price"`
	CameraFeatures   []string `json:"camera_features"`
	ChargingFeatures []string `json:"charging_features"`
}

type OfferOutput struct {
	ID                 int64    `json:"id"`
	PhoneID            *int64   `json:"phone_id,omitempty"`
	ModelName          string   `json:"model_name,omitempty"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	DiscountAmount     *float64 `json:"discount_amount,omitempty"`
	OriginalPrice      *float64 `json:"original_price,omitempty"`
	OfferPrice         *float64 `json:"offer_price,omitempty"`
	StartDate          string   `json:"start_date,omitempty"`
	EndDate            string   `json:"end_date,omitempty"`
}

type InventoryOutput struct {
	ModelName        string  `json:"model_name"`
	Price            float64 `json:"price"`
	StockQuantity    int     `json:"stock_quantity"`
	ReservedQuantity int     `json:"reserved_quantity"`
	Available        int     `json:"available"`
}

type SearchOutput struct {
	Query   string        `json:"query"`
	Filters SearchInput   `json:"filters"`
	Results []PhoneOutput `json:"results"`
	Count   int           `json:"count"`
	Error   string        `json:"error,omitempty"`
}

type DetailsOutput struct {
	PhoneOutput
	StockQuantity    *int          `json:"stock_quantity,omitempty"`
	ReservedQuantity *int          `json:"reserved_quantity,omitempty"`
	ActiveOffers     []OfferOutput `json:"active_offers,omitempty"`
	Error            string        `json:"error,omitempty"`
}

type OffersOutput struct {
	PhoneName string        `json:"phone_name,omitempty"`
	Offers    []OfferOutput `json:"offers"`
	Count     int           `json:"count"`
	Error     string        `json:"error,omitempty"`
}

type CompareOutput struct {
	Comparison *ComparisonPair `json:"comparison,omitempty"`
	Summary    *CompareSummary `json:"summary,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type ComparisonPair struct {
	Phone1 DetailsOutput `json:"phone1"`
	Phone2 DetailsOutput `json:"phone2"`
}

type CompareSummary struct {
	PriceDifference float64 `json:"price_difference"`
	NewerPhone      string  `json:"newer_phone"`
	BetterValue     string  `json:"better_value"`
}

type InventoryListOutput struct {
	PhoneName string            `json:"phone_name,omitempty"`
	Inventory []InventoryOutput `json:"inventory"`
	Count     int               `json:"count"`
	Error     string            `json:"error,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_phones",
		Description: "Search phones by name, price range, or release year",
	}, s.handleSearchPhones)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_phone_details",
		Description: "Get complete details for a phone, including offers and stock",
	}, s.handleGetPhoneDetails)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_phone_offers",
		Description: "Get current offers for a phone, or all active offers",
	}, s.handleGetPhoneOffers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_phones",
		Description: "Compare specifications and value between two phones",
	}, s.handleComparePhones)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_inventory",
		Description: "Check stock availability for a phone, or the whole shop",
	}, s.handleCheckInventory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_price_range",
		Description: "List phones within a price range",
	}, s.handleGetPriceRange)
}

func (s *Server) handleSearchPhones(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	out := SearchOutput{
		Query:   input.Query,
		Filters: input,
		Results: []PhoneOutput{},
	}

	phones, err := s.store.SearchPhones(ctx, shopdb.SearchFilter{
		Query:    input.Query,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Year:     input.Year,
	})
	if err != nil {
		log.Error().Err(err).Str("query", input.Query).Msg("search_phones failed")
		out.Error = err.Error()
		return nil, out, nil
	}

	for _, p := range phones {
		out.Results = append(out.Results, phoneOutput(p))
	}
	out.Count = len(out.Results)
	return nil, out, nil
}

func (s *Server) handleGetPhoneDetails(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PhoneNameInput,
) (*mcp.CallToolResult, DetailsOutput, error) {
	out, err := s.phoneDetails(ctx, input.PhoneName)
	if err != nil {
		log.Error().Err(err).Str("phone", input.PhoneName).Msg("get_phone_details failed")
		return nil, DetailsOutput{Error: err.Error()}, nil
	}
	return nil, out, nil
}

func (s *Server) phoneDetails(ctx context.Context, name string) (DetailsOutput, error) {
	phone, err := s.store.PhoneByName(ctx, name)
	if err != nil {
		if errors.Is(err, shopdb.ErrPhoneNotFound) {
			return DetailsOutput{}, fmt.Errorf("phone %q not found", name)
		}
		return DetailsOutput{}, err
	}

	out := DetailsOutput{PhoneOutput: phoneOutput(phone)}

	if phone.Inventory != nil {
		stock := phone.Inventory.StockQuantity
		reserved := phone.Inventory.ReservedQuantity
		out.StockQuantity = &stock
		out.ReservedQuantity = &reserved
	}

	for _, offer := range s.store.ActivePhoneOffers(phone) {
		out.ActiveOffers = append(out.ActiveOffers, offerOutput(offer, phone.ModelName))
	}

	return out, nil
}

func (s *Server) handleGetPhoneOffers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OptionalPhoneNameInput,
) (*mcp.CallToolResult, OffersOutput, error) {
	out := OffersOutput{
		PhoneName: input.PhoneName,
		Offers:    []OfferOutput{},
	}

	offers, err := s.store.ActiveOffers(ctx, input.PhoneName)
	if err != nil {
		log.Error().Err(err).Str("phone", input.PhoneName).Msg("get_phone_offers failed")
		out.Error = err.Error()
		return nil, out, nil
	}

	for _, offer := range offers {
		model := ""
		if offer.Phone != nil {
			model = offer.Phone.ModelName
		}
		out.Offers = append(out.Offers, offerOutput(offer, model))
	}
	out.Count = len(out.Offers)
	return nil, out, nil
}

func (s *Server) handleComparePhones(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	first, err := s.phoneDetails(ctx, input.Phone1)
	if err != nil {
		return nil, CompareOutput{Error: err.Error()}, nil
	}
	second, err := s.phoneDetails(ctx, input.Phone2)
	if err != nil {
		return nil, CompareOutput{Error: err.Error()}, nil
	}

	newer := second.ModelName
	if first.Year > second.Year {
		newer = first.ModelName
	}
	betterValue := second.ModelName
	if first.Price < second.Price {
		betterValue = first.ModelName
	}

	return nil, CompareOutput{
		Comparison: &ComparisonPair{Phone1: first, Phone2: second},
		Summary: &CompareSummary{
			PriceDifference: second.Price - first.Price,
			NewerPhone:      newer,
			BetterValue:     betterValue,
		},
	}, nil
}

func (s *Server) handleCheckInventory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OptionalPhoneNameInput,
) (*mcp.CallToolResult, InventoryListOutput, error) {
	out := InventoryListOutput{
		PhoneName: input.PhoneName,
		Inventory: []InventoryOutput{},
	}

	records, err := s.store.Inventory(ctx, input.PhoneName)
	if err != nil {
		log.Error().Err(err).Str("phone", input.PhoneName).Msg("check_inventory failed")
		out.Error = err.Error()
		return nil, out, nil
	}

	for _, rec := range records {
		item := InventoryOutput{
			StockQuantity:    rec.StockQuantity,
			ReservedQuantity: rec.ReservedQuantity,
			Available:        rec.Available(),
		}
		if rec.Phone != nil {
			item.ModelName = rec.Phone.ModelName
			item.Price = rec.Phone.Price
		}
		out.Inventory = append(out.Inventory, item)
	}
	out.Count = len(out.Inventory)
	return nil, out, nil
}

func (s *Server) handleGetPriceRange(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input PriceRangeInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return s.handleSearchPhones(ctx, req, SearchInput{
		MinPrice: &input.MinPrice,
		MaxPrice: &input.MaxPrice,
	})
}

func phoneOutput(p *shopdb.Phone) PhoneOutput {
	out := PhoneOutput{
		ID:               p.ID,
		ModelName:        p.ModelName,
		Year:             p.Year,
		ChipsetName:      p.ChipsetName,
		RAMSize:          p.RAMSize,
		StorageSize:      p.StorageSize,
		DisplaySize:      p.DisplaySize,
		BatteryCapacity:  p.BatteryCapacity,
		OperatingSystem:  p.OperatingSystem,
		Price:            p.Price,
		CameraFeatures:   []string{},
		ChargingFeatures: []string{},
	}
	for _, f := range p.CameraFeatures {
		out.CameraFeatures = append(out.CameraFeatures, f.Feature)
	}
	for _, f := range p.ChargingFeatures {
		out.ChargingFeatures = append(out.ChargingFeatures, f.Feature)
	}
	return out
}

func offerOutput(o *shopdb.Offer, modelName string) OfferOutput {
	out := OfferOutput{
		ID:                 o.ID,
		PhoneID:            o.PhoneID,
		ModelName:          modelName,
		Title:              o.Title,
		Description:        o.Description,
		DiscountPercentage: o.DiscountPercentage,
		DiscountAmount:     o.DiscountAmount,
		OriginalPrice:      o.OriginalPrice,
		OfferPrice:         o.OfferPrice,
	}
	out.StartDate = formatDate(o.StartDate)
	out.EndDate = formatDate(o.EndDate)
	return out
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
