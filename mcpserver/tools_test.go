package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shoplite/phone-shop-agent/shopdb"
)

var testSeeds = []shopdb.PhoneSeed{
	{
		ModelName:        "Samsung Galaxy S24",
		Year:             2024,
		ChipsetName:      "Snapdragon 8 Gen 3",
		RAMSize:          "8GB",
		StorageSize:      "256GB",
		DisplaySize:      "6.2 inches",
		CameraFeatures:   []string{"50MP wide", "12MP ultrawide"},
		ChargingFeatures: "25W wired, 15W wireless",
		BatteryCapacity:  "4000mAh",
		OperatingSystem:  "Android 14",
		Price:            859.99,
	},
	{
		ModelName:        "Google Pixel 8",
		Year:             2023,
		ChipsetName:      "Tensor G3",
		RAMSize:          "8GB",
		StorageSize:      "128GB",
		DisplaySize:      "6.2 inches",
		CameraFeatures:   []string{"50MP wide"},
		ChargingFeatures: "27W wired",
		BatteryCapacity:  "4575mAh",
		OperatingSystem:  "Android 14",
		Price:            699.99,
	},
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := shopdb.Open(filepath.Join(t.TempDir(), "shop_test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := shopdb.CreateSchema(ctx, db); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	if err := shopdb.Seed(ctx, db, testSeeds); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	return NewServer(shopdb.NewStore(db))
}

func TestHandleSearchPhones(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleSearchPhones(context.Background(), nil, SearchInput{Query: "galaxy"})
	if err != nil {
		t.Fatalf("handleSearchPhones() error = %v", err)
	}
	if out.Error != "" {
		t.Fatalf("handleSearchPhones() payload error = %q", out.Error)
	}
	if out.Count != 1 {
		t.Fatalf("handleSearchPhones() count = %d, want 1", out.Count)
	}
	if out.Results[0].ModelName != "Samsung Galaxy S24" {
		t.Errorf("handleSearchPhones() model = %q, want Samsung Galaxy S24", out.Results[0].ModelName)
	}
	if len(out.Results[0].CameraFeatures) != 2 {
		t.Errorf("handleSearchPhones() camera features = %d, want 2", len(out.Results[0].CameraFeatures))
	}
	if out.Query != "galaxy" {
		t.Errorf("handleSearchPhones() echoed query = %q, want galaxy", out.Query)
	}
}

func TestHandleSearchPhonesEmptyResult(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleSearchPhones(context.Background(), nil, SearchInput{Query: "nokia"})
	if err != nil {
		t.Fatalf("handleSearchPhones() error = %v", err)
	}
	if out.Count != 0 {
		t.Errorf("handleSearchPhones() count = %d, want 0", out.Count)
	}
	if out.Results == nil {
		t.Error("handleSearchPhones() results must be an empty slice, not nil")
	}
}

func TestHandleGetPhoneDetails(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleGetPhoneDetails(context.Background(), nil, PhoneNameInput{PhoneName: "Pixel"})
	if err != nil {
		t.Fatalf("handleGetPhoneDetails() error = %v", err)
	}
	if out.Error != "" {
		t.Fatalf("handleGetPhoneDetails() payload error = %q", out.Error)
	}
	if out.ModelName != "Google Pixel 8" {
		t.Errorf("handleGetPhoneDetails() model = %q, want Google Pixel 8", out.ModelName)
	}
	if out.StockQuantity == nil || *out.StockQuantity != 50 {
		t.Errorf("handleGetPhoneDetails() stock = %v, want 50", out.StockQuantity)
	}
	// The demo seed discounts the cheapest phone, which is the Pixel here.
	if len(out.ActiveOffers) != 1 {
		t.Fatalf("handleGetPhoneDetails() active offers = %d, want 1", len(out.ActiveOffers))
	}
	if out.ActiveOffers[0].Title != "Launch Discount" {
		t.Errorf("handleGetPhoneDetails() offer title = %q, want Launch Discount", out.ActiveOffers[0].Title)
	}
}

func TestHandleGetPhoneDetailsNotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleGetPhoneDetails(context.Background(), nil, PhoneNameInput{PhoneName: "Nokia 3310"})
	if err != nil {
		t.Fatalf("handleGetPhoneDetails() error = %v, want in-band payload error", err)
	}
	if !strings.Contains(out.Error, "not found") {
		t.Errorf("handleGetPhoneDetails() payload error = %q, want mention of not found", out.Error)
	}
}

func TestHandleGetPhoneOffers(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleGetPhoneOffers(context.Background(), nil, OptionalPhoneNameInput{})
	if err != nil {
		t.Fatalf("handleGetPhoneOffers() error = %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("handleGetPhoneOffers() count = %d, want 2 demo offers", out.Count)
	}

	_, out, err = srv.handleGetPhoneOffers(context.Background(), nil, OptionalPhoneNameInput{PhoneName: "Galaxy"})
	if err != nil {
		t.Fatalf("handleGetPhoneOffers() error = %v", err)
	}
	if out.Count != 0 {
		t.Errorf("handleGetPhoneOffers(Galaxy) count = %d, want 0", out.Count)
	}
}

func TestHandleComparePhones(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleComparePhones(context.Background(), nil, CompareInput{
		Phone1: "Galaxy S24",
		Phone2: "Pixel 8",
	})
	if err != nil {
		t.Fatalf("handleComparePhones() error = %v", err)
	}
	if out.Error != "" {
		t.Fatalf("handleComparePhones() payload error = %q", out.Error)
	}
	if out.Summary == nil || out.Comparison == nil {
		t.Fatal("handleComparePhones() missing summary or comparison")
	}
	if out.Summary.NewerPhone != "Samsung Galaxy S24" {
		t.Errorf("NewerPhone = %q, want Samsung Galaxy S24", out.Summary.NewerPhone)
	}
	if out.Summary.BetterValue != "Google Pixel 8" {
		t.Errorf("BetterValue = %q, want Google Pixel 8", out.Summary.BetterValue)
	}
	// Difference is second minus first.
	if got, want := out.Summary.PriceDifference, 699.99-859.99; got != want {
		t.Errorf("PriceDifference = %.2f, want %.2f", got, want)
	}
}

func TestHandleComparePhonesUnknownPhone(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleComparePhones(context.Background(), nil, CompareInput{
		Phone1: "Galaxy S24",
		Phone2: "Nokia 3310",
	})
	if err != nil {
		t.Fatalf("handleComparePhones() error = %v, want in-band payload error", err)
	}
	if !strings.Contains(out.Error, "not found") {
		t.Errorf("handleComparePhones() payload error = %q, want mention of not found", out.Error)
	}
	if out.Comparison != nil {
		t.Error("handleComparePhones() returned a comparison alongside an error")
	}
}

func TestHandleCheckInventory(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleCheckInventory(context.Background(), nil, OptionalPhoneNameInput{})
	if err != nil {
		t.Fatalf("handleCheckInventory() error = %v", err)
	}
	if out.Count != len(testSeeds) {
		t.Fatalf("handleCheckInventory() count = %d, want %d", out.Count, len(testSeeds))
	}
	for _, item := range out.Inventory {
		if item.Available != item.StockQuantity-item.ReservedQuantity {
			t.Errorf("inventory %q available = %d, want %d", item.ModelName, item.Available, item.StockQuantity-item.ReservedQuantity)
		}
		if item.ModelName == "" {
			t.Error("inventory record missing phone name")
		}
	}
}

func TestHandleGetPriceRange(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, out, err := srv.handleGetPriceRange(context.Background(), nil, PriceRangeInput{
		MinPrice: 600,
		MaxPrice: 800,
	})
	if err != nil {
		t.Fatalf("handleGetPriceRange() error = %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("handleGetPriceRange() count = %d, want 1", out.Count)
	}
	if out.Results[0].ModelName != "Google Pixel 8" {
		t.Errorf("handleGetPriceRange() model = %q, want Google Pixel 8", out.Results[0].ModelName)
	}
}

func TestPhonesResource(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	res, err := srv.handlePhonesResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uriScheme + "phones"},
	})
	if err != nil {
		t.Fatalf("handlePhonesResource() error = %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("handlePhonesResource() contents = %d, want 1", len(res.Contents))
	}

	var phones []PhoneOutput
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &phones); err != nil {
		t.Fatalf("resource payload is not JSON: %v", err)
	}
	if len(phones) != len(testSeeds) {
		t.Errorf("phones resource listed %d phones, want %d", len(phones), len(testSeeds))
	}
}
