package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/shoplite/phone-shop-agent/shopdb"
)

const uriScheme = "sqlite://"

// registerResources exposes whole-table dumps for clients that want raw data
// instead of the query tools.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "phones",
		Name:        "phones",
		Description: "All phones in the catalog",
		MIMEType:    "application/json",
	}, s.handlePhonesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "offers",
		Name:        "offers",
		Description: "All currently active offers",
		MIMEType:    "application/json",
	}, s.handleOffersResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "inventory",
		Name:        "inventory",
		Description: "Inventory status for every phone",
		MIMEType:    "application/json",
	}, s.handleInventoryResource)
}

func (s *Server) handlePhonesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	phones, err := s.store.SearchPhones(ctx, shopdb.SearchFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing phones: %w", err)
	}

	outputs := make([]PhoneOutput, 0, len(phones))
	for _, p := range phones {
		outputs = append(outputs, phoneOutput(p))
	}
	return jsonResource(req.Params.URI, outputs)
}

func (s *Server) handleOffersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	offers, err := s.store.ActiveOffers(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}

	outputs := make([]OfferOutput, 0, len(offers))
	for _, offer := range offers {
		model := ""
		if offer.Phone != nil {
			model = offer.Phone.ModelName
		}
		outputs = append(outputs, offerOutput(offer, model))
	}
	return jsonResource(req.Params.URI, outputs)
}

func (s *Server) handleInventoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.store.Inventory(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}

	outputs := make([]InventoryOutput, 0, len(records))
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
		outputs = append(outputs, item)
	}
	return jsonResource(req.Params.URI, outputs)
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
