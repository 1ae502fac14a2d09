package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
	storex "github.com/cartuplabs/cartup-agent/store"
)

// Recommendations is the caller-facing shape of a recommendation lookup.
type Recommendations struct {
	UserID          string   `json:"user_id"`
	Recommendations []string `json:"recommendations"`
}

// ProductInfo is the caller-facing shape of a product lookup.
type ProductInfo struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"in_stock"`
}

func executeGetRecommendations(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	userID, ok := idArg(args, "user_id")
	if !ok {
		return missingArg(tool, "user_id"), nil
	}

	recs, err := st.RecommendationsForUser(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("recommendation lookup failed")
		recs = nil
	}

	session.UserID = userID
	return contractx.ToolResult{
		Tool: tool,
		Result: Recommendations{
			UserID:          userID,
			Recommendations: recs,
		},
	}, nil
}

func executeGetProductDetails(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	productID, ok := idArg(args, "product_id")
	if !ok {
		return missingArg(tool, "product_id"), nil
	}

	product, err := st.GetProduct(ctx, productID)
	if err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("Product %s not found", productID)), nil
	}

	session.CurrentProductID = productID
	return contractx.ToolResult{
		Tool: tool,
		Result: ProductInfo{
			ProductID:   productID,
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Category:    product.Category,
			InStock:     product.InStock,
		},
	}, nil
}

func executeAddToWishlist(ctx context.Context, st *storex.Store, session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	userID, ok := idArg(args, "user_id")
	if !ok {
		return missingArg(tool, "user_id"), nil
	}
	productID, ok := idArg(args, "product_id")
	if !ok {
		return missingArg(tool, "product_id"), nil
	}

	product, err := st.GetProduct(ctx, productID)
	if err != nil {
		return notFoundResult(tool, err, fmt.Sprintf("Product %s not found", productID)), nil
	}

	if err := st.AddToWishlist(ctx, userID, productID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("wishlist insert failed")
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("Failed to add product %s to wishlist for user %s", productID, userID),
		}, nil
	}

	session.UserID = userID
	session.CurrentProductID = productID
	return contractx.ToolResult{
		Tool:   tool,
		Result: fmt.Sprintf("Product %s (%s) added to wishlist for user %s", productID, product.Name, userID),
	}, nil
}
