// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/repository"
	"github.com/driprats/storefront-admin/internal/utils"
)

var ErrInvalidStatus = errors.New("invalid status filter")

// OrderScanner reads one page of the orders table.
type OrderScanner interface {
	ScanOrders(ctx context.Context, status models.OrderStatus, limit int, startKey map[string]*dynamodb.AttributeValue) (*repository.OrderPage, error)
}

type ListOrdersParams struct {
	Status  string
	Search  string
	Limit   int
	LastKey string
}

type OrderListResult struct {
	Orders  []models.Order `json:"orders"`
	NextKey *string        `json:"nextKey"`
	HasMore bool           `json:"hasMore"`
}

type OrderService struct {
	scanner OrderScanner
}

func NewOrderService(scanner OrderScanner) *OrderService {
	return &OrderService{scanner: scanner}
}

// ListOrders returns one page. The search term filters only the scanned page,
// so a page can come back short or empty while HasMore is still true.
func (s *OrderService) ListOrders(ctx context.Context, params ListOrdersParams) (*OrderListResult, error) {
	status, filtered, ok := models.ParseOrderStatus(params.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	if !filtered {
		status = ""
	}

	startKey, err := utils.DecodeCursor(params.LastKey)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = utils.DefaultPageLimit
	}
	if limit > utils.MaxPageLimit {
		limit = utils.MaxPageLimit
	}

	page, err := s.scanner.ScanOrders(ctx, status, limit, startKey)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(params.Search)
	orders := make([]models.Order, 0, len(page.Orders))
	for _, order := range page.Orders {
		if order.MatchesSearch(term) {
			orders = append(orders, order)
		}
	}

	result := &OrderListResult{Orders: orders}
	if page.LastEvaluatedKey != nil {
		next, err := utils.EncodeCursor(page.LastEvaluatedKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encode pagination key: %w", err)
		}
		result.NextKey = &next
		result.HasMore = true
	}
	return result, nil
}
