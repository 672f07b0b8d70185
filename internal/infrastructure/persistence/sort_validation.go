package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

var CustomerSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"email":      true,
	"first_name": true,
	"last_name":  true,
	"status":     true,
}

var ProductSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"name":       true,
	"price":      true,
	"stock":      true,
	"status":     true,
}

var WarehouseSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"is_default": true,
}

var StockMovementSortFields = map[string]bool{
	"created_at": true,
	"type":       true,
	"quantity":   true,
}

var OrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total":        true,
}

var PaymentSortFields = map[string]bool{
	"created_at": true,
	"amount":     true,
	"status":     true,
	"paid_at":    true,
}

var ReviewSortFields = map[string]bool{
	"created_at": true,
	"rating":     true,
	"status":     true,
}

var RuleSortFields = map[string]bool{
	"created_at":  true,
	"name":        true,
	"trigger":     true,
	"run_count":   true,
	"last_run_at": true,
}
