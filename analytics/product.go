package analytics

import (
	"sort"

	"shoplens/cleaner"
	"shoplens/util"
)

// ProductPerformance is the per-product aggregate over transaction lines,
// ordered descending by revenue.
type ProductPerformance struct {
	ProductID           string  `json:"product_id"`
	ProductName         string  `json:"product_name"`
	Category            string  `json:"category"`
	UnitsSold           int     `json:"units_sold"`
	Revenue             float64 `json:"revenue"`
	NumOrders           int     `json:"num_orders"`
	UnitPrice           float64 `json:"unit_price"`
	RevenueShare        float64 `json:"revenue_share"`
	AvgQuantityPerOrder float64 `json:"avg_quantity_per_order"`
}

type productAccumulator struct {
	name      string
	category  string
	unitPrice float64
	units     int
	revenue   float64
	orders    map[string]struct{}
}

// ProductPerformanceAnalysis groups transaction lines by product. Empty
// input yields an empty table.
func ProductPerformanceAnalysis(transactions []cleaner.Transaction) []ProductPerformance {
	if len(transactions) == 0 {
		return []ProductPerformance{}
	}

	byProduct := make(map[string]*productAccumulator)
	for _, tx := range transactions {
		acc, ok := byProduct[tx.ProductID]
		if !ok {
			acc = &productAccumulator{
				name:      tx.ProductName,
				category:  tx.Category,
				unitPrice: tx.UnitPrice,
				orders:    make(map[string]struct{}),
			}
			byProduct[tx.ProductID] = acc
		}
		acc.units += tx.Quantity
		acc.revenue += tx.TotalAmount
		acc.orders[tx.TransactionID] = struct{}{}
	}

	var grandTotal float64
	rows := make([]ProductPerformance, 0, len(byProduct))
	for id, acc := range byProduct {
		grandTotal += acc.revenue
		rows = append(rows, ProductPerformance{
			ProductID:           id,
			ProductName:         acc.name,
			Category:            acc.category,
			UnitsSold:           acc.units,
			Revenue:             acc.revenue,
			NumOrders:           len(acc.orders),
			UnitPrice:           acc.unitPrice,
			AvgQuantityPerOrder: util.SafeDivide(float64(acc.units), float64(len(acc.orders))),
		})
	}

	for i := range rows {
		rows[i].RevenueShare = util.SafeDivide(rows[i].Revenue, grandTotal)
	}

	sort.Slice(rows, func(a, b int) bool {
		if rows[a].Revenue != rows[b].Revenue {
			return rows[a].Revenue > rows[b].Revenue
		}
		return rows[a].ProductID < rows[b].ProductID
	})
	return rows
}
