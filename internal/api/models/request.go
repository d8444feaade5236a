package models

// RankRequest represents a request to rank the properties of one sales CSV
type RankRequest struct {
	SalesFile    string `form:"sales_file" binding:"required"`
	MinSaleCount int    `form:"min_sale_count,default=3"`
	MinSpanDays  int64  `form:"min_span_days,default=7300"`
	Limit        int    `form:"limit"` // 0 = all
}

// AnalyseRequest represents the request body for running the full pipeline
type AnalyseRequest struct {
	SalesFile string      `json:"sales_file" binding:"required"`
	Regions   []RegionRef `json:"regions" binding:"required,min=1,dive"`

	MinSaleCount *int   `json:"min_sale_count,omitempty"`
	MinSpanDays  *int64 `json:"min_span_days,omitempty"`
	TopN         *int   `json:"top_n,omitempty"`

	PriceTable string `json:"price_table" binding:"required"`
	DiffTable  string `json:"diff_table" binding:"required"`
}

// RegionRef names one region and its reference CSV
type RegionRef struct {
	Name          string `json:"name" binding:"required"`
	ReferenceFile string `json:"reference_file" binding:"required"`
}
