package entity

type ToolName string

const (
	ToolGetStockPrice          ToolName = "get_stock_price"
	ToolGetCompanyFundamentals ToolName = "get_company_fundamentals"
	ToolGetPriceHistory        ToolName = "get_price_history"
	ToolGetStockNews           ToolName = "get_stock_news"
	ToolCompareStocks          ToolName = "compare_stocks"
)

func (t ToolName) String() string {
	return string(t)
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]any
}
