package statements

// SummaryInfo is the typed view of a provider's summary payload (price,
// market data and assorted precomputed ratios), resolved once at ingestion.
// Every numeric field is optional; absent values stay invalid cells.
type SummaryInfo struct {
	Name string

	Price       Cell
	MarketCap   Cell
	TrailingPE  Cell
	TrailingEPS Cell

	ReturnOnEquity Cell
	ReturnOnAssets Cell

	TotalDebt     Cell
	ShortTermDebt Cell
	LongTermDebt  Cell

	TotalStockholderEquity  Cell
	TotalAssets             Cell
	TotalCurrentAssets      Cell
	TotalCurrentLiabilities Cell

	Cash                 Cell
	ShortTermInvestments Cell
	NetReceivables       Cell
	Inventory            Cell

	NetIncome Cell
}
