package ratios

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/credit-scorer/internal/statements"
)

func fullTickerData() *TickerData {
	balance := statements.NewTable([]string{"2023-12-31", "2022-12-31"})
	balance.AddRow("Total Stockholder Equity", []statements.Cell{statements.Num(500), statements.Num(400)})
	balance.AddRow("Total Assets", []statements.Cell{statements.Num(2000), statements.Num(1800)})
	balance.AddRow("Total Current Assets", []statements.Cell{statements.Num(800), statements.Num(760)})
	balance.AddRow("Total Current Liabilities", []statements.Cell{statements.Num(400), statements.Num(380)})
	balance.AddRow("Inventory", []statements.Cell{statements.Num(100), statements.Num(90)})
	balance.AddRow("Cash And Cash Equivalents", []statements.Cell{statements.Num(300), statements.Num(250)})
	balance.AddRow("Short Term Investments", []statements.Cell{statements.Num(50), statements.Num(40)})
	balance.AddRow("Net Receivables", []statements.Cell{statements.Num(150), statements.Num(140)})
	balance.AddRow("Short Long Term Debt", []statements.Cell{statements.Num(200), statements.Num(210)})
	balance.AddRow("Long Term Debt", []statements.Cell{statements.Num(600), statements.Num(620)})

	income := statements.NewTable([]string{"2023-12-31", "2022-12-31"})
	income.AddRow("Net Income", []statements.Cell{statements.Num(250), statements.Num(220)})
	income.AddRow("Ebit", []statements.Cell{statements.Num(300), statements.Num(280)})

	return &TickerData{
		AnnualBalance: balance,
		AnnualIncome:  income,
		Summary: &statements.SummaryInfo{
			TrailingPE: statements.Num(25.5),
		},
	}
}

func TestComputeFullData(t *testing.T) {
	result := NewEngine().Compute("TEST", fullTickerData())

	assert.Equal(t, "1.600000", result["Debt to Equity"]) // (200+600)/500
	assert.Equal(t, "2.000000", result["Current Ratio"])  // 800/400
	assert.Equal(t, "1.250000", result["Quick Ratio"])    // (300+50+150)/400
	assert.Equal(t, "0.555556", result["ROE"])            // 250/avg(500,400)
	assert.Equal(t, "0.131579", result["ROA"])            // 250/avg(2000,1800)
	assert.Equal(t, "0.198675", result["ROCE"])           // 300/avg(1600,1420)
	assert.Equal(t, "25.500000", result["Price to Earnings"])
}

func TestComputeOutputContract(t *testing.T) {
	// Every named ratio is present, and every value is either a six-decimal
	// float or the N/A marker; nothing else ever leaks out.
	for _, data := range []*TickerData{nil, {}, fullTickerData()} {
		result := NewEngine().Compute("TEST", data)
		require.Len(t, result, len(Names))
		for _, name := range Names {
			v, ok := result[name]
			require.True(t, ok, "missing ratio %s", name)
			if v == NotAvailable {
				continue
			}
			dot := strings.Index(v, ".")
			require.NotEqual(t, -1, dot, "ratio %s = %q", name, v)
			assert.Len(t, v[dot+1:], 6, "ratio %s = %q", name, v)
		}
	}
}

func TestComputeEmptyDataIsAllNotAvailable(t *testing.T) {
	result := NewEngine().Compute("TEST", &TickerData{})
	for _, name := range Names {
		assert.Equal(t, NotAvailable, result[name], name)
	}
}

func TestDebtToEquityFallsBackToSummaryDebt(t *testing.T) {
	balance := statements.NewTable([]string{"2023-12-31"})
	balance.AddRow("Total Stockholder Equity", []statements.Cell{statements.Num(500)})

	result := NewEngine().Compute("TEST", &TickerData{
		AnnualBalance: balance,
		Summary:       &statements.SummaryInfo{TotalDebt: statements.Num(750)},
	})
	assert.Equal(t, "1.500000", result["Debt to Equity"])
}

func TestDebtToEquityZeroDenominator(t *testing.T) {
	balance := statements.NewTable([]string{"2023-12-31"})
	balance.AddRow("Total Stockholder Equity", []statements.Cell{statements.Num(0)})
	balance.AddRow("Long Term Debt", []statements.Cell{statements.Num(600)})

	result := NewEngine().Compute("TEST", &TickerData{AnnualBalance: balance})
	assert.Equal(t, NotAvailable, result["Debt to Equity"])
}

func TestQuickRatioInventoryFallback(t *testing.T) {
	// No cash, investments or receivables rows: quick assets are estimated
	// as current assets minus inventory.
	balance := statements.NewTable([]string{"2023-12-31"})
	balance.AddRow("Total Current Assets", []statements.Cell{statements.Num(800)})
	balance.AddRow("Total Current Liabilities", []statements.Cell{statements.Num(400)})
	balance.AddRow("Inventory", []statements.Cell{statements.Num(100)})

	result := NewEngine().Compute("TEST", &TickerData{AnnualBalance: balance})
	assert.Equal(t, "1.750000", result["Quick Ratio"]) // (800-100)/400
}

func TestNetIncomeSumsRecentQuarters(t *testing.T) {
	// No annual income statement: net income is the sum of up to four most
	// recent quarters.
	balance := statements.NewTable([]string{"2024-12-31"})
	balance.AddRow("Total Stockholder Equity", []statements.Cell{statements.Num(1000)})

	income := statements.NewTable([]string{
		"2024-12-31", "2024-09-30", "2024-06-30", "2024-03-31", "2023-12-31",
	})
	income.AddRow("Net Income", []statements.Cell{
		statements.Num(50), statements.Num(40), statements.Num(30), statements.Num(20), statements.Num(999),
	})

	result := NewEngine().Compute("TEST", &TickerData{
		AnnualBalance:   balance,
		QuarterlyIncome: income,
	})
	assert.Equal(t, "0.140000", result["ROE"]) // (50+40+30+20)/1000
}

func TestReturnRatiosFallBackToPrecomputed(t *testing.T) {
	result := NewEngine().Compute("TEST", &TickerData{
		Summary: &statements.SummaryInfo{
			ReturnOnEquity: statements.Num(0.31),
			ReturnOnAssets: statements.Num(0.12),
		},
	})
	assert.Equal(t, "0.310000", result["ROE"])
	assert.Equal(t, "0.120000", result["ROA"])
}

func TestPriceToEarningsDerivedFromPrice(t *testing.T) {
	result := NewEngine().Compute("TEST", &TickerData{
		Summary: &statements.SummaryInfo{
			Price:       statements.Num(150),
			TrailingEPS: statements.Num(6),
		},
	})
	assert.Equal(t, "25.000000", result["Price to Earnings"])
}

func TestSafeDivide(t *testing.T) {
	q := safeDivide(statements.Num(10), statements.Num(4))
	assert.True(t, q.Valid)
	assert.Equal(t, 2.5, q.Value)

	assert.False(t, safeDivide(statements.Num(10), statements.Num(0)).Valid)
	assert.False(t, safeDivide(statements.Num(10), statements.Num(1e-13)).Valid)
	assert.False(t, safeDivide(statements.Cell{}, statements.Num(4)).Valid)
	assert.False(t, safeDivide(statements.Num(10), statements.Cell{}).Valid)
}
