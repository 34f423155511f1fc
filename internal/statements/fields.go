package statements

// Candidate label sets for the logical fields the ratio engine resolves.
// Vendors disagree on naming, so each field lists every label seen in the
// wild, in preference order. Matching is normalized (case and punctuation
// insensitive); keeping these as data lets the schema evolve without
// touching the lookup code.

var (
	FieldEquity = Field{
		Labels: []string{
			"Total Stockholder Equity",
			"Total Stockholders' Equity",
			"Stockholders Equity",
			"Total Equity",
			"Total Equity Gross Minority Interest",
		},
		Summary: func(s *SummaryInfo) Cell { return s.TotalStockholderEquity },
	}

	FieldTotalAssets = Field{
		Labels:  []string{"Total Assets"},
		Summary: func(s *SummaryInfo) Cell { return s.TotalAssets },
	}

	FieldCurrentAssets = Field{
		Labels:  []string{"Total Current Assets"},
		Summary: func(s *SummaryInfo) Cell { return s.TotalCurrentAssets },
	}

	FieldCurrentLiabilities = Field{
		Labels:  []string{"Total Current Liabilities"},
		Summary: func(s *SummaryInfo) Cell { return s.TotalCurrentLiabilities },
	}

	FieldInventory = Field{
		Labels:  []string{"Inventory", "Inventories"},
		Summary: func(s *SummaryInfo) Cell { return s.Inventory },
	}

	FieldCash = Field{
		Labels: []string{
			"Cash And Cash Equivalents",
			"Cash And Cash Equivalents, at Carrying Value",
			"Cash",
		},
		Summary: func(s *SummaryInfo) Cell { return s.Cash },
	}

	FieldShortTermInvestments = Field{
		Labels:  []string{"Short Term Investments", "Marketable Securities"},
		Summary: func(s *SummaryInfo) Cell { return s.ShortTermInvestments },
	}

	FieldReceivables = Field{
		Labels: []string{
			"Net Receivables",
			"Accounts Receivable",
			"Accounts Receivable Net Current",
		},
		Summary: func(s *SummaryInfo) Cell { return s.NetReceivables },
	}

	FieldShortTermDebt = Field{
		Labels: []string{
			"Short Long Term Debt",
			"Short-Term Debt",
			"Short Term Debt",
			"Current Debt",
		},
		Summary: func(s *SummaryInfo) Cell { return s.ShortTermDebt },
	}

	FieldLongTermDebt = Field{
		Labels: []string{
			"Long Term Debt",
			"Long-Term Debt",
			"Long Term Debt Noncurrent",
			"Long Term Debt And Capital Lease Obligation",
		},
		Summary: func(s *SummaryInfo) Cell { return s.LongTermDebt },
	}

	FieldNetIncome = Field{
		Labels: []string{
			"Net Income",
			"Net Income Common Stockholders",
			"Net Income Applicable To Common Shares",
		},
		Summary: func(s *SummaryInfo) Cell { return s.NetIncome },
	}

	FieldEBIT = Field{
		Labels: []string{"Ebit", "EBIT", "Operating Income"},
	}
)
