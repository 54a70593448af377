package config

// DefaultBalanceSheets is an illustrative book ($M): the current sheet equals the end snapshot.
func DefaultBalanceSheets() BalanceSheets {
	return BalanceSheets{
		Current: book(120, 80, 40, 130, 40, 20),
		Start:   book(100, 70, 30, 110, 35, 15),
		End:     book(120, 80, 40, 130, 40, 20),
	}
}

func book(loans, bonds, cash, deposits, shortBorrow, corpBonds float64) LedgerConfig {
	return LedgerConfig{
		Assets: []PositionConfig{
			{Type: "Loans", Balance: loans, Tenor: "5Y", BusinessUnit: "Corporate"},
			{Type: "Bonds", Balance: bonds, Tenor: "10Y", BusinessUnit: "Corporate"},
			{Type: "Cash", Balance: cash, Tenor: "3M", BusinessUnit: "Corporate"},
		},
		Liabilities: []PositionConfig{
			{Type: "Deposits", Balance: deposits, Tenor: "1Y", BusinessUnit: "Retail"},
			{Type: "Short Borrow", Balance: shortBorrow, Tenor: "3M", BusinessUnit: "Corporate"},
			{Type: "Corp Bonds", Balance: corpBonds, Tenor: "3M", BusinessUnit: "Corporate"},
		},
	}
}
