package catalog

import "github.com/wonny/aistocks/internal/contracts"

// Default returns the built-in catalog of tracked AI-related stocks.
// Each call returns a fresh copy.
func Default() *contracts.Catalog {
	return &contracts.Catalog{
		Instruments: []contracts.Instrument{
			{Name: "Apple (AAPL)", Color: "#FF9500"},
			{Name: "C3.ai (AI)", Color: "#FF2D55"},
			{Name: "AMD (AMD)", Color: "#5856D6"},
			{Name: "Salesforce (CRM)", Color: "#007AFF"},
			{Name: "Google (GOOGL)", Color: "#4CD964"},
			{Name: "IBM (IBM)", Color: "#5AC8FA"},
			{Name: "Intel (INTC)", Color: "#FFCC00"},
			{Name: "Meta (META)", Color: "#FF3B30"},
			{Name: "Microsoft (MSFT)", Color: "#34C759"},
			{Name: "NVIDIA (NVDA)", Color: "#AF52DE"},
			{Name: "Oracle (ORCL)", Color: "#FF9500"},
			{Name: "Palantir (PLTR)", Color: "#5856D6"},
			{Name: "Tesla (TSLA)", Color: "#FF375F"},
			{Name: "Amazon (AMZN)", Color: "#FFD60A"},
			{Name: "Snowflake (SNOW)", Color: "#30D158"},
			{Name: "UiPath (PATH)", Color: "#0A84FF"},
		},
		Categories: []contracts.Category{
			{Name: "Chip Makers", Members: []string{"AMD (AMD)", "Intel (INTC)", "NVIDIA (NVDA)"}},
			{Name: "Tech Giants", Members: []string{"Apple (AAPL)", "Google (GOOGL)", "Microsoft (MSFT)", "Meta (META)", "Amazon (AMZN)"}},
			{Name: "AI Pure Plays", Members: []string{"C3.ai (AI)", "Palantir (PLTR)", "UiPath (PATH)"}},
			{Name: "Enterprise Tech", Members: []string{"Salesforce (CRM)", "IBM (IBM)", "Oracle (ORCL)", "Snowflake (SNOW)"}},
		},
	}
}
