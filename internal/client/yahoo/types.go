package yahoo

import "time"

// Metadata is the normalized company profile.
type Metadata struct {
	Ticker  string
	Name    string
	Summary string
	Website string
}

// Bar is one daily OHLC bar with a UTC timestamp.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
}

type autocompleteResponse struct {
	Quotes []struct {
		Symbol string `json:"symbol"`
	} `json:"quotes"`
}

type summaryResponse struct {
	Symbol    string `json:"symbol"`
	QuoteType struct {
		ShortName string `json:"shortName"`
		Exchange  string `json:"exchange"`
	} `json:"quoteType"`
	SummaryProfile struct {
		LongBusinessSummary string `json:"longBusinessSummary"`
		Website             string `json:"website"`
	} `json:"summaryProfile"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

// Quote arrays use pointers because the provider emits JSON nulls for
// missing sessions.
type chartQuote struct {
	Open  []*float64 `json:"open"`
	High  []*float64 `json:"high"`
	Low   []*float64 `json:"low"`
	Close []*float64 `json:"close"`
}
