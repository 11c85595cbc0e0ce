package sources

var defaultNameSources = []NameSource{
	{
		Name:  "yahoo-search",
		URL:   "https://query2.finance.yahoo.com/v1/finance/search?q={symbol}&quotesCount=1&newsCount=0",
		Paths: []string{"$.quotes[0].longname", "$.quotes[0].shortname"},
	},
	{
		Name:  "yahoo-chart",
		URL:   "https://query1.finance.yahoo.com/v8/finance/chart/{symbol}?range=1d&interval=1d",
		Paths: []string{"$.chart.result[0].meta.longName", "$.chart.result[0].meta.shortName"},
	},
	{
		Name:  "nasdaq",
		URL:   "https://api.nasdaq.com/api/quote/{symbol}/info?assetclass=stocks",
		Paths: []string{"$.data.companyName"},
	},
}

var defaultSymbolLogos = []string{
	"https://financialmodelingprep.com/image-stock/{symbol}.png",
	"https://assets.parqet.com/logos/symbol/{symbol}?format=png",
	"https://eodhd.com/img/logos/US/{symbol}.png",
}

var defaultDomainLogos = []string{
	"https://logo.clearbit.com/{domain}",
	"https://www.google.com/s2/favicons?domain={domain}&sz=128",
}

var defaultScreener = Screener{
	URL:  "https://query1.finance.yahoo.com/v1/finance/screener/predefined/saved?scrIds=day_gainers&count=50",
	Path: "$.finance.result[0].quotes[*].symbol",
}

const defaultChart = "https://query1.finance.yahoo.com/v8/finance/chart/{symbol}?range={range}&interval={interval}"

// defaultWatchlist spreads across sectors so a failed screener still yields
// a meaningful board.
var defaultWatchlist = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK.B", "V", "JNJ",
	"WMT", "JPM", "MA", "PG", "UNH", "HD", "DIS", "BAC", "ADBE", "NFLX",
	"NKE", "CMCSA", "PFE", "T", "INTC", "CSCO", "XOM", "CVX", "ABBV", "COST",
	"AVGO", "MRK", "PEP", "TMO", "ACN", "ABT", "DHR", "VZ", "ADP", "WFC",
	"LIN", "BMY", "PM", "NEE", "RTX", "TXN", "HON", "QCOM", "AMGN", "SPGI",
	"LOW",
}

var defaultNames = map[string]string{
	"AAPL":  "Apple",
	"MSFT":  "Microsoft",
	"GOOGL": "Alphabet",
	"AMZN":  "Amazon",
	"NVDA":  "NVIDIA",
	"META":  "Meta Platforms",
	"TSLA":  "Tesla",
	"BRK.B": "Berkshire Hathaway",
	"V":     "Visa",
	"JNJ":   "Johnson & Johnson",
	"WMT":   "Walmart",
	"JPM":   "JPMorgan Chase",
	"MA":    "Mastercard",
	"PG":    "Procter & Gamble",
	"UNH":   "UnitedHealth Group",
	"HD":    "Home Depot",
	"DIS":   "Walt Disney",
	"BAC":   "Bank of America",
	"ADBE":  "Adobe",
	"NFLX":  "Netflix",
	"NKE":   "Nike",
	"CMCSA": "Comcast",
	"PFE":   "Pfizer",
	"T":     "AT&T",
	"INTC":  "Intel",
	"CSCO":  "Cisco Systems",
	"XOM":   "Exxon Mobil",
	"CVX":   "Chevron",
	"ABBV":  "AbbVie",
	"COST":  "Costco Wholesale",
	"AVGO":  "Broadcom",
	"MRK":   "Merck",
	"PEP":   "PepsiCo",
	"TMO":   "Thermo Fisher Scientific",
	"ACN":   "Accenture",
	"ABT":   "Abbott Laboratories",
	"DHR":   "Danaher",
	"VZ":    "Verizon",
	"ADP":   "Automatic Data Processing",
	"WFC":   "Wells Fargo",
	"LIN":   "Linde",
	"BMY":   "Bristol-Myers Squibb",
	"PM":    "Philip Morris International",
	"NEE":   "NextEra Energy",
	"RTX":   "RTX",
	"TXN":   "Texas Instruments",
	"HON":   "Honeywell",
	"QCOM":  "Qualcomm",
	"AMGN":  "Amgen",
	"SPGI":  "S&P Global",
	"LOW":   "Lowe's",
}

// defaultDomains covers symbols whose guessed domain is wrong.
var defaultDomains = map[string]string{
	"GOOGL": "abc.xyz",
	"META":  "meta.com",
	"BRK.B": "berkshirehathaway.com",
	"JNJ":   "jnj.com",
	"JPM":   "jpmorganchase.com",
	"PG":    "pg.com",
	"UNH":   "unitedhealthgroup.com",
	"HD":    "homedepot.com",
	"DIS":   "disney.com",
	"BAC":   "bankofamerica.com",
	"T":     "att.com",
	"XOM":   "exxonmobil.com",
	"TMO":   "thermofisher.com",
	"ABT":   "abbott.com",
	"ADP":   "adp.com",
	"BMY":   "bms.com",
	"PM":    "pmi.com",
	"NEE":   "nexteraenergy.com",
	"RTX":   "rtx.com",
	"TXN":   "ti.com",
	"SPGI":  "spglobal.com",
	"LOW":   "lowes.com",
	"VZ":    "verizon.com",
	"WFC":   "wellsfargo.com",
}

var defaultPrices = map[string]Fallback{
	"AAPL":  {Price: 229.87, Change: 0.84, MarketCap: 3.49e12},
	"MSFT":  {Price: 415.49, Change: -0.31, MarketCap: 3.09e12},
	"GOOGL": {Price: 165.39, Change: 1.12, MarketCap: 2.04e12},
	"AMZN":  {Price: 186.51, Change: 0.47, MarketCap: 1.96e12},
	"NVDA":  {Price: 121.40, Change: 2.35, MarketCap: 2.98e12},
	"META":  {Price: 563.33, Change: 0.95, MarketCap: 1.42e12},
	"TSLA":  {Price: 248.50, Change: -1.73, MarketCap: 7.94e11},
	"BRK.B": {Price: 461.78, Change: 0.12, MarketCap: 9.96e11},
	"V":     {Price: 278.21, Change: 0.26, MarketCap: 5.38e11},
	"JNJ":   {Price: 161.61, Change: -0.42, MarketCap: 3.89e11},
	"WMT":   {Price: 80.54, Change: 0.61, MarketCap: 6.47e11},
	"JPM":   {Price: 211.07, Change: 1.03, MarketCap: 5.98e11},
	"MA":    {Price: 494.91, Change: 0.33, MarketCap: 4.57e11},
	"PG":    {Price: 173.07, Change: -0.18, MarketCap: 4.07e11},
	"UNH":   {Price: 585.15, Change: -0.66, MarketCap: 5.39e11},
	"HD":    {Price: 405.27, Change: 0.58, MarketCap: 4.02e11},
	"DIS":   {Price: 94.96, Change: 0.22, MarketCap: 1.72e11},
	"BAC":   {Price: 39.68, Change: 0.89, MarketCap: 3.08e11},
	"NFLX":  {Price: 707.35, Change: 1.41, MarketCap: 3.03e11},
	"XOM":   {Price: 118.54, Change: -0.94, MarketCap: 5.21e11},
	"CVX":   {Price: 146.28, Change: -0.71, MarketCap: 2.67e11},
	"COST":  {Price: 889.25, Change: 0.15, MarketCap: 3.94e11},
	"AVGO":  {Price: 172.47, Change: 1.88, MarketCap: 8.05e11},
	"INTC":  {Price: 22.77, Change: -2.04, MarketCap: 9.75e10},
}
