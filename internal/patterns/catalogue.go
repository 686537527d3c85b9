package patterns

import "github.com/ledgerprobe/ledgerprobe/internal/validate"

// Category names of the built-in catalogue.
const (
	IBAN           = "iban"
	SWIFT          = "swift"
	RoutingNumber  = "routing_number"
	AccountNumber  = "account_number"
	USDAmount      = "usd_amount"
	EURAmount      = "eur_amount"
	GBPAmount      = "gbp_amount"
	GenericAmount  = "generic_amount"
	DateISO        = "date_iso"
	DateUS         = "date_us"
	DateEU         = "date_eu"
	TransactionRef = "transaction_ref"
	WireRef        = "wire_ref"
	BankName       = "bank_name"
	CountryCode    = "country_code"
	SHA256         = "sha256"
	MD5            = "md5"
	APIKey         = "api_key"
	JSONLike       = "json_like"
	XMLTag         = "xml_tag"
)

// Pattern is one named extractor. Exactly one of Expr or Find is set.
type Pattern struct {
	Name string
	Expr string
	// Find returns non-overlapping [start, end) byte spans.
	Find func(data []byte) [][]int
	// Verify, when set, marks each match verified or not. It never drops a match.
	Verify func(decoded string) bool
}

// Catalogue is an ordered list of patterns.
type Catalogue []Pattern

// DefaultCatalogue returns the built-in banking, amount, date, reference
// and identifier patterns in report order.
func DefaultCatalogue() Catalogue {
	var cat Catalogue
	cat = append(cat, banking()...)
	cat = append(cat, amounts()...)
	cat = append(cat, dates()...)
	cat = append(cat, references()...)
	cat = append(cat, identifiers()...)
	return cat
}

func banking() []Pattern {
	return []Pattern{
		{Name: IBAN, Expr: `[A-Z]{2}\d{2}[A-Z0-9]{11,30}`, Verify: validate.IBAN},
		{Name: SWIFT, Expr: `[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?`},
		{Name: RoutingNumber, Expr: `\b\d{9}\b`, Verify: validate.ABARouting},
		{Name: AccountNumber, Expr: `\b\d{8,22}\b`},
	}
}

func amounts() []Pattern {
	return []Pattern{
		{Name: USDAmount, Expr: `\$\s*[\d,]+\.?\d{0,2}`},
		{Name: EURAmount, Expr: `€\s*[\d,]+\.?\d{0,2}`},
		{Name: GBPAmount, Expr: `£\s*[\d,]+\.?\d{0,2}`},
		{Name: GenericAmount, Expr: `(USD|EUR|GBP|CHF|CAD|AUD|JPY|CNY|INR|MXN|BRL|RUB|KRW|SGD|HKD)\s*[\d,]+\.?\d{0,2}`},
	}
}

func dates() []Pattern {
	return []Pattern{
		{Name: DateISO, Expr: `\d{4}-\d{2}-\d{2}`},
		{Name: DateUS, Expr: `\d{2}/\d{2}/\d{4}`},
		{Name: DateEU, Expr: `\d{2}\.\d{2}\.\d{4}`},
	}
}

func references() []Pattern {
	return []Pattern{
		{Name: TransactionRef, Expr: `(TRN|REF|ID)[:\s]*[A-Z0-9]{8,32}`},
		{Name: WireRef, Expr: `(WIRE|TRANSFER)[:\s]*[A-Z0-9]{8,32}`},
		{Name: BankName, Expr: `(BANK|BANCO|BANQUE)\s+[A-Z][A-Za-z\s]{3,30}`},
		{Name: CountryCode, Expr: `\b[A-Z]{2}\b`},
	}
}

func identifiers() []Pattern {
	return []Pattern{
		{Name: SHA256, Expr: `[a-f0-9]{64}`},
		{Name: MD5, Expr: `[a-f0-9]{32}`},
		{Name: APIKey, Expr: `[A-Za-z0-9_\-]{32,}`},
		{Name: JSONLike, Expr: `\{["']?\w+["']?\s*:\s*["']?[\w\s\.@\-]+["']?`},
		{Name: XMLTag, Find: findXMLElements},
	}
}

// AmountCategories lists the categories whose matches are monetary amounts.
func AmountCategories() []string {
	return []string{USDAmount, EURAmount, GBPAmount, GenericAmount}
}

// CurrencyCodes is the fixed list of ISO 4217 codes recognised in amounts.
func CurrencyCodes() []string {
	return []string{"USD", "EUR", "GBP", "CHF", "CAD", "AUD", "JPY", "CNY", "INR", "MXN", "BRL", "RUB", "KRW", "SGD", "HKD"}
}
