package store

// Entry is one stored canonical record.
type Entry struct {
	ID         int64
	Word       string
	POS        string
	Level      string
	Definition string
	Example    string
	Tokens     []string
	RelTokens  []string
}

// TokenCount is a token with the number of rows whose definition tokens
// contain it.
type TokenCount struct {
	Token string
	Count int
}

// POSCount is the number of rows per part-of-speech label.
type POSCount struct {
	POS   string
	Count int
}
