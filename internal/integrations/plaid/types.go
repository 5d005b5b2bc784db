package plaid

// Wire types for the endpoints this client calls

type linkTokenCreateResponse struct {
	LinkToken string `json:"link_token"`
	RequestID string `json:"request_id"`
}

type publicTokenExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

type accountsResponse struct {
	Accounts  []plaidAccount `json:"accounts"`
	RequestID string         `json:"request_id"`
}

type transactionsResponse struct {
	Accounts          []plaidAccount     `json:"accounts"`
	Transactions      []plaidTransaction `json:"transactions"`
	TotalTransactions int                `json:"total_transactions"`
	RequestID         string             `json:"request_id"`
}

type plaidAccount struct {
	AccountID string        `json:"account_id"`
	Name      string        `json:"name"`
	Type      string        `json:"type"`    // depository, credit, loan, investment, other
	Subtype   *string       `json:"subtype"` // checking, savings, credit card, ...
	Balances  plaidBalances `json:"balances"`
}

type plaidBalances struct {
	Available *float64 `json:"available"`
	Current   *float64 `json:"current"`
}

type plaidTransaction struct {
	TransactionID           string                   `json:"transaction_id"`
	AccountID               string                   `json:"account_id"`
	Amount                  float64                  `json:"amount"` // positive = money out
	Date                    string                   `json:"date"`   // YYYY-MM-DD
	Name                    string                   `json:"name"`
	Category                []string                 `json:"category"`
	PersonalFinanceCategory *personalFinanceCategory `json:"personal_finance_category"`
}

type personalFinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

type errorResponse struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}
