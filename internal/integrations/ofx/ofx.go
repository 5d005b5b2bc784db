// Package ofx reads OFX 2.x (XML) bank and credit-card statements.
package ofx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
)

const ofxDateLayout = "20060102"

// Statement is the accounts and transactions found in one OFX document
type Statement struct {
	Accounts     []models.Account
	Transactions []models.Transaction
}

// ParseFile parses the OFX file at path
func ParseFile(path string) (*Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads every bank and credit-card statement in r.
// Amounts are converted to the positive-outflow convention and credit balances to amount owed.
func Parse(r io.Reader) (*Statement, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	bank := doc.FindElements("//STMTRS")
	cards := doc.FindElements("//CCSTMTRS")
	if len(bank) == 0 && len(cards) == 0 {
		return nil, fmt.Errorf("no statement data found in OFX")
	}

	out := &Statement{}
	for _, stmt := range bank {
		if err := out.add(stmt, "./BANKACCTFROM", models.AccountDepository); err != nil {
			return nil, err
		}
	}
	for _, stmt := range cards {
		if err := out.add(stmt, "./CCACCTFROM", models.AccountCredit); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Statement) add(stmt *etree.Element, fromPath string, accountType models.AccountType) error {
	from := stmt.FindElement(fromPath)
	if from == nil {
		return fmt.Errorf("statement is missing %s", strings.TrimPrefix(fromPath, "./"))
	}
	acctID := childText(from, "ACCTID")

	subtype := strings.ToLower(childText(from, "ACCTTYPE"))
	if accountType == models.AccountCredit {
		subtype = "credit card"
	}

	balance := decimal.Zero
	if el := stmt.FindElement("./LEDGERBAL/BALAMT"); el != nil {
		v, err := decimal.NewFromString(strings.TrimSpace(el.Text()))
		if err != nil {
			return fmt.Errorf("account %s: invalid balance: %w", acctID, err)
		}
		balance = v
	}
	if accountType == models.AccountCredit {
		// OFX reports card debt as a negative ledger balance
		balance = balance.Neg()
	}

	s.Accounts = append(s.Accounts, models.Account{
		ID:      acctID,
		Name:    accountName(subtype, acctID),
		Type:    accountType,
		Subtype: subtype,
		Balance: balance,
	})

	for _, el := range stmt.FindElements("./BANKTRANLIST/STMTTRN") {
		tx, err := parseTransaction(el)
		if err != nil {
			return fmt.Errorf("account %s: %w", acctID, err)
		}
		s.Transactions = append(s.Transactions, tx)
	}
	return nil
}

func parseTransaction(el *etree.Element) (models.Transaction, error) {
	id := childText(el, "FITID")

	posted := childText(el, "DTPOSTED")
	if len(posted) < 8 {
		return models.Transaction{}, fmt.Errorf("transaction %s: invalid DTPOSTED %q", id, posted)
	}
	date, err := time.Parse(ofxDateLayout, posted[:8])
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: invalid DTPOSTED %q: %w", id, posted, err)
	}

	amount, err := decimal.NewFromString(childText(el, "TRNAMT"))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: invalid TRNAMT: %w", id, err)
	}

	name := childText(el, "NAME")
	if name == "" {
		name = childText(el, "MEMO")
	}

	return models.Transaction{
		ID:     id,
		Date:   date,
		Name:   name,
		Amount: amount.Neg(),
	}, nil
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func accountName(subtype, acctID string) string {
	label := "Account"
	if subtype != "" {
		label = strings.ToUpper(subtype[:1]) + subtype[1:]
	}
	if len(acctID) > 4 {
		acctID = acctID[len(acctID)-4:]
	}
	if acctID == "" {
		return label
	}
	return label + " ..." + acctID
}
