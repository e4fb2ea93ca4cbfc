package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocTypeAsset tags asset records in the shared ledger key space.
const DocTypeAsset = "asset"

// Status is the lifecycle state of a campaign.
type Status string

const (
	StatusIssued   Status = "ISSUED"
	StatusActive   Status = "ACTIVE"
	StatusPaused   Status = "PAUSED"
	StatusFinished Status = "FINISHED"
)

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case StatusIssued, StatusActive, StatusPaused, StatusFinished:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidAsset, s)
	}
}

// TxnType identifies the event that last touched an asset.
type TxnType string

const (
	TxnCreate     TxnType = "CREATE"
	TxnClick      TxnType = "CLICK"
	TxnImpression TxnType = "IMPRESSION"
)

// ParseEventType returns the billable event type named by s. Only clicks
// and impressions are accepted.
func ParseEventType(s string) (TxnType, error) {
	switch t := TxnType(strings.TrimSpace(s)); t {
	case TxnClick, TxnImpression:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", ErrInvalidAsset, s)
	}
}

// Txn captures the most recent billable event applied to an asset. Its
// fields are always replaced together.
type Txn struct {
	ID           string  `json:"Id"`
	IP           string  `json:"Ip"`
	Domain       string  `json:"Domain"`
	Browser      string  `json:"Browser"`
	Device       string  `json:"Device"`
	PageTime     string  `json:"PageTime"`
	PagePosition string  `json:"PagePosition"`
	TxnType      TxnType `json:"TxnType"`
}

// Asset is the ledger record of one advertising campaign.
//
// TotalBudget only grows through top-ups; Budget is the remaining spendable
// balance. Counters never decrease and CreatedOnDate is written once.
type Asset struct {
	ID              string    `json:"ID"`
	Name            string    `json:"Name"`
	Seller          string    `json:"Seller"`
	Buyer           string    `json:"Buyer"`
	TotalBudget     Amount    `json:"TotalBudget"`
	Budget          Amount    `json:"Budget"`
	ClickPrice      Amount    `json:"ClickPrice"`
	ClickCount      int64     `json:"ClickCount"`
	ImpressionPrice Amount    `json:"ImpressionPrice"`
	ImpressionCount int64     `json:"ImpressionCount"`
	PurchaseCount   int64     `json:"PurchaseCount"`
	PurchaseAmount  int64     `json:"PurchaseAmount"`
	CreatedOnDate   time.Time `json:"CreatedOnDate"`
	LastUpdated     time.Time `json:"LastUpdated"`
	Status          Status    `json:"Status"`
	LastTxn         Txn       `json:"LastTxn"`
	DocType         string    `json:"docType"`
}

// CreateParams holds the caller-supplied fields of a new asset.
type CreateParams struct {
	ID              string
	Name            string
	Seller          string
	Buyer           string
	Budget          Amount
	ClickPrice      Amount
	ImpressionPrice Amount
}

// NewAsset builds a freshly issued asset. Counters start at zero, the full
// budget is spendable and LastTxn records the creation.
func NewAsset(p CreateParams, now time.Time) (Asset, error) {
	now = now.UTC()
	a := Asset{
		ID:              p.ID,
		Name:            p.Name,
		Seller:          p.Seller,
		Buyer:           p.Buyer,
		TotalBudget:     p.Budget,
		Budget:          p.Budget,
		ClickPrice:      p.ClickPrice,
		ImpressionPrice: p.ImpressionPrice,
		CreatedOnDate:   now,
		LastUpdated:     now,
		Status:          StatusIssued,
		LastTxn:         Txn{TxnType: TxnCreate},
		DocType:         DocTypeAsset,
	}
	if err := a.Validate(); err != nil {
		return Asset{}, err
	}
	return a, nil
}

// Validate checks the invariants a stored asset must satisfy on creation.
func (a Asset) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidAsset)
	}
	if a.Budget.IsNegative() {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidAsset)
	}
	if err := validatePrices(a.ClickPrice, a.ImpressionPrice); err != nil {
		return err
	}
	if a.DocType != "" && a.DocType != DocTypeAsset {
		return fmt.Errorf("%w: unexpected docType %q", ErrInvalidAsset, a.DocType)
	}
	return nil
}

func validatePrices(click, impression Amount) error {
	if click.IsNegative() {
		return fmt.Errorf("%w: click price must not be negative", ErrInvalidAsset)
	}
	if impression.IsNegative() {
		return fmt.Errorf("%w: impression price must not be negative", ErrInvalidAsset)
	}
	return nil
}
