package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Transitions are pure: each takes the current asset by value and returns
// the next one. The transaction timestamp is always passed in so that every
// node executing the same transaction writes the same record.

// UpdateParams holds the overwritable fields of an asset. BudgetDelta is
// added to both TotalBudget and Budget and may be negative.
type UpdateParams struct {
	Name            string
	Seller          string
	Buyer           string
	BudgetDelta     Amount
	ClickPrice      Amount
	ImpressionPrice Amount
	Status          Status
}

// Update overwrites the descriptive fields, prices and status and applies a
// budget top-up. Counters, CreatedOnDate and LastTxn carry over. The status
// is taken as given; Update does not walk the state machine.
func (a Asset) Update(p UpdateParams, now time.Time) (Asset, error) {
	if err := validatePrices(p.ClickPrice, p.ImpressionPrice); err != nil {
		return Asset{}, err
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return Asset{}, err
	}
	a.Name = p.Name
	a.Seller = p.Seller
	a.Buyer = p.Buyer
	a.TotalBudget = a.TotalBudget.Add(p.BudgetDelta)
	a.Budget = a.Budget.Add(p.BudgetDelta)
	if !a.TotalBudget.InRange() || !a.Budget.InRange() {
		return Asset{}, fmt.Errorf("%w: budget top-up out of range", ErrInvalidAsset)
	}
	a.ClickPrice = p.ClickPrice
	a.ImpressionPrice = p.ImpressionPrice
	a.Status = p.Status
	a.LastUpdated = now.UTC()
	return a, nil
}

// End finishes the campaign and forfeits the remaining budget.
func (a Asset) End(now time.Time) Asset {
	a.Budget = Zero
	a.Status = StatusFinished
	a.LastUpdated = now.UTC()
	return a
}

// TogglePause resumes a paused campaign and pauses any other. A finished
// campaign is paused too, and the next toggle reactivates it.
func (a Asset) TogglePause(now time.Time) Asset {
	if a.Status == StatusPaused {
		a.Status = StatusActive
	} else {
		a.Status = StatusPaused
	}
	a.LastUpdated = now.UTC()
	return a
}

// Event is a billable click or impression delivered to a campaign.
type Event struct {
	TxID         string
	Type         TxnType
	IP           string
	Domain       string
	Browser      string
	Device       string
	PageTime     string
	PagePosition string
}

// Price returns what the asset charges for an event of type t.
func (a Asset) Price(t TxnType) Amount {
	if t == TxnClick {
		return a.ClickPrice
	}
	return a.ImpressionPrice
}

// RecordEvent counts a click or impression and charges for it.
//
// An issued campaign is activated by its first event. An active campaign
// that can afford the event pays for it; reaching a zero balance finishes
// it. When the balance cannot cover the price the event is still counted,
// the balance is zeroed and the campaign finishes. Paused (or finished)
// campaigns that could afford the event count it without being charged.
//
// Reaching exactly zero finishes the campaign on that same event. The
// original contract left such a campaign ACTIVE at zero and only finished it
// on the next event, so an exactly divided budget (1 at 0.5 per click)
// differs there by one event.
func (a Asset) RecordEvent(e Event, now time.Time) (Asset, error) {
	if _, err := ParseEventType(string(e.Type)); err != nil {
		return Asset{}, err
	}
	if a.Status == StatusIssued {
		a.Status = StatusActive
	}

	price := a.Price(e.Type)
	switch {
	case a.Status == StatusActive && a.Budget.Cmp(price) >= 0:
		a.Budget = a.Budget.Sub(price)
		if a.Budget.IsZero() {
			a.Status = StatusFinished
		}
	case a.Budget.Cmp(price) < 0:
		a.Budget = Zero
		a.Status = StatusFinished
	}
	if e.Type == TxnClick {
		a.ClickCount++
	} else {
		a.ImpressionCount++
	}

	a.LastTxn = Txn{
		ID:           e.TxID,
		IP:           e.IP,
		Domain:       e.Domain,
		Browser:      e.Browser,
		Device:       e.Device,
		PageTime:     e.PageTime,
		PagePosition: e.PagePosition,
		TxnType:      e.Type,
	}
	a.LastUpdated = now.UTC()
	return a, nil
}

// RecordPurchase counts a purchase attributed to the campaign. The amount
// is read as an integer; any fractional part is dropped.
func (a Asset) RecordPurchase(amount string, now time.Time) (Asset, error) {
	n, err := ParsePurchaseAmount(amount)
	if err != nil {
		return Asset{}, err
	}
	if n > math.MaxInt64-a.PurchaseAmount {
		return Asset{}, fmt.Errorf("%w: purchase amount total overflows", ErrInvalidAsset)
	}
	a.PurchaseCount++
	a.PurchaseAmount += n
	a.LastUpdated = now.UTC()
	return a, nil
}

// ParsePurchaseAmount reads the leading integer of s, ignoring leading
// whitespace and anything after the digits: "12.9" is 12 and "7 units" is 7.
// Inputs without leading digits and negative values are rejected.
func ParsePurchaseAmount(s string) (int64, error) {
	t := strings.TrimLeft(s, " \t\r\n")
	sign := ""
	if t != "" && (t[0] == '+' || t[0] == '-') {
		sign, t = t[:1], t[1:]
	}
	end := 0
	for end < len(t) && t[end] >= '0' && t[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: purchase amount %q is not a number", ErrInvalidAsset, s)
	}
	n, err := strconv.ParseInt(sign+t[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: purchase amount %q: %v", ErrInvalidAsset, s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: purchase amount %q is negative", ErrInvalidAsset, s)
	}
	return n, nil
}
