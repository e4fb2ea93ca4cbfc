package port

import (
	"context"

	"adledger/internal/core/domain"
)

// AssetUseCase defines the operations exposed to the transaction
// dispatcher. This interface is the primary port into the application
// domain. Every mutating operation runs inside one transaction described by
// a TxContext and performs at most one ledger write.
//
// Arguments arrive as strings, the way a ledger invocation carries them;
// numeric fields are parsed exactly as decimals.
type AssetUseCase interface {
	// InitLedger seeds the demo campaigns. Keys that already exist are
	// left untouched.
	InitLedger(ctx context.Context, tx TxContext) error

	// CreateAsset issues a new asset and returns its canonical encoding.
	// It fails with domain.ErrAlreadyExists when the id is taken.
	CreateAsset(ctx context.Context, tx TxContext, req CreateAssetReq) ([]byte, error)

	// ReadAsset returns the stored bytes of an asset unchanged.
	ReadAsset(ctx context.Context, id string) ([]byte, error)

	// AssetExists reports whether id is present in world state.
	AssetExists(ctx context.Context, id string) (bool, error)

	// UpdateAsset overwrites the descriptive fields, prices and status of an
	// asset and tops up its budget by BudgetDelta.
	UpdateAsset(ctx context.Context, tx TxContext, id string, req UpdateAssetReq) ([]byte, error)

	// DeleteAsset removes an asset. The id may be reused afterwards.
	DeleteAsset(ctx context.Context, tx TxContext, id string) error

	// EndCampaign forfeits the remaining budget and finishes the campaign.
	EndCampaign(ctx context.Context, tx TxContext, id string) ([]byte, error)

	// PauseCampaign toggles a campaign between paused and active.
	PauseCampaign(ctx context.Context, tx TxContext, id string) ([]byte, error)

	// RecordEvent counts and charges a click or impression.
	RecordEvent(ctx context.Context, tx TxContext, id string, req EventReq) ([]byte, error)

	// RecordPurchase counts a purchase and adds its integer amount.
	RecordPurchase(ctx context.Context, tx TxContext, id string, amount string) ([]byte, error)

	// GetAllAssets drains a full range scan. Entries that do not decode are
	// returned raw instead of failing the query.
	GetAllAssets(ctx context.Context) ([]ScannedAsset, error)

	// RetrieveHistory returns every stored version of an asset, oldest
	// first. Deletions are skipped.
	RetrieveHistory(ctx context.Context, id string) ([]domain.Asset, error)
}

type CreateAssetReq struct {
	ID              string
	Name            string
	Seller          string
	Buyer           string
	Budget          string
	ClickPrice      string
	ImpressionPrice string
}

type UpdateAssetReq struct {
	Name            string
	Seller          string
	Buyer           string
	BudgetDelta     string
	ClickPrice      string
	ImpressionPrice string
	Status          string
}

type EventReq struct {
	TxnType      string
	IP           string
	Domain       string
	Browser      string
	Device       string
	PageTime     string
	PagePosition string
}

// ScannedAsset is one result of a full scan. Asset is nil when the stored
// value could not be decoded, in which case Raw holds the payload.
type ScannedAsset struct {
	Key   string
	Asset *domain.Asset
	Raw   []byte
}
