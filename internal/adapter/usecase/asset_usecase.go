package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"adledger/internal/core/domain"
	"adledger/internal/core/encoding"
	"adledger/internal/core/port"
)

// AssetUseCase runs asset operations against a ledger. Each mutating call
// loads the current record, applies one domain transition, encodes the
// result canonically and writes it back. It keeps no state of its own;
// mutual exclusion between invocations is the dispatcher's job.
type AssetUseCase struct {
	ledger port.Ledger
	logger *slog.Logger
}

// NewAssetUseCase creates a usecase over the provided ledger. A nil logger
// discards output.
func NewAssetUseCase(ledger port.Ledger, logger *slog.Logger) *AssetUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AssetUseCase{ledger: ledger, logger: logger}
}

// DemoAssets returns the campaigns written by InitLedger.
func DemoAssets() []port.CreateAssetReq {
	return []port.CreateAssetReq{
		{
			ID:              "asset1",
			Name:            "MyCampaign",
			Seller:          "Ad Space Seller",
			Buyer:           "Ad Space Buyer",
			Budget:          "1000",
			ClickPrice:      "0.01",
			ImpressionPrice: "0.0001",
		},
	}
}

// InitLedger seeds DemoAssets, skipping ids that already exist.
func (u *AssetUseCase) InitLedger(ctx context.Context, tx port.TxContext) error {
	for _, req := range DemoAssets() {
		if _, err := u.CreateAsset(ctx, tx, req); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				u.logger.Debug("seed asset already present", slog.String("id", req.ID))
				continue
			}
			return err
		}
	}
	return nil
}

// CreateAsset issues a new asset.
func (u *AssetUseCase) CreateAsset(ctx context.Context, tx port.TxContext, req port.CreateAssetReq) ([]byte, error) {
	exists, err := u.AssetExists(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("the asset %s %w", req.ID, domain.ErrAlreadyExists)
	}

	p := domain.CreateParams{ID: req.ID, Name: req.Name, Seller: req.Seller, Buyer: req.Buyer}
	if p.Budget, err = domain.ParseAmount(req.Budget); err != nil {
		return nil, fmt.Errorf("budget: %w", err)
	}
	if p.ClickPrice, err = domain.ParseAmount(req.ClickPrice); err != nil {
		return nil, fmt.Errorf("click price: %w", err)
	}
	if p.ImpressionPrice, err = domain.ParseAmount(req.ImpressionPrice); err != nil {
		return nil, fmt.Errorf("impression price: %w", err)
	}
	asset, err := domain.NewAsset(p, tx.Timestamp)
	if err != nil {
		return nil, err
	}
	return u.store(ctx, tx, asset, "create")
}

// ReadAsset returns the stored bytes of an asset.
func (u *AssetUseCase) ReadAsset(ctx context.Context, id string) ([]byte, error) {
	data, err := u.ledger.GetState(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrStorageFailure, id, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("the asset %s %w", id, domain.ErrNotFound)
	}
	return data, nil
}

// AssetExists reports whether id is present.
func (u *AssetUseCase) AssetExists(ctx context.Context, id string) (bool, error) {
	data, err := u.ledger.GetState(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %w", domain.ErrStorageFailure, id, err)
	}
	return len(data) > 0, nil
}

// UpdateAsset overwrites an asset's mutable fields.
func (u *AssetUseCase) UpdateAsset(ctx context.Context, tx port.TxContext, id string, req port.UpdateAssetReq) ([]byte, error) {
	asset, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}

	p := domain.UpdateParams{Name: req.Name, Seller: req.Seller, Buyer: req.Buyer}
	if p.BudgetDelta, err = domain.ParseAmount(req.BudgetDelta); err != nil {
		return nil, fmt.Errorf("budget delta: %w", err)
	}
	if p.ClickPrice, err = domain.ParseAmount(req.ClickPrice); err != nil {
		return nil, fmt.Errorf("click price: %w", err)
	}
	if p.ImpressionPrice, err = domain.ParseAmount(req.ImpressionPrice); err != nil {
		return nil, fmt.Errorf("impression price: %w", err)
	}
	if p.Status, err = domain.ParseStatus(req.Status); err != nil {
		return nil, err
	}

	next, err := asset.Update(p, tx.Timestamp)
	if err != nil {
		return nil, err
	}
	return u.store(ctx, tx, next, "update")
}

// DeleteAsset removes an asset from world state.
func (u *AssetUseCase) DeleteAsset(ctx context.Context, tx port.TxContext, id string) error {
	exists, err := u.AssetExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("the asset %s %w", id, domain.ErrNotFound)
	}
	if err = u.ledger.DelState(port.WithTx(ctx, tx), id); err != nil {
		return fmt.Errorf("%w: delete %s: %w", domain.ErrStorageFailure, id, err)
	}
	u.logger.Debug("asset deleted", slog.String("id", id), slog.String("tx_id", tx.TxID))
	return nil
}

// EndCampaign finishes a campaign.
func (u *AssetUseCase) EndCampaign(ctx context.Context, tx port.TxContext, id string) ([]byte, error) {
	asset, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.store(ctx, tx, asset.End(tx.Timestamp), "end")
}

// PauseCampaign toggles a campaign between paused and active.
func (u *AssetUseCase) PauseCampaign(ctx context.Context, tx port.TxContext, id string) ([]byte, error) {
	asset, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.store(ctx, tx, asset.TogglePause(tx.Timestamp), "pause")
}

// RecordEvent applies a click or impression. The transaction id becomes
// the LastTxn id.
func (u *AssetUseCase) RecordEvent(ctx context.Context, tx port.TxContext, id string, req port.EventReq) ([]byte, error) {
	asset, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	typ, err := domain.ParseEventType(req.TxnType)
	if err != nil {
		return nil, err
	}
	next, err := asset.RecordEvent(domain.Event{
		TxID:         tx.TxID,
		Type:         typ,
		IP:           req.IP,
		Domain:       req.Domain,
		Browser:      req.Browser,
		Device:       req.Device,
		PageTime:     req.PageTime,
		PagePosition: req.PagePosition,
	}, tx.Timestamp)
	if err != nil {
		return nil, err
	}
	if next.Status == domain.StatusFinished && asset.Status != domain.StatusFinished {
		u.logger.Info("campaign budget exhausted", slog.String("id", id), slog.String("tx_id", tx.TxID))
	}
	return u.store(ctx, tx, next, "event")
}

// RecordPurchase counts a purchase.
func (u *AssetUseCase) RecordPurchase(ctx context.Context, tx port.TxContext, id string, amount string) ([]byte, error) {
	asset, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := asset.RecordPurchase(amount, tx.Timestamp)
	if err != nil {
		return nil, err
	}
	return u.store(ctx, tx, next, "purchase")
}

// load reads and decodes an asset, failing with ErrNotFound when absent and
// with ErrInvalidAsset when the record does not belong to its key.
func (u *AssetUseCase) load(ctx context.Context, id string) (domain.Asset, error) {
	data, err := u.ReadAsset(ctx, id)
	if err != nil {
		return domain.Asset{}, err
	}
	asset, err := encoding.DecodeAsset(data)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("asset %s: %w", id, err)
	}
	if asset.ID != id {
		return domain.Asset{}, fmt.Errorf("%w: record under key %s carries ID %s", domain.ErrInvalidAsset, id, asset.ID)
	}
	return asset, nil
}

// store encodes asset and writes it as the single terminal write of the
// transaction.
func (u *AssetUseCase) store(ctx context.Context, tx port.TxContext, asset domain.Asset, op string) ([]byte, error) {
	data, err := encoding.EncodeAsset(asset)
	if err != nil {
		return nil, err
	}
	if err = u.ledger.PutState(port.WithTx(ctx, tx), asset.ID, data); err != nil {
		return nil, fmt.Errorf("%w: put %s: %w", domain.ErrStorageFailure, asset.ID, err)
	}
	u.logger.Debug("asset written",
		slog.String("op", op),
		slog.String("id", asset.ID),
		slog.String("tx_id", tx.TxID),
		slog.String("status", string(asset.Status)),
	)
	return data, nil
}
