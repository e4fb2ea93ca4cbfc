package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"adledger/internal/core/domain"
	"adledger/internal/core/encoding"
	"adledger/internal/core/port"
)

// GetAllAssets scans the whole key space in ledger order. A value that does
// not decode is returned raw so one bad record cannot hide the others.
func (u *AssetUseCase) GetAllAssets(ctx context.Context) (results []port.ScannedAsset, err error) {
	it, err := u.ledger.GetStateByRange(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("%w: range scan: %w", domain.ErrStorageFailure, err)
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close range scan: %w", domain.ErrStorageFailure, cerr)
		}
	}()

	results = []port.ScannedAsset{}
	for it.HasNext() {
		kv, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: range scan: %w", domain.ErrStorageFailure, err)
		}
		asset, derr := encoding.DecodeAsset(kv.Value)
		if derr != nil {
			u.logger.Warn("undecodable ledger entry",
				slog.String("key", kv.Key),
				slog.Any("error", derr),
			)
			results = append(results, port.ScannedAsset{Key: kv.Key, Raw: kv.Value})
			continue
		}
		results = append(results, port.ScannedAsset{Key: kv.Key, Asset: &asset, Raw: kv.Value})
	}
	return results, nil
}

// RetrieveHistory replays the write history of id. Entries without a value
// (deletions) are skipped.
func (u *AssetUseCase) RetrieveHistory(ctx context.Context, id string) (history []domain.Asset, err error) {
	u.logger.Debug("getting history for key", slog.String("id", id))
	it, err := u.ledger.GetHistoryForKey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: history %s: %w", domain.ErrStorageFailure, id, err)
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close history %s: %w", domain.ErrStorageFailure, id, cerr)
		}
	}()

	history = []domain.Asset{}
	for it.HasNext() {
		entry, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: history %s: %w", domain.ErrStorageFailure, id, err)
		}
		if entry.IsDelete || len(entry.Value) == 0 {
			continue
		}
		asset, err := encoding.DecodeAsset(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("history %s at tx %s: %w", id, entry.TxID, err)
		}
		history = append(history, asset)
	}
	return history, nil
}
