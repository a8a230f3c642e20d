package contracts

import "context"

// RecordSource supplies the date-ascending record sequence
// ⭐ SSOT: every data loader implements this interface
type RecordSource interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// RecordRepository persists record snapshots
type RecordRepository interface {
	SaveRecords(ctx context.Context, records []Record) (int, error)
	LoadRecords(ctx context.Context) ([]Record, error)
}
