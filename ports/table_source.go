package ports

import (
	"context"

	"gopenguins/domain/penguins"
	"gopenguins/internal/etl"
)

// TableSource is the upstream data-preparation collaborator: it extracts the
// raw dataset and returns the cleaned observation table plus the ETL report.
type TableSource interface {
	Load(ctx context.Context) (*penguins.Table, *etl.Report, error)
}
