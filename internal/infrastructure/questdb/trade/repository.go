package trade

import (
	"context"
	"embed"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/kairon/pkg/errors"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/muhammadchandra19/kairon/pkg/migration"
	"github.com/muhammadchandra19/kairon/pkg/questdb"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	tableName = "trades"

	recentBySymbolQuery = `SELECT timestamp, id, symbol, price, quantity, side, taker_order_id, maker_order_id
			  FROM trades
			  WHERE symbol = $1
			  ORDER BY timestamp DESC
			  LIMIT $2`
)

var columns = []string{"timestamp", "id", "symbol", "price", "quantity", "side", "taker_order_id", "maker_order_id"}

// Repository stores trades in QuestDB.
type Repository struct {
	client questdb.QuestDBClient
	logger *logger.Logger
}

var _ TradeRepository = (*Repository)(nil)

// NewRepository creates a new trade repository.
func NewRepository(client questdb.QuestDBClient, log *logger.Logger) *Repository {
	return &Repository{
		client: client,
		logger: log,
	}
}

// EnsureSchema applies the pending trade tape migrations.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	source, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}

	if _, err := migration.NewRunner(r.client, source, r.logger).MigrateUp(ctx, 0); err != nil {
		return errors.NewTracer(errors.QuestDBStoreError.String()).Wrap(err)
	}
	return nil
}

// StoreBatch appends trades with the COPY protocol.
func (r *Repository) StoreBatch(ctx context.Context, trades []*Trade) error {
	if len(trades) == 0 {
		return nil
	}

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{tableName},
		columns,
		pgx.CopyFromSlice(len(trades), func(i int) ([]any, error) {
			t := trades[i]
			return []any{
				t.Timestamp,
				t.ID,
				t.Symbol,
				t.Price,
				t.Quantity,
				t.Side,
				t.TakerOrderID,
				t.MakerOrderID,
			}, nil
		}),
	)
	if err != nil {
		return errors.NewTracer(errors.QuestDBStoreError.String()).Wrap(err)
	}

	return nil
}

// GetRecentBySymbol returns the latest trades of symbol, newest first.
func (r *Repository) GetRecentBySymbol(ctx context.Context, symbol string, limit int) ([]*Trade, error) {
	rows, err := r.client.Query(ctx, recentBySymbolQuery, symbol, limit)
	if err != nil {
		return nil, errors.NewTracer(errors.QuestDBQueryError.String()).Wrap(err)
	}
	defer rows.Close()

	trades := make([]*Trade, 0, limit)
	for rows.Next() {
		t := &Trade{}
		if err := rows.Scan(&t.Timestamp, &t.ID, &t.Symbol, &t.Price, &t.Quantity, &t.Side, &t.TakerOrderID, &t.MakerOrderID); err != nil {
			return nil, errors.NewTracer(errors.QuestDBQueryError.String()).Wrap(err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewTracer(errors.QuestDBQueryError.String()).Wrap(err)
	}

	return trades, nil
}
