package esplora

import "context"

type IEsplora interface {
	GetUTXOs(ctx context.Context, address string) ([]UTXO, error)
	GetBalance(ctx context.Context, address string) (int64, error)
	EstimateFees(ctx context.Context) (map[string]float64, error)
	BroadcastTx(ctx context.Context, txHex string) (hash string, err error)
}
