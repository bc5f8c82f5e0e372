package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	placeusecase "places-service/internal/usecase/place"
)

// Transactor runs place mutations in a single database transaction.
type Transactor struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewTransactor creates a new instance of Transactor.
func NewTransactor(db *gorm.DB, log *zap.Logger) *Transactor {
	return &Transactor{db: db, log: log}
}

// WithinTransaction commits when fn returns nil and rolls back on error or panic.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, stores placeusecase.TxStores) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, txStores{
			places: NewPlaceRepoPG(tx, t.log),
			owners: NewUserPlacesPG(tx, t.log),
		})
	})
}

type txStores struct {
	places *PlaceRepoPG
	owners *UserPlacesPG
}

func (s txStores) Places() placeusecase.PlaceWriter { return s.places }
func (s txStores) Owners() placeusecase.OwnerWriter { return s.owners }
