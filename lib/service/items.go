package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/db/models"
)

// ItemByID reads one issued item.
func (svc *MinthubService) ItemByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := svc.DB.NewSelect().Model(&item).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

// Items lists issued items, newest first.
func (svc *MinthubService) Items(ctx context.Context, limit, offset int) ([]models.Item, error) {
	items := []models.Item{}
	query := svc.DB.NewSelect().Model(&items).Order("id DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return items, nil
}
