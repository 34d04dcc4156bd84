package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/db/models"
)

// WebpageURI reads the current contract-level webpage URI.
func (svc *MinthubService) WebpageURI(ctx context.Context) (string, error) {
	var meta models.ContractMeta
	err := svc.DB.NewSelect().Model(&meta).Where("id = ?", models.ContractMetaID).Limit(1).Scan(ctx)
	if err != nil {
		return "", err
	}
	return meta.WebpageURI, nil
}

// SetWebpageURI overwrites the webpage URI. No history is kept; the update
// event carries the new value.
func (svc *MinthubService) SetWebpageURI(ctx context.Context, uri string) error {
	parsed, err := url.ParseRequestURI(uri)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid webpage uri %q", uri)
	}

	meta := models.ContractMeta{
		ID:         models.ContractMetaID,
		WebpageURI: uri,
		UpdatedAt:  time.Now(),
	}
	if _, err := svc.DB.NewUpdate().Model(&meta).WherePK().Exec(ctx); err != nil {
		return err
	}

	svc.Logger.Infof("Webpage URI updated: %s", uri)
	svc.publishEvent(ctx, common.EventWebpageUpdated, WebpageUpdatedEvent{URI: uri})
	return nil
}
