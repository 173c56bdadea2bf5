// Package catalogsync adaptadores del puerto CatalogSyncNotifier.
package catalogsync

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/inventario-costeo/pkg/config"
)

var _ inventory.CatalogSyncNotifier = (*WebhookNotifier)(nil)

// StockPayload cuerpo enviado al catálogo de venta.
type StockPayload struct {
	CompanyID  string          `json:"company_id"`
	LocationID string          `json:"location_id"`
	MaterialID string          `json:"material_id"`
	UnitID     string          `json:"unit_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// WebhookNotifier publica la cantidad disponible vía HTTP POST. Reintenta errores de red y 5xx.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookNotifier construye el cliente a partir de la configuración CATALOG_SYNC_*.
func NewWebhookNotifier(cfg config.CatalogSyncConfig) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &WebhookNotifier{httpClient: client, url: cfg.URL}
}

// NotifyStock envía la señal; un 4xx no se reintenta.
func (n *WebhookNotifier) NotifyStock(ctx context.Context, s inventory.CatalogSyncSignal) error {
	apiErr := new(apiError)
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(StockPayload{
			CompanyID:  s.CompanyID,
			LocationID: s.LocationID,
			MaterialID: s.MaterialID,
			UnitID:     s.SellUnitID,
			Quantity:   s.StockInSellUnit,
		}).
		SetError(apiErr).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("catalog sync: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("catalog sync: status=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}
	return nil
}
