package worker

// alert_worker.go
// Processes low-stock jobs from QueueLowStock and mails the bar manager.

import (
	"context"
	"encoding/json"
	"fmt"

	"barstock/internal/infra"

	"github.com/rs/zerolog/log"
)

// LowStockJobPayload is the job envelope sent to QueueLowStock.
type LowStockJobPayload struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
}

// AlertWorker mails low-stock notifications to the configured alert address.
type AlertWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

func NewAlertWorker(mailer *infra.Mailer, alertEmail string) *AlertWorker {
	return &AlertWorker{mailer: mailer, alertEmail: alertEmail}
}

func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload LowStockJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}
	if w.alertEmail == "" {
		log.Warn().Str("ingredient", payload.Name).Msg("alert_worker: no alert email configured — skipping")
		return
	}

	subject := fmt.Sprintf("Low stock: %s", payload.Name)
	body := fmt.Sprintf("Ingredient %s is down to %d units.\nConsider restocking.", payload.Name, payload.Quantity)
	if err := w.mailer.SendAlert(w.alertEmail, subject, body); err != nil {
		log.Error().Err(err).Str("ingredient", payload.Name).Msg("alert_worker: failed to send alert")
		return
	}
	log.Info().Str("ingredient", payload.Name).Int("quantity", payload.Quantity).Msg("alert_worker: alert sent")
}
