package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: loads the sale, renders the PDF
// receipt and mails it to the customer.

import (
	"context"
	"encoding/json"
	"fmt"

	"barstock/internal/infra"
	"barstock/internal/model"
	"barstock/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID        string `json:"sale_id"`
	CustomerEmail string `json:"customer_email"`
}

// ReceiptWorker renders and mails PDF receipts for completed sales.
type ReceiptWorker struct {
	saleRepo       repository.SaleRepository
	ingredientRepo repository.IngredientRepository
	cocktailRepo   repository.CocktailRepository
	mailer         *infra.Mailer
	pdfStoragePath string
}

func NewReceiptWorker(
	saleRepo repository.SaleRepository,
	ingredientRepo repository.IngredientRepository,
	cocktailRepo repository.CocktailRepository,
	mailer *infra.Mailer,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:       saleRepo,
		ingredientRepo: ingredientRepo,
		cocktailRepo:   cocktailRepo,
		mailer:         mailer,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the sale from DB and resolve the item name
//  3. Generate the PDF receipt
//  4. Mail it to the customer
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	if payload.CustomerEmail == "" {
		log.Warn().Msg("receipt_worker: empty customer_email — skipping")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.itemName(ctx, sale), w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		return
	}

	subject := fmt.Sprintf("BarStock — receipt %s", sale.ID)
	body := fmt.Sprintf("Attached is your purchase receipt.\nTotal: $%s", sale.TotalPrice.StringFixed(2))
	if err := w.mailer.SendReceipt(payload.CustomerEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.CustomerEmail).Msg("receipt_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.CustomerEmail).Str("sale_id", payload.SaleID).Msg("receipt_worker: receipt sent")
}

func (w *ReceiptWorker) itemName(ctx context.Context, sale *model.Sale) string {
	switch sale.Kind {
	case model.SaleKindCocktail:
		if c, err := w.cocktailRepo.FindByID(ctx, sale.ItemID); err == nil {
			return c.Name
		}
	case model.SaleKindIngredient:
		if i, err := w.ingredientRepo.FindByID(ctx, sale.ItemID); err == nil {
			return i.Name
		}
	}
	return sale.ItemID.String()
}
