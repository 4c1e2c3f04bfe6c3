package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/extract"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
)

// LeadUpserter is the slice of the lead store the ingest worker needs.
type LeadUpserter interface {
	Upsert(ctx context.Context, lead *entity.Lead) error
}

// Worker consumes classified scraped posts and turns the accepted ones
// into leads. Upsert on source_id makes re-delivery and re-scraping
// harmless.
type Worker struct {
	Channel *amqp.Channel
	Leads   LeadUpserter

	// MinConfidence is the classification threshold: job posts below it
	// are discarded as probable misclassified spam.
	MinConfidence float64
}

func NewWorker(ch *amqp.Channel, leads LeadUpserter, minConfidence float64) *Worker {
	return &Worker{
		Channel:       ch,
		Leads:         leads,
		MinConfidence: minConfidence,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload ScrapedPostPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [INGEST] JSON inválido: %s", err)
				middleware.RecordLeadIngested("invalid")
				// Mensagem podre. Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			if accepted, reason := w.accept(payload); !accepted {
				log.Printf("⏭️ [INGEST] post %s descartado: %s", payload.SourceID, reason)
				middleware.RecordLeadIngested("discarded")
				d.Ack(false)
				continue
			}

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [INGEST] erro ao gravar lead %s: %s", payload.SourceID, err)
				d.Nack(false, false)
				continue
			}

			log.Printf("✅ [INGEST] lead %s gravado (contact %s)", payload.SourceID, payload.ContactID)
			middleware.RecordLeadIngested("accepted")
			d.Ack(false)
		}
	}()

	log.Printf(" [*] Ingest worker aguardando na fila '%s'", queueName)
	<-forever
}

// accept applies the classification policy: spam never enters the
// store, and a low-confidence job call is treated as misclassified
// spam. Records already stored are never re-filtered.
func (w *Worker) accept(p ScrapedPostPayload) (bool, string) {
	if strings.TrimSpace(p.BodyText) == "" {
		return false, "texto vazio"
	}
	if p.Category == "spam" {
		return false, "classificado como spam"
	}
	if p.Category != "job" {
		return false, fmt.Sprintf("categoria desconhecida %q", p.Category)
	}
	if p.Confidence < w.MinConfidence {
		return false, fmt.Sprintf("confiança %.2f abaixo do mínimo %.2f", p.Confidence, w.MinConfidence)
	}
	return true, ""
}

func (w *Worker) processMessage(ctx context.Context, payload ScrapedPostPayload) error {
	var phoneHint string
	if candidates := extract.Numbers(payload.BodyText); len(candidates) > 0 {
		phoneHint = candidates[0]
	}

	lead, err := entity.NewLead(
		payload.SourceID,
		payload.ContactID,
		payload.ContactName,
		payload.BodyText,
		payload.SourceURL,
		phoneHint,
	)
	if err != nil {
		return err
	}

	return w.Leads.Upsert(ctx, lead)
}
