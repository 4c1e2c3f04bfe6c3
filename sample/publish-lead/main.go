// Dev tool: publishes one classified post to the ingest queue so the
// pipeline can be exercised without the crawler.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/xavierca1/ligue-outreach/internal/infra/queue"
)

func main() {
	godotenv.Load()

	sourceID := flag.String("source-id", "post-local-1", "post id")
	contactID := flag.String("contact-id", "u1", "contact id")
	contactName := flag.String("contact-name", "Test User", "contact name")
	body := flag.String("body", "We are hiring! Call me at 555-123-4567", "post text")
	url := flag.String("url", "https://example.com/posts/1", "post url")
	confidence := flag.Float64("confidence", 0.95, "classifier confidence")
	flag.Parse()

	rabbitMQ, err := queue.NewRabbitMQ(
		getEnv("RABBITMQ_USER", "guest"),
		getEnv("RABBITMQ_PASS", "guest"),
		getEnv("RABBITMQ_HOST", "localhost"),
		getEnv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	payload := queue.ScrapedPostPayload{
		SourceID:    *sourceID,
		ContactID:   *contactID,
		ContactName: *contactName,
		BodyText:    *body,
		SourceURL:   *url,
		Category:    "job",
		Confidence:  *confidence,
	}

	if err := producer.PublishScrapedPost(context.Background(), payload); err != nil {
		log.Fatalf("❌ Falha ao publicar: %v", err)
	}

	log.Printf("✅ Post %s publicado na fila %s", *sourceID, queue.QueueName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
