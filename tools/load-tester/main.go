package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/AIworks24/calendar-agent/internal/adapter/api/middleware"
)

var sampleBodies = []string{
	"Board meeting Tuesday December 9 at 6pm at the library",
	"Holiday party next Friday 7pm at the Elks Lodge, dinner included",
	"Community cleanup Saturday morning 9am, meet at the park entrance",
	"Ribbon cutting for the new bakery on Main St, Thursday at noon",
	"Book club January 15 at 6:30pm, discussing chapter %s",
}

func main() {
	targetURL := flag.String("url", "http://localhost:8080/webhook/sms", "Target URL for webhook posts")
	authToken := flag.String("auth-token", "", "Webhook auth token for signing (empty sends unsigned)")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 50, "Requests per second limit")
	flag.Parse()

	log.Printf("Starting load test on %s", *targetURL)
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d", *concurrency, *duration, *rps)

	var wg sync.WaitGroup
	var successCount, errorCount atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), 100) // Allow bursts up to 100

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{
				Timeout: 2 * time.Minute, // the pipeline calls an LLM synchronously
			}

			// One sender per worker so the per-sender rate limiter
			// spreads instead of throttling a single number.
			from := fmt.Sprintf("+1555%07d", workerID)

			for n := 0; ; n++ {
				select {
				case <-ctx.Done():
					return
				default:
					limiter.Wait(ctx) // Wait for token from rate limiter

					body := sampleBodies[n%len(sampleBodies)]
					if strings.Contains(body, "%s") {
						body = fmt.Sprintf(body, uuid.NewString()[:8])
					}

					form := url.Values{}
					form.Set("From", from)
					form.Set("Body", body)
					form.Set("MessageSid", uuid.NewString())

					req, err := http.NewRequestWithContext(ctx, http.MethodPost, *targetURL, strings.NewReader(form.Encode()))
					if err != nil {
						continue // Should not happen
					}
					req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
					if *authToken != "" {
						req.Header.Set(middleware.SignatureHeader, middleware.ComputeSignature(*authToken, *targetURL, form))
					}

					resp, err := client.Do(req)
					if err != nil {
						errorCount.Add(1)
						continue
					}

					if resp.StatusCode == http.StatusOK {
						successCount.Add(1)
					} else {
						errorCount.Add(1)
					}
					resp.Body.Close()
				}
			}
		}(i)
	}

	wg.Wait()

	totalRequests := successCount.Load() + errorCount.Load()
	actualRPS := float64(totalRequests) / duration.Seconds()

	log.Println("Load test finished.")
	log.Printf("Total Requests: %d", totalRequests)
	log.Printf("Successful (200 OK): %d", successCount.Load())
	log.Printf("Errors: %d", errorCount.Load())
	log.Printf("Actual RPS: %.2f", actualRPS)
}
