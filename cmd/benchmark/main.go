package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// Load-tests a running server instance. Point it at a development
// deployment; the report endpoints need a valid token.
func main() {
	target := flag.String("target", "http://localhost:8080", "Base URL of the running server")
	token := flag.String("token", "", "Bearer token for authenticated endpoints")
	rate := flag.Int("rate", 50, "Requests per second")
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	flag.Parse()

	targets := []vegeta.Target{
		{Method: "GET", URL: *target + "/health"},
	}
	if *token != "" {
		header := http.Header{}
		header.Set("Authorization", "Bearer "+*token)
		targets = append(targets,
			vegeta.Target{Method: "GET", URL: *target + "/api/v1/ai/providers", Header: header},
			vegeta.Target{Method: "GET", URL: *target + "/api/v1/ai/reports/history?limit=5", Header: header},
		)
	}

	attacker := vegeta.NewAttacker()
	pacer := vegeta.Rate{Freq: *rate, Per: time.Second}
	targeter := vegeta.NewStaticTargeter(targets...)

	fmt.Printf("Attacking %s at %d req/s for %s\n", *target, *rate, *duration)

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, pacer, *duration, "intern-analyzer") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Printf("Requests:   %d\n", metrics.Requests)
	fmt.Printf("Success:    %.2f%%\n", metrics.Success*100)
	fmt.Printf("Mean:       %s\n", metrics.Latencies.Mean)
	fmt.Printf("P95:        %s\n", metrics.Latencies.P95)
	fmt.Printf("P99:        %s\n", metrics.Latencies.P99)
	fmt.Printf("Max:        %s\n", metrics.Latencies.Max)
	if len(metrics.Errors) > 0 {
		fmt.Println("Errors:")
		for _, e := range metrics.Errors {
			fmt.Printf("  %s\n", e)
		}
	}
}
