// Minimal fake specialist for local runs and E2E testing. Serves the
// specialist HTTP contract with a canned answer, optional delay and
// optional failure rate.
//
// Usage: fake-specialist [-name prostate] [-listen :8001] [-answer "..."]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dusk-indust/consilium/internal/specialist"
)

func main() {
	name := flag.String("name", "prostate", "specialist name reported in answers")
	listen := flag.String("listen", ":8001", "listen address")
	answer := flag.String("answer", "", "fixed answer text (default: derived from the question)")
	delay := flag.Duration("delay", 0, "artificial delay before answering")
	failRate := flag.Float64("fail-rate", 0, "fraction of requests answered with HTTP 500 (0..1)")
	flag.Parse()

	if err := run(*name, *listen, *answer, *delay, *failRate); err != nil {
		log.Fatal(err)
	}
}

func run(name, listen, answer string, delay time.Duration, failRate float64) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	responder := &specialist.StaticResponder{
		Name:     name,
		Answer:   answer,
		Delay:    delay,
		FailRate: failRate,
	}

	srv := specialist.NewServer(responder)
	if err := srv.Start(ctx, listen); err != nil {
		return fmt.Errorf("starting specialist server: %w", err)
	}
	fmt.Fprintf(os.Stderr, "fake specialist %q listening on %s\n", name, listen)

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}
