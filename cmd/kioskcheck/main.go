// kioskcheck prints today's attendance-gate decision for one institute.
// Kiosk devices run it on boot to decide whether to enable the capture UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"facetrack_backend/internals/clients/attendclient"
)

func main() {
	base := flag.String("base", "http://localhost:3000", "calendar API base URL")
	institute := flag.String("institute", "", "institute name (required)")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	if *institute == "" {
		fmt.Fprintln(os.Stderr, "kioskcheck: -institute is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store := attendclient.NewStoreClient(*base, "")
	gate := attendclient.NewGate(store, *institute)

	decision, err := gate.Check(ctx)
	if err != nil {
		// fail closed: no decision means no capture
		fmt.Fprintf(os.Stderr, "kioskcheck: check failed (gate stays blocked): %v\n", err)
		os.Exit(1)
	}

	if decision.Permitted {
		fmt.Printf("%s: OPEN — attendance marking is enabled today (%s)\n", *institute, decision.Date)
		return
	}
	fmt.Printf("%s: BLOCKED — today is a holiday (%s)\n", *institute, decision.Reason)
	os.Exit(1)
}
