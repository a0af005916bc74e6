package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Callhook/callhook/pkg/signer"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run cmd/sign/main.go <payload.json> <secret>")
	fmt.Println("  go run cmd/sign/main.go verify <payload.json> <secret> <signature> <timestamp>")
	fmt.Println()
	fmt.Println("Verify mode honours SIGNATURE_TOLERANCE (seconds or Go duration).")
	os.Exit(1)
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "verify" {
		runVerify(args[1:])
		return
	}
	runSign(args)
}

func runSign(args []string) {
	if len(args) < 2 {
		usage()
	}

	payload, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("Failed to read payload file: %v\n", err)
		os.Exit(1)
	}
	secret := args[1]

	signature, timestamp, body, err := signer.Sign(payload, secret, time.Now())
	if err != nil {
		fmt.Printf("Failed to sign payload: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("%s: %s\n", signer.HeaderTimestamp, timestamp)
	fmt.Printf("%s: %s\n", signer.HeaderSignature, signature)
	fmt.Println()
	fmt.Printf("Canonical body: %s\n", body)
}

// runVerify checks a captured delivery, e.g. the request_body and headers of
// an audit log row a partner disputes.
func runVerify(args []string) {
	if len(args) < 4 {
		usage()
	}

	payload, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("Failed to read payload file: %v\n", err)
		os.Exit(1)
	}
	secret, signature, timestamp := args[1], args[2], args[3]

	if err := signer.Verify(payload, secret, signature, timestamp, signatureTolerance(), time.Now()); err != nil {
		fmt.Println("Signature INVALID")
		os.Exit(1)
	}
	fmt.Println("Signature OK")
}

// signatureTolerance reads SIGNATURE_TOLERANCE the same way the server does:
// bare numbers are seconds, otherwise a Go duration. Zero falls back to the
// signer default.
func signatureTolerance() time.Duration {
	raw := os.Getenv("SIGNATURE_TOLERANCE")
	if raw == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		fmt.Printf("Invalid SIGNATURE_TOLERANCE %q\n", raw)
		os.Exit(1)
	}
	return d
}
