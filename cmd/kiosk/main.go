package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"dochadzka_backend/internals/configs"
	"dochadzka_backend/internals/kiosk"
)

func main() {
	configs.LoadEnv()

	if err := kiosk.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, kiosk.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr)
			kiosk.PrintUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatalf("❌ %v", err)
	}
}
