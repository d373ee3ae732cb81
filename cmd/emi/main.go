// Command emi computes a loan EMI and amortization schedule in the terminal,
// sharing the saved parameters with the web calculator.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
