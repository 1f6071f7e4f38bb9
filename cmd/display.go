package main

import (
	"fmt"
	"strings"
)

// displayReport renders the comparison side by side on stdout.
func displayReport(report *ComparisonReport) {
	banner := strings.Repeat("=", 80)
	divider := strings.Repeat("-", 80)

	fmt.Println("\n" + banner)
	fmt.Println("BOARD GAME SUMMARIZER - MODEL COMPARISON RESULTS")
	fmt.Println(banner)

	fmt.Printf("\nText extracted: %d characters\n", report.TextLength)
	fmt.Printf("Models compared: %d\n", report.ModelsCompared)

	for i, result := range report.Results {
		fmt.Println("\n" + divider)
		fmt.Printf("MODEL %d: %s\n", i+1, result.ModelID)
		fmt.Println(divider)

		if result.Success {
			fmt.Println("\nSummary:")
			fmt.Println(result.Summary)

			fmt.Println("\nMetrics:")
			fmt.Printf("  - Latency: %.2f seconds\n", result.Metrics.LatencySeconds)
			fmt.Printf("  - Input tokens: %d\n", result.Metrics.InputTokens)
			fmt.Printf("  - Output tokens: %d\n", result.Metrics.OutputTokens)
			fmt.Printf("  - Output length: %d characters\n", result.Metrics.OutputLength)
		} else {
			fmt.Printf("\nERROR: %s\n", result.Error)
			fmt.Printf("Latency: %.2f seconds\n", result.Metrics.LatencySeconds)
		}
	}

	fmt.Println("\n" + banner)
}
