package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	apiEndpoint := pflag.StringP("api-endpoint", "e", "", "Summarizer API endpoint URL (default: reads from environment or config file)")
	configPath := pflag.String("config", defaultConfigFile, "Path to the client config file")
	format := pflag.StringP("format", "f", "", "Output format: json or yaml (default: console rendering)")
	insecureSkipTLSVerify := pflag.Bool("insecure-skip-tls-verify", false, "Skip TLS certificate verification. Use with caution, this is insecure.")
	help := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *help {
		fmt.Printf("Usage of %s: [flags] <boardgamegeek-url>\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <boardgamegeek-url>\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Example URL: https://boardgamegeek.com/boardgame/224517/brass-birmingham")
		os.Exit(1)
	}
	pageURL := pflag.Arg(0)

	endpoint, err := resolveEndpoint(*apiEndpoint, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client, err := NewClient(endpoint, *insecureSkipTLSVerify)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client.CheckDomain(pageURL)

	html, err := client.FetchPage(pageURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	report, err := client.Summarize(html)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "":
		displayReport(report)
	case "json":
		output, err := report.Json()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(output)
	case "yaml":
		output, err := report.Yaml()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(output)
	default:
		fmt.Fprintf(os.Stderr, "Invalid format %q (expected json or yaml)\n", *format)
		os.Exit(1)
	}
}
