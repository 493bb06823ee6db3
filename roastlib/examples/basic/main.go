// ABOUTME: Basic example critiquing a landing page with the roast library
// ABOUTME: Uses the offline model so it runs without provider credentials

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"conversion-roast-api/roastlib"
)

func main() {
	client, err := roastlib.NewClient(
		roastlib.WithStubModel(),
		roastlib.WithScreenshotAPIKey(os.Getenv("SCREENSHOT_API_KEY")),
		roastlib.WithStorageOption(roastlib.StorageOption{Type: roastlib.StorageTypeMemory}),
	)
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer client.Close()

	ctx := context.Background()

	fmt.Println("=== Roasting a Page ===")
	result, err := client.Roast(ctx, roastlib.Submission{
		URL: "https://example.com",
		Context: roastlib.PageContext{
			Goal:     "Sign up for a free trial",
			Audience: "Engineering managers",
		},
	})
	if err != nil {
		if roastlib.IsConfigurationError(err) {
			log.Fatal("Set SCREENSHOT_API_KEY to capture pages: ", err)
		}
		log.Fatal("Roast failed: ", err)
	}

	fmt.Printf("Source: %s\n", result.Source)
	fmt.Printf("Overall score: %d\n", result.Scores.Overall)
	for _, c := range result.Comments {
		fmt.Printf("%d. [%s] %s: %s\n", c.ID, c.Category, c.Section, c.Issue)
		fmt.Printf("   Fix: %s\n", c.Solution)
	}
}
