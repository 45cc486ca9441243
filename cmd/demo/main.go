// Package main runs a fixed set of sample queries through the engine and
// prints the ranked products with their narrative explanation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/services/catalog"
	"insurance-recommendation-engine/internal/services/narrative"
	"insurance-recommendation-engine/internal/services/recommender"
	"insurance-recommendation-engine/internal/utils"
)

var demoQueries = []string{
	"I'm 24, software developer, want comprehensive tech professional health plan with critical illness",
	"35-year-old Uber driver needs accident coverage with vehicle-specific benefits and low premium",
	"22-year-old college student looking for affordable health insurance with accident coverage",
	"Senior citizen, 68, with diabetes needs health insurance for pre-existing conditions",
	"New mother, 26, wants maternity support with newborn care and family coverage",
	"Startup founder, 32, needs executive health plan with high coverage and critical illness",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	catalogPath := flag.String("catalog", cfg.CatalogPath, "path to the catalog CSV")
	topN := flag.Int("top", models.DefaultTopN, "recommendations per query")
	flag.Parse()

	if err := utils.InitLogger("warn"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	ctx := context.Background()
	rule := strings.Repeat("=", 60)

	fmt.Println("Insurance Product Recommendation Agent Demo")
	fmt.Println(rule)
	fmt.Println("Initializing recommendation engine...")

	cat, err := catalog.LoadFile(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	engine := recommender.NewEngine(cat)

	narrator, closeNarrator := narrative.NewFromConfig(ctx, cfg)
	defer closeNarrator()

	for i, query := range demoQueries {
		fmt.Printf("\nTest Query %d:\n", i+1)
		fmt.Printf("Query: %s\n", query)
		fmt.Println(strings.Repeat("-", 40))

		recs, err := engine.GetRecommendations(query, *topN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "query failed: %v\n", err)
			os.Exit(1)
		}

		if len(recs) == 0 {
			fmt.Println("No suitable products found for this query.")
			fmt.Println("\n" + rule)
			continue
		}

		fmt.Printf("Found %d recommendations:\n", len(recs))
		for j := range recs {
			printRecommendation(j+1, &recs[j])
		}

		fmt.Printf("\nAI Explanation (%s):\n", narrator.Mode())
		fmt.Println(narrator.GeneratePersonalizedExplanation(ctx, recs, query))
		fmt.Println("\n" + rule)
	}

	fmt.Println("\nDemo completed!")
}

func printRecommendation(rank int, r *models.Recommendation) {
	fmt.Printf("\n%d. %s\n", rank, r.Name)
	fmt.Printf("   Type: %s\n", r.Type)
	fmt.Printf("   Premium: %s/month\n", utils.FormatRupees(r.MonthlyPremium))
	fmt.Printf("   Coverage: %s\n", utils.FormatRupees(r.Coverage))
	fmt.Printf("   Critical Illness: %s\n", models.FlagLiteral(r.CriticalIllness))
	fmt.Printf("   Maternity: %s\n", models.FlagLiteral(r.Maternity))
	fmt.Printf("   Accident: %s\n", models.FlagLiteral(r.Accident))
	fmt.Printf("   Co-pay: %d%%\n", r.CoPay)
	fmt.Printf("   Match Score: %.1f/10\n", r.RelevanceScore)
}
