package main

import (
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/DaleTiley/timber-roof-erp/config"
	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/DaleTiley/timber-roof-erp/workflow"
)

// Recalculates stored quote trees from their ground-truth inputs. Use after
// a pricing rule change or to repair drifted derived fields.

func main() {
	quoteID := flag.Int("quote-id", 0, "Optional: reprice only one quote. If 0, reprices all quotes.")
	dryRun := flag.Bool("dry-run", false, "Report changed quotes without writing")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	query := db.Preload("Groups.Items").Preload("Groups")
	if *quoteID != 0 {
		query = query.Where("id = ?", *quoteID)
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		fmt.Fprintf(os.Stderr, "load quotes: %v\n", err)
		os.Exit(1)
	}
	if len(quotes) == 0 {
		fmt.Fprintln(os.Stderr, "no quotes found to reprice")
		return
	}

	changed, failed := 0, 0
	for i := range quotes {
		quote := &quotes[i]

		before := quote.TotalSelling
		workflow.CalculateQuoteTotals(quote)

		if quote.TotalSelling.Equal(before) {
			continue
		}
		changed++
		fmt.Printf("quote %s (%d): selling %s -> %s\n",
			quote.QuoteNumber, quote.ID, before, quote.TotalSelling)

		if *dryRun {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for g := range quote.Groups {
				group := &quote.Groups[g]
				for j := range group.Items {
					if err := tx.Save(&group.Items[j]).Error; err != nil {
						return err
					}
				}
				if err := tx.Save(group).Error; err != nil {
					return err
				}
			}
			return tx.Save(quote).Error
		})
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "save quote %d: %v\n", quote.ID, err)
		}
	}

	fmt.Printf("reprice complete: %d quotes inspected, %d changed, %d failed\n",
		len(quotes), changed, failed)
}
