package config

import (
	"context"
	"log"

	"pizzabot-api/models"
)

var seedBranches = []models.Branch{
	{Code: "b001", Name: "Colombo", Latitude: 6.9271, Longitude: 79.8612},
	{Code: "b002", Name: "Galle", Latitude: 6.0535, Longitude: 80.2210},
	{Code: "b003", Name: "Kandy", Latitude: 7.2906, Longitude: 80.6337},
	{Code: "b004", Name: "Jaffna", Latitude: 9.6615, Longitude: 80.0255},
	{Code: "b005", Name: "Matara", Latitude: 5.9549, Longitude: 80.5550},
}

var seedMenu = []models.MenuItem{
	{ID: "m001", Name: "Margherita", Price: 1200, Description: "Classic tomato, mozzarella and basil", Category: models.CategoryVegetarian, Branches: []string{"b001", "b002", "b003", "b004", "b005"}},
	{ID: "m002", Name: "Pepperoni Feast", Price: 1650, Description: "Double pepperoni with extra cheese", Category: models.CategoryNonVegetarian, Branches: []string{"b001", "b002", "b003"}},
	{ID: "m003", Name: "Veggie Supreme", Price: 1400, Description: "Peppers, olives, onions and mushrooms", Category: models.CategoryVegetarian, Branches: []string{"b001", "b003", "b005"}},
	{ID: "m004", Name: "Chicken BBQ", Price: 1750, Description: "BBQ chicken with red onions", Category: models.CategoryNonVegetarian, Branches: []string{"b001", "b002", "b004"}},
	{ID: "m005", Name: "Cheese Lovers", Price: 1350, Description: "Four cheese blend on a thin crust", Category: models.CategoryVegetarian, Branches: []string{"b002", "b003", "b005"}},
}

// SeedDemoData writes the demo branches and catalog when the menu path
// is still empty. Controlled by SEED_DEMO_DATA (default on).
func SeedDemoData() {
	if getEnv("SEED_DEMO_DATA", "true") != "true" {
		return
	}
	ctx := context.Background()
	snap, err := Store.Get(ctx, "menu")
	if err != nil {
		log.Println("Seed check failed:", err)
		return
	}
	if snap.Exists() {
		return
	}
	for _, b := range seedBranches {
		if err := Store.Set(ctx, "branches/"+b.Code, b); err != nil {
			log.Println("Seed branch failed:", err)
			return
		}
	}
	for _, m := range seedMenu {
		if err := Store.Set(ctx, "menu/"+m.ID, m); err != nil {
			log.Println("Seed menu item failed:", err)
			return
		}
	}
	log.Println("✅ Demo branches and menu seeded")
}
