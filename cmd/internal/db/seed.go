package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository"
)

var sampleProducts = []model.Product{
	{Name: "Angular Speedster Board 2000", Description: "Lightweight board for everyday rides.", Price: 20000, Type: "Boards", Brand: "Angular", QuantityInStock: 100},
	{Name: "Green Angular Board 3000", Description: "Stiff deck with a wide stance.", Price: 15000, Type: "Boards", Brand: "Angular", QuantityInStock: 100},
	{Name: "Core Board Speed Rush 3", Description: "Fast board for racing.", Price: 18000, Type: "Boards", Brand: "NetCore", QuantityInStock: 100},
	{Name: "Net Core Super Board", Description: "All round board.", Price: 30000, Type: "Boards", Brand: "NetCore", QuantityInStock: 100},
	{Name: "React Board Super Whizzy Fast", Description: "Carbon deck.", Price: 25000, Type: "Boards", Brand: "React", QuantityInStock: 100},
	{Name: "Typescript Entry Board", Description: "Board for beginners.", Price: 12000, Type: "Boards", Brand: "TypeScript", QuantityInStock: 100},
	{Name: "Core Blue Hat", Description: "Wool hat.", Price: 1000, Type: "Hats", Brand: "NetCore", QuantityInStock: 100},
	{Name: "Green React Woolen Hat", Description: "Knitted hat.", Price: 800, Type: "Hats", Brand: "React", QuantityInStock: 100},
	{Name: "Purple React Woolen Hat", Description: "Knitted hat.", Price: 1500, Type: "Hats", Brand: "React", QuantityInStock: 100},
	{Name: "Blue Code Gloves", Description: "Warm gloves.", Price: 1800, Type: "Gloves", Brand: "VS Code", QuantityInStock: 100},
	{Name: "Green Code Gloves", Description: "Warm gloves.", Price: 1500, Type: "Gloves", Brand: "VS Code", QuantityInStock: 100},
	{Name: "Purple React Gloves", Description: "Leather gloves.", Price: 1600, Type: "Gloves", Brand: "React", QuantityInStock: 100},
	{Name: "Red Code Boots", Description: "Waterproof boots.", Price: 18999, Type: "Boots", Brand: "Redis", QuantityInStock: 100},
	{Name: "Core Red Boots", Description: "Hiking boots.", Price: 19999, Type: "Boots", Brand: "NetCore", QuantityInStock: 100},
}

// Seed inserts the sample catalog when the products table is empty.
func Seed(ctx context.Context, db repository.Querier, products repository.ProductRepo, log *slog.Logger) error {
	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products;").Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Debug("catalog already populated, skipping seed", "count", count)
		return nil
	}

	for _, p := range sampleProducts {
		if err := products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	log.Info("catalog seeded", "count", len(sampleProducts))
	return nil
}

// EnsureAdmin creates the admin account when a password is configured.
func EnsureAdmin(ctx context.Context, users repository.UserRepo, username, password string, log *slog.Logger) error {
	if password == "" {
		log.Warn("ADMIN_PASSWORD not set, admin account not provisioned")
		return nil
	}
	if err := users.EnsureUser(ctx, username, password, model.RoleAdmin); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}
