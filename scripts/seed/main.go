package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/app"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-catalog/internal/catalog/shared"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()
	deps, err := app.BuildDeps(ctx, cfg, app.NewLogger(cfg), nil)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer deps.Close()

	if deps.Postgres != nil {
		fmt.Println("→ Applying schema...")
		if err := deps.Postgres.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	fmt.Println("→ Seeding categories...")
	if err := seedCategories(ctx, deps.Service); err != nil {
		log.Fatalf("seed categories: %v", err)
	}
	fmt.Println("→ Seeding brands...")
	if err := seedBrands(ctx, deps.Service); err != nil {
		log.Fatalf("seed brands: %v", err)
	}
	fmt.Println("→ Seeding products...")
	if err := seedProducts(ctx, deps.Service); err != nil {
		log.Fatalf("seed products: %v", err)
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

// skipExisting lets the seed run repeatedly.
func skipExisting(err error) error {
	if errors.Is(err, shared.ErrDuplicateCode) {
		return nil
	}
	return err
}

func seedCategories(ctx context.Context, svc *catalog.Service) error {
	rows := []categories.CreateInput{
		{Name: "Herramientas", Code: "HER", DisplayOrder: 1},
		{Name: "Herramientas Manuales", Code: "HER-MAN", ParentCode: "HER", DisplayOrder: 1},
		{Name: "Martillos", Code: "HER-MAN-MAR", ParentCode: "HER-MAN", DisplayOrder: 1},
		{Name: "Destornilladores", Code: "HER-MAN-DES", ParentCode: "HER-MAN", DisplayOrder: 2},
		{Name: "Herramientas Eléctricas", Code: "HER-ELE", ParentCode: "HER", DisplayOrder: 2},
		{Name: "Taladros", Code: "HER-ELE-TAL", ParentCode: "HER-ELE", DisplayOrder: 1},
		{Name: "Materiales de Construcción", Code: "MAT", DisplayOrder: 2},
		{Name: "Cementos", Code: "MAT-CEM", ParentCode: "MAT", DisplayOrder: 1},
		{Name: "Fijaciones", Code: "FIJ", DisplayOrder: 3},
		{Name: "Tornillos", Code: "FIJ-TOR", ParentCode: "FIJ", DisplayOrder: 1},
	}
	for _, row := range rows {
		if _, err := svc.CreateCategory(ctx, row); skipExisting(err) != nil {
			return fmt.Errorf("%s: %w", row.Code, err)
		}
	}
	return nil
}

func seedBrands(ctx context.Context, svc *catalog.Service) error {
	rows := []brands.CreateInput{
		{Name: "Stanley", Code: "STANLEY", CountryOfOrigin: "Estados Unidos", Website: "https://www.stanleytools.com"},
		{Name: "Bosch", Code: "BOSCH", CountryOfOrigin: "Alemania", Website: "https://www.bosch.com"},
		{Name: "Truper", Code: "TRUPER", CountryOfOrigin: "México", Website: "https://www.truper.com"},
		{Name: "Melón", Code: "MELON", CountryOfOrigin: "Chile"},
	}
	for _, row := range rows {
		if _, err := svc.CreateBrand(ctx, row); skipExisting(err) != nil {
			return fmt.Errorf("%s: %w", row.Code, err)
		}
	}
	return nil
}

func seedProducts(ctx context.Context, svc *catalog.Service) error {
	rows := []struct {
		code, name, category, brand, price string
		stock                              int
		featured                           bool
	}{
		{"MTL-001", "Martillo Carpintero 16oz", "Martillos", "STANLEY", "8990", 25, true},
		{"MTL-002", "Martillo de Goma", "Martillos", "TRUPER", "5490", 4, false},
		{"DST-001", "Set Destornilladores 6 piezas", "Destornilladores", "STANLEY", "12990", 18, false},
		{"TAL-001", "Taladro Percutor 750W", "Taladros", "BOSCH", "64990", 3, true},
		{"TAL-002", "Taladro Inalámbrico 18V", "Taladros", "BOSCH", "89990", 9, true},
		{"CEM-001", "Cemento Especial 25kg", "Cementos", "MELON", "5990", 120, false},
		{"TOR-001", "Tornillo Volcanita 6x1 (100u)", "Tornillos", "TRUPER", "2490", 2, false},
	}
	for _, row := range rows {
		price, err := decimal.NewFromString(row.price)
		if err != nil {
			return err
		}
		brand, err := brandByCode(ctx, svc, row.brand)
		if err != nil {
			return err
		}
		_, err = svc.CreateProduct(ctx, products.CreateInput{
			Code:         row.code,
			Name:         row.name,
			Stock:        row.stock,
			Featured:     row.featured,
			CategoryName: row.category,
			BrandID:      &brand.ID,
			Price:        &price,
		})
		if skipExisting(err) != nil {
			return fmt.Errorf("%s: %w", row.code, err)
		}
	}
	return nil
}

func brandByCode(ctx context.Context, svc *catalog.Service, code string) (brands.Brand, error) {
	list, err := svc.Brands(ctx)
	if err != nil {
		return brands.Brand{}, err
	}
	for _, b := range list {
		if b.Code == code {
			return b.Brand, nil
		}
	}
	return brands.Brand{}, fmt.Errorf("brand %s not seeded", code)
}
