package product

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merawaalameetha/meetha-backend/pkg/db/models"
	"github.com/merawaalameetha/meetha-backend/pkg/enums"
)

// SeedVendor is a vendor account created by the catalog seed.
type SeedVendor struct {
	Key   string
	Name  string
	Email string
}

// SeedProduct is a catalog listing created by the seed, owned by SeedVendor Key.
type SeedProduct struct {
	Vendor      string
	Name        string
	Description string
	Price       string
	Category    enums.ProductCategory
	MinOrderKg  string
	MaxOrderKg  string
	City        string
	State       string
	Occasions   []string
	ImageURL    string
}

// SeedResult reports what the seed touched.
type SeedResult struct {
	Vendors  int
	Products int
}

var SeedVendors = []SeedVendor{
	{Key: "sharma", Name: "Sharma Sweet House", Email: "sharma.sweets@gmail.com"},
	{Key: "kolkata", Name: "Kolkata Mishti Bhandar", Email: "bengali.mishti@gmail.com"},
	{Key: "punjab", Name: "Punjab Sweet Corner", Email: "punjab.sweets@gmail.com"},
}

var SeedProducts = []SeedProduct{
	{Vendor: "sharma", Name: "Besan Laddu", Description: "Traditional gram flour laddus made with pure ghee, cardamom, and dry fruits. Perfect for festivals and celebrations.", Price: "450", Category: enums.ProductCategoryLaddu, MinOrderKg: "1", MaxOrderKg: "25", City: "Delhi", State: "Delhi", Occasions: []string{"wedding", "festival", "religious"}, ImageURL: "https://images.unsplash.com/photo-1606471190009-85f571c4956e?w=400"},
	{Vendor: "sharma", Name: "Motichoor Laddu", Description: "Delicate pearl-sized gram flour balls bound with sugar syrup. A wedding favorite across North India.", Price: "520", Category: enums.ProductCategoryLaddu, MinOrderKg: "2", MaxOrderKg: "30", City: "Delhi", State: "Delhi", Occasions: []string{"wedding", "engagement", "festival"}, ImageURL: "https://images.unsplash.com/photo-1565805509314-e398ec8b33b6?w=400"},
	{Vendor: "punjab", Name: "Coconut Laddu", Description: "Fresh coconut laddus with condensed milk and cardamom. Light, fragrant, and irresistible.", Price: "380", Category: enums.ProductCategoryLaddu, MinOrderKg: "1", MaxOrderKg: "20", City: "Amritsar", State: "Punjab", Occasions: []string{"birthday", "festival", "celebration"}, ImageURL: "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=400"},
	{Vendor: "sharma", Name: "Kaju Barfi", Description: "Premium cashew barfi made with the finest cashews and silver leaf. The king of Indian sweets.", Price: "850", Category: enums.ProductCategoryBarfi, MinOrderKg: "1", MaxOrderKg: "15", City: "Delhi", State: "Delhi", Occasions: []string{"wedding", "anniversary", "corporate"}, ImageURL: "https://images.unsplash.com/photo-1633113089758-3a81e9eb2a5d?w=400"},
	{Vendor: "punjab", Name: "Kova Barfi", Description: "Rich milk barfi with the authentic taste of slow-cooked khoya. Melts in your mouth.", Price: "420", Category: enums.ProductCategoryBarfi, MinOrderKg: "1", MaxOrderKg: "20", City: "Amritsar", State: "Punjab", Occasions: []string{"festival", "celebration", "gift"}, ImageURL: "https://images.unsplash.com/photo-1626132647523-66e234def6d0?w=400"},
	{Vendor: "kolkata", Name: "Rasgulla", Description: "Authentic Bengali rasgullas soaked in light sugar syrup. Soft, spongy, and traditionally made.", Price: "320", Category: enums.ProductCategoryRasgulla, MinOrderKg: "1", MaxOrderKg: "20", City: "Kolkata", State: "West Bengal", Occasions: []string{"durga_puja", "birthday", "celebration"}, ImageURL: "https://images.unsplash.com/photo-1599947832554-c4d5c54a564a?w=400"},
	{Vendor: "kolkata", Name: "Sandesh", Description: "Delicate cottage cheese sweet with cardamom. A Bengali classic that represents pure indulgence.", Price: "480", Category: enums.ProductCategorySandesh, MinOrderKg: "1", MaxOrderKg: "15", City: "Kolkata", State: "West Bengal", Occasions: []string{"durga_puja", "kali_puja", "celebration"}, ImageURL: "https://images.unsplash.com/photo-1541167760496-1628856ab772?w=400"},
	{Vendor: "sharma", Name: "Gulab Jamun", Description: "Classic deep-fried milk solid dumplings in rose-flavored sugar syrup. The most loved Indian sweet.", Price: "380", Category: enums.ProductCategoryGulabJamun, MinOrderKg: "1", MaxOrderKg: "25", City: "Delhi", State: "Delhi", Occasions: []string{"wedding", "birthday", "festival", "celebration"}, ImageURL: "https://images.unsplash.com/photo-1558471048-b5ec2df2528c?w=400"},
	{Vendor: "punjab", Name: "Gajar Halwa", Description: "Rich carrot halwa slow-cooked with milk, ghee, and dry fruits. Perfect winter dessert.", Price: "420", Category: enums.ProductCategoryHalwa, MinOrderKg: "1", MaxOrderKg: "20", City: "Amritsar", State: "Punjab", Occasions: []string{"winter_festival", "celebration", "gift"}, ImageURL: "https://images.unsplash.com/photo-1562774053-701939374585?w=400"},
	{Vendor: "sharma", Name: "Sooji Halwa", Description: "Semolina halwa with ghee, sugar, and cardamom. Simple yet divine taste.", Price: "280", Category: enums.ProductCategoryHalwa, MinOrderKg: "1", MaxOrderKg: "20", City: "Delhi", State: "Delhi", Occasions: []string{"religious", "prasad", "celebration"}, ImageURL: "https://images.unsplash.com/photo-1565805509308-9dbabadc1b5d?w=400"},
	{Vendor: "punjab", Name: "Jalebi", Description: "Crispy spiral-shaped sweets soaked in saffron syrup. Fresh, hot, and irresistibly crunchy.", Price: "350", Category: enums.ProductCategoryJalebi, MinOrderKg: "1", MaxOrderKg: "15", City: "Amritsar", State: "Punjab", Occasions: []string{"festival", "celebration", "morning_special"}, ImageURL: "https://images.unsplash.com/photo-1599290587853-b071a6fe4c14?w=400"},
	{Vendor: "kolkata", Name: "Rice Kheer", Description: "Creamy rice pudding with milk, cardamom, and garnished with almonds and pistachios.", Price: "180", Category: enums.ProductCategoryKheer, MinOrderKg: "1", MaxOrderKg: "25", City: "Kolkata", State: "West Bengal", Occasions: []string{"religious", "festival", "celebration"}, ImageURL: "https://images.unsplash.com/photo-1583222332003-a2f01dfb79c0?w=400"},
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lowercases name and collapses whitespace runs into dashes.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// SeedProductID is the deterministic listing id <vendorId>-<slug>.
func SeedProductID(vendorID uuid.UUID, name string) string {
	return fmt.Sprintf("%s-%s", vendorID, Slug(name))
}

// VendorSeedID derives a stable vendor id from the account email.
func VendorSeedID(email string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("meetha:vendor:"+strings.ToLower(email)))
}

// Seed creates the vendor accounts (existing emails are left untouched) and upserts
// every catalog listing. passwordHash is stored for newly created vendors.
func Seed(ctx context.Context, conn *gorm.DB, passwordHash string) (SeedResult, error) {
	var result SeedResult
	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vendorIDs := make(map[string]models.User, len(SeedVendors))
		for _, v := range SeedVendors {
			user := models.User{
				ID:           VendorSeedID(v.Email),
				Name:         v.Name,
				Email:        v.Email,
				PasswordHash: passwordHash,
				Role:         enums.UserRoleVendor,
				IsActive:     true,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoNothing: true,
			}).Create(&user).Error; err != nil {
				return fmt.Errorf("seed vendor %s: %w", v.Email, err)
			}
			var stored models.User
			if err := tx.Where("email = ?", v.Email).First(&stored).Error; err != nil {
				return fmt.Errorf("load vendor %s: %w", v.Email, err)
			}
			vendorIDs[v.Key] = stored
			result.Vendors++
		}

		repo := NewRepository(tx)
		for _, sp := range SeedProducts {
			vendor, ok := vendorIDs[sp.Vendor]
			if !ok {
				return fmt.Errorf("seed product %s: unknown vendor %q", sp.Name, sp.Vendor)
			}
			p, err := sp.toModel(vendor)
			if err != nil {
				return err
			}
			if err := repo.Upsert(ctx, p); err != nil {
				return fmt.Errorf("seed product %s: %w", sp.Name, err)
			}
			result.Products++
		}
		return nil
	})
	return result, err
}

func (sp SeedProduct) toModel(vendor models.User) (*models.Product, error) {
	price, err := decimal.NewFromString(sp.Price)
	if err != nil {
		return nil, fmt.Errorf("seed product %s price: %w", sp.Name, err)
	}
	minKg, err := decimal.NewFromString(sp.MinOrderKg)
	if err != nil {
		return nil, fmt.Errorf("seed product %s min order: %w", sp.Name, err)
	}
	var maxKg decimal.NullDecimal
	if sp.MaxOrderKg != "" {
		v, err := decimal.NewFromString(sp.MaxOrderKg)
		if err != nil {
			return nil, fmt.Errorf("seed product %s max order: %w", sp.Name, err)
		}
		maxKg = decimal.NewNullDecimal(v)
	}
	return &models.Product{
		ID:          SeedProductID(vendor.ID, sp.Name),
		Name:        sp.Name,
		Description: sp.Description,
		Price:       price,
		Category:    sp.Category,
		ImageURL:    sp.ImageURL,
		MinOrderKg:  minKg,
		MaxOrderKg:  maxKg,
		VendorID:    vendor.ID,
		VendorName:  vendor.Name,
		City:        sp.City,
		State:       sp.State,
		Occasions:   pq.StringArray(sp.Occasions),
		IsActive:    true,
	}, nil
}
