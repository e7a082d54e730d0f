// Command seed loads the demo users and asset catalog into the database.
// Re-running it is safe: existing users are skipped and existing assets only
// get their prices refreshed (with a price-history entry for stocks).
package main

import (
	"context"
	cryptorand "crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"

	"github.com/orangebank/backend/internal/database"
	"github.com/orangebank/backend/internal/models"
	"github.com/orangebank/backend/internal/store"
)

const (
	defaultPassword        = "orangebank123@"
	initialCurrentBalance  = 10000.0
	initialInvestedBalance = 0.0
)

type userSeed struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birthDate"`
}

type stockSeed struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Sector         string  `json:"sector"`
	CurrentPrice   float64 `json:"currentPrice"`
	DailyVariation float64 `json:"dailyVariation"`
}

type fixedIncomeSeed struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Type              string    `json:"type"`
	Rate              float64   `json:"rate"`
	RateType          string    `json:"rateType"`
	Maturity          time.Time `json:"maturity"`
	MinimumInvestment float64   `json:"minimumInvestment"`
}

type usersFile struct {
	Users []userSeed `json:"users"`
}

type assetsFile struct {
	Stocks      []stockSeed       `json:"stocks"`
	FixedIncome []fixedIncomeSeed `json:"fixedIncome"`
}

var cpfSeparators = regexp.MustCompile(`[.\-\s]`)

func main() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)

	seedsDir := "cmd/seed/seeds"
	if len(os.Args) > 1 {
		seedsDir = os.Args[1]
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	st := store.NewPostgresStore(db)

	if err := seedUsers(ctx, st, filepath.Join(seedsDir, "users.json")); err != nil {
		log.Fatalf("User seed failed: %v", err)
	}
	if err := seedAssets(ctx, db, filepath.Join(seedsDir, "assets.json")); err != nil {
		log.Fatalf("Asset seed failed: %v", err)
	}

	log.Println("Seed complete")
}

func loadSeedFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return json.Unmarshal(data, dst)
}

func seedUsers(ctx context.Context, st store.Store, path string) error {
	var file usersFile
	if err := loadSeedFile(path, &file); err != nil {
		return err
	}

	hashedPassword, err := hashPassword(defaultPassword)
	if err != nil {
		return err
	}

	for _, seed := range file.Users {
		email := strings.ToLower(seed.Email)
		if _, _, err := st.Users().FindByEmail(ctx, email); err == nil {
			log.Printf("User %s already exists, skipping", email)
			continue
		} else if err != store.ErrNotFound {
			return err
		}

		user := &models.User{
			Name:      seed.Name,
			Email:     email,
			CPF:       cpfSeparators.ReplaceAllString(seed.CPF, ""),
			BirthDate: seed.BirthDate,
		}

		err := st.InTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().Create(ctx, user, hashedPassword); err != nil {
				return err
			}
			current := models.Account{
				UserID:  user.ID,
				Type:    models.CurrentAccount,
				Balance: initialCurrentBalance,
				Active:  true,
			}
			if err := tx.Accounts().Create(ctx, &current); err != nil {
				return err
			}
			investment := models.Account{
				UserID:  user.ID,
				Type:    models.InvestmentAccount,
				Balance: initialInvestedBalance,
				Active:  true,
			}
			return tx.Accounts().Create(ctx, &investment)
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", email, err)
		}
		log.Printf("Created user %s with current and investment accounts", user.Name)
	}
	return nil
}

func seedAssets(ctx context.Context, db *sql.DB, path string) error {
	var file assetsFile
	if err := loadSeedFile(path, &file); err != nil {
		return err
	}

	catalog := store.NewPostgresCatalog(db)

	for _, seed := range file.Stocks {
		if _, err := catalog.GetStock(ctx, seed.Symbol); err == nil {
			if _, err := catalog.UpdateStockPrice(ctx, seed.Symbol, seed.CurrentPrice); err != nil {
				return fmt.Errorf("refresh stock %s: %w", seed.Symbol, err)
			}
			log.Printf("Stock %s already exists, price refreshed", seed.Symbol)
			continue
		} else if err != store.ErrNotFound {
			return err
		}

		_, err := db.ExecContext(ctx, `
			INSERT INTO stocks (id, name, sector, current_price, daily_variation, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())`,
			seed.Symbol, seed.Name, seed.Sector, seed.CurrentPrice, seed.DailyVariation)
		if err != nil {
			return fmt.Errorf("seed stock %s: %w", seed.Symbol, err)
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO stock_prices (stock_id, price, created_at) VALUES ($1, $2, NOW())`,
			seed.Symbol, seed.CurrentPrice)
		if err != nil {
			return fmt.Errorf("seed stock history %s: %w", seed.Symbol, err)
		}
		log.Printf("Created stock %s", seed.Symbol)
	}

	for _, seed := range file.FixedIncome {
		if _, err := catalog.GetFixedIncome(ctx, seed.ID); err == nil {
			_, err := db.ExecContext(ctx, `
				UPDATE fixed_incomes SET rate = $2, maturity = $3, minimum_investment = $4
				WHERE id = $1`,
				seed.ID, seed.Rate, seed.Maturity, seed.MinimumInvestment)
			if err != nil {
				return fmt.Errorf("refresh fixed income %s: %w", seed.ID, err)
			}
			log.Printf("Fixed income %s already exists, updated", seed.ID)
			continue
		} else if err != store.ErrNotFound {
			return err
		}

		_, err := db.ExecContext(ctx, `
			INSERT INTO fixed_incomes (id, name, type, rate, rate_type, maturity, minimum_investment)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			seed.ID, seed.Name, seed.Type, seed.Rate, seed.RateType, seed.Maturity, seed.MinimumInvestment)
		if err != nil {
			return fmt.Errorf("seed fixed income %s: %w", seed.ID, err)
		}
		log.Printf("Created fixed income %s", seed.ID)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}
