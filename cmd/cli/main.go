package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/fexhq/fex/internal/infrastructure/logger"
	"github.com/fexhq/fex/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

// bcryptGenerate is swapped out in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "fex-cli",
		Short: "FEX CLI tool",
		Long:  `A command line interface for operating the FEX exchange API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FEX API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency against the transaction history",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(ledgerCmd)

	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Exchange rate listings",
	}

	cryptoRatesCmd := &cobra.Command{
		Use:   "crypto",
		Short: "List active crypto rates",
		Run: func(cmd *cobra.Command, args []string) {
			listCryptoRates()
		},
	}

	giftCardRatesCmd := &cobra.Command{
		Use:   "giftcards",
		Short: "List supported gift card brands",
		Run: func(cmd *cobra.Command, args []string) {
			listGiftCardBrands()
		},
	}

	ratesCmd.AddCommand(cryptoRatesCmd)
	ratesCmd.AddCommand(giftCardRatesCmd)
	rootCmd.AddCommand(ratesCmd)

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	body, status, err := apiGet("/api/v1/admin/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	if status != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Printf("Consistent: %v\n", consistent)
	}
	if n, ok := result["negative_balances"].(float64); ok {
		fmt.Printf("Negative balances: %d\n", int(n))
	}
	if n, ok := result["unmatched_approvals"].(float64); ok {
		fmt.Printf("Unmatched approvals: %d\n", int(n))
	}
}

func listCryptoRates() {
	body, status, err := apiGet("/api/v1/rates/crypto")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var rates []map[string]any
	if err := json.Unmarshal(body, &rates); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-8s %-14s %-14s\n", "SYMBOL", "BUY (USD)", "SELL (USD)")
	for _, r := range rates {
		fmt.Printf("%-8v %-14v %-14v\n", r["symbol"], r["buy_rate"], r["sell_rate"])
	}
}

func listGiftCardBrands() {
	body, status, err := apiGet("/api/v1/rates/giftcards")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var brands []map[string]any
	if err := json.Unmarshal(body, &brands); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %-22s %-8s\n", "CODE", "NAME", "RATE %")
	for _, b := range brands {
		name, _ := b["name"].(string)
		fmt.Printf("%-12v %-22s %-8v\n", b["code"], truncate(name, 22), b["exchange_rate"])
	}
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Run database migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appLogger := logger.New(logger.Config{Level: "info", Format: "console"})
			switch args[0] {
			case "up":
				return postgres.RunMigrations(databaseURL, migrationsPath, appLogger)
			case "down":
				return postgres.RunMigrationsDown(databaseURL, migrationsPath, appLogger)
			default:
				return fmt.Errorf("unknown direction %q (want up or down)", args[0])
			}
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	cmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Path to migration files")
	return cmd
}

// hashPasswordCmd hashes a password for seeding admin users directly in SQL.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func apiGet(path string) ([]byte, int, error) {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
