package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stockledger-cli",
		Short: "Stock ledger CLI tool",
		Long:  `A command line interface for interacting with the stock ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the stock ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	stockCmd := &cobra.Command{
		Use:   "stock",
		Short: "Stock queries",
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the stock report",
		Run: func(cmd *cobra.Command, args []string) {
			warehouseID, _ := cmd.Flags().GetString("warehouse")
			stockReport(warehouseID)
		},
	}
	reportCmd.Flags().String("warehouse", "", "Limit the report to one warehouse")

	balanceCmd := &cobra.Command{
		Use:   "balance <warehouse-id> <product-id>",
		Short: "Show the balance for one key",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			showBalance(args[0], args[1])
		},
	}

	stockCmd.AddCommand(reportCmd, balanceCmd)
	rootCmd.AddCommand(stockCmd)

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconciliation operations",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep every cached balance against the journal",
		Run: func(cmd *cobra.Command, args []string) {
			runReconciliation()
		},
	}

	rebuildCmd := &cobra.Command{
		Use:   "rebuild <warehouse-id> <product-id>",
		Short: "Rebuild one cached balance from the journal",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			rebuildBalance(args[0], args[1])
		},
	}

	reconcileCmd.AddCommand(runCmd, rebuildCmd)
	rootCmd.AddCommand(reconcileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func stockReport(warehouseID string) {
	url := baseURL + "/api/v1/inventory/stock-report"
	if warehouseID != "" {
		url += "?warehouse_id=" + warehouseID
	}

	body := getJSON(url)

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(rows) == 0 {
		fmt.Println("No stock on hand")
		return
	}

	for _, row := range rows {
		fmt.Printf("%-20v %-20v %10v\n",
			row["warehouse_name"], row["product_sku"], row["on_hand"])
	}
}

func showBalance(warehouseID, productID string) {
	body := getJSON(fmt.Sprintf("%s/api/v1/inventory/balances/%s/%s", baseURL, warehouseID, productID))

	var balance map[string]any
	if err := json.Unmarshal(body, &balance); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Warehouse: %v\nProduct:   %v\nOn hand:   %v\nWatermark: %v\n",
		balance["warehouse_id"], balance["product_id"], balance["on_hand"], balance["last_movement_id"])
}

func runReconciliation() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/reconciliation/run", "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Reconciliation FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var report map[string]any
	if err := json.Unmarshal(body, &report); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if clean, ok := report["clean"].(bool); ok && clean {
		fmt.Printf("Reconciliation PASSED (%v keys checked)\n", report["keys_checked"])
		return
	}

	fmt.Printf("Reconciliation found inconsistencies\n")
	fmt.Printf("Keys checked:           %v\n", report["keys_checked"])
	fmt.Printf("Unpaired transfer-ins:  %v\n", report["unpaired_transfer_ins"])

	if diverged, ok := report["diverged"].([]any); ok {
		for _, d := range diverged {
			fmt.Printf("Diverged: %v\n", d)
		}
	}
	os.Exit(1)
}

func rebuildBalance(warehouseID, productID string) {
	client := &http.Client{Timeout: timeout}
	url := fmt.Sprintf("%s/api/v1/reconciliation/balances/%s/%s/rebuild", baseURL, warehouseID, productID)
	resp, err := client.Post(url, "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Rebuild FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var balance map[string]any
	if err := json.Unmarshal(body, &balance); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rebuilt %s/%s: on hand %v at watermark %v\n",
		warehouseID, productID, balance["on_hand"], balance["last_movement_id"])
}

func getJSON(url string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}
