package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgerbook-cli",
		Short: "Ledgerbook CLI tool",
		Long:  `A command line interface for interacting with the ledgerbook API.`,
	}

	cmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledgerbook API")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	cmd.AddCommand(accountsCmd())
	cmd.AddCommand(transactionsCmd())
	cmd.AddCommand(balanceCmd())

	return cmd
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var name, direction string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/accounts", map[string]string{
				"name":      name,
				"direction": direction,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Account name")
	createCmd.Flags().StringVar(&direction, "direction", "", "Account direction (debit or credit)")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("direction")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get an account with its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all accounts with balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts")
		},
	}

	cmd.AddCommand(createCmd, getCmd, listCmd)

	return cmd
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}

	var name string
	var entries []string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Post a balanced transaction",
		Long: `Post a transaction made of two or more entries. Each --entry takes
the form account_id:direction:amount, for example cash:credit:4.50.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseEntries(entries)
			if err != nil {
				return err
			}
			return postJSON("/api/v1/transactions", map[string]any{
				"name":    name,
				"entries": parsed,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Transaction name")
	createCmd.Flags().StringArrayVar(&entries, "entry", nil, "Entry as account_id:direction:amount (repeatable)")
	createCmd.MarkFlagRequired("entry")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a transaction with its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/transactions/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/transactions")
		},
	}

	cmd.AddCommand(createCmd, getCmd, listCmd)

	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the derived balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := request(http.MethodGet, "/api/v1/accounts/"+args[0], nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("request failed (status %d): %s", status, body)
			}

			var account struct {
				Name    string `json:"name"`
				Balance string `json:"balance"`
			}
			if err := json.Unmarshal(body, &account); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("%s: %s\n", account.Name, account.Balance)
			return nil
		},
	}
}

// parseEntries turns account_id:direction:amount triples into request
// entries. The amount is passed through as a raw number so the server
// parses it as a decimal.
func parseEntries(raw []string) ([]map[string]any, error) {
	entries := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		parts := strings.SplitN(r, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid entry %q: want account_id:direction:amount", r)
		}
		entries = append(entries, map[string]any{
			"account_id": parts[0],
			"direction":  parts[1],
			"amount":     json.Number(parts[2]),
		})
	}
	return entries, nil
}

func getJSON(path string) error {
	body, status, err := request(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("request failed (status %d): %s", status, body)
	}

	printJSON(body)
	return nil
}

func postJSON(path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	body, status, err := request(http.MethodPost, path, data)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("request failed (status %d): %s", status, body)
	}

	printJSON(body)
	return nil
}

func request(method, path string, payload []byte) ([]byte, int, error) {
	client := &http.Client{Timeout: timeout}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

func printJSON(body []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(buf.String())
}
