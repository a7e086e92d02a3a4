package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/auth"
)

var (
	bcryptGenerate = bcrypt.GenerateFromPassword

	success = color.New(color.FgGreen, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
	label   = color.New(color.FgCyan)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEntry(w io.Writer, tx *dto.TransactionResponse) {
	label.Fprint(w, "UTR:           ")
	fmt.Fprintln(w, tx.UTR)
	label.Fprint(w, "Type:          ")
	fmt.Fprintln(w, tx.Type)
	label.Fprint(w, "Amount:        ")
	fmt.Fprintln(w, tx.Amount)
	label.Fprint(w, "Balance after: ")
	fmt.Fprintln(w, tx.BalanceAfter)
	if tx.CounterpartyAccountNumber != "" {
		label.Fprint(w, "Counterparty:  ")
		fmt.Fprintln(w, tx.CounterpartyAccountNumber)
	}
}

func depositCmd(opts *globalOptions) *cobra.Command {
	var req dto.DepositRequest

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Credit an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tx dto.TransactionResponse
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodPost, "/api/v1/transactions/deposit", req, &tx); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), tx)
			}
			success.Fprintln(cmd.OutOrStdout(), "Deposit successful")
			printEntry(cmd.OutOrStdout(), &tx)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.AccountNumber, "account", "", "Account number")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount, e.g. 250.00")
	cmd.Flags().StringVar(&req.Mode, "mode", "CASH", "Payment mode")
	cmd.Flags().StringVar(&req.Description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&req.UTR, "utr", "", "Caller-assigned UTR")
	must(cmd.MarkFlagRequired("account"))
	must(cmd.MarkFlagRequired("amount"))

	return cmd
}

func withdrawCmd(opts *globalOptions) *cobra.Command {
	var req dto.WithdrawRequest

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Debit an account after PIN verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tx dto.TransactionResponse
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodPost, "/api/v1/transactions/withdraw", req, &tx); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), tx)
			}
			success.Fprintln(cmd.OutOrStdout(), "Withdrawal successful")
			printEntry(cmd.OutOrStdout(), &tx)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.AccountNumber, "account", "", "Account number")
	cmd.Flags().StringVar(&req.PIN, "pin", "", "Account holder PIN")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount, e.g. 250.00")
	cmd.Flags().StringVar(&req.Mode, "mode", "CASH", "Payment mode")
	cmd.Flags().StringVar(&req.Description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&req.UTR, "utr", "", "Caller-assigned UTR")
	must(cmd.MarkFlagRequired("account"))
	must(cmd.MarkFlagRequired("pin"))
	must(cmd.MarkFlagRequired("amount"))

	return cmd
}

func transferCmd(opts *globalOptions) *cobra.Command {
	var req dto.TransferRequest

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move funds between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.TransferResponse
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodPost, "/api/v1/transactions/transfer", req, &result); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			w := cmd.OutOrStdout()
			success.Fprintln(w, "Transfer successful")
			if result.Debit != nil {
				printEntry(w, result.Debit)
			}
			if result.Credit != nil {
				fmt.Fprintln(w)
				printEntry(w, result.Credit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.SenderAccountNumber, "from", "", "Sender account number")
	cmd.Flags().StringVar(&req.ReceiverAccountNumber, "to", "", "Receiver account number")
	cmd.Flags().StringVar(&req.PIN, "pin", "", "Sender PIN")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount, e.g. 250.00")
	cmd.Flags().StringVar(&req.Mode, "mode", "IMPS", "Payment mode")
	cmd.Flags().StringVar(&req.Description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&req.UTR, "utr", "", "Caller-assigned UTR")
	must(cmd.MarkFlagRequired("from"))
	must(cmd.MarkFlagRequired("to"))
	must(cmd.MarkFlagRequired("pin"))
	must(cmd.MarkFlagRequired("amount"))

	return cmd
}

func historyCmd(opts *globalOptions) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history ACCOUNT",
		Short: "List an account's transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/transactions?" + query.Encode()

			var txs []dto.TransactionResponse
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodGet, path, nil, &txs); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), txs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tUTR\tTYPE\tAMOUNT\tBALANCE\tDESCRIPTION")
			for _, tx := range txs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					formatTime(tx.CreatedAt), tx.UTR, tx.Type, tx.Amount, tx.BalanceAfter, truncate(tx.Description, 30))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")

	return cmd
}

func accountCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get NUMBER",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &account); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), account)
			}

			w := cmd.OutOrStdout()
			label.Fprint(w, "Account: ")
			fmt.Fprintln(w, account.AccountNumber)
			label.Fprint(w, "Balance: ")
			fmt.Fprintln(w, account.Balance)
			label.Fprint(w, "Status:  ")
			fmt.Fprintln(w, account.Status)
			return nil
		},
	})

	return cmd
}

func printCustomer(w io.Writer, c *dto.CustomerResponse) {
	label.Fprint(w, "Customer: ")
	fmt.Fprintln(w, c.ID)
	label.Fprint(w, "Name:     ")
	fmt.Fprintln(w, c.Name)
	label.Fprint(w, "Email:    ")
	fmt.Fprintln(w, c.Email)
	if c.Phone != "" {
		label.Fprint(w, "Phone:    ")
		fmt.Fprintln(w, c.Phone)
	}
}

func customerCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Customer operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var customer dto.CustomerResponse
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodGet, "/api/v1/customers/"+url.PathEscape(args[0]), nil, &customer); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), customer)
			}

			printCustomer(cmd.OutOrStdout(), &customer)
			return nil
		},
	})

	cmd.AddCommand(customerUpdateCmd(opts))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a customer that owns no accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodDelete, "/api/v1/customers/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}

			success.Fprintf(cmd.OutOrStdout(), "Customer %s deleted\n", args[0])
			return nil
		},
	})

	return cmd
}

func customerUpdateCmd(opts *globalOptions) *cobra.Command {
	var name, email, phone, pin string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a customer's details or PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.UpdateCustomerRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("email") {
				req.Email = &email
			}
			if flags.Changed("phone") {
				req.Phone = &phone
			}
			if flags.Changed("pin") {
				req.PIN = &pin
			}
			if req == (dto.UpdateCustomerRequest{}) {
				return fmt.Errorf("nothing to update: pass at least one of --name, --email, --phone or --pin")
			}

			var customer dto.CustomerResponse
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodPut, "/api/v1/customers/"+url.PathEscape(args[0]), req, &customer); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), customer)
			}

			success.Fprintln(cmd.OutOrStdout(), "Customer updated")
			printCustomer(cmd.OutOrStdout(), &customer)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&email, "email", "", "New email address")
	cmd.Flags().StringVar(&phone, "phone", "", "New phone number")
	cmd.Flags().StringVar(&pin, "pin", "", "New PIN")

	return cmd
}

func statementCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "statement ACCOUNT",
		Short: "Download an account statement as an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, status, err := newAPIClient(opts).raw(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/statement.xlsx", nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				apiErr := &apiError{Status: status}
				_ = json.Unmarshal(raw, &apiErr.Body)
				return apiErr
			}

			if output == "" {
				output = "statement-" + args[0] + ".xlsx"
			}
			if err := os.WriteFile(output, raw, 0o644); err != nil {
				return err
			}

			success.Fprintf(cmd.OutOrStdout(), "Statement written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default statement-ACCOUNT.xlsx)")

	return cmd
}

func ledgerCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			if _, err := newAPIClient(opts).call(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, &report, http.StatusConflict); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}

			w := cmd.OutOrStdout()
			if report.Consistent {
				success.Fprintf(w, "Consistency check PASSED (%d accounts)\n", report.AccountsChecked)
				return nil
			}

			failure.Fprintf(w, "Consistency check FAILED (%d issues)\n", len(report.Issues))
			for _, issue := range report.Issues {
				fmt.Fprintf(w, "  %s: %s (balance %s, expected %s)\n", issue.AccountNumber, issue.Reason, issue.Balance, issue.Expected)
			}
			return fmt.Errorf("ledger is inconsistent")
		},
	})

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret   string
		operator string
		email    string
		role     string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an operator token with the server's JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(&domain.Operator{
				ID:    operator,
				Email: email,
				Role:  domain.Role(role),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	cmd.Flags().StringVar(&operator, "operator", "", "Operator id")
	cmd.Flags().StringVar(&email, "email", "", "Operator email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleTeller), "Role: admin, teller or auditor")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	must(cmd.MarkFlagRequired("operator"))

	return cmd
}

func hashPINCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-pin PIN",
		Short: "Print the bcrypt hash of a PIN for seeding customers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidatePIN(args[0]); err != nil {
				return err
			}

			hash, err := bcryptGenerate([]byte(args[0]), cost)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}
