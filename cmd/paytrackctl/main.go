package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/pkg/response"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		server  string
		timeout time.Duration
	)
	root := &cobra.Command{
		Use:           "paytrackctl",
		Short:         "Operator CLI for the paytrack API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultServer := os.Getenv("PAYTRACK_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8001"
	}
	root.PersistentFlags().StringVar(&server, "server", defaultServer, "paytrack API base URL")
	root.PersistentFlags().DurationVar(&timeout, "http-timeout", 6*time.Minute, "HTTP client timeout")

	client := func() *apiClient { return newAPIClient(server, timeout) }
	root.AddCommand(statusCmd(client), waitCmd(client), payCmd(client))
	return root
}

func statusCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "status <checkout_request_id>",
		Short: "Show the current status of a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := client().status(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printView(cmd, res)
		},
	}
}

func waitCmd(client func() *apiClient) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "wait <checkout_request_id>",
		Short: "Block until a payment settles or the timeout elapses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := client().wait(cmd.Context(), args[0], timeout)
			if err != nil {
				return err
			}
			return printView(cmd, res)
		},
	}
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "How long to wait")
	return cmd
}

func payCmd(client func() *apiClient) *cobra.Command {
	var (
		description string
		convo       string
		wait        bool
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "pay <phone> <amount>",
		Short: "Send an STK push to a customer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			if !amount.IsPositive() {
				return payment.ErrInvalidAmount
			}
			res, err := client().pay(cmd.Context(), payRequest{
				PhoneNumber:    args[0],
				Amount:         amount.String(),
				Description:    description,
				Context:        convo,
				Wait:           wait,
				TimeoutSeconds: int(timeout.Seconds()),
			})
			if err != nil {
				return err
			}
			if err := printView(cmd, res); err != nil {
				return err
			}
			if !wait {
				fmt.Fprintf(cmd.OutOrStdout(), "checkout_request_id: %s\n", res.Data.CorrelationID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Payment description")
	cmd.Flags().StringVar(&convo, "context", "", "Conversation text used to infer a description")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait for the payment to settle")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "How long to wait with --wait")
	return cmd
}

func printView(cmd *cobra.Command, res *response.APIResponse[payment.StatusView]) error {
	fmt.Fprintln(cmd.OutOrStdout(), payment.StatusMessage(res.Data))
	if res.Code == response.APIResponseCodeNotFound {
		return fmt.Errorf("payment %s not found", res.Data.CorrelationID)
	}
	return nil
}
