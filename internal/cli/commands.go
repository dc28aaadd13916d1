package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"supplychain-wallet-gateway/internal/core/domain"
	"supplychain-wallet-gateway/internal/service"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Start a pairing session and print the pairing string",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.wallet.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			text := fmt.Sprintf("mode: %s\ntopic: %s\npairing string: %s", res.Mode, res.Topic, res.PairingString)
			if res.FallbackReason != "" {
				text += "\nfallback: " + res.FallbackReason
			}
			return a.print(res, text)
		},
	}
}

func newConnectCmd(a *app) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect the wallet, pairing first if needed",
		Long:  "connect waits for the wallet to approve the pairing. With the simulated wallet it asks which account to use unless --account is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if account != "" {
				ctx = service.WithAccountChoice(ctx, account)
			}
			res, err := a.wallet.ConnectWallet(ctx)
			if err != nil {
				return err
			}
			return a.print(res, fmt.Sprintf("connected %s as %s (%s wallet)", res.AccountID, res.Role, res.Mode))
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "simulated account to use, by 1-based position")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Restore the stored session and print its state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.wallet.Initialize(cmd.Context()); err != nil {
				return err
			}
			session := a.wallet.Session()
			status := struct {
				State     domain.State `json:"state"`
				Mode      domain.Mode  `json:"mode"`
				Connected bool         `json:"connected"`
				AccountID string       `json:"account_id,omitempty"`
				Role      domain.Role  `json:"role,omitempty"`
				Topic     string       `json:"topic,omitempty"`
			}{
				State:     a.wallet.State(),
				Mode:      a.wallet.Mode(),
				Connected: a.wallet.IsWalletConnected(),
				AccountID: session.AccountID,
				Topic:     session.Topic,
			}
			text := fmt.Sprintf("state: %s\nmode: %s", status.State, status.Mode)
			if status.Connected {
				status.Role = domain.RoleForAccount(status.AccountID)
				text += fmt.Sprintf("\naccount: %s (%s)", status.AccountID, status.Role)
			} else {
				text += "\naccount: not connected"
			}
			return a.print(status, text)
		},
	}
}

func newTransferCmd(a *app) *cobra.Command {
	var (
		to     string
		amount float64
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer HBAR from the connected account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.submit(cmd.Context(), func(ctx context.Context) (*domain.Receipt, error) {
				return a.wallet.TransferHBAR(ctx, to, amount)
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "receiving account (shard.realm.num)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount in HBAR")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newMessageCmd(a *app) *cobra.Command {
	var topic, text string

	cmd := &cobra.Command{
		Use:   "message",
		Short: "Submit a message to a consensus topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.submit(cmd.Context(), func(ctx context.Context) (*domain.Receipt, error) {
				return a.wallet.SubmitMessage(ctx, topic, messageValue(text))
			})
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "topic id")
	cmd.Flags().StringVar(&text, "text", "", "message; valid JSON objects are sent as JSON")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newTopicCmd(a *app) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Create a consensus topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.submit(cmd.Context(), func(ctx context.Context) (*domain.Receipt, error) {
				return a.wallet.CreateTopic(ctx, name, description)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "topic name")
	cmd.Flags().StringVar(&description, "description", "", "topic description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Create, mint, move and track product tokens",
	}
	cmd.AddCommand(
		newProductCreateCmd(a),
		newProductMintCmd(a),
		newProductSendCmd(a),
		newProductUpdateCmd(a),
	)
	return cmd
}

func newProductCreateCmd(a *app) *cobra.Command {
	var product domain.ProductToken

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.submit(cmd.Context(), func(ctx context.Context) (*domain.Receipt, error) {
				return a.wallet.CreateProductToken(ctx, product)
			})
		},
	}

	cmd.Flags().StringVar(&product.Name, "name", "", "product name")
	cmd.Flags().StringVar(&product.SKU, "sku", "", "token symbol (defaults to the name's initials)")
	cmd.Flags().BoolVar(&product.Fungible, "fungible", false, "create a fungible batch instead of unique items")
	cmd.Flags().Int64Var(&product.Quantity, "quantity", 0, "initial supply of a fungible batch")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProductMintCmd(a *app) *cobra.Command {
	var tokenID, metadata string

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint one product NFT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.submit(cmd.Context(), func(ctx context.Context) (*domain.Receipt, error) {
				return a.wallet.MintProductNFT(ctx, tokenID, messageValue(metadata))
			})
		},
	}

	cmd.Flags().StringVar(&tokenID, "token", "", "token id")
	cmd.Flags().StringVar(&metadata, "metadata", "{}", "NFT metadata (JSON or text)")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newProductSendCmd(a *app) *cobra.Command {
	var tokenID, to string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Transfer a product NFT to another account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.submit(cmd.Context(), func(ctx context.Context) (*domain.Receipt, error) {
				return a.wallet.TransferNFT(ctx, tokenID, to)
			})
		},
	}

	cmd.Flags().StringVar(&tokenID, "token", "", "token id")
	cmd.Flags().StringVar(&to, "to", "", "receiving account")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newProductUpdateCmd(a *app) *cobra.Command {
	var (
		productID string
		status    int
		data      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Record a product status change",
		Long:  "update publishes a status change to the product's topic. Status is the stage index: " + stageList() + ".",
		RunE: func(cmd *cobra.Command, _ []string) error {
			extra := make(map[string]any, len(data))
			for k, v := range data {
				extra[k] = v
			}
			return a.submit(cmd.Context(), func(ctx context.Context) (*domain.Receipt, error) {
				return a.wallet.RecordProductUpdate(ctx, productID, domain.ProductStatus(status), extra)
			})
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "product topic id")
	cmd.Flags().IntVar(&status, "status", 0, "stage index")
	cmd.Flags().StringToStringVar(&data, "data", nil, "extra fields, key=value")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newDisconnectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Tear down the session and forget the stored pairing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.wallet.Initialize(cmd.Context()); err != nil {
				return err
			}
			ok := a.wallet.Disconnect(cmd.Context())
			text := "disconnected"
			if !ok {
				text = "disconnected locally, wallet teardown failed"
			}
			return a.print(map[string]bool{"disconnected": ok}, text)
		},
	}
}

// submit connects (restoring the stored session first) and runs one
// transaction.
func (a *app) submit(ctx context.Context, run func(context.Context) (*domain.Receipt, error)) error {
	if _, err := a.wallet.ConnectWallet(ctx); err != nil {
		return err
	}
	receipt, err := run(ctx)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("%s %s: %s", receipt.Kind, receipt.TransactionID, receipt.Status)
	if receipt.Simulated {
		text += " (simulated)"
	}
	return a.print(receipt, text)
}

func messageValue(s string) any {
	if json.Valid([]byte(s)) && strings.HasPrefix(strings.TrimSpace(s), "{") {
		return json.RawMessage(s)
	}
	return s
}

func stageList() string {
	names := make([]string, 0, int(domain.ProductSold)+1)
	for s := domain.ProductCreated; s <= domain.ProductSold; s++ {
		names = append(names, fmt.Sprintf("%d %s", s, s))
	}
	return strings.Join(names, ", ")
}
