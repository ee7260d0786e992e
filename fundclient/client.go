package fundclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps a Solana RPC client for the fundraiser program.
type Client struct {
	RPC       *rpc.Client
	ProgramID solana.PublicKey
}

// NewClient creates a new fundraiser program client.
func NewClient(rpcURL string, programID string) (*Client, error) {
	rpcClient := rpc.New(rpcURL)

	programPubkey, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return nil, fmt.Errorf("invalid program ID: %w", err)
	}

	return &Client{
		RPC:       rpcClient,
		ProgramID: programPubkey,
	}, nil
}

// HealthCheck pings the RPC node.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.RPC.GetHealth(ctx)
	return err
}

// CreateTransaction creates an unsigned transaction for a single instruction.
func (c *Client) CreateTransaction(
	ctx context.Context,
	instruction solana.Instruction,
	payer solana.PublicKey,
) (string, error) {
	return c.CreateTransactionWithInstructions(ctx, []solana.Instruction{instruction}, payer)
}

// CreateTransactionWithInstructions creates an unsigned transaction for
// multiple instructions, serialized to base64 for client-side signing.
func (c *Client) CreateTransactionWithInstructions(
	ctx context.Context,
	instructions []solana.Instruction,
	payer solana.PublicKey,
) (string, error) {
	recent, err := c.RPC.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to get blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize: %w", err)
	}

	return base64.StdEncoding.EncodeToString(txBytes), nil
}

// SendTransaction sends a signed, base64-encoded transaction.
func (c *Client) SendTransaction(ctx context.Context, signedTxBase64 string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(signedTxBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(txBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse transaction: %w", err)
	}

	sig, err := c.RPC.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("failed to send: %w", err)
	}

	return sig.String(), nil
}

// WaitForConfirmation polls until the signature is confirmed or the timeout
// elapses.
func (c *Client) WaitForConfirmation(ctx context.Context, signature string, timeoutSeconds int) error {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}

	maxRetries := timeoutSeconds / 2 // Poll every 2 seconds
	for i := 0; i < maxRetries; i++ {
		status, err := c.RPC.GetSignatureStatuses(ctx, true, sig)
		if err == nil && status != nil && len(status.Value) > 0 && status.Value[0] != nil {
			txStatus := status.Value[0]

			if txStatus.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				txStatus.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				if txStatus.Err != nil {
					return fmt.Errorf("transaction failed: %v", txStatus.Err)
				}
				return nil
			}

			if txStatus.Err != nil {
				return fmt.Errorf("transaction failed: %v", txStatus.Err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	return fmt.Errorf("timeout waiting for confirmation after %d seconds", timeoutSeconds)
}
