package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"

	"github.com/ChiefWoods/fundraiser-go/fundclient"
)

// InitializeRequest opens a new campaign for a maker.
type InitializeRequest struct {
	MakerAddress string `json:"maker_address"`
	MintAddress  string `json:"mint_address"`
	TargetAmount uint64 `json:"target_amount"`
	DurationDays uint64 `json:"duration_days"`
}

// ContributeRequest deposits funds into a maker's campaign.
type ContributeRequest struct {
	ContributorAddress string `json:"contributor_address"`
	MakerAddress       string `json:"maker_address"`
	Amount             uint64 `json:"amount"`
}

// RefundRequest reclaims a contributor's deposit.
type RefundRequest struct {
	ContributorAddress string `json:"contributor_address"`
	MakerAddress       string `json:"maker_address"`
}

// ClaimRequest pays the vault out to the maker.
type ClaimRequest struct {
	MakerAddress string `json:"maker_address"`
}

// SendTransactionRequest submits a signed transaction. A non-zero
// WaitSeconds blocks the reply until the transaction confirms or the wait
// elapses.
type SendTransactionRequest struct {
	SignedTransaction string `json:"signed_transaction"`
	WaitSeconds       int    `json:"wait_seconds,omitempty"`
}

// Response is the common shape of every endpoint's reply.
type Response struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message,omitempty"`
	UnsignedTx     string   `json:"unsigned_tx,omitempty"`
	TransactionSig string   `json:"transaction_sig,omitempty"`
	Campaign       string   `json:"campaign,omitempty"`
	Vault          string   `json:"vault,omitempty"`
	ErrorCode      *int     `json:"error_code,omitempty"`
	ProgramLogs    []string `json:"program_logs,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, format string, args ...any) {
	writeJSON(w, Response{Success: false, Message: fmt.Sprintf(format, args...)})
}

func parseAddress(w http.ResponseWriter, field, value string) (solana.PublicKey, bool) {
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		writeFailure(w, "invalid %s: %v", field, err)
		return solana.PublicKey{}, false
	}
	return key, true
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid request: %v", err)
		return
	}

	maker, ok := parseAddress(w, "maker_address", req.MakerAddress)
	if !ok {
		return
	}
	mint, ok := parseAddress(w, "mint_address", req.MintAddress)
	if !ok {
		return
	}

	tokenProgram, err := s.client.MintTokenProgram(r.Context(), mint)
	if err != nil {
		writeFailure(w, "failed to resolve mint: %v", err)
		return
	}

	instruction, err := fundclient.BuildInitializeInstruction(
		s.client.ProgramID, maker, mint, tokenProgram,
		req.TargetAmount, req.DurationDays,
	)
	if err != nil {
		writeFailure(w, "failed to build instruction: %v", err)
		return
	}

	unsignedTx, err := s.client.CreateTransaction(r.Context(), instruction, maker)
	if err != nil {
		writeFailure(w, "failed to create transaction: %v", err)
		return
	}

	campaignPDA, _, _ := fundclient.DeriveCampaignPDA(s.client.ProgramID, maker)
	vault, _, _ := fundclient.DeriveVaultAddress(campaignPDA, mint, tokenProgram)

	writeJSON(w, Response{
		Success:    true,
		Message:    fmt.Sprintf("campaign created for target %d over %d days", req.TargetAmount, req.DurationDays),
		UnsignedTx: unsignedTx,
		Campaign:   campaignPDA.String(),
		Vault:      vault.String(),
	})
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req ContributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid request: %v", err)
		return
	}

	contributor, ok := parseAddress(w, "contributor_address", req.ContributorAddress)
	if !ok {
		return
	}
	maker, ok := parseAddress(w, "maker_address", req.MakerAddress)
	if !ok {
		return
	}

	campaign, err := s.client.GetCampaignByMaker(r.Context(), maker)
	if err != nil {
		writeFailure(w, "failed to fetch campaign: %v", err)
		return
	}
	tokenProgram, err := s.client.MintTokenProgram(r.Context(), campaign.Mint)
	if err != nil {
		writeFailure(w, "failed to resolve mint: %v", err)
		return
	}

	instruction, err := fundclient.BuildContributeInstruction(
		s.client.ProgramID, contributor, maker, campaign.Mint, tokenProgram, req.Amount,
	)
	if err != nil {
		writeFailure(w, "failed to build instruction: %v", err)
		return
	}

	unsignedTx, err := s.client.CreateTransaction(r.Context(), instruction, contributor)
	if err != nil {
		writeFailure(w, "failed to create transaction: %v", err)
		return
	}

	writeJSON(w, Response{
		Success:    true,
		Message:    fmt.Sprintf("contribution of %d prepared. Sign on client side.", req.Amount),
		UnsignedTx: unsignedTx,
		Campaign:   campaign.Address.String(),
	})
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid request: %v", err)
		return
	}

	contributor, ok := parseAddress(w, "contributor_address", req.ContributorAddress)
	if !ok {
		return
	}
	maker, ok := parseAddress(w, "maker_address", req.MakerAddress)
	if !ok {
		return
	}

	campaign, err := s.client.GetCampaignByMaker(r.Context(), maker)
	if err != nil {
		writeFailure(w, "failed to fetch campaign: %v", err)
		return
	}
	tokenProgram, err := s.client.MintTokenProgram(r.Context(), campaign.Mint)
	if err != nil {
		writeFailure(w, "failed to resolve mint: %v", err)
		return
	}

	instruction, err := fundclient.BuildRefundInstruction(
		s.client.ProgramID, contributor, maker, campaign.Mint, tokenProgram,
	)
	if err != nil {
		writeFailure(w, "failed to build instruction: %v", err)
		return
	}

	unsignedTx, err := s.client.CreateTransaction(r.Context(), instruction, contributor)
	if err != nil {
		writeFailure(w, "failed to create transaction: %v", err)
		return
	}

	writeJSON(w, Response{
		Success:    true,
		Message:    "refund transaction created. Sign on client side.",
		UnsignedTx: unsignedTx,
		Campaign:   campaign.Address.String(),
	})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid request: %v", err)
		return
	}

	maker, ok := parseAddress(w, "maker_address", req.MakerAddress)
	if !ok {
		return
	}

	campaign, err := s.client.GetCampaignByMaker(r.Context(), maker)
	if err != nil {
		writeFailure(w, "failed to fetch campaign: %v", err)
		return
	}
	tokenProgram, err := s.client.MintTokenProgram(r.Context(), campaign.Mint)
	if err != nil {
		writeFailure(w, "failed to resolve mint: %v", err)
		return
	}

	instruction, err := fundclient.BuildClaimInstruction(
		s.client.ProgramID, maker, campaign.Mint, tokenProgram,
	)
	if err != nil {
		writeFailure(w, "failed to build instruction: %v", err)
		return
	}

	unsignedTx, err := s.client.CreateTransaction(r.Context(), instruction, maker)
	if err != nil {
		writeFailure(w, "failed to create transaction: %v", err)
		return
	}

	writeJSON(w, Response{
		Success:    true,
		Message:    "claim transaction created. Sign on client side.",
		UnsignedTx: unsignedTx,
		Campaign:   campaign.Address.String(),
	})
}

func (s *Server) handleSendTransaction(w http.ResponseWriter, r *http.Request) {
	var req SendTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "invalid request: %v", err)
		return
	}

	sig, err := s.client.SendTransaction(r.Context(), req.SignedTransaction)
	if err != nil {
		resp := Response{
			Success: false,
			Message: fundclient.ParseProgramError(err),
		}
		if code := fundclient.ExtractErrorCode(err); code != nil {
			resp.ErrorCode = code
		}
		if logs := fundclient.ExtractLogMessages(err); len(logs) > 0 {
			resp.ProgramLogs = logs
		}
		writeJSON(w, resp)
		return
	}

	if req.WaitSeconds > 0 {
		if err := s.client.WaitForConfirmation(r.Context(), sig, req.WaitSeconds); err != nil {
			writeJSON(w, Response{
				Success:        false,
				Message:        fundclient.ParseProgramError(err),
				TransactionSig: sig,
			})
			return
		}
	}

	writeJSON(w, Response{
		Success:        true,
		Message:        "Transaction sent successfully",
		TransactionSig: sig,
	})
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	maker, ok := parseAddress(w, "maker", chi.URLParam(r, "maker"))
	if !ok {
		return
	}

	campaign, err := s.client.GetCampaignByMaker(r.Context(), maker)
	if err != nil {
		writeFailure(w, "failed to fetch campaign: %v", err)
		return
	}
	writeJSON(w, campaign)
}

func (s *Server) handleGetContribution(w http.ResponseWriter, r *http.Request) {
	maker, ok := parseAddress(w, "maker", chi.URLParam(r, "maker"))
	if !ok {
		return
	}
	contributor, ok := parseAddress(w, "contributor", chi.URLParam(r, "contributor"))
	if !ok {
		return
	}

	campaignPDA, _, err := fundclient.DeriveCampaignPDA(s.client.ProgramID, maker)
	if err != nil {
		writeFailure(w, "failed to derive campaign address: %v", err)
		return
	}
	contributionPDA, _, err := fundclient.DeriveContributionPDA(s.client.ProgramID, campaignPDA, contributor)
	if err != nil {
		writeFailure(w, "failed to derive contribution address: %v", err)
		return
	}

	contribution, err := s.client.GetContribution(r.Context(), contributionPDA)
	if err != nil {
		writeFailure(w, "failed to fetch contribution: %v", err)
		return
	}
	writeJSON(w, contribution)
}
