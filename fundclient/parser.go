package fundclient

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/ChiefWoods/fundraiser-go/program"
)

// CampaignInfo is the decoded campaign record plus derived fields.
type CampaignInfo struct {
	Address      solana.PublicKey `json:"address"`
	Maker        solana.PublicKey `json:"maker"`
	Mint         solana.PublicKey `json:"mint"`
	TargetAmount uint64           `json:"target_amount"`
	RaisedAmount uint64           `json:"raised_amount"`
	StartTime    time.Time        `json:"start_time"`
	DurationDays uint64           `json:"duration_days"`
	EndTime      time.Time        `json:"end_time"`
	TargetMet    bool             `json:"target_met"`
}

// ContributionInfo is the decoded contribution record.
type ContributionInfo struct {
	Address     solana.PublicKey `json:"address"`
	Campaign    solana.PublicKey `json:"campaign"`
	Contributor solana.PublicKey `json:"contributor"`
	Amount      uint64           `json:"amount"`
}

// GetCampaign fetches and decodes a campaign record.
func (c *Client) GetCampaign(ctx context.Context, address solana.PublicKey) (*CampaignInfo, error) {
	accountInfo, err := c.RPC.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign account: %w", err)
	}
	if accountInfo == nil || accountInfo.Value == nil {
		return nil, fmt.Errorf("campaign account not found: %s", address)
	}

	campaign, err := program.DecodeCampaign(accountInfo.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to decode campaign: %w", err)
	}

	start := time.Unix(campaign.StartTime, 0).UTC()
	return &CampaignInfo{
		Address:      address,
		Maker:        campaign.Maker,
		Mint:         campaign.Mint,
		TargetAmount: campaign.TargetAmount,
		RaisedAmount: campaign.RaisedAmount,
		StartTime:    start,
		DurationDays: campaign.Duration,
		EndTime:      start.Add(time.Duration(campaign.Duration) * 24 * time.Hour),
		TargetMet:    campaign.RaisedAmount >= campaign.TargetAmount,
	}, nil
}

// GetCampaignByMaker derives the campaign address for a maker and fetches it.
func (c *Client) GetCampaignByMaker(ctx context.Context, maker solana.PublicKey) (*CampaignInfo, error) {
	campaignPDA, _, err := DeriveCampaignPDA(c.ProgramID, maker)
	if err != nil {
		return nil, fmt.Errorf("failed to derive campaign address: %w", err)
	}
	return c.GetCampaign(ctx, campaignPDA)
}

// GetContribution fetches and decodes a contribution record.
func (c *Client) GetContribution(ctx context.Context, address solana.PublicKey) (*ContributionInfo, error) {
	accountInfo, err := c.RPC.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contribution account: %w", err)
	}
	if accountInfo == nil || accountInfo.Value == nil {
		return nil, fmt.Errorf("contribution account not found: %s", address)
	}

	contribution, err := program.DecodeContribution(accountInfo.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to decode contribution: %w", err)
	}

	return &ContributionInfo{
		Address:     address,
		Campaign:    contribution.Campaign,
		Contributor: contribution.Contributor,
		Amount:      contribution.Amount,
	}, nil
}

// MintTokenProgram resolves which asset-transfer variant owns a mint. The
// returned program id selects the variant for every downstream derivation.
func (c *Client) MintTokenProgram(ctx context.Context, mint solana.PublicKey) (solana.PublicKey, error) {
	accountInfo, err := c.RPC.GetAccountInfo(ctx, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to fetch mint: %w", err)
	}
	if accountInfo == nil || accountInfo.Value == nil {
		return solana.PublicKey{}, fmt.Errorf("mint account not found: %s", mint)
	}

	owner := accountInfo.Value.Owner
	if _, err := program.TokenProgramFor(owner); err != nil {
		return solana.PublicKey{}, fmt.Errorf("mint %s is not owned by a token program", mint)
	}
	return owner, nil
}
