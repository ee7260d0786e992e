package fundclient

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/ChiefWoods/fundraiser-go/program"
)

// DeriveCampaignPDA derives the campaign record address for a maker.
func DeriveCampaignPDA(programID, maker solana.PublicKey) (solana.PublicKey, uint8, error) {
	return program.DeriveCampaignAddress(programID, maker)
}

// DeriveContributionPDA derives the contribution record address for a
// (campaign, contributor) pair.
func DeriveContributionPDA(programID, campaign, contributor solana.PublicKey) (solana.PublicKey, uint8, error) {
	return program.DeriveContributionAddress(programID, campaign, contributor)
}

// DeriveVaultAddress derives the campaign's custodial vault address under
// the given token program.
func DeriveVaultAddress(campaign, mint, tokenProgramID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return program.DeriveAssociatedTokenAddress(campaign, mint, tokenProgramID)
}

// BuildInitializeInstruction builds the Initialize instruction.
// Accounts: maker(signer), mint, campaign, vault, system, tokenProgram, ataProgram.
func BuildInitializeInstruction(
	programID solana.PublicKey,
	maker solana.PublicKey,
	mint solana.PublicKey,
	tokenProgramID solana.PublicKey,
	targetAmount uint64,
	durationDays uint64,
) (solana.Instruction, error) {
	campaignPDA, _, err := DeriveCampaignPDA(programID, maker)
	if err != nil {
		return nil, err
	}
	vault, _, err := DeriveVaultAddress(campaignPDA, mint, tokenProgramID)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 1+8+8)
	data[0] = program.DiscriminatorInitialize
	binary.LittleEndian.PutUint64(data[1:9], targetAmount)
	binary.LittleEndian.PutUint64(data[9:17], durationDays)

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(maker).WRITE().SIGNER(),
			solana.Meta(mint),
			solana.Meta(campaignPDA).WRITE(),
			solana.Meta(vault).WRITE(),
			solana.Meta(program.SystemProgramID),
			solana.Meta(tokenProgramID),
			solana.Meta(program.AssociatedTokenProgID),
		},
		data,
	), nil
}

// BuildContributeInstruction builds the Contribute instruction.
// Accounts: contributor(signer), mint, campaign, contribution,
// contributorTokenAccount, vault, system, tokenProgram.
func BuildContributeInstruction(
	programID solana.PublicKey,
	contributor solana.PublicKey,
	maker solana.PublicKey,
	mint solana.PublicKey,
	tokenProgramID solana.PublicKey,
	amount uint64,
) (solana.Instruction, error) {
	campaignPDA, _, err := DeriveCampaignPDA(programID, maker)
	if err != nil {
		return nil, err
	}
	contributionPDA, _, err := DeriveContributionPDA(programID, campaignPDA, contributor)
	if err != nil {
		return nil, err
	}
	contributorToken, _, err := program.DeriveAssociatedTokenAddress(contributor, mint, tokenProgramID)
	if err != nil {
		return nil, err
	}
	vault, _, err := DeriveVaultAddress(campaignPDA, mint, tokenProgramID)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 1+8)
	data[0] = program.DiscriminatorContribute
	binary.LittleEndian.PutUint64(data[1:9], amount)

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(contributor).WRITE().SIGNER(),
			solana.Meta(mint),
			solana.Meta(campaignPDA).WRITE(),
			solana.Meta(contributionPDA).WRITE(),
			solana.Meta(contributorToken).WRITE(),
			solana.Meta(vault).WRITE(),
			solana.Meta(program.SystemProgramID),
			solana.Meta(tokenProgramID),
		},
		data,
	), nil
}

// BuildRefundInstruction builds the Refund instruction.
// Accounts: contributor(signer), maker, mint, campaign, contribution,
// contributorTokenAccount, vault, system, tokenProgram.
func BuildRefundInstruction(
	programID solana.PublicKey,
	contributor solana.PublicKey,
	maker solana.PublicKey,
	mint solana.PublicKey,
	tokenProgramID solana.PublicKey,
) (solana.Instruction, error) {
	campaignPDA, _, err := DeriveCampaignPDA(programID, maker)
	if err != nil {
		return nil, err
	}
	contributionPDA, _, err := DeriveContributionPDA(programID, campaignPDA, contributor)
	if err != nil {
		return nil, err
	}
	contributorToken, _, err := program.DeriveAssociatedTokenAddress(contributor, mint, tokenProgramID)
	if err != nil {
		return nil, err
	}
	vault, _, err := DeriveVaultAddress(campaignPDA, mint, tokenProgramID)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(contributor).WRITE().SIGNER(),
			solana.Meta(maker).WRITE(),
			solana.Meta(mint),
			solana.Meta(campaignPDA).WRITE(),
			solana.Meta(contributionPDA).WRITE(),
			solana.Meta(contributorToken).WRITE(),
			solana.Meta(vault).WRITE(),
			solana.Meta(program.SystemProgramID),
			solana.Meta(tokenProgramID),
		},
		[]byte{program.DiscriminatorRefund},
	), nil
}

// BuildClaimInstruction builds the Claim instruction.
// Accounts: maker(signer), mint, campaign, vault, makerTokenAccount,
// system, tokenProgram, ataProgram.
func BuildClaimInstruction(
	programID solana.PublicKey,
	maker solana.PublicKey,
	mint solana.PublicKey,
	tokenProgramID solana.PublicKey,
) (solana.Instruction, error) {
	campaignPDA, _, err := DeriveCampaignPDA(programID, maker)
	if err != nil {
		return nil, err
	}
	vault, _, err := DeriveVaultAddress(campaignPDA, mint, tokenProgramID)
	if err != nil {
		return nil, err
	}
	makerToken, _, err := program.DeriveAssociatedTokenAddress(maker, mint, tokenProgramID)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(maker).WRITE().SIGNER(),
			solana.Meta(mint),
			solana.Meta(campaignPDA).WRITE(),
			solana.Meta(vault).WRITE(),
			solana.Meta(makerToken).WRITE(),
			solana.Meta(program.SystemProgramID),
			solana.Meta(tokenProgramID),
			solana.Meta(program.AssociatedTokenProgID),
		},
		[]byte{program.DiscriminatorClaim},
	), nil
}
