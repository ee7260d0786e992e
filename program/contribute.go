package program

import "encoding/binary"

// contributeAccounts is the ordered account list for Contribute.
type contributeAccounts struct {
	contributor      *Account
	mint             *Account
	campaign         *Account
	contribution     *Account
	contributorToken *Account
	vault            *Account
	system           *Account
	tokenProgram     *Account
}

func parseContributeAccounts(accounts []*Account) (*contributeAccounts, error) {
	if len(accounts) != 8 {
		return nil, ErrNotEnoughAccountKeys
	}

	a := &contributeAccounts{
		contributor:      accounts[0],
		mint:             accounts[1],
		campaign:         accounts[2],
		contribution:     accounts[3],
		contributorToken: accounts[4],
		vault:            accounts[5],
		system:           accounts[6],
		tokenProgram:     accounts[7],
	}

	if err := CheckSigner(a.contributor); err != nil {
		return nil, err
	}
	return a, nil
}

// ContributeParams is the instruction payload for Contribute.
type ContributeParams struct {
	Amount uint64
}

func decodeContributeParams(data []byte) (ContributeParams, error) {
	if len(data) != 8 {
		return ContributeParams{}, ErrInvalidInstructionData
	}
	return ContributeParams{Amount: binary.LittleEndian.Uint64(data)}, nil
}

// Contribute deposits funds into an open campaign. The contribution record
// is created lazily on the first call for a (campaign, contributor) pair;
// the asset transfer into the vault runs under the contributor's own
// signature, not the campaign authority.
func (p *Processor) Contribute(accounts []*Account, data []byte) error {
	a, err := parseContributeAccounts(accounts)
	if err != nil {
		return err
	}
	params, err := decodeContributeParams(data)
	if err != nil {
		return err
	}

	variant, err := TokenProgramFor(a.mint.Owner)
	if err != nil {
		return err
	}
	if err := variant.CheckMint(a.mint); err != nil {
		return err
	}
	if err := CheckOwnedBy(a.campaign, p.programID); err != nil {
		return err
	}
	if err := CheckAssociatedTokenAccount(a.contributorToken, a.contributor.Key, a.mint.Key, variant); err != nil {
		return err
	}
	if err := CheckAssociatedTokenAccount(a.vault, a.campaign.Key, a.mint.Key, variant); err != nil {
		return err
	}

	campaign, err := DecodeCampaign(a.campaign.Data)
	if err != nil {
		return err
	}
	if err := Validate(p.programID, a.campaign.Key, campaign.Bump, SeedCampaign, campaign.Maker.Bytes()); err != nil {
		return err
	}
	if err := campaign.CheckMint(a.mint.Key); err != nil {
		return err
	}

	now := p.clock.Now()
	elapsedDays := (now - campaign.StartTime) / SecondsPerDay
	if now != campaign.StartTime && int64(campaign.Duration) <= elapsedDays {
		return ErrFundraiserEnded
	}

	pda, bump, err := DeriveContributionAddress(p.programID, a.campaign.Key, a.contributor.Key)
	if err != nil {
		return ErrInvalidAddress
	}
	if !pda.Equals(a.contribution.Key) {
		return ErrInvalidAddress
	}

	if CheckOwnedBy(a.contribution, p.programID) != nil {
		if err := createAccount(a.contributor, a.contribution, ContributionLen, p.programID, p.rent); err != nil {
			return err
		}
		fresh := &Contribution{
			Campaign:    a.campaign.Key,
			Contributor: a.contributor.Key,
			Amount:      0,
			Bump:        bump,
		}
		if err := fresh.Store(a.contribution); err != nil {
			return err
		}
	}

	contribution, err := DecodeContribution(a.contribution.Data)
	if err != nil {
		return err
	}

	decimals, err := variant.Decimals(a.mint)
	if err != nil {
		return err
	}
	if params.Amount <= scaledFloor(MinContributionAmount, decimals) {
		return ErrContributionTooSmall
	}

	limit := campaign.ContributionCap()
	if params.Amount > limit {
		return ErrContributionTooBig
	}
	if contribution.Amount >= limit || contribution.Amount+params.Amount > limit {
		return ErrMaximumContributionsReached
	}

	// The transfer is the last fallible step; it must land before the
	// records acknowledge the amount.
	if err := variant.Transfer(a.contributorToken, a.vault, params.Amount, SignedBy(a.contributor)); err != nil {
		return err
	}

	campaign.RaisedAmount += params.Amount
	if err := campaign.Store(a.campaign); err != nil {
		return err
	}
	contribution.Amount += params.Amount
	return contribution.Store(a.contribution)
}
