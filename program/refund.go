package program

// refundAccounts is the ordered account list for Refund.
type refundAccounts struct {
	contributor      *Account
	maker            *Account
	mint             *Account
	campaign         *Account
	contribution     *Account
	contributorToken *Account
	vault            *Account
	system           *Account
	tokenProgram     *Account
}

func parseRefundAccounts(accounts []*Account) (*refundAccounts, error) {
	if len(accounts) != 9 {
		return nil, ErrNotEnoughAccountKeys
	}

	a := &refundAccounts{
		contributor:      accounts[0],
		maker:            accounts[1],
		mint:             accounts[2],
		campaign:         accounts[3],
		contribution:     accounts[4],
		contributorToken: accounts[5],
		vault:            accounts[6],
		system:           accounts[7],
		tokenProgram:     accounts[8],
	}

	if err := CheckSigner(a.contributor); err != nil {
		return nil, err
	}
	return a, nil
}

// Refund returns a contributor's full recorded deposit while the campaign
// window is still open and the target has not been met. It closes the
// contribution record unconditionally, so a second refund fails the record
// checks, and closes the drained vault back to the maker.
func (p *Processor) Refund(accounts []*Account, data []byte) error {
	a, err := parseRefundAccounts(accounts)
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
	if err := CheckOwnedBy(a.contribution, p.programID); err != nil {
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
	if !a.maker.Key.Equals(campaign.Maker) {
		return ErrInvalidAddress
	}

	contribution, err := DecodeContribution(a.contribution.Data)
	if err != nil {
		return err
	}
	if err := Validate(p.programID, a.contribution.Key, contribution.Bump,
		SeedContributor, contribution.Campaign.Bytes(), contribution.Contributor.Bytes()); err != nil {
		return err
	}
	if !contribution.Campaign.Equals(a.campaign.Key) {
		return ErrInvalidAddress
	}
	if !contribution.Contributor.Equals(a.contributor.Key) {
		return ErrInvalidAddress
	}

	now := p.clock.Now()
	elapsedDays := (now - campaign.StartTime) / SecondsPerDay
	if int64(campaign.Duration) < elapsedDays {
		return ErrFundraiserEnded
	}

	balance, err := variant.Balance(a.vault)
	if err != nil {
		return err
	}
	if balance >= campaign.TargetAmount {
		return ErrTargetMet
	}

	campaign.RaisedAmount -= contribution.Amount
	if err := campaign.Store(a.campaign); err != nil {
		return err
	}

	authority := p.campaignAuthority(a.campaign, campaign)
	if err := variant.Transfer(a.vault, a.contributorToken, contribution.Amount, authority); err != nil {
		return err
	}

	if balance-contribution.Amount == 0 {
		if err := variant.Close(a.vault, a.maker, authority); err != nil {
			return err
		}
	}

	closeRecord(a.contribution, a.contributor)
	return nil
}
