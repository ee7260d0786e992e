package program

// claimAccounts is the ordered account list for Claim.
type claimAccounts struct {
	maker        *Account
	mint         *Account
	campaign     *Account
	vault        *Account
	makerToken   *Account
	system       *Account
	tokenProgram *Account
	ataProgram   *Account
}

func parseClaimAccounts(accounts []*Account) (*claimAccounts, error) {
	if len(accounts) != 8 {
		return nil, ErrNotEnoughAccountKeys
	}

	a := &claimAccounts{
		maker:        accounts[0],
		mint:         accounts[1],
		campaign:     accounts[2],
		vault:        accounts[3],
		makerToken:   accounts[4],
		system:       accounts[5],
		tokenProgram: accounts[6],
		ataProgram:   accounts[7],
	}

	if err := CheckSigner(a.maker); err != nil {
		return nil, err
	}
	return a, nil
}

// Claim pays the entire current vault balance out to the maker once the
// target has been met. The transfer runs under the campaign's derived
// signing authority. The signer must be the maker recorded on the campaign.
func (p *Processor) Claim(accounts []*Account, data []byte) error {
	a, err := parseClaimAccounts(accounts)
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

	makerTokenAddr, _, err := DeriveAssociatedTokenAddress(a.maker.Key, a.mint.Key, variant.ID())
	if err != nil {
		return ErrInvalidAddress
	}
	if !makerTokenAddr.Equals(a.makerToken.Key) {
		return ErrInvalidAddress
	}
	if variant.CheckAccount(a.makerToken) != nil {
		if err := variant.InitAccount(a.makerToken, a.maker, a.mint.Key, a.maker.Key, p.rent); err != nil {
			return err
		}
	}

	balance, err := variant.Balance(a.vault)
	if err != nil {
		return err
	}
	if balance < campaign.TargetAmount {
		return ErrTargetNotMet
	}

	return variant.Transfer(a.vault, a.makerToken, balance, p.campaignAuthority(a.campaign, campaign))
}
