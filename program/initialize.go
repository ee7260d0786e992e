package program

import "encoding/binary"

// initializeAccounts is the ordered account list for Initialize.
type initializeAccounts struct {
	maker        *Account
	mint         *Account
	campaign     *Account
	vault        *Account
	system       *Account
	tokenProgram *Account
	ataProgram   *Account
}

func parseInitializeAccounts(accounts []*Account) (*initializeAccounts, error) {
	if len(accounts) != 7 {
		return nil, ErrNotEnoughAccountKeys
	}

	a := &initializeAccounts{
		maker:        accounts[0],
		mint:         accounts[1],
		campaign:     accounts[2],
		vault:        accounts[3],
		system:       accounts[4],
		tokenProgram: accounts[5],
		ataProgram:   accounts[6],
	}

	if err := CheckSigner(a.maker); err != nil {
		return nil, err
	}
	return a, nil
}

// InitializeParams is the instruction payload for Initialize.
type InitializeParams struct {
	TargetAmount uint64
	DurationDays uint64
}

func decodeInitializeParams(data []byte) (InitializeParams, error) {
	if len(data) != 16 {
		return InitializeParams{}, ErrInvalidInstructionData
	}
	return InitializeParams{
		TargetAmount: binary.LittleEndian.Uint64(data[0:8]),
		DurationDays: binary.LittleEndian.Uint64(data[8:16]),
	}, nil
}

// Initialize opens a campaign: it creates the campaign record rent-funded
// by the maker, creates the custodial vault owned by the campaign's derived
// authority, and stamps the start time from the clock oracle.
func (p *Processor) Initialize(accounts []*Account, data []byte) error {
	a, err := parseInitializeAccounts(accounts)
	if err != nil {
		return err
	}
	params, err := decodeInitializeParams(data)
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

	pda, bump, err := DeriveCampaignAddress(p.programID, a.maker.Key)
	if err != nil {
		return ErrInvalidAddress
	}
	if !pda.Equals(a.campaign.Key) {
		return ErrInvalidAddress
	}

	decimals, err := variant.Decimals(a.mint)
	if err != nil {
		return err
	}
	if params.TargetAmount <= scaledFloor(MinRaiseAmount, decimals) {
		return ErrBelowMinRaiseAmount
	}

	// Every account must be validated before the first creation; a failure
	// past that point would consume the campaign address for good.
	vaultAddr, _, err := DeriveAssociatedTokenAddress(a.campaign.Key, a.mint.Key, variant.ID())
	if err != nil {
		return ErrInvalidAddress
	}
	if !vaultAddr.Equals(a.vault.Key) {
		return ErrInvalidAddress
	}
	if !a.vault.Owner.Equals(SystemProgramID) || len(a.vault.Data) != 0 {
		return ErrInvalidAccountData
	}
	if a.maker.Lamports < p.rent.MinimumBalance(CampaignLen)+p.rent.MinimumBalance(TokenAccountLen) {
		return ErrInvalidAmount
	}

	if err := createAccount(a.maker, a.campaign, CampaignLen, p.programID, p.rent); err != nil {
		return err
	}
	if err := variant.InitAccount(a.vault, a.maker, a.mint.Key, a.campaign.Key, p.rent); err != nil {
		return err
	}

	campaign := &Campaign{
		Maker:        a.maker.Key,
		Mint:         a.mint.Key,
		TargetAmount: params.TargetAmount,
		RaisedAmount: 0,
		StartTime:    p.clock.Now(),
		Duration:     params.DurationDays,
		Bump:         bump,
	}
	return campaign.Store(a.campaign)
}
