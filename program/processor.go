package program

import "github.com/gagliardetto/solana-go"

// Instruction discriminators, the first byte of every payload.
const (
	DiscriminatorInitialize = 0
	DiscriminatorContribute = 1
	DiscriminatorRefund     = 2
	DiscriminatorClaim      = 3
)

// Processor executes fundraiser instructions. It is constructed once with
// the program identity and the host collaborators and is read-only
// thereafter; each Process call is one complete, host-atomic invocation.
type Processor struct {
	programID solana.PublicKey
	clock     Clock
	rent      Rent
}

// NewProcessor wires the program identity and host collaborators.
func NewProcessor(programID solana.PublicKey, clock Clock, rent Rent) *Processor {
	return &Processor{
		programID: programID,
		clock:     clock,
		rent:      rent,
	}
}

// ProgramID returns the identity every derivation and ownership check runs
// against.
func (p *Processor) ProgramID() solana.PublicKey { return p.programID }

// Process routes one untrusted instruction payload to its handler.
func (p *Processor) Process(accounts []*Account, data []byte) error {
	if len(data) < 1 {
		return ErrInvalidInstructionData
	}

	switch data[0] {
	case DiscriminatorInitialize:
		return p.Initialize(accounts, data[1:])
	case DiscriminatorContribute:
		return p.Contribute(accounts, data[1:])
	case DiscriminatorRefund:
		return p.Refund(accounts, data[1:])
	case DiscriminatorClaim:
		return p.Claim(accounts, data[1:])
	default:
		return ErrInvalidInstructionData
	}
}

// campaignAuthority builds the signing authority of a campaign record from
// its stored fields. The derived address has no key; only the program can
// act as it.
func (p *Processor) campaignAuthority(campaignAcct *Account, campaign *Campaign) Authority {
	return DerivedFrom(campaignAcct, p.programID,
		SeedCampaign, campaign.Maker.Bytes(), []byte{campaign.Bump})
}
