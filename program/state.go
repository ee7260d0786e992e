package program

import (
	"bytes"
	"encoding/binary"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Record sizes. Layouts are fixed, field-order-significant and carry no
// padding; decode fails unless the buffer length matches exactly.
const (
	CampaignLen     = 32 + 32 + 8 + 8 + 8 + 8 + 1
	ContributionLen = 32 + 32 + 8 + 1
)

// Campaign is the record describing one fundraising effort. One exists per
// maker; its address is derived from (SeedCampaign, maker). All fields but
// RaisedAmount are fixed at creation.
type Campaign struct {
	Maker        solana.PublicKey
	Mint         solana.PublicKey
	TargetAmount uint64
	RaisedAmount uint64
	StartTime    int64
	Duration     uint64
	Bump         uint8
}

// DecodeCampaign loads a campaign record from an account buffer.
func DecodeCampaign(data []byte) (*Campaign, error) {
	if len(data) != CampaignLen {
		return nil, ErrInvalidAccountData
	}

	dec := bin.NewBinDecoder(data)
	c := &Campaign{}

	maker, err := dec.ReadNBytes(32)
	if err != nil {
		return nil, ErrInvalidAccountData
	}
	c.Maker = solana.PublicKeyFromBytes(maker)

	mint, err := dec.ReadNBytes(32)
	if err != nil {
		return nil, ErrInvalidAccountData
	}
	c.Mint = solana.PublicKeyFromBytes(mint)

	if c.TargetAmount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, ErrInvalidAccountData
	}
	if c.RaisedAmount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, ErrInvalidAccountData
	}
	if c.StartTime, err = dec.ReadInt64(binary.LittleEndian); err != nil {
		return nil, ErrInvalidAccountData
	}
	if c.Duration, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, ErrInvalidAccountData
	}
	if c.Bump, err = dec.ReadUint8(); err != nil {
		return nil, ErrInvalidAccountData
	}

	return c, nil
}

// Encode serializes the campaign record into its fixed layout.
func (c *Campaign) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, CampaignLen))
	enc := bin.NewBinEncoder(buf)

	_ = enc.WriteBytes(c.Maker.Bytes(), false)
	_ = enc.WriteBytes(c.Mint.Bytes(), false)
	_ = enc.WriteUint64(c.TargetAmount, binary.LittleEndian)
	_ = enc.WriteUint64(c.RaisedAmount, binary.LittleEndian)
	_ = enc.WriteInt64(c.StartTime, binary.LittleEndian)
	_ = enc.WriteUint64(c.Duration, binary.LittleEndian)
	_ = enc.WriteUint8(c.Bump)

	return buf.Bytes()
}

// Store writes the record back into the account's buffer.
func (c *Campaign) Store(acct *Account) error {
	if len(acct.Data) != CampaignLen {
		return ErrInvalidAccountData
	}
	copy(acct.Data, c.Encode())
	return nil
}

// ContributionCap returns the per-contributor ceiling for this campaign.
// Targets large enough to overflow the bps product divide first, trading
// sub-bps precision for a cap that cannot wrap.
func (c *Campaign) ContributionCap() uint64 {
	if c.TargetAmount > math.MaxUint64/MaxContributionBPS {
		return c.TargetAmount / MaxBPS * MaxContributionBPS
	}
	return c.TargetAmount * MaxContributionBPS / MaxBPS
}

// CheckMint fails unless the supplied mint matches the asset this campaign
// raises.
func (c *Campaign) CheckMint(mint solana.PublicKey) error {
	if !c.Mint.Equals(mint) {
		return ErrInvalidMintToRaise
	}
	return nil
}

// Contribution is the record of one contributor's cumulative live deposit
// into one campaign. Its address is derived from (SeedContributor,
// campaign, contributor). It is created lazily on first contribution and
// destroyed on refund.
type Contribution struct {
	Campaign    solana.PublicKey
	Contributor solana.PublicKey
	Amount      uint64
	Bump        uint8
}

// DecodeContribution loads a contribution record from an account buffer.
func DecodeContribution(data []byte) (*Contribution, error) {
	if len(data) != ContributionLen {
		return nil, ErrInvalidAccountData
	}

	dec := bin.NewBinDecoder(data)
	c := &Contribution{}

	campaign, err := dec.ReadNBytes(32)
	if err != nil {
		return nil, ErrInvalidAccountData
	}
	c.Campaign = solana.PublicKeyFromBytes(campaign)

	contributor, err := dec.ReadNBytes(32)
	if err != nil {
		return nil, ErrInvalidAccountData
	}
	c.Contributor = solana.PublicKeyFromBytes(contributor)

	if c.Amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, ErrInvalidAccountData
	}
	if c.Bump, err = dec.ReadUint8(); err != nil {
		return nil, ErrInvalidAccountData
	}

	return c, nil
}

// Encode serializes the contribution record into its fixed layout.
func (c *Contribution) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, ContributionLen))
	enc := bin.NewBinEncoder(buf)

	_ = enc.WriteBytes(c.Campaign.Bytes(), false)
	_ = enc.WriteBytes(c.Contributor.Bytes(), false)
	_ = enc.WriteUint64(c.Amount, binary.LittleEndian)
	_ = enc.WriteUint8(c.Bump)

	return buf.Bytes()
}

// Store writes the record back into the account's buffer.
func (c *Contribution) Store(acct *Account) error {
	if len(acct.Data) != ContributionLen {
		return ErrInvalidAccountData
	}
	copy(acct.Data, c.Encode())
	return nil
}
