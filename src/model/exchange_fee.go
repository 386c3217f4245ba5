package model

import "time"

// ExchangeFee caches the maker/taker fee schedule of an exchange for one asset.
type ExchangeFee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Exchange  string    `gorm:"size:100;not null;uniqueIndex:idx_exchange_fees_exchange_asset" json:"exchange"`
	Asset     string    `gorm:"size:50;not null;uniqueIndex:idx_exchange_fees_exchange_asset" json:"asset"`
	MakerFee  float64   `json:"maker_fee"`
	TakerFee  float64   `json:"taker_fee"`
	FeeNote   string    `gorm:"type:text" json:"fee_note"`
	UpdatedAt time.Time `json:"last_updated"`
}

func (ExchangeFee) TableName() string {
	return "exchange_fees"
}

type CacheFeesPayload struct {
	Exchange string  `json:"exchange"`
	Asset    string  `json:"asset"`
	MakerFee float64 `json:"makerFee"`
	TakerFee float64 `json:"takerFee"`
	Note     string  `json:"note"`
}
