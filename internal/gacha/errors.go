package gacha

import "errors"

var (
	ErrUnknownRarity = errors.New("unknown rarity")
	ErrUnknownItem   = errors.New("item not in catalog")
	ErrEmptyPool     = errors.New("banner item pool is empty")
	ErrNoCandidates  = errors.New("no eligible items for drawn rarity")
	ErrBannerConfig  = errors.New("invalid banner config")
	ErrInvalidRates  = errors.New("invalid rate table")
)
