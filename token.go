package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

func IsSameAddress(address1, address2 common.Address) bool {
	return address1.Cmp(address2) == 0
}

// Venue is the closed set of supported liquidity venues. Adding a venue means
// adding a constant here; string lookups at runtime are parse-time only.
type Venue int

const (
	VenueUnknown Venue = iota
	VenueSparkDEX
	VenueEnosys
	VenueBlazeSwap
)

func (v Venue) String() string {
	switch v {
	case VenueSparkDEX:
		return "sparkdex"
	case VenueEnosys:
		return "enosys"
	case VenueBlazeSwap:
		return "blazeswap"
	default:
		return "unknown"
	}
}

func (v Venue) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Venue) UnmarshalText(text []byte) error {
	if string(text) == "unknown" {
		*v = VenueUnknown
		return nil
	}
	parsed, err := ParseVenue(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func ParseVenue(name string) (Venue, error) {
	switch name {
	case "sparkdex":
		return VenueSparkDEX, nil
	case "enosys":
		return VenueEnosys, nil
	case "blazeswap":
		return VenueBlazeSwap, nil
	default:
		return VenueUnknown, fmt.Errorf("unsupported venue: %q", name)
	}
}

type Token struct {
	Address  common.Address
	Symbol   string
	Decimals int8
}

// TokenRegistry maps addresses to token metadata. Identity is the address;
// common.HexToAddress already canonicalizes case, so lookups are
// case-insensitive by construction. Immutable after construction.
type TokenRegistry struct {
	byAddress map[common.Address]*Token
	bySymbol  map[string]*Token
}

func NewTokenRegistry(tokens []*Token) *TokenRegistry {
	r := &TokenRegistry{
		byAddress: make(map[common.Address]*Token, len(tokens)),
		bySymbol:  make(map[string]*Token, len(tokens)),
	}
	for _, t := range tokens {
		r.byAddress[t.Address] = t
		r.bySymbol[t.Symbol] = t
	}
	return r
}

func (r *TokenRegistry) Get(addr common.Address) (*Token, bool) {
	t, ok := r.byAddress[addr]
	return t, ok
}

func (r *TokenRegistry) GetBySymbol(symbol string) (*Token, bool) {
	t, ok := r.bySymbol[symbol]
	return t, ok
}

func (r *TokenRegistry) Symbol(addr common.Address) string {
	if t, ok := r.byAddress[addr]; ok {
		return t.Symbol
	}
	return addr.Hex()
}

func (r *TokenRegistry) Len() int {
	return len(r.byAddress)
}

func (r *TokenRegistry) Tokens() []*Token {
	tokens := make([]*Token, 0, len(r.byAddress))
	for _, t := range r.byAddress {
		tokens = append(tokens, t)
	}
	return tokens
}
