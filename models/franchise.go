package models

import (
	"context"
	"strings"

	"bitbucket.org/cloudkitchenhq/orders_backend/utils"
)

// Franchise is one registered kitchen site ordering goods under a brand.
type Franchise struct {
	Row         int    `json:"-"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Active      bool   `json:"active"`
}

func (s *Store) ListFranchises(ctx context.Context) ([]*Franchise, error) {
	data, err := s.sheets.ReadSheet(ctx, FranchisesSchema.Name)
	if err != nil {
		return nil, err
	}
	records := FranchisesSchema.MapRows(data, s.logger)
	franchises := make([]*Franchise, 0, len(records))
	for _, rec := range records {
		franchises = append(franchises, &Franchise{
			Row:         rec.Row,
			Code:        NormalizeFranchiseCode(rec.String("code")),
			Name:        rec.String("name"),
			ContactName: rec.String("contact_name"),
			Phone:       rec.String("phone"),
			Active:      rec.Bool("active"),
		})
	}
	return franchises, nil
}

type NewFranchise struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
}

func (s *Store) CreateFranchise(ctx context.Context, input NewFranchise) error {
	phone := input.Phone
	if phone != "" {
		if err := utils.ValidatePhoneNumber(phone, utils.CountryCode); err != nil {
			return err
		}
		phone = utils.FormatPhoneNumber(phone, utils.CountryCode)
	}
	row := map[string]any{
		"code":         NormalizeFranchiseCode(input.Code),
		"name":         input.Name,
		"contact_name": input.ContactName,
		"phone":        phone,
		"active":       true,
	}
	return s.sheets.AppendRows(ctx, FranchisesSchema, []map[string]any{row})
}

// Franchise matching ties an order to a physical site. Three tiers, tried
// in order, first success wins; there is no scoring beyond strategy order.
type franchiseMatchStrategy struct {
	name string
	fn   func(order *Order, fr *Franchise) bool
}

var franchiseMatchStrategies = []franchiseMatchStrategy{
	{"exact_code", matchFranchiseByExactCode},
	{"code_prefix", matchFranchiseByCodePrefix},
	{"name_contains", matchFranchiseByName},
}

// matchFranchiseByExactCode: the order's franchisee cell holds the site
// code verbatim (modulo casing and stray spaces).
func matchFranchiseByExactCode(order *Order, fr *Franchise) bool {
	code := NormalizeFranchiseCode(order.Franchisee)
	return code != "" && code == NormalizeFranchiseCode(fr.Code)
}

// matchFranchiseByCodePrefix: the order's code contains the franchise's
// alphabetic prefix, which absorbs site-numbering suffixes ("BOL01"
// matching base "BOL").
func matchFranchiseByCodePrefix(order *Order, fr *Franchise) bool {
	prefix := AlphaPrefix(fr.Code)
	if prefix == "" {
		return false
	}
	return strings.Contains(NormalizeFranchiseCode(order.Franchisee), prefix)
}

// matchFranchiseByName: case-insensitive substring between the order's
// free-text franchisee name and the registered name, either direction.
func matchFranchiseByName(order *Order, fr *Franchise) bool {
	a := strings.ToLower(strings.TrimSpace(order.Franchisee))
	b := strings.ToLower(strings.TrimSpace(fr.Name))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// MatchFranchise returns the first franchise a tier accepts, with the tier
// name for logging, or nil when no tier matched any site.
func MatchFranchise(order *Order, franchises []*Franchise) (*Franchise, string) {
	for _, strategy := range franchiseMatchStrategies {
		for _, fr := range franchises {
			if strategy.fn(order, fr) {
				return fr, strategy.name
			}
		}
	}
	return nil, ""
}
