// Package vault owns the stored credential records, grouped by category,
// and the per-session verification state that gates access to them.
package vault

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category classifies a credential. The set is closed; anything that does
// not fit a specific category belongs to CategoryOther.
type Category string

const (
	CategoryBanking       Category = "banking"
	CategoryInvestment    Category = "investment"
	CategoryEntertainment Category = "entertainment"
	CategorySocial        Category = "social"
	CategoryGaming        Category = "gaming"
	CategoryOther         Category = "other"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryBanking, CategoryInvestment, CategoryEntertainment,
		CategorySocial, CategoryGaming, CategoryOther,
	}
}

// ParseCategory validates a raw category string from the outside world.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	switch c {
	case CategoryBanking, CategoryInvestment, CategoryEntertainment,
		CategorySocial, CategoryGaming, CategoryOther:
		return c, nil
	}
	return "", fmt.Errorf("unknown credential category %q", s)
}

// Credential is a stored secret record. Details carries the
// category-specific payload; VerificationCode is the per-item secret a
// caller must echo back before the details may be viewed, edited, or
// deleted.
type Credential struct {
	ID               string          `json:"id"`
	Category         Category        `json:"category"`
	Title            string          `json:"title"`
	CreatedAt        time.Time       `json:"createdAt"`
	VerificationCode string          `json:"-"`
	Details          json.RawMessage `json:"details,omitempty"`
}

// Overview is the listing view of a credential: everything except the
// gated payload and the verification secret.
type Overview struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Credential) Overview() Overview {
	return Overview{ID: c.ID, Category: c.Category, Title: c.Title, CreatedAt: c.CreatedAt}
}

// Draft is the caller-supplied part of a new credential.
type Draft struct {
	Title            string          `json:"title"`
	VerificationCode string          `json:"verificationCode"`
	Details          json.RawMessage `json:"details"`
}

// Patch carries a partial update. Nil fields are left untouched; ID,
// Category and CreatedAt can never be patched.
type Patch struct {
	Title            *string         `json:"title"`
	VerificationCode *string         `json:"verificationCode"`
	Details          json.RawMessage `json:"details"`
}

// TypedDetails is implemented by every category-specific payload.
type TypedDetails interface {
	GetCategory() Category
}

// BankingDetails stores bank account access data.
type BankingDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

func (x BankingDetails) GetCategory() Category { return CategoryBanking }

// InvestmentDetails stores brokerage/investment platform access data.
type InvestmentDetails struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (x InvestmentDetails) GetCategory() Category { return CategoryInvestment }

// EntertainmentDetails stores streaming/entertainment service access data.
type EntertainmentDetails struct {
	Service  string `json:"service"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (x EntertainmentDetails) GetCategory() Category { return CategoryEntertainment }

// SocialDetails stores social network access data.
type SocialDetails struct {
	Network  string `json:"network"`
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

func (x SocialDetails) GetCategory() Category { return CategorySocial }

// GamingDetails stores gaming platform access data.
type GamingDetails struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (x GamingDetails) GetCategory() Category { return CategoryGaming }

// OtherDetails stores free-form credentials that fit no specific category.
type OtherDetails struct {
	Notes  string            `json:"notes"`
	Fields map[string]string `json:"fields"`
}

func (x OtherDetails) GetCategory() Category { return CategoryOther }

// WrapDetails serializes a typed payload for storage in a Credential.
func WrapDetails(v TypedDetails) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeDetails decodes the raw payload into the concrete type for the
// credential's category.
func (c *Credential) DecodeDetails() (any, error) {
	switch c.Category {
	case CategoryBanking:
		var v BankingDetails
		return v, json.Unmarshal(c.Details, &v)
	case CategoryInvestment:
		var v InvestmentDetails
		return v, json.Unmarshal(c.Details, &v)
	case CategoryEntertainment:
		var v EntertainmentDetails
		return v, json.Unmarshal(c.Details, &v)
	case CategorySocial:
		var v SocialDetails
		return v, json.Unmarshal(c.Details, &v)
	case CategoryGaming:
		var v GamingDetails
		return v, json.Unmarshal(c.Details, &v)
	default:
		var v OtherDetails
		return v, json.Unmarshal(c.Details, &v)
	}
}
