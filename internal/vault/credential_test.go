package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCategory("crypto")
	assert.Error(t, err)

	_, err = ParseCategory("")
	assert.Error(t, err)
}

func TestDecodeDetails(t *testing.T) {
	raw, err := WrapDetails(BankingDetails{
		BankName:      "First National",
		AccountNumber: "000123",
		Username:      "holder",
		Password:      "secret",
	})
	require.NoError(t, err)

	c := &Credential{Category: CategoryBanking, Details: raw}
	decoded, err := c.DecodeDetails()
	require.NoError(t, err)

	banking, ok := decoded.(BankingDetails)
	require.True(t, ok)
	assert.Equal(t, "First National", banking.BankName)
	assert.Equal(t, "000123", banking.AccountNumber)
}

func TestDecodeDetailsUnknownCategoryFallsBackToOther(t *testing.T) {
	c := &Credential{Category: Category("legacy"), Details: []byte(`{"notes":"n"}`)}
	decoded, err := c.DecodeDetails()
	require.NoError(t, err)

	other, ok := decoded.(OtherDetails)
	require.True(t, ok)
	assert.Equal(t, "n", other.Notes)
}

func TestOverviewOmitsSecrets(t *testing.T) {
	c := &Credential{
		ID:               "c1",
		Category:         CategorySocial,
		Title:            "Forum",
		VerificationCode: "1234",
		Details:          []byte(`{"network":"forum"}`),
	}

	o := c.Overview()
	assert.Equal(t, "c1", o.ID)
	assert.Equal(t, CategorySocial, o.Category)
	assert.Equal(t, "Forum", o.Title)
}
