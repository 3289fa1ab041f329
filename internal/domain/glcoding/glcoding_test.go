package glcoding

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCode(t *testing.T) {
	lines := Code(Amounts{
		Subtotal:        dec("100.00"),
		Freight:         dec("10.00"),
		EnvFees:         dec("5.00"),
		TaxAmount:       dec("7.00"),
		DiscountsEarned: dec("3.00"),
	}, invoice.DocInvoice)

	require.Len(t, lines, 4)

	assert.Equal(t, AccountParts, lines[0].Account)
	assert.Equal(t, "105", lines[0].Amount.String())

	assert.Equal(t, AccountFreight, lines[1].Account)
	assert.Equal(t, "10", lines[1].Amount.String())

	assert.Equal(t, AccountDiscounts, lines[2].Account)
	assert.Equal(t, "3", lines[2].Amount.String())

	assert.Equal(t, AccountGST, lines[3].Account)
	assert.Equal(t, "7", lines[3].Amount.String())
}

func TestCode_PartsBucketAdditions(t *testing.T) {
	lines := Code(Amounts{
		Subtotal:              dec("1955.50"),
		DealerGeneratedReturn: dec("10.00"),
		DepositValues:         dec("80.01"),
		EnvFees:               dec("71.51"),
	}, invoice.DocInvoice)

	assert.True(t, lines[0].Amount.Equal(dec("2117.02")), lines[0].Amount.String())
}

func TestCode_CreditMemoKeepsSigns(t *testing.T) {
	lines := Code(Amounts{
		Subtotal:  dec("-150.00"),
		TaxAmount: dec("-10.00"),
	}, invoice.DocCreditMemo)

	assert.True(t, lines[0].Amount.Equal(dec("-150.00")))
	assert.True(t, lines[3].Amount.Equal(dec("-10.00")))
	assert.Contains(t, lines[0].Description, "Credit Memo")
}

func TestCode_RoundsToCents(t *testing.T) {
	lines := Code(Amounts{Subtotal: dec("10.005")}, invoice.DocInvoice)
	assert.Equal(t, "10.01", lines[0].Amount.StringFixed(2))
}
