package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer units", input: "10", want: "10"},
		{name: "fractional units", input: "2.5", want: "2.5"},
		{name: "surrounding whitespace", input: " 3 ", want: "3"},
		{name: "non-numeric", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "NaN", input: "NaN", wantErr: true},
		{name: "infinity", input: "Inf", wantErr: true},
		{name: "trailing junk", input: "10x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := ParseUnits(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUnits)
				return
			}
			require.NoError(t, err)
			assert.True(t, units.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", units, tt.want)
		})
	}
}

func TestPurchaseTotal(t *testing.T) {
	tests := []struct {
		name  string
		units string
		price string
		want  string
	}{
		{name: "whole units", units: "10", price: "2847.50", want: "28475.00"},
		{name: "single unit", units: "1", price: "68.42", want: "68.42"},
		{name: "fractional units round", units: "0.333", price: "100", want: "33.30"},
		{name: "half cent rounds", units: "0.005", price: "1", want: "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := PurchaseTotal(decimal.RequireFromString(tt.units), decimal.RequireFromString(tt.price))
			assert.True(t, total.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", total, tt.want)
		})
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleStandard.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryStock.Valid())
	assert.True(t, CategoryMutualFund.Valid())
	assert.False(t, Category("Bond").Valid())
}

func TestValidPAN(t *testing.T) {
	assert.True(t, ValidPAN(""))
	assert.True(t, ValidPAN("ABCDE1234F"))
	assert.False(t, ValidPAN("abcde1234f"))
	assert.False(t, ValidPAN("AB123"))
	assert.False(t, ValidPAN("ABCDE12345"))
}
