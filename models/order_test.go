package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	menuID := uuid.New()

	tests := []struct {
		name  string
		items []OrderLine
		want  float64
	}{
		{"empty", nil, 0},
		{"single line", []OrderLine{{MenuID: menuID, Quantity: 2, Price: 15000}}, 30000},
		{
			"multiple lines",
			[]OrderLine{
				{MenuID: menuID, Quantity: 2, Price: 15000},
				{MenuID: uuid.New(), Quantity: 1, Price: 5000},
				{MenuID: uuid.New(), Quantity: 3, Price: 2500},
			},
			42500,
		},
		{"fractional price", []OrderLine{{MenuID: menuID, Quantity: 4, Price: 1.25}}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotal(tt.items))
		})
	}
}

func TestValidTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusCompleted, false},
		{StatusPreparing, StatusReady, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusPreparing, StatusPending, false},
		{StatusPreparing, StatusCompleted, false},
		{StatusReady, StatusCompleted, true},
		{StatusReady, StatusCancelled, true},
		{StatusReady, StatusPreparing, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{"", StatusPending, false},
	}
	for _, tt := range tests {
		got := ValidTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderStatusIsValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsValid(), "status %q", s)
	}
	assert.False(t, OrderStatus("paid").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}
