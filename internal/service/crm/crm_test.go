package crm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apota/mydms-sub010/internal/db/dbtest"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/service/crm"
)

func newService(t *testing.T) *crm.Service {
	t.Helper()

	s, err := crm.New(dbtest.New(t))
	require.NoError(t, err)

	return s
}

func TestCustomerDefaults(t *testing.T) {
	s := newService(t)

	c, err := s.Create(context.Background(), &crm.CustomerInput{Name: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.CustomerTypeSales, c.CustomerType)
	assert.Equal(t, models.DefaultCountry, c.Country)
}

func TestCustomerValidation(t *testing.T) {
	s := newService(t)

	tests := []struct {
		name string
		in   crm.CustomerInput
		tag  string
	}{
		{"missing name", crm.CustomerInput{Email: "a@example.com"}, "required"},
		{"bad email", crm.CustomerInput{Name: "A", Email: "nope"}, "email"},
		{"unknown type", crm.CustomerInput{Name: "A", Email: "a@example.com", CustomerType: "Alien"}, "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), &tt.in)

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.tag, verr.Fields[0].Tag)
		})
	}
}

func TestSearch(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	for _, in := range []crm.CustomerInput{
		{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"},
		{Name: "Charles Babbage", Email: "charles@example.com"},
		{Name: "Grace 100% Hopper", Email: "grace@navy.mil"},
	} {
		_, err := s.Create(ctx, &in)
		require.NoError(t, err)
	}

	tests := []struct {
		q    string
		want int
	}{
		{"ada", 1},
		{"EXAMPLE.COM", 2},
		{"555", 1},
		{"100%", 1},
		{"_", 0},
		{"nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			found, err := s.Search(ctx, tt.q)
			require.NoError(t, err)
			assert.Len(t, found, tt.want)
		})
	}

	hits, err := s.SearchHits(ctx, "ada", "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "customer", hits[0].Type)

	hits, err = s.SearchHits(ctx, "ada", "vehicle")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestInteractions(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	c, err := s.Create(ctx, &crm.CustomerInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	earlier := time.Now().Add(-time.Hour)

	_, err = s.AddInteraction(ctx, c.ID, &crm.InteractionInput{Channel: "Phone", Subject: "first", OccurredAt: &earlier})
	require.NoError(t, err)
	_, err = s.AddInteraction(ctx, c.ID, &crm.InteractionInput{Channel: "Email", Subject: "second"})
	require.NoError(t, err)

	list, err := s.Interactions(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Subject)

	_, err = s.AddInteraction(ctx, "missing", &crm.InteractionInput{Channel: "Phone", Subject: "x"})
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = s.AddInteraction(ctx, c.ID, &crm.InteractionInput{Channel: "Pigeon", Subject: "x"})

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	// interactions go with their customer
	require.NoError(t, s.Delete(ctx, c.ID))

	_, err = s.Interactions(ctx, c.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}
