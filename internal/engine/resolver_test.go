package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"maitred/internal/catalog"
	"maitred/internal/models"
	"maitred/internal/session"
)

// MockGenerator is a mock implementation of the Generator capability
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func floatPtr(f float64) *float64 { return &f }

func testCatalog() *catalog.StaticSource {
	return &catalog.StaticSource{Restaurants: []models.Restaurant{
		{
			ID:               "r1",
			Name:             "Udupi Palace",
			Location:         &models.Coordinate{Lat: 12.9716, Lng: 77.5946},
			DeliveryRadiusKm: floatPtr(8),
			Rating:           floatPtr(4.5),
			FeedbackCount:    412,
			Menu: []models.MenuItem{
				{ID: "m1", Name: "Masala Dosa", Price: 90, Veg: true},
			},
		},
	}}
}

func newTestResolver(gen Generator) (*Resolver, *session.Store) {
	store := session.NewStore()
	return NewResolver(store, testCatalog(), gen, nil), store
}

func TestHandleUtteranceInputErrors(t *testing.T) {
	gen := new(MockGenerator)
	resolver, store := newTestResolver(gen)

	_, err := resolver.HandleUtterance(context.Background(), "", "hi", nil)
	assert.Error(t, err)

	_, err = resolver.HandleUtterance(context.Background(), "s1", "   ", nil)
	assert.Error(t, err)

	bad := &models.Coordinate{Lat: 99, Lng: 0}
	_, err = resolver.HandleUtterance(context.Background(), "s1", "hi", bad)
	assert.Error(t, err)

	// Input errors must not create or mutate session state.
	assert.Equal(t, 0, store.Len())
	gen.AssertNotCalled(t, "Generate")
}

func TestHandleUtteranceCollectsSlots(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("How many dosas would you like?", nil)

	resolver, store := newTestResolver(gen)

	result, err := resolver.HandleUtterance(context.Background(), "s1", "I want a veg dosa", nil)
	assert.NoError(t, err)
	assert.Equal(t, "How many dosas would you like?", result.Reply)
	assert.NotNil(t, result.Slots.Food)
	assert.Equal(t, "dosa", *result.Slots.Food)
	assert.Nil(t, result.Intent)
	assert.Empty(t, result.Candidates)

	snap, ok := store.Snapshot("s1")
	assert.True(t, ok)
	assert.Equal(t, session.StatusCollecting, snap.Status)
	assert.Len(t, snap.Turns, 2)
}

func TestHandleUtteranceRanksWhenSaturated(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("Udupi Palace can serve you!", nil)

	resolver, store := newTestResolver(gen)
	loc := &models.Coordinate{Lat: 12.9716, Lng: 77.5946}

	result, err := resolver.HandleUtterance(context.Background(), "s1", "two veg dosas please", loc)
	assert.NoError(t, err)
	assert.True(t, result.Slots.Saturated())
	if assert.Len(t, result.Candidates, 1) {
		assert.Equal(t, "r1", result.Candidates[0].ID)
	}

	snap, _ := store.Snapshot("s1")
	assert.Equal(t, session.StatusReady, snap.Status)

	// The model was offered the candidate list.
	system := gen.Calls[0].Arguments.String(1)
	assert.Contains(t, system, "Udupi Palace")
	assert.Contains(t, system, "Masala Dosa")
}

func TestHandleUtterancePlacesOrderFromPayload(t *testing.T) {
	reply := "Done! Your order is in.\n```json\n" +
		`{"action":"order","items":[{"name":"dosa","quantity":2}],"reply":"Two Masala Dosas coming up!"}` +
		"\n```"
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(reply, nil)

	resolver, store := newTestResolver(gen)
	loc := &models.Coordinate{Lat: 12.9716, Lng: 77.5946}

	result, err := resolver.HandleUtterance(context.Background(), "s1", "two veg dosas please", loc)
	assert.NoError(t, err)
	if assert.NotNil(t, result.Intent) {
		assert.Equal(t, models.ActionOrder, result.Intent.Action)
		if assert.Len(t, result.Intent.Items, 1) {
			assert.Equal(t, "Masala Dosa", result.Intent.Items[0].Name)
			assert.Equal(t, 2, result.Intent.Items[0].Quantity)
			assert.Equal(t, 90.0, result.Intent.Items[0].Price)
		}
	}
	assert.Equal(t, "Two Masala Dosas coming up!", result.Reply)

	snap, _ := store.Snapshot("s1")
	assert.Equal(t, session.StatusPlaced, snap.Status)
}

func TestHandleUtteranceFallbackOnGenerateFailure(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("upstream timeout"))

	resolver, store := newTestResolver(gen)

	result, err := resolver.HandleUtterance(context.Background(), "s1", "I want pizza", nil)
	assert.NoError(t, err, "upstream failure must degrade, not error")
	assert.NotEmpty(t, result.Reply)
	assert.Nil(t, result.Intent)

	// Session survives so the next utterance can retry.
	snap, ok := store.Snapshot("s1")
	assert.True(t, ok)
	assert.NotNil(t, snap.Slots.Food)
	assert.Equal(t, session.StatusCollecting, snap.Status)
}

func TestHandleUtteranceSlotsAccumulateAcrossTurns(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("Noted!", nil)

	resolver, _ := newTestResolver(gen)
	ctx := context.Background()

	r1, _ := resolver.HandleUtterance(ctx, "s1", "I want dosa", nil)
	assert.NotNil(t, r1.Slots.Food)
	assert.Nil(t, r1.Slots.Quantity)

	r2, _ := resolver.HandleUtterance(ctx, "s1", "make that veg, two of them", nil)
	assert.Equal(t, "dosa", *r2.Slots.Food)
	assert.True(t, *r2.Slots.Veg)
	assert.Equal(t, 2, *r2.Slots.Quantity)
}

func TestClearSession(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("Hi!", nil)

	resolver, store := newTestResolver(gen)
	_, _ = resolver.HandleUtterance(context.Background(), "s1", "hello pizza", nil)

	assert.True(t, resolver.ClearSession("s1"))
	assert.False(t, resolver.ClearSession("s1"))
	assert.Equal(t, 0, store.Len())
}
