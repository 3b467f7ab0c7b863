package controllers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popreach/popreach/models"
)

func event(email, eventType string, ts time.Time) models.PopupAnalytics {
	return models.PopupAnalytics{
		Shop:      "demo.myshopify.com",
		EventType: eventType,
		Email:     &email,
		Timestamp: ts,
	}
}

func TestBuildSubscriberAggregatesCounters(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	prize := "15% OFF"
	code := "SPIN15"

	winEvent := event("ann@example.com", models.EventWin, base.Add(2*time.Hour))
	winEvent.PrizeLabel = &prize
	winEvent.DiscountCode = &code

	events := []models.PopupAnalytics{
		event("ann@example.com", models.EventView, base),
		event("ann@example.com", models.EventEmailEntered, base.Add(time.Hour)),
		winEvent,
		event("ann@example.com", models.EventSpin, base.Add(90*time.Minute)),
		event("bob@example.com", models.EventEmailEntered, base.Add(3*time.Hour)),
		event("bob@example.com", models.EventClose, base.Add(4*time.Hour)),
	}
	discounts := []models.DiscountCode{
		{Shop: "demo.myshopify.com", Email: "ann@example.com", Code: "SPIN15", IsActive: true},
		{Shop: "demo.myshopify.com", Email: "ann@example.com", Code: "OLD10", IsActive: false},
		{Shop: "demo.myshopify.com", Email: "ghost@example.com", Code: "NOBODY"},
	}

	subs := BuildSubscriberAggregates(events, discounts)
	require.Len(t, subs, 2)

	// Order follows first appearance in the event scan
	ann := subs[0]
	assert.Equal(t, "ann@example.com", ann.Email)
	assert.Equal(t, 4, ann.TotalInteractions)
	assert.Equal(t, 1, ann.EmailEntries)
	assert.Equal(t, 1, ann.Views)
	assert.Equal(t, 1, ann.Spins)
	assert.Equal(t, 1, ann.Wins)
	assert.Equal(t, base.Add(time.Hour), ann.FirstEmailEntry)
	assert.Equal(t, base.Add(2*time.Hour), ann.LastActivity)
	assert.Equal(t, 2, ann.TotalDiscounts)
	assert.Equal(t, 1, ann.ActiveDiscounts)
	require.Len(t, ann.PrizesWon, 1)
	assert.Equal(t, "15% OFF", ann.PrizesWon[0].Prize)
	assert.Equal(t, "SPIN15", ann.PrizesWon[0].Code)
	require.Len(t, ann.InteractionHistory, 4)
	// History is newest first
	assert.Equal(t, models.EventWin, ann.InteractionHistory[0].EventType)

	bob := subs[1]
	assert.Equal(t, 2, bob.TotalInteractions)
	assert.Equal(t, 1, bob.Closes)
	assert.Equal(t, 0, bob.TotalDiscounts)
}

func TestBuildSubscriberAggregatesSkipsAnonymousEvents(t *testing.T) {
	base := time.Now()
	anonymous := models.PopupAnalytics{Shop: "demo.myshopify.com", EventType: models.EventView, Timestamp: base}
	empty := ""
	blank := models.PopupAnalytics{Shop: "demo.myshopify.com", EventType: models.EventView, Email: &empty, Timestamp: base}

	subs := BuildSubscriberAggregates([]models.PopupAnalytics{anonymous, blank}, nil)
	assert.Empty(t, subs)
}

func TestSortSubscriberAggregates(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	subs := []SubscriberAggregate{
		{Email: "Zed@example.com", LastActivity: base.Add(time.Hour), TotalDiscounts: 1, Wins: 3},
		{Email: "amy@example.com", LastActivity: base.Add(3 * time.Hour), TotalDiscounts: 5, Wins: 0},
		{Email: "mia@example.com", LastActivity: base.Add(2 * time.Hour), TotalDiscounts: 3, Wins: 1},
	}

	SortSubscriberAggregates(subs, "email", "asc")
	assert.Equal(t, "amy@example.com", subs[0].Email)
	assert.Equal(t, "mia@example.com", subs[1].Email)
	assert.Equal(t, "Zed@example.com", subs[2].Email)

	SortSubscriberAggregates(subs, "totalDiscounts", "desc")
	assert.Equal(t, 5, subs[0].TotalDiscounts)
	assert.Equal(t, 1, subs[2].TotalDiscounts)

	SortSubscriberAggregates(subs, "wins", "desc")
	assert.Equal(t, 3, subs[0].Wins)

	// Unknown keys and the legacy "timestamp" alias order by last activity
	SortSubscriberAggregates(subs, "timestamp", "desc")
	assert.Equal(t, "amy@example.com", subs[0].Email)
	SortSubscriberAggregates(subs, "somethingelse", "asc")
	assert.Equal(t, "Zed@example.com", subs[0].Email)
}

func TestPaginateSubscribers(t *testing.T) {
	subs := make([]SubscriberAggregate, 120)
	for i := range subs {
		subs[i].Email = fmt.Sprintf("user%03d@example.com", i)
	}

	page, info := PaginateSubscribers(subs, 2, 50)
	require.Len(t, page, 50)
	assert.Equal(t, "user050@example.com", page[0].Email)
	assert.Equal(t, 120, info.Total)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrev)

	last, info := PaginateSubscribers(subs, 3, 50)
	assert.Len(t, last, 20)
	assert.False(t, info.HasNext)

	// Past the end yields an empty page, not a panic
	none, info := PaginateSubscribers(subs, 9, 50)
	assert.Empty(t, none)
	assert.Equal(t, 9, info.Page)

	// Bad inputs fall back to the defaults
	defaulted, info := PaginateSubscribers(subs, 0, -1)
	assert.Len(t, defaulted, DefaultSubscriberLimit)
	assert.Equal(t, 1, info.Page)
}

func TestSummarizeSubscribersActiveWindow(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	subs := []SubscriberAggregate{
		{Email: "fresh@example.com", LastActivity: now.Add(-29 * 24 * time.Hour), TotalInteractions: 4, EmailEntries: 1, Spins: 2, Wins: 1, TotalDiscounts: 1},
		{Email: "stale@example.com", LastActivity: now.Add(-31 * 24 * time.Hour), TotalInteractions: 2, EmailEntries: 1},
	}

	summary := SummarizeSubscribers(subs, now)
	assert.Equal(t, 2, summary.TotalSubscribers)
	assert.Equal(t, 1, summary.ActiveSubscribers)
	assert.Equal(t, 6, summary.TotalPopupInteractions)
	assert.Equal(t, 2, summary.TotalEmailEntries)
	assert.Equal(t, 2, summary.TotalSpins)
	assert.Equal(t, 1, summary.TotalWins)
	assert.Equal(t, 1, summary.TotalDiscountCodes)
}
