package controllers

import (
	"sort"
	"strings"
	"time"

	"github.com/popreach/popreach/models"
)

// activeSubscriberWindow bounds "active": last activity within 30 days
const activeSubscriberWindow = 30 * 24 * time.Hour

// DefaultSubscriberLimit is the page size when the caller sends none
const DefaultSubscriberLimit = 50

// PrizeWon is one wheel prize carried by an analytics row
type PrizeWon struct {
	Prize     string    `json:"prize"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// SubscriberAggregate is the per-email rollup rebuilt on every query.
// Never persisted.
type SubscriberAggregate struct {
	Email              string                  `json:"email"`
	TotalInteractions  int                     `json:"totalInteractions"`
	EmailEntries       int                     `json:"emailEntries"`
	Views              int                     `json:"views"`
	Spins              int                     `json:"spins"`
	Wins               int                     `json:"wins"`
	Losses             int                     `json:"losses"`
	CodesCopied        int                     `json:"codesCopied"`
	Closes             int                     `json:"closes"`
	FirstEmailEntry    time.Time               `json:"firstEmailEntry"`
	LastActivity       time.Time               `json:"lastActivity"`
	PrizesWon          []PrizeWon              `json:"prizesWon"`
	DiscountCodes      []models.DiscountCode   `json:"discountCodes"`
	TotalDiscounts     int                     `json:"totalDiscounts"`
	ActiveDiscounts    int                     `json:"activeDiscounts"`
	InteractionHistory []models.PopupAnalytics `json:"interactionHistory"`
}

// SubscriberSummary is computed over the full (unpaginated) aggregate set
type SubscriberSummary struct {
	TotalSubscribers       int `json:"totalSubscribers"`
	TotalDiscountCodes     int `json:"totalDiscountCodes"`
	TotalPopupInteractions int `json:"totalPopupInteractions"`
	TotalEmailEntries      int `json:"totalEmailEntries"`
	TotalWins              int `json:"totalWins"`
	TotalSpins             int `json:"totalSpins"`
	ActiveSubscribers      int `json:"activeSubscribers"`
}

// SubscriberPagination describes one page of the sorted aggregate list
type SubscriberPagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// BuildSubscriberAggregates groups analytics and discount rows by email.
// The caller supplies every event row for the candidate emails (all event
// types) plus their discount codes; order of the returned slice follows
// first appearance in the event scan.
func BuildSubscriberAggregates(events []models.PopupAnalytics, discounts []models.DiscountCode) []SubscriberAggregate {
	byEmail := make(map[string]*SubscriberAggregate)
	order := make([]string, 0)

	for i := range events {
		event := events[i]
		if event.Email == nil || *event.Email == "" {
			continue
		}
		email := *event.Email

		agg, ok := byEmail[email]
		if !ok {
			agg = &SubscriberAggregate{
				Email:              email,
				PrizesWon:          []PrizeWon{},
				DiscountCodes:      []models.DiscountCode{},
				InteractionHistory: []models.PopupAnalytics{},
			}
			byEmail[email] = agg
			order = append(order, email)
		}

		agg.TotalInteractions++
		switch event.EventType {
		case models.EventEmailEntered:
			agg.EmailEntries++
			if agg.FirstEmailEntry.IsZero() || event.Timestamp.Before(agg.FirstEmailEntry) {
				agg.FirstEmailEntry = event.Timestamp
			}
		case models.EventView:
			agg.Views++
		case models.EventSpin:
			agg.Spins++
		case models.EventWin:
			agg.Wins++
		case models.EventLose:
			agg.Losses++
		case models.EventCopyCode:
			agg.CodesCopied++
		case models.EventClose:
			agg.Closes++
		}

		if event.Timestamp.After(agg.LastActivity) {
			agg.LastActivity = event.Timestamp
		}

		if event.PrizeLabel != nil && *event.PrizeLabel != "" {
			prize := PrizeWon{Prize: *event.PrizeLabel, Timestamp: event.Timestamp}
			if event.DiscountCode != nil {
				prize.Code = *event.DiscountCode
			}
			agg.PrizesWon = append(agg.PrizesWon, prize)
		}

		agg.InteractionHistory = append(agg.InteractionHistory, event)
	}

	for i := range discounts {
		discount := discounts[i]
		agg, ok := byEmail[discount.Email]
		if !ok {
			continue
		}
		agg.DiscountCodes = append(agg.DiscountCodes, discount)
		agg.TotalDiscounts++
		if discount.IsActive {
			agg.ActiveDiscounts++
		}
	}

	result := make([]SubscriberAggregate, 0, len(order))
	for _, email := range order {
		agg := byEmail[email]
		sort.SliceStable(agg.PrizesWon, func(i, j int) bool {
			return agg.PrizesWon[i].Timestamp.After(agg.PrizesWon[j].Timestamp)
		})
		sort.SliceStable(agg.InteractionHistory, func(i, j int) bool {
			return agg.InteractionHistory[i].Timestamp.After(agg.InteractionHistory[j].Timestamp)
		})
		result = append(result, *agg)
	}
	return result
}

// SortSubscriberAggregates orders the full aggregate list. String fields
// compare case-insensitively, dates as timestamps, counters numerically.
func SortSubscriberAggregates(subscribers []SubscriberAggregate, sortBy, sortOrder string) {
	asc := sortOrder == "asc"

	less := func(i, j int) bool {
		a, b := subscribers[i], subscribers[j]
		switch sortBy {
		case "email":
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		case "firstEmailEntry":
			return a.FirstEmailEntry.Before(b.FirstEmailEntry)
		case "totalDiscounts":
			return a.TotalDiscounts < b.TotalDiscounts
		case "totalInteractions":
			return a.TotalInteractions < b.TotalInteractions
		case "wins":
			return a.Wins < b.Wins
		default: // lastActivity, and the legacy "timestamp" alias
			return a.LastActivity.Before(b.LastActivity)
		}
	}

	sort.SliceStable(subscribers, func(i, j int) bool {
		if asc {
			return less(i, j)
		}
		return less(j, i)
	})
}

// PaginateSubscribers applies offset/limit pagination over the sorted list
func PaginateSubscribers(subscribers []SubscriberAggregate, page, limit int) ([]SubscriberAggregate, SubscriberPagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultSubscriberLimit
	}

	total := len(subscribers)
	totalPages := (total + limit - 1) / limit

	offset := (page - 1) * limit
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return subscribers[offset:end], SubscriberPagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

// SummarizeSubscribers computes shop-wide counters over the full
// (unpaginated, search-narrowed) aggregate set.
func SummarizeSubscribers(subscribers []SubscriberAggregate, now time.Time) SubscriberSummary {
	summary := SubscriberSummary{TotalSubscribers: len(subscribers)}
	for i := range subscribers {
		sub := subscribers[i]
		summary.TotalDiscountCodes += sub.TotalDiscounts
		summary.TotalPopupInteractions += sub.TotalInteractions
		summary.TotalEmailEntries += sub.EmailEntries
		summary.TotalWins += sub.Wins
		summary.TotalSpins += sub.Spins
		if now.Sub(sub.LastActivity) <= activeSubscriberWindow {
			summary.ActiveSubscribers++
		}
	}
	return summary
}
