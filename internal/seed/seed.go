// Package seed holds the static demo datasets the catalog falls back to
// when the database is not configured, or per collection when a snapshot
// fetch fails at startup.
package seed

import (
	"time"

	"ziorum/internal/ident"
	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

// Data is one full set of collections, matching the backup document layout.
type Data struct {
	Venues          []store.Venue
	Reviews         []store.Review
	Drinks          []store.Drink
	Articles        []store.Article
	Bartenders      []store.Bartender
	OwnerMessages   []store.OwnerMessage
	CommunityEvents []store.CommunityEvent
	CommunityPosts  []store.CommunityPost
}

func strPtr(s string) *string { return &s }

func fPtr(f float64) *float64 { return &f }

// Demo returns the built-in dataset. Ids are short local ids on purpose:
// a demo venue pushed to a freshly configured database goes through the
// normal sync path like any locally-created record.
func Demo() Data {
	t0 := time.Date(2024, 11, 2, 18, 30, 0, 0, time.UTC)

	return Data{
		Venues: []store.Venue{
			{
				ID:         "vnKe42xq",
				Origin:     ident.OriginLocal,
				Name:       "La Bodeguita del Ron",
				City:       "Milano",
				Country:    "Italia",
				Address:    "Via Vigevano 14",
				Latitude:   fPtr(45.4520),
				Longitude:  fPtr(9.1750),
				Categories: []string{"rum bar", "cocktail"},
				PriceRange: "€€",
				Website:    strPtr("https://labodeguita.example"),
				Verified:   true,
				Status:     moderation.VenueApproved,
				CreatedAt:  t0,
				UpdatedAt:  t0,
			},
			{
				ID:         "vnBq81zr",
				Origin:     ident.OriginLocal,
				Name:       "Tiki Room Roma",
				City:       "Roma",
				Country:    "Italia",
				Address:    "Via Ostiense 182",
				Categories: []string{"tiki", "cocktail"},
				PriceRange: "€€€",
				Verified:   true,
				Status:     moderation.VenueApproved,
				CreatedAt:  t0.Add(24 * time.Hour),
				UpdatedAt:  t0.Add(24 * time.Hour),
			},
			{
				ID:         "vnXw05pd",
				Origin:     ident.OriginLocal,
				Name:       "Cantina dello Zio",
				City:       "Napoli",
				Country:    "Italia",
				Address:    "Vico Lungo Gelso 29",
				Categories: []string{"rum bar"},
				PriceRange: "€",
				Verified:   true,
				Status:     moderation.VenueApproved,
				CreatedAt:  t0.Add(48 * time.Hour),
				UpdatedAt:  t0.Add(48 * time.Hour),
			},
		},
		Reviews: []store.Review{
			{
				ID:              "rvMa77ks",
				VenueID:         "vnKe42xq",
				AuthorName:      "Marta",
				Title:           "Daiquiri come a L'Avana",
				Content:         "Selezione di ron agricole impressionante, staff che sa consigliare.",
				DrinkQuality:    9,
				StaffCompetence: 8,
				Atmosphere:      7,
				Value:           8,
				DrinkMentions:   []string{"Daiquiri", "Ron Zacapa 23"},
				Status:          "approved",
				CreatedAt:       t0.Add(72 * time.Hour),
			},
			{
				ID:              "rvPo31fh",
				VenueID:         "vnBq81zr",
				AuthorName:      "Giulio",
				Content:         "Mai Tai solido, atmosfera unica. Prezzi da zona alta.",
				DrinkQuality:    8,
				StaffCompetence: 7,
				Atmosphere:      10,
				Value:           6,
				DrinkMentions:   []string{"Mai Tai"},
				Status:          "approved",
				CreatedAt:       t0.Add(96 * time.Hour),
			},
		},
		Drinks: []store.Drink{
			{ID: "drDi10aa", Name: "Diplomático Reserva Exclusiva", Category: "rum", OriginLand: "Venezuela", ABV: fPtr(40), Approved: true, CreatedAt: t0},
			{ID: "drMt20bb", Name: "Mai Tai", Category: "cocktail", Description: "Rum agricole, orzata, lime, curaçao.", Approved: true, CreatedAt: t0},
			{ID: "drCa30cc", Name: "Caroni 1996", Category: "rum", OriginLand: "Trinidad", ABV: fPtr(55), Approved: true, CreatedAt: t0},
		},
		Articles: []store.Article{
			{
				ID:        "arRh55gg",
				Title:     "Rhum agricole: guida per iniziare",
				Author:    "Lo Zio",
				Excerpt:   "Perché la canna fresca cambia tutto.",
				Content:   "Il rhum agricole nasce dal succo di canna fresco, non dalla melassa...",
				Category:  "guide",
				Approved:  true,
				CreatedAt: t0,
			},
		},
		Bartenders: []store.Bartender{
			{
				ID:          "btLu90mm",
				DisplayName: "Luca F.",
				Bio:         "Dieci anni dietro il banco tra Milano e La Habana.",
				VenueID:     strPtr("vnKe42xq"),
				Specialties: []string{"daiquiri", "ron cubano"},
				Status:      moderation.ProfileApproved,
				CreatedAt:   t0,
			},
		},
		OwnerMessages: []store.OwnerMessage{
			{ID: "omWe12nn", VenueID: strPtr("vnKe42xq"), AuthorName: "La Bodeguita", Message: "Degustazione verticale Caroni il 12 del mese.", Approved: true, CreatedAt: t0},
		},
		CommunityEvents: []store.CommunityEvent{
			{ID: "evRf60tt", AuthorName: "Lo Zio", Title: "Rum Festival Milano", EventDate: t0.Add(30 * 24 * time.Hour), Approved: true, CreatedAt: t0},
		},
		CommunityPosts: []store.CommunityPost{
			{ID: "cpQa44ww", AuthorName: "Serena", Content: "Qualcuno ha provato il nuovo tiki a Torino?", Approved: true, CreatedAt: t0},
		},
	}
}
