package store

import "github.com/desertthunder/vowfolio/internal/models"

const unsplash = "https://images.unsplash.com/"

// MockDataset returns the sample gallery used by offline mode and the mock API server.
func MockDataset() Dataset {
	return Dataset{
		HeroImages: []models.HeroImage{
			{ID: "1", URL: unsplash + "photo-1511285560929-80b456fea0bc", Alt: "Wedding couple on beach", Order: 1, Page: "home"},
			{ID: "2", URL: unsplash + "photo-1519225421980-715cb0215aed", Alt: "Wedding decorations", Order: 2, Page: "home"},
			{ID: "3", URL: unsplash + "photo-1464699827955-33e33e88a628", Alt: "Wedding rings", Order: 3, Page: "home"},
		},
		Categories: []models.Category{
			{ID: "1", Name: "Wedding", Slug: "wedding", Description: "Beautiful moments from the wedding ceremony", ThumbnailURL: unsplash + "photo-1532712938310-34cb3982ef74", Order: 1},
			{ID: "2", Name: "Pre-wedding", Slug: "pre-wedding", Description: "Engagement and pre-wedding shoots", ThumbnailURL: unsplash + "photo-1525328437458-0c4d4db7cab4", Order: 2},
			{ID: "3", Name: "Haldi", Slug: "haldi", Description: "Traditional Haldi ceremony", ThumbnailURL: unsplash + "photo-1630653447777-98d86be6c567", Order: 3},
			{ID: "4", Name: "Mehndi", Slug: "mehndi", Description: "Beautiful Mehndi ceremony", ThumbnailURL: unsplash + "photo-1594480464691-4a46e27fcc47", Order: 4},
			{ID: "5", Name: "Portraits", Slug: "portraits", Description: "Stunning portrait shots", ThumbnailURL: unsplash + "photo-1507504031003-b417219a0fde", Order: 5},
		},
		Albums: []models.Album{
			{ID: "1", Name: "Wedding Ceremony", Slug: "wedding-ceremony", Description: "The beautiful wedding ceremony", ThumbnailURL: unsplash + "photo-1532712938310-34cb3982ef74", CategoryID: "1", Order: 1},
			{ID: "2", Name: "Wedding Reception", Slug: "wedding-reception", Description: "Fun moments from the reception", ThumbnailURL: unsplash + "photo-1519225421980-715cb0215aed", CategoryID: "1", Order: 2},
			{ID: "3", Name: "Engagement Shoot", Slug: "engagement-shoot", Description: "Pre-wedding engagement photoshoot", ThumbnailURL: unsplash + "photo-1525328437458-0c4d4db7cab4", CategoryID: "2", Order: 1},
			{ID: "4", Name: "Haldi Ceremony", Slug: "haldi-ceremony", Description: "Joyful Haldi ceremony", ThumbnailURL: unsplash + "photo-1630653447777-98d86be6c567", CategoryID: "3", Order: 1},
			{ID: "5", Name: "Mehndi Night", Slug: "mehndi-night", Description: "Beautiful Mehndi celebrations", ThumbnailURL: unsplash + "photo-1594480464691-4a46e27fcc47", CategoryID: "4", Order: 1},
		},
		Images: []models.Image{
			mockImage("1", "photo-1532712938310-34cb3982ef74", "Wedding ceremony image 1", "1", 1),
			mockImage("2", "photo-1511285560929-80b456fea0bc", "Wedding ceremony image 2", "1", 2),
			mockImage("3", "photo-1519225421980-715cb0215aed", "Wedding reception image 1", "2", 1),
			mockImage("4", "photo-1525328437458-0c4d4db7cab4", "Engagement shoot image 1", "3", 1),
			mockImage("5", "photo-1630653447777-98d86be6c567", "Haldi ceremony image 1", "4", 1),
			mockImage("6", "photo-1594480464691-4a46e27fcc47", "Mehndi night image 1", "5", 1),
		},
	}
}

func mockImage(id, photo, alt, albumID string, order int) models.Image {
	return models.Image{
		ID:           id,
		URL:          unsplash + photo,
		Alt:          alt,
		AlbumID:      albumID,
		Order:        order,
		ThumbnailURL: unsplash + photo + "?w=200",
	}
}
