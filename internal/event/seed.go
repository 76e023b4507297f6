package event

import "time"

// SeedEvents returns the demo catalogue written by POST /init. IDs are fixed
// so repeated seeding overwrites rather than duplicates.
func SeedEvents(now time.Time) []Event {
	events := []Event{
		{
			ID:              "evt_seed_1",
			Title:           "Arijit Singh Live in Concert",
			Description:     "An evening of soulful Bollywood hits.",
			FullDescription: "Arijit Singh performs his biggest hits with a full live band. Gates open two hours before the show.",
			Category:        "Music",
			City:            "Mumbai",
			Venue:           "DY Patil Stadium",
			VenueAddress:    "Sector 7, Nerul, Navi Mumbai, Maharashtra 400706",
			Date:            "2026-12-12",
			Time:            "7:00 PM",
			Price:           "₹1499",
			Image:           "https://images.unsplash.com/photo-1501386761578-eac5c94b800a",
			Tags:            []string{"Bollywood", "Live Music"},
			Features:        []string{"Food Court", "Parking", "Wheelchair Access"},
			Language:        "Hindi",
			AgeRestriction:  "All ages",
		},
		{
			ID:              "evt_seed_2",
			Title:           "Stand-up Comedy Night",
			Description:     "Three headliners, one night of laughs.",
			FullDescription: "A line-up of the country's sharpest comics trying out new material in an intimate club setting.",
			Category:        "Comedy",
			City:            "Bengaluru",
			Venue:           "The Comedy Theatre",
			VenueAddress:    "100 Feet Road, Indiranagar, Bengaluru, Karnataka 560038",
			Date:            "2026-11-28",
			Time:            "8:30 PM",
			Price:           "₹599",
			Image:           "https://images.unsplash.com/photo-1585699324551-f6c309eedeca",
			Tags:            []string{"Stand-up", "Nightlife"},
			Features:        []string{"Bar", "Reserved Seating"},
			Language:        "English",
			AgeRestriction:  "18+",
		},
		{
			ID:              "evt_seed_3",
			Title:           "Delhi Food & Culture Festival",
			Description:     "Street food, crafts and folk performances.",
			FullDescription: "Two days of regional cuisine, artisan stalls and folk music from across the country.",
			Category:        "Festival",
			City:            "Delhi",
			Venue:           "Jawaharlal Nehru Stadium",
			VenueAddress:    "Pragati Vihar, New Delhi, Delhi 110003",
			Date:            "2026-12-05",
			Time:            "11:00 AM",
			Price:           "Free",
			Image:           "https://images.unsplash.com/photo-1555939594-58d7cb561ad1",
			Tags:            []string{"Food", "Culture", "Family"},
			Features:        []string{"Kids Zone", "Parking"},
			Language:        "Hindi",
			AgeRestriction:  "All ages",
		},
		{
			ID:              "evt_seed_4",
			Title:           "Hackathon: Build for Bharat",
			Description:     "A 24-hour coding competition with cash prizes.",
			FullDescription: "Teams of up to four build products for the next billion users. Submit your project before the deadline to be judged.",
			Category:        "Competition",
			City:            "Hyderabad",
			Venue:           "T-Hub",
			VenueAddress:    "Raidurgam, Knowledge City, Hyderabad, Telangana 500081",
			Date:            "2027-01-16",
			Time:            "9:00 AM",
			Price:           "Free",
			Image:           "https://images.unsplash.com/photo-1504384308090-c894fdcc538d",
			Tags:            []string{"Tech", "Coding"},
			Features:        []string{"Mentors", "Meals Included", "Prizes"},
			Language:        "English",
			AgeRestriction:  "16+",
		},
		{
			ID:              "evt_seed_5",
			Title:           "Short Film Challenge",
			Description:     "Shoot a five-minute film on the given theme.",
			FullDescription: "Submit an original short film under five minutes. Shortlisted entries are screened on the final day.",
			Category:        "Competition",
			City:            "Mumbai",
			Venue:           "Prithvi Theatre",
			VenueAddress:    "Janki Kutir, Juhu Church Road, Mumbai, Maharashtra 400049",
			Date:            "2027-02-06",
			Time:            "6:00 PM",
			Price:           "₹299",
			Image:           "https://images.unsplash.com/photo-1485846234645-a62644f84728",
			Tags:            []string{"Film", "Creative"},
			Features:        []string{"Screening", "Jury Feedback"},
			Language:        "English",
			AgeRestriction:  "All ages",
		},
		{
			ID:              "evt_seed_6",
			Title:           "Pune Marathon 2026",
			Description:     "Full, half and 10K runs through the city.",
			FullDescription: "Timed runs with hydration points every two kilometres and a finisher medal for every runner.",
			Category:        "Sports",
			City:            "Pune",
			Venue:           "Shivaji Nagar",
			VenueAddress:    "Shivajinagar, Pune, Maharashtra 411005",
			Date:            "2026-12-20",
			Time:            "5:30 AM",
			Price:           "₹999",
			Image:           "https://images.unsplash.com/photo-1452626038306-9aae5e071dd3",
			Tags:            []string{"Running", "Fitness"},
			Features:        []string{"Medal", "Timing Chip", "Refreshments"},
			Language:        "English",
			AgeRestriction:  "12+",
		},
	}

	for i := range events {
		events[i].CreatedAt = now
	}
	return events
}
