package memory

import (
	"time"

	"tableflip.dev/iqevents/pkg/event"
)

// Demo account credentials seeded by NewDemo.
const (
	DemoEmail    = "demo@iqevents.app"
	DemoPassword = "demo-password"
)

// NewDemo returns a Gateway seeded with sample listings relative to now.
func NewDemo(now time.Time) *Gateway {
	organizer := event.User{ID: "demo-organizer", Name: "Zagros Events", AvatarURL: event.DefaultAvatar("demo-organizer")}
	demo := event.User{ID: "demo-user", Name: "Demo User", AvatarURL: event.DefaultAvatar("demo-user")}
	at := func(days, hour int) time.Time {
		y, m, d := now.Date()
		return time.Date(y, m, d+days, hour, 0, 0, 0, now.Location())
	}
	events := []event.Event{
		{
			ID: "demo-1",
			Title: event.Localized{
				event.English: "Erbil Citadel Jazz Night",
				event.Arabic:  "ليلة الجاز في قلعة أربيل",
				event.Kurdish: "شەوی جاز لە قەڵای هەولێر",
			},
			Description: event.Localized{
				event.English: "An open air evening of jazz under the walls of the ancient citadel, with local and visiting bands.",
				event.Arabic:  "أمسية جاز في الهواء الطلق تحت أسوار القلعة القديمة.",
				event.Kurdish: "ئێوارەیەکی جاز لە ژێر دیوارەکانی قەڵای کۆن.",
			},
			OrganizerID:    organizer.ID,
			OrganizerName:  organizer.Name,
			CategoryID:     "cat-1",
			CityID:         "city-erbil",
			Date:           at(3, 20),
			Venue:          "Erbil Citadel",
			OrganizerPhone: "+964 750 000 0001",
			WhatsappNumber: "+964 750 000 0001",
			ImageURL:       "https://picsum.photos/seed/demo-1/800/600",
			Coordinates:    &event.Coordinates{Lat: 36.1912, Lng: 44.0092},
			TicketInfo:     "25,000 IQD at the gate",
			Reviews: []event.Review{{
				ID:        "demo-review-1",
				User:      demo,
				Rating:    5,
				Comment:   "Magical setting.",
				Timestamp: at(-30, 12),
			}},
		},
		{
			ID: "demo-2",
			Title: event.Localized{
				event.English: "Baghdad Book Street Festival",
				event.Arabic:  "مهرجان شارع المتنبي",
				event.Kurdish: "فێستیڤاڵی شەقامی کتێب لە بەغدا",
			},
			Description: event.Localized{
				event.English: "Readings, calligraphy workshops and second hand book stalls along Al-Mutanabbi Street.",
				event.Arabic:  "قراءات وورش خط عربي وأكشاك كتب على شارع المتنبي.",
				event.Kurdish: "خوێندنەوە و وۆرکشۆپی خۆشنووسی لە شەقامی موتەنەبی.",
			},
			OrganizerID:   organizer.ID,
			OrganizerName: organizer.Name,
			CategoryID:    "cat-2",
			CityID:        "city-baghdad",
			Date:          at(10, 10),
			Venue:         "Al-Mutanabbi Street",
			ImageURL:      "https://picsum.photos/seed/demo-2/800/600",
			Coordinates:   &event.Coordinates{Lat: 33.3406, Lng: 44.3892},
		},
		{
			ID: "demo-3",
			Title: event.Localized{
				event.English: "Basra Seafood Market Tour",
				event.Arabic:  "جولة سوق السمك في البصرة",
				event.Kurdish: "گەشتی بازاڕی ماسی لە بەسرە",
			},
			Description: event.Localized{
				event.English: "Taste masgouf and date sweets on a guided walk along the Shatt al-Arab.",
				event.Arabic:  "تذوق المسكوف وحلويات التمر في جولة على شط العرب.",
				event.Kurdish: "تامی مەسگووف و شیرینی خورما بکە.",
			},
			OrganizerID:   demo.ID,
			OrganizerName: demo.Name,
			CategoryID:    "cat-3",
			CityID:        "city-basra",
			Date:          at(17, 18),
			Venue:         "Corniche",
			ImageURL:      "https://picsum.photos/seed/demo-3/800/600",
		},
		{
			ID: "demo-4",
			Title: event.Localized{
				event.English: "Sulaymaniyah Startup Meetup",
				event.Arabic:  "لقاء الشركات الناشئة في السليمانية",
				event.Kurdish: "کۆبوونەوەی ستارتئەپەکان لە سلێمانی",
			},
			Description: event.Localized{
				event.English: "Lightning talks from founders, investor office hours and networking.",
				event.Arabic:  "محادثات قصيرة من المؤسسين وساعات مكتبية للمستثمرين.",
				event.Kurdish: "وتاری کورت لە دامەزرێنەرانەوە.",
			},
			OrganizerID:   organizer.ID,
			OrganizerName: organizer.Name,
			CategoryID:    "cat-4",
			CityID:        "city-sulaymaniyah",
			Date:          at(24, 17),
			Venue:         "Sulaimani Polytechnic",
			ImageURL:      "https://picsum.photos/seed/demo-4/800/600",
			TicketInfo:    "Free, registration required",
		},
		{
			ID: "demo-5",
			Title: event.Localized{
				event.English: "Duhok Spring Music Festival",
				event.Arabic:  "مهرجان دهوك الربيعي للموسيقى",
				event.Kurdish: "فێستیڤاڵی مۆسیقای بەهاری دهۆک",
			},
			Description: event.Localized{
				event.English: "Two stages of folk and contemporary Kurdish music in the park.",
				event.Arabic:  "مسرحان للموسيقى الكردية الشعبية والمعاصرة.",
				event.Kurdish: "دوو ستەیج بۆ مۆسیقای فۆلکلۆری و هاوچەرخی کوردی.",
			},
			OrganizerID:   organizer.ID,
			OrganizerName: organizer.Name,
			CategoryID:    "cat-1",
			CityID:        "city-duhok",
			Date:          at(-5, 19),
			Venue:         "Azadi Park",
			ImageURL:      "https://picsum.photos/seed/demo-5/800/600",
		},
	}
	g := New(
		WithEvents(events...),
		WithAccount(DemoEmail, DemoPassword, demo),
		WithClock(func() time.Time { return now }),
	)
	g.profiles[organizer.ID] = organizer
	g.SetBookmarks(demo.ID, "demo-2")
	return g
}
