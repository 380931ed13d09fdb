// Package catalog holds the static city and category reference data.
package catalog

import (
	"strings"

	"tableflip.dev/iqevents/pkg/event"
)

// AllCategoryID is the pseudo category that clears the category filter.
const AllCategoryID = "all"

// City is a selectable city or governorate.
type City struct {
	ID    string          `json:"id"`
	Name  event.Localized `json:"name"`
	Image string          `json:"image"`
}

// Category is a selectable event category.
type Category struct {
	ID             string          `json:"id"`
	Name           event.Localized `json:"name"`
	TranslationKey string          `json:"translationKey,omitempty"`
	Icon           string          `json:"icon,omitempty"`
	Image          string          `json:"image"`
}

// Label is the name handed to the assistant: the translation key with
// underscores as spaces, or the English name.
func (c Category) Label() string {
	if c.TranslationKey != "" {
		return strings.ReplaceAll(c.TranslationKey, "_", " ")
	}
	return c.Name.Get(event.English)
}

func city(slug, en, ar, ku string) City {
	return City{
		ID:    "city-" + slug,
		Name:  event.Localized{event.English: en, event.Arabic: ar, event.Kurdish: ku},
		Image: "https://picsum.photos/seed/" + slug + "/200",
	}
}

var cities = []City{
	city("baghdad", "Baghdad", "بغداد", "بەغدا"),
	city("basra", "Basra", "البصرة", "بەسرە"),
	city("mosul", "Mosul", "الموصل", "مووسڵ"),
	city("erbil", "Erbil", "أربيل", "هەولێر"),
	city("sulaymaniyah", "Sulaymaniyah", "السليمانية", "سلێمانی"),
	city("duhok", "Duhok", "دهوك", "دهۆک"),
	city("kirkuk", "Kirkuk", "كركوك", "کەرکووک"),
	city("fallujah", "Fallujah", "الفلوجة", "فەللوجە"),
	city("babylon", "Babylon", "بابل", "بابیلۆن"),
	city("najaf", "Najaf", "النجف", "نەجەف"),
	city("karbala", "Karbala", "كربلاء", "کەربەلا"),
	city("maysan", "Maysan", "ميسان", "میسان"),
	city("dhi-qar", "Dhi Qar", "ذي قار", "زیقار"),
	city("muthanna", "Muthanna", "المثنى", "موسەننا"),
	city("qadisiyyah", "Qadisiyyah", "القادسية", "قادسیە"),
	city("wasit", "Wasit", "واسط", "واست"),
	city("diyala", "Diyala", "ديالى", "دیالە"),
	city("samarra", "Samarra", "سامراء", "سامەڕا"),
	city("al-kut", "Al-Kut", "الكوت", "کووت"),
}

var categories = []Category{
	{
		ID:    AllCategoryID,
		Name:  event.Localized{event.English: "All Events", event.Arabic: "جميع الفعاليات", event.Kurdish: "هەموو ڕووداوەکان"},
		Image: "https://picsum.photos/seed/all/200",
	},
	{
		ID:             "cat-1",
		Name:           event.Localized{event.English: "Music", event.Arabic: "موسيقى", event.Kurdish: "مۆسیقا"},
		TranslationKey: "music",
		Icon:           "♪",
		Image:          "https://picsum.photos/seed/music/200",
	},
	{
		ID:             "cat-2",
		Name:           event.Localized{event.English: "Art & Culture", event.Arabic: "فن وثقافة", event.Kurdish: "هونەر و کەلتور"},
		TranslationKey: "art_culture",
		Icon:           "✎",
		Image:          "https://picsum.photos/seed/art/200",
	},
	{
		ID:             "cat-3",
		Name:           event.Localized{event.English: "Food & Drink", event.Arabic: "طعام وشراب", event.Kurdish: "خواردن و خواردنەوە"},
		TranslationKey: "food_drink",
		Icon:           "☕",
		Image:          "https://picsum.photos/seed/food/200",
	},
	{
		ID:             "cat-4",
		Name:           event.Localized{event.English: "Tech", event.Arabic: "تكنولوجيا", event.Kurdish: "تەکنەلۆژیا"},
		TranslationKey: "tech",
		Icon:           "⚙",
		Image:          "https://picsum.photos/seed/tech/200",
	},
}

// Cities returns every city in display order.
func Cities() []City {
	return append([]City(nil), cities...)
}

// Categories returns every category including the "all" pseudo category.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// SelectableCategories omits the "all" pseudo category.
func SelectableCategories() []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.ID != AllCategoryID {
			out = append(out, c)
		}
	}
	return out
}

// CityByID looks up a city by id.
func CityByID(id string) (City, bool) {
	for _, c := range cities {
		if c.ID == id {
			return c, true
		}
	}
	return City{}, false
}

// CategoryByID looks up a category by id, including "all".
func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CityName returns the localized city name or the raw id when unknown.
func CityName(id string, lang event.Language) string {
	if c, ok := CityByID(id); ok {
		return c.Name.Get(lang)
	}
	return id
}

// CategoryName returns the localized category name or the raw id when unknown.
func CategoryName(id string, lang event.Language) string {
	if c, ok := CategoryByID(id); ok {
		return c.Name.Get(lang)
	}
	return id
}
