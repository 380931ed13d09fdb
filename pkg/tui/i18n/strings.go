// Package i18n holds the interface strings shown in all three languages.
package i18n

import "tableflip.dev/iqevents/pkg/event"

// Key names an interface string.
type Key string

const (
	Upcoming    Key = "upcoming"
	MyBookmarks Key = "myBookmarks"
	MyEvents    Key = "myEvents"
	OnTheMap    Key = "onTheMap"
	NoEvents    Key = "noEvents"
	NoBookmarks Key = "noBookmarks"
	NoMyEvents  Key = "noMyEvents"
	NoLocated   Key = "noLocated"
	TopEvents   Key = "topEvents"
	SeeDetails  Key = "seeDetails"
	ViewEvent   Key = "viewEvent"
	Reviews     Key = "reviews"
	NoReviews   Key = "noReviews"
	Featured    Key = "featured"
	Planner     Key = "planner"
	PlanIntro   Key = "planIntro"
	Planning    Key = "planning"
	StartOver   Key = "startOver"
)

var table = map[Key]event.Localized{
	Upcoming:    {event.English: "Upcoming Events", event.Arabic: "الفعاليات القادمة", event.Kurdish: "ڕووداوە چاوەڕوانکراوەکان"},
	MyBookmarks: {event.English: "My Bookmarks", event.Arabic: "إشاراتي المرجعية", event.Kurdish: "نیشانکراوەکانم"},
	MyEvents:    {event.English: "My Events", event.Arabic: "فعالياتي", event.Kurdish: "ڕووداوەکانم"},
	OnTheMap:    {event.English: "Events on the Map", event.Arabic: "الفعاليات على الخريطة", event.Kurdish: "ڕووداوەکان لەسەر نەخشە"},
	NoEvents:    {event.English: "No events match your criteria.", event.Arabic: "لا توجد فعاليات تطابق بحثك.", event.Kurdish: "هیچ ڕووداوێک لەگەڵ پێوەرەکانی تۆ ناگونجێت."},
	NoBookmarks: {event.English: "You have no bookmarked events.", event.Arabic: "ليس لديك أي فعاليات محفوظة.", event.Kurdish: "هیچ ڕووداوێکی نیشانکراوت نییە."},
	NoMyEvents:  {event.English: "You haven't created any events yet.", event.Arabic: "لم تقم بإنشاء أي فعاليات بعد.", event.Kurdish: "تۆ هێشتا هیچ ڕووداوێکت دروست نەکردووە."},
	NoLocated:   {event.English: "No events with a location match your criteria."},
	TopEvents:   {event.English: "Top Events", event.Arabic: "أبرز الفعاليات", event.Kurdish: "ئاهەنگە دیارەکان"},
	SeeDetails:  {event.English: "See Details", event.Arabic: "انظر التفاصيل", event.Kurdish: "وردەکارییەکان ببینە"},
	ViewEvent:   {event.English: "View Event", event.Arabic: "عرض الفعالية", event.Kurdish: "بینینی ڕووداو"},
	Reviews:     {event.English: "Reviews", event.Arabic: "المراجعات", event.Kurdish: "هەڵسەنگاندنەکان"},
	NoReviews:   {event.English: "No reviews yet."},
	Featured:    {event.English: "Featured", event.Arabic: "مميزة", event.Kurdish: "تایبەت"},
	Planner:     {event.English: "AI Itinerary Planner", event.Arabic: "مخطط الرحلات بالذكاء الاصطناعي", event.Kurdish: "پلاندانەری گەشتی زیرەک"},
	PlanIntro:   {event.English: "Describe your ideal trip, and our AI will craft a personalized itinerary for you.", event.Arabic: "صف رحلتك المثالية، وسيقوم الذكاء الاصطناعي لدينا بإنشاء خطة مخصصة لك.", event.Kurdish: "گەشتە نموونەییەکەت باس بکە، و زیرەکی دەستکردی ئێمە پلانێکی تایبەتت بۆ دادەڕێژێت."},
	Planning:    {event.English: "AI is crafting your personal itinerary...", event.Arabic: "الذكاء الاصطناعي يقوم بإعداد خطة رحلتك الشخصية...", event.Kurdish: "زیرەکی دەستکرد خەریکی داڕشتنی پلانی گەشتی تایبەتی تۆیە..."},
	StartOver:   {event.English: "Start Over", event.Arabic: "البدء من جديد", event.Kurdish: "دەستپێکردنەوە"},
}

// T returns the string for key in lang, falling back to English.
func T(key Key, lang event.Language) string {
	l, ok := table[key]
	if !ok {
		return string(key)
	}
	return l.Get(lang)
}
