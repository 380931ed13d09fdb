package assistant

import "google.golang.org/genai"

func localizedSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"en": {Type: genai.TypeString},
			"ar": {Type: genai.TypeString},
			"ku": {Type: genai.TypeString},
		},
		Required: []string{"en", "ar", "ku"},
	}
}

func suggestionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":               localizedSchema(),
			"description":         localizedSchema(),
			"suggestedCategoryId": {Type: genai.TypeString},
			"suggestedCityId":     {Type: genai.TypeString},
			"imagePrompt":         {Type: genai.TypeString},
		},
		Required: []string{"title", "description", "suggestedCategoryId", "suggestedCityId", "imagePrompt"},
	}
}

func itinerarySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"itineraryTitle": localizedSchema(),
			"plan": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"day":         {Type: genai.TypeString, Description: "e.g., 'Day 1', 'Friday Morning', 'Evening'"},
						"title":       {Type: genai.TypeString, Description: "Title for this part of the plan"},
						"description": {Type: genai.TypeString, Description: "A brief description of the activity."},
						"eventId":     {Type: genai.TypeString, Description: "The ID of the event from the context list, if applicable."},
					},
					Required: []string{"day", "title", "description"},
				},
			},
		},
		Required: []string{"itineraryTitle", "plan"},
	}
}
