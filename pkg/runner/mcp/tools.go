package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/iqevents/pkg/event"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerSearchEventsTool(srv, svc)
	registerFeaturedEventsTool(srv, svc)
	registerGetEventTool(srv, svc)
	registerListCitiesTool(srv, svc)
	registerListCategoriesTool(srv, svc)
	registerPlanItineraryTool(srv, svc)
}

func langOption() mcp.ToolOption {
	return mcp.WithString("lang",
		mcp.Description("Language for titles and names. Defaults to the saved preference."),
		mcp.Enum("en", "ar", "ku"),
	)
}

func parseLang(request mcp.CallToolRequest) (event.Language, error) {
	raw := strings.TrimSpace(request.GetString("lang", ""))
	if raw == "" {
		return "", nil
	}
	return event.ParseLanguage(raw)
}

func registerSearchEventsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_events",
		mcp.WithDescription("Search events by text, month, category and city. Results are sorted by date."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive text matched against titles, descriptions and venues."),
		),
		mcp.WithString("month",
			mcp.Description("Month name or number, for example march or 3."),
		),
		mcp.WithString("category",
			mcp.Description("Category id from list_categories."),
		),
		mcp.WithString("city",
			mcp.Description("City id from list_cities."),
		),
		mcp.WithBoolean("upcoming",
			mcp.Description("Only return events that have not started yet."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of events to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lang, err := parseLang(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts := SearchOptions{
			Query:    request.GetString("query", ""),
			Month:    request.GetString("month", ""),
			Category: request.GetString("category", ""),
			City:     request.GetString("city", ""),
			Upcoming: request.GetBool("upcoming", false),
			Limit:    request.GetInt("limit", 20),
			Lang:     lang,
		}

		results, err := svc.SearchEvents(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   opts.Query,
			"limit":   opts.Limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerFeaturedEventsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"featured_events",
		mcp.WithDescription("List the featured events."),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lang, err := parseLang(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		results := svc.Featured(ctx, lang)
		return toJSONResult(map[string]any{
			"events": results,
			"count":  len(results),
		})
	})
}

func registerGetEventTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_event",
		mcp.WithDescription("Fetch a single event with its reviews."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Event identifier to fetch."),
		),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lang, err := parseLang(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.EventByID(ctx, id, lang)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListCitiesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_cities",
		mcp.WithDescription("List the cities events can be filtered by."),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lang, err := parseLang(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cities := svc.Cities(lang)
		return toJSONResult(map[string]any{
			"cities": cities,
			"count":  len(cities),
		})
	})
}

func registerListCategoriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_categories",
		mcp.WithDescription("List the event categories."),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lang, err := parseLang(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cats := svc.Categories(lang)
		return toJSONResult(map[string]any{
			"categories": cats,
			"count":      len(cats),
		})
	})
}

func registerPlanItineraryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"plan_itinerary",
		mcp.WithDescription("Plan a day-by-day trip that links upcoming events. Requires an AI key."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("What the trip should look like, for example a weekend of music in Erbil."),
		),
		langOption(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt, err := request.RequireString("prompt")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lang, err := parseLang(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.PlanItinerary(ctx, prompt, lang)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
