package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerEventsResource(srv, svc)
	registerCitiesResource(srv, svc)
	registerCategoriesResource(srv, svc)
	registerEventTemplate(srv, svc)
}

func registerEventsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"iqevents://events",
		"Upcoming Events",
		mcp.WithResourceDescription("Events that have not started yet, sorted by date."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		results, err := svc.SearchEvents(ctx, SearchOptions{Upcoming: true, Limit: 100})
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"events": results,
			"count":  len(results),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerCitiesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"iqevents://cities",
		"Cities",
		mcp.WithResourceDescription("Cities with their ids."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cities := svc.Cities("")
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"cities": cities,
			"count":  len(cities),
		})
	})
}

func registerCategoriesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"iqevents://categories",
		"Categories",
		mcp.WithResourceDescription("Event categories with their ids."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cats := svc.Categories("")
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"categories": cats,
			"count":      len(cats),
		})
	})
}

func registerEventTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"iqevents://events/{id}",
		"Event Details",
		mcp.WithTemplateDescription("A single event with its reviews."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, _ := request.Params.Arguments["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("event id is required")
		}

		dto, err := svc.EventByID(ctx, id, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"event": dto,
		})
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
