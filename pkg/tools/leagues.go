package tools

import (
	"github.com/richard-senior/goalgorithm-mcp/pkg/protocol"
	"github.com/richard-senior/goalgorithm-mcp/pkg/util/goalg"
)

func ListLeaguesTool() protocol.Tool {
	return protocol.Tool{
		Name: "list_leagues",
		Description: `
		Lists the soccer leagues this server can predict matches for,
		with their ids, names and slugs.
		`,
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: map[string]protocol.ToolProperty{},
			Required:   []string{},
		},
	}
}

// HandleListLeaguesTool returns the configured leagues ordered by id
func HandleListLeaguesTool(params any) (any, error) {
	leagues := goalg.AllLeagues()

	out := make([]map[string]any, 0, len(leagues))
	for _, lg := range leagues {
		out = append(out, map[string]any{
			"id":   lg.ID,
			"name": lg.Name,
			"slug": lg.Slug,
		})
	}

	return map[string]any{
		"leagues": out,
	}, nil
}
