package mcp

import "github.com/mark3labs/mcp-go/mcp"

func convertMarkupTool() mcp.Tool {
	return mcp.NewTool("convert_markup",
		mcp.WithDescription("Convert markup that uses Tailwind className utilities into plain HTML, a CSS rule for the .component class and an optional click-handler script."),
		mcp.WithString("markup",
			mcp.Required(),
			mcp.Description("Markup fragment, e.g. <button className=\"px-4 py-2 bg-white\">Save</button>"),
		),
	)
}

func listExamplesTool() mcp.Tool {
	return mcp.NewTool("list_examples",
		mcp.WithDescription("List catalog snippets. Filters are optional; query matches title, description and tags case-insensitively."),
		mcp.WithString("query", mcp.Description("Substring to search for")),
		mcp.WithString("tag", mcp.Description("Exact tag to filter by")),
	)
}

func getExampleTool() mcp.Tool {
	return mcp.NewTool("get_example",
		mcp.WithDescription("Return one catalog snippet with its code or template panels."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Snippet ID, e.g. gradient-button")),
	)
}

func convertExampleTool() mcp.Tool {
	return mcp.NewTool("convert_example",
		mcp.WithDescription("Convert a catalog snippet. Templates are returned as written."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Snippet ID, e.g. card-with-shadow")),
	)
}
