package mcp

import "github.com/mark3labs/mcp-go/mcp"

var addToolDef = mcp.NewTool("bookmark_add",
	mcp.WithDescription("Create or overwrite a named bookmark at a byte offset in a file. "+
		"Names must be non-empty, must not start with '_' or '#', and must not contain '|' or control characters."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Bookmark name")),
	mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path of the target file")),
	mcp.WithNumber("offset", mcp.Required(), mcp.Description("Byte offset within the file"), mcp.Min(0)),
	mcp.WithString("mode",
		mcp.Description("Collision behavior: error (default) fails when the name exists, replace overwrites it"),
		mcp.Enum("error", "replace"),
	),
)

var removeToolDef = mcp.NewTool("bookmark_remove",
	mcp.WithDescription("Delete bookmarks by index or name. Indices of other bookmarks are unaffected."),
	mcp.WithArray("indices",
		mcp.Description("Bookmark indices to remove"),
		mcp.Items(map[string]any{"type": "integer"}),
	),
	mcp.WithArray("names",
		mcp.Description("Bookmark names to remove"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var gotoToolDef = mcp.NewTool("bookmark_goto",
	mcp.WithDescription("Resolve a bookmark to its file and current offset and record the access time. "+
		"Address by index or by name."),
	mcp.WithNumber("index", mcp.Description("Bookmark index")),
	mcp.WithString("name", mcp.Description("Bookmark name")),
)

var validateToolDef = mcp.NewTool("bookmark_validate",
	mcp.WithDescription("Reconcile bookmarks against the filesystem: delete bookmarks whose file is missing, "+
		"clamp offsets past end of file, and keep bookmarks on removable or network drives when retention is on."),
	mcp.WithBoolean("retain",
		mcp.Description("Keep bookmarks whose file is missing from a non-fixed drive (default from config)"),
	),
)

var listToolDef = mcp.NewTool("bookmark_list",
	mcp.WithDescription("List bookmarks in display order. Internal bookmarks are not shown."),
	mcp.WithString("sort_by",
		mcp.Description("Sort column"),
		mcp.Enum("name", "file", "folder", "offset", "modified", "accessed"),
	),
	mcp.WithBoolean("descending", mcp.Description("Sort descending")),
	mcp.WithString("format",
		mcp.Description("Output format: json (default), markdown or html"),
		mcp.Enum("json", "markdown", "html"),
	),
)

var historyToolDef = mcp.NewTool("bookmark_history",
	mcp.WithDescription("List recent validation runs, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum runs to return (default 20, max 100)")),
)

var exportToolDef = mcp.NewTool("bookmark_export",
	mcp.WithDescription("Write all bookmarks to a .hexmark file, one record per line."),
	mcp.WithString("path", mcp.Description("Destination file (default: exports directory)")),
)

var importToolDef = mcp.NewTool("bookmark_import",
	mcp.WithDescription("Load bookmarks from a .hexmark file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source file")),
	mcp.WithString("mode",
		mcp.Description("Collision behavior: error (default, atomic), replace or skip"),
		mcp.Enum("error", "replace", "skip"),
	),
)

var documentOpenToolDef = mcp.NewTool("document_open",
	mcp.WithDescription("Mark a file as open in the editor. Its bookmarks follow edits reported with "+
		"document_edit, validation leaves them alone, and goto and list show their live positions."),
	mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path of the file")),
)

var documentEditToolDef = mcp.NewTool("document_edit",
	mcp.WithDescription("Report an insert or delete in an open document so its bookmarks stay on the same bytes."),
	mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path of the open file")),
	mcp.WithString("kind", mcp.Required(), mcp.Description("Edit kind"), mcp.Enum("insert", "delete")),
	mcp.WithNumber("pos", mcp.Required(), mcp.Description("Byte position of the edit"), mcp.Min(0)),
	mcp.WithNumber("length", mcp.Required(), mcp.Description("Number of bytes inserted or deleted"), mcp.Min(0)),
)

var documentCloseToolDef = mcp.NewTool("document_close",
	mcp.WithDescription("Close an open document and save the live positions of its bookmarks."),
	mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path of the open file")),
)
