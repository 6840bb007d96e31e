package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with stitch",
		Content: topicQuickstart,
	},
	{
		Name:    "format",
		Title:   "Edit Block Format",
		Summary: "File markers, fences, and SEARCH/REPLACE pairs",
		Content: topicFormat,
	},
	{
		Name:    "matching",
		Title:   "Matching Strategies",
		Summary: "Exact, normalized, and line-window matching",
		Content: topicMatching,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "history",
		Title:   "Run History",
		Summary: "Run reports, the history command, and doctor",
		Content: topicHistory,
	},
	{
		Name:    "serve",
		Title:   "MCP Server",
		Summary: "Exposing the apply pipeline over the Model Context Protocol",
		Content: topicServe,
	},
}

const topicQuickstart = `Quick Start
===========

stitch applies SEARCH/REPLACE edit blocks from AI responses to your
working tree.

1. Initialize a project:

    cd your-project
    stitch init

   This creates .stitch/config.yaml and .stitch/history/.

2. Copy a model response containing edit blocks, then:

    stitch apply

   With no input file and nothing piped on stdin, stitch reads the
   clipboard.

3. Or hand the response over directly:

    stitch apply response.md
    pbpaste | stitch apply

4. Preview without writing anything:

    stitch apply --dry-run

5. Inspect past runs:

    stitch history
    stitch history <run-id>

6. When a block failed to apply:

    stitch doctor

CLI Flags
---------

  stitch apply [file]           Apply edit blocks from file, stdin, or clipboard
  stitch apply --dry-run        Match blocks without writing files
  stitch apply --strict         Exit non-zero if any block fails
  stitch apply --backup         Keep a .bak copy of each file before overwriting
  stitch apply --root DIR       Resolve target paths against DIR
  stitch apply --follow         Keep reading stdin, applying blocks as they complete
  stitch scan [file]            List the edit blocks in a response without applying
  stitch history [run-id]       Show recent runs, or one run in detail
  stitch doctor                 Diagnose why the last failed run did not apply
  stitch serve                  Run the MCP server on stdio
  stitch init                   Scaffold .stitch/ directory
  stitch docs [topic]           Show documentation
`

const topicFormat = `Edit Block Format
=================

stitch reads fenced code blocks out of markdown text. A block targets
a file either with a path line above the fence or a file= attribute on
the fence itself. When both are present, file= wins.

    src/app.js
    ` + "```" + `js
    console.log("hi")
    ` + "```" + `

    ` + "```" + `js file=src/app.js
    console.log("hi")
    ` + "```" + `

The path line is the nearest non-empty line above the fence. Markdown
decoration around it is stripped (heading hashes, bold, backticks, a
trailing colon), so "### ` + "`src/app.js`" + `:" names src/app.js. To count as
a path the line must contain no spaces and at least one "." or "/".
A fence with no resolvable target is treated as prose and skipped.

Full replace
------------

A block whose body does not start with a SEARCH marker replaces the
whole target file, creating it if missing:

    ` + "```" + `css file=styles/site.css
    body { margin: 0; }
    ` + "```" + `

Search and replace
------------------

A block whose first non-blank body line is <<<<<<< SEARCH edits the
target in place. Each pair gives literal text to find and the text to
put in its place:

    ` + "```" + `js file=src/app.js
    <<<<<<< SEARCH
    const port = 3000
    =======
    const port = process.env.PORT
    >>>>>>> REPLACE
    ` + "```" + `

A single block may hold any number of pairs back to back. Pairs apply
in order, each one against the result of the previous.

An empty REPLACE section deletes the matched text. An empty SEARCH
section is an error — every pair needs literal text to find.

Malformed pairs (a SEARCH opener with no divider, or a fence that
closes mid-pair) are dropped; well-formed pairs in the same block
still apply.

Streaming
---------

Input may arrive incrementally. A block is complete once its closing
fence has arrived; until then it is reported as pending and never
applied. Only the final block of a buffer can be incomplete.
`

const topicMatching = `Matching Strategies
===================

Each SEARCH text is located in the target with three strategies, tried
in order. The first strategy that finds the text wins, and within a
strategy the earliest (leftmost) occurrence is always taken.

exact
-----

Literal substring match. Tried first so that byte-identical text never
falls through to fuzzy matching.

normalized
----------

Whitespace-insensitive match. Runs of spaces, tabs, and newlines
collapse to a single space, and a run squeezed between delimiter
characters (< > { } ; ,) is dropped entirely. This bridges re-wrapped
tags and drifted indentation:

    search   <div class="hero">\n  <h1>Hi</h1>\n</div>
    matches  <div class="hero">\n      <h1>Hi</h1>\n    </div>

The replacement lands on the original text span, so the file keeps its
own formatting outside the edited region.

line-window
-----------

Line-run match. The search text is compared against windows of whole
lines under the same whitespace collapsing, ignoring leading and
trailing whitespace on both sides. This rescues searches whose edge
whitespace has no counterpart in the document, such as a trailing
newline against the last line of a file. Windows never start on a
blank line.

All or nothing
--------------

A block's pairs apply to a scratch copy of the file. If any pair
fails, the file keeps its previous content and the block is reported
failed with the pair errors. Pairs after the failed one are still
attempted so that one run surfaces every problem.

An all-whitespace SEARCH never matches anywhere; it fails with "search
text not found" like any other miss.
`

const topicConfig = `Configuration Reference
=======================

stitch reads .stitch/config.yaml from the project root. Every field is
optional; a missing file means defaults.

Fields
------

  root      string   Directory that edit block paths resolve against.
                     Default: "." (the directory holding .stitch/).
                     Environment variables are expanded.
  backup    bool     Keep a .bak copy of each file before overwriting.
                     Default: false.
  strict    bool     Exit non-zero when any block fails. Default: false.
  allow     list     Glob patterns for paths stitch may write. An empty
                     list admits everything under root.
  deny      list     Glob patterns for paths stitch must not touch.
                     Deny wins over allow.
  history   int      Run reports kept under .stitch/history before old
                     ones are pruned. Default: 20.

Globs use doublestar patterns: * matches within a path segment, **
crosses segments. Patterns are validated at load time.

Path Safety
-----------

Every target path is resolved against root and must stay inside it.
Absolute paths and paths escaping root via ".." are rejected
regardless of allow patterns.

Example Config
--------------

  root: src
  backup: true
  strict: true

  allow:
    - "**/*.js"
    - "**/*.css"

  deny:
    - "vendor/**"
    - "dist/**"

Flag Overrides
--------------

--root, --backup, --strict, and --dry-run on the command line override
the config file for a single run.
`

const topicHistory = `Run History
===========

Every real run (not --dry-run) writes a JSON report to
.stitch/history/run-<id>.json. The newest reports are kept up to the
configured history count; older ones are pruned after each run.

Listing runs
------------

    stitch history

Shows recent runs, newest first: short run id, timestamp, input
source, applied and failed counts, duration.

    stitch history --limit 5

Inspecting a run
----------------

    stitch history 3f2a91c0

Any unique prefix of a run id works. The detail view lists every file
the run touched, the strategy each pair matched with, and the errors
of failed blocks.

Report fields
-------------

  run_id        Unique id for the run.
  started_at    Wall-clock start time.
  duration      Total run time.
  source        Where the input came from (a path, "stdin", or
                "clipboard").
  files         Per-file results.
  pending       Paths of blocks that never completed in the input.
  succeeded     Count of applied blocks.
  failed        Count of failed blocks.

Each file entry records the path, the block kind (replace or patch),
per-pair match strategies, BLAKE3 checksums of the content before and
after, and for failed patches each failing pair with its search text.

Doctor
------

    stitch doctor

Loads the most recent failed run and re-checks each failed search text
against the file as it exists now, naming the closest miss: the file
changed since the run, outer whitespace on the search text, a letter
case difference, or content drift.
`

const topicServe = `MCP Server
==========

stitch serve runs a Model Context Protocol server on stdio, exposing
the apply pipeline to editors and agent harnesses.

    stitch serve [--root DIR] [--dry-run] [--quiet]

Logs go to stderr; stdout carries the protocol stream. --dry-run
forces every apply_edits call to preview only, and --quiet suppresses
the stderr log.

Tools
-----

  apply_edits       Apply every edit block in a response text to the
                    working tree. Arguments: response, dry_run.
                    Returns the run report as JSON.

  patch_document    Apply search/replace pairs to a single document
                    passed inline. Arguments: document, edits (list of
                    {search, replace}), and an optional path used in
                    error messages. Returns the patched document and
                    the strategy used per pair.

  parse_blocks      List the edit blocks found in a text without
                    applying them. Arguments: text.

  session_open      Start an in-memory editing session over a set of
                    documents. Arguments: files ({path, content}
                    list). Returns a session id.

  session_feed      Feed a chunk of streamed response text to a
                    session. Completed blocks apply immediately to the
                    session's documents; a closing fence on the last
                    line of the buffer waits for the newline that
                    confirms it. Arguments: session_id, chunk, and
                    final (no more chunks follow, so the last line
                    counts as finished). Returns the records of newly
                    applied blocks and the paths still pending.

  session_files     Read documents back from a session. Arguments:
                    session_id, and an optional path to fetch a single
                    document.

Sessions live in server memory and vanish when the server exits.
Nothing a session does touches the filesystem; use apply_edits to
write files.
`
