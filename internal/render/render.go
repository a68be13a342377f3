// Package render converts Notion block trees into HTML fragments.
//
// Rendering is a single streaming pass over the block sequence: adjacent
// list items are grouped into one <ul>/<ol>, every other kind goes through
// a per-kind dispatch table, and container kinds (toggle, table, columns,
// synced blocks) recurse through a Source that fetches children on demand.
// A render never fails as a whole; recovered problems are collected into
// a Report.
package render

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/salmonumbrella/notion-site/internal/notion"
)

// Source supplies block children and page lookups. *notion.Client
// satisfies it; tests use local fakes.
type Source interface {
	GetBlockChildren(ctx context.Context, blockID string, opts *notion.BlockChildrenOptions) (*notion.BlockList, error)
	GetPage(ctx context.Context, pageID string) (*notion.Page, error)
}

// Policy holds the product-level rendering knobs that are not Notion
// semantics and so stay configurable.
type Policy struct {
	// SkipEmptyParagraphs drops paragraphs whose text is empty or
	// whitespace-only instead of emitting <p></p>.
	SkipEmptyParagraphs bool
	// ChildFetchLimit caps how many children are accumulated for one
	// container before pagination stops.
	ChildFetchLimit int
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		SkipEmptyParagraphs: true,
		ChildFetchLimit:     500,
	}
}

// Renderer renders block sequences to HTML. Safe for concurrent use:
// all per-render state lives in the call.
type Renderer struct {
	src    Source
	policy Policy
}

// New creates a Renderer with the default policy.
func New(src Source) *Renderer {
	return NewWithPolicy(src, DefaultPolicy())
}

// NewWithPolicy creates a Renderer with an explicit policy.
func NewWithPolicy(src Source, policy Policy) *Renderer {
	if policy.ChildFetchLimit <= 0 {
		policy.ChildFetchLimit = DefaultPolicy().ChildFetchLimit
	}
	return &Renderer{src: src, policy: policy}
}

// Render converts an ordered block sequence into a single HTML fragment.
// Identical input produces byte-identical output. The returned report
// lists every recovered per-block problem; Render itself never fails.
func (r *Renderer) Render(ctx context.Context, blocks []notion.Block) (string, *Report) {
	rep := &Report{}
	return r.renderBlocks(ctx, blocks, rep), rep
}

// RenderPage fetches a page's top-level blocks and renders them.
// Only the top-level fetch is a hard error; everything below it is
// recovered per block as usual.
func (r *Renderer) RenderPage(ctx context.Context, pageID string) (string, *Report, error) {
	rep := &Report{}
	blocks, ok := r.fetchChildren(ctx, pageID, rep)
	if !ok {
		return "", rep, fmt.Errorf("failed to fetch blocks for page %s", pageID)
	}
	return r.renderBlocks(ctx, blocks, rep), rep, nil
}

// listState is the list-grouping state machine: either no list is open,
// or a list of one kind is accumulating items. Grouping never straddles
// a non-list block.
type listState struct {
	kind  string // "" = no open list
	items []string
}

// add appends a list item, flushing first when the list kind changes.
// Returns the HTML flushed by the transition ("" when none).
func (ls *listState) add(kind, item string) string {
	var flushed string
	if ls.kind != kind {
		flushed = ls.flush()
		ls.kind = kind
	}
	ls.items = append(ls.items, item)
	return flushed
}

// flush closes any open list and resets the state.
func (ls *listState) flush() string {
	if ls.kind == "" {
		return ""
	}
	tag := "ul"
	if ls.kind == "numbered_list_item" {
		tag = "ol"
	}
	out := "<" + tag + ">" + strings.Join(ls.items, "") + "</" + tag + ">"
	ls.kind = ""
	ls.items = nil
	return out
}

// renderBlocks runs the streaming pass over one block sequence.
func (r *Renderer) renderBlocks(ctx context.Context, blocks []notion.Block, rep *Report) string {
	var sb strings.Builder
	var list listState

	for i := range blocks {
		b := &blocks[i]
		switch b.Type {
		case "bulleted_list_item", "numbered_list_item":
			item := "<li>" + r.renderRichText(b.RichText(), rep) + "</li>"
			sb.WriteString(list.add(b.Type, item))
		default:
			sb.WriteString(list.flush())
			sb.WriteString(r.renderBlock(ctx, b, rep))
		}
	}

	sb.WriteString(list.flush())
	return sb.String()
}

// renderFunc renders one non-list block.
type renderFunc func(r *Renderer, ctx context.Context, b *notion.Block, rep *Report) string

// blockRenderers dispatches on the block kind. Adding a kind is one new
// entry here. Populated in init to break the initialization cycle through
// renderToggle -> renderBlocks -> renderBlock.
var blockRenderers map[string]renderFunc

func init() {
	blockRenderers = map[string]renderFunc{
		"paragraph":         (*Renderer).renderParagraph,
		"heading_1":         (*Renderer).renderHeading,
		"heading_2":         (*Renderer).renderHeading,
		"heading_3":         (*Renderer).renderHeading,
		"to_do":             (*Renderer).renderToDo,
		"quote":             (*Renderer).renderQuote,
		"callout":           (*Renderer).renderCallout,
		"code":              (*Renderer).renderCode,
		"divider":           (*Renderer).renderDivider,
		"image":             (*Renderer).renderImage,
		"video":             (*Renderer).renderVideo,
		"audio":             (*Renderer).renderAudio,
		"file":              (*Renderer).renderFile,
		"pdf":               (*Renderer).renderPDF,
		"embed":             (*Renderer).renderEmbed,
		"bookmark":          (*Renderer).renderBookmark,
		"link_preview":      (*Renderer).renderLinkPreview,
		"table":             (*Renderer).renderTable,
		"toggle":            (*Renderer).renderToggle,
		"column_list":       (*Renderer).renderColumnList,
		"child_page":        (*Renderer).renderChildPage,
		"child_database":    (*Renderer).renderChildPage,
		"link_to_page":      (*Renderer).renderLinkToPage,
		"equation":          (*Renderer).renderEquation,
		"table_of_contents": (*Renderer).renderTableOfContents,
		"synced_block":      (*Renderer).renderSyncedBlock,
	}
}

// renderBlock dispatches one block. Unrecognized kinds render empty and
// never abort the page.
func (r *Renderer) renderBlock(ctx context.Context, b *notion.Block, rep *Report) string {
	fn, ok := blockRenderers[b.Type]
	if !ok {
		rep.add(Issue{BlockID: b.ID, Kind: IssueUnknownBlockKind, Detail: b.Type})
		return ""
	}
	return fn(r, ctx, b, rep)
}

// fetchChildren retrieves all children of a block, looping pagination up
// to the policy cap. A fetch failure is recorded and reported as ok=false
// so the container renders with empty inner content.
func (r *Renderer) fetchChildren(ctx context.Context, blockID string, rep *Report) ([]notion.Block, bool) {
	var all []notion.Block
	cursor := ""

	for {
		list, err := r.src.GetBlockChildren(ctx, blockID, &notion.BlockChildrenOptions{StartCursor: cursor})
		if err != nil {
			rep.add(Issue{BlockID: blockID, Kind: IssueSourceUnavailable, Err: err})
			return nil, false
		}

		all = append(all, list.Results...)

		if len(all) >= r.policy.ChildFetchLimit {
			rep.add(Issue{BlockID: blockID, Kind: IssueTruncatedChildren,
				Detail: fmt.Sprintf("stopped after %d children", r.policy.ChildFetchLimit)})
			all = all[:r.policy.ChildFetchLimit]
			break
		}
		if !list.HasMore || list.NextCursor == nil || *list.NextCursor == "" {
			break
		}
		cursor = *list.NextCursor
	}

	return all, true
}

func (r *Renderer) renderParagraph(ctx context.Context, b *notion.Block, rep *Report) string {
	spans := b.RichText()
	if r.policy.SkipEmptyParagraphs && strings.TrimSpace(notion.PlainText(spans)) == "" {
		return ""
	}
	return "<p>" + r.renderRichText(spans, rep) + "</p>"
}

func (r *Renderer) renderHeading(ctx context.Context, b *notion.Block, rep *Report) string {
	level := "1"
	switch b.Type {
	case "heading_2":
		level = "2"
	case "heading_3":
		level = "3"
	}
	spans := b.RichText()
	id := Slugify(notion.PlainText(spans))
	return "<h" + level + ` id="` + id + `">` + r.renderRichText(spans, rep) + "</h" + level + ">"
}

func (r *Renderer) renderToDo(ctx context.Context, b *notion.Block, rep *Report) string {
	checkbox := `<input type="checkbox" disabled>`
	if b.ContentBool("checked") {
		checkbox = `<input type="checkbox" disabled checked>`
	}
	return `<div class="to-do">` + checkbox + `<span>` + r.renderRichText(b.RichText(), rep) + `</span></div>`
}

func (r *Renderer) renderQuote(ctx context.Context, b *notion.Block, rep *Report) string {
	return "<blockquote>" + r.renderRichText(b.RichText(), rep) + "</blockquote>"
}

func (r *Renderer) renderCallout(ctx context.Context, b *notion.Block, rep *Report) string {
	color := b.ContentString("color")
	if color == "" {
		color = "default"
	}

	icon := ""
	if iconObj := b.ContentMap("icon"); iconObj != nil {
		if emoji, _ := iconObj["emoji"].(string); emoji != "" {
			icon = `<span class="callout-icon">` + html.EscapeString(emoji) + `</span>`
		} else if u := notion.FileObjectURL(iconObj); u != "" {
			if safe, ok := SanitizeImageURL(u); ok {
				icon = `<img class="callout-icon" src="` + html.EscapeString(safe) + `" alt="">`
			} else {
				rep.add(Issue{BlockID: b.ID, Kind: IssueUnsafeURL, Detail: u})
			}
		}
	}

	return `<div class="callout callout-` + html.EscapeString(color) + `">` + icon +
		`<div class="callout-content">` + r.renderRichText(b.RichText(), rep) + `</div></div>`
}

func (r *Renderer) renderCode(ctx context.Context, b *notion.Block, rep *Report) string {
	lang := b.ContentString("language")
	if lang == "" {
		lang = "plain text"
	}
	// No rich text formatting inside code, escaping only.
	source := html.EscapeString(notion.PlainText(b.RichText()))
	pre := `<pre><code class="language-` + Slugify(lang) + `">` + source + `</code></pre>`

	caption := r.renderRichText(notion.RichTextsFrom(b.Content["caption"]), rep)
	if caption == "" {
		return pre
	}
	return `<figure class="code">` + pre + `<figcaption>` + caption + `</figcaption></figure>`
}

func (r *Renderer) renderDivider(ctx context.Context, b *notion.Block, rep *Report) string {
	return "<hr>"
}

// figcaption renders a media block's caption, or "" when absent.
func (r *Renderer) figcaption(b *notion.Block, rep *Report) string {
	caption := r.renderRichText(notion.RichTextsFrom(b.Content["caption"]), rep)
	if caption == "" {
		return ""
	}
	return "<figcaption>" + caption + "</figcaption>"
}

// mediaURL extracts and validates the block's file URL. Empty or unsafe
// URLs collapse the whole block to an empty string.
func (r *Renderer) mediaURL(b *notion.Block, rep *Report, image bool) (string, bool) {
	raw := notion.FileObjectURL(b.Content)
	if raw == "" {
		return "", false
	}
	var safe string
	var ok bool
	if image {
		safe, ok = SanitizeImageURL(raw)
	} else {
		safe, ok = SanitizeURL(raw)
	}
	if !ok {
		rep.add(Issue{BlockID: b.ID, Kind: IssueUnsafeURL, Detail: raw})
		return "", false
	}
	return html.EscapeString(safe), true
}

func (r *Renderer) renderImage(ctx context.Context, b *notion.Block, rep *Report) string {
	src, ok := r.mediaURL(b, rep, true)
	if !ok {
		return ""
	}
	alt := html.EscapeString(notion.PlainText(notion.RichTextsFrom(b.Content["caption"])))
	return `<figure class="image"><img src="` + src + `" alt="` + alt + `">` + r.figcaption(b, rep) + `</figure>`
}

func (r *Renderer) renderVideo(ctx context.Context, b *notion.Block, rep *Report) string {
	raw := notion.FileObjectURL(b.Content)
	if raw == "" {
		return ""
	}

	// YouTube and Vimeo get a responsive iframe embed; anything else
	// plays through a native <video> element.
	if embedURL, ok := videoEmbedURL(raw); ok {
		return `<figure class="video"><div class="video-embed"><iframe src="` + html.EscapeString(embedURL) +
			`" loading="lazy" allowfullscreen></iframe></div>` + r.figcaption(b, rep) + `</figure>`
	}

	src, ok := r.mediaURL(b, rep, false)
	if !ok {
		return ""
	}
	return `<figure class="video"><video controls><source src="` + src + `"></video>` + r.figcaption(b, rep) + `</figure>`
}

func (r *Renderer) renderAudio(ctx context.Context, b *notion.Block, rep *Report) string {
	src, ok := r.mediaURL(b, rep, false)
	if !ok {
		return ""
	}
	return `<figure class="audio"><audio controls><source src="` + src + `"></audio>` + r.figcaption(b, rep) + `</figure>`
}

func (r *Renderer) renderFile(ctx context.Context, b *notion.Block, rep *Report) string {
	src, ok := r.mediaURL(b, rep, false)
	if !ok {
		return ""
	}
	name := b.ContentString("name")
	if name == "" {
		name = "Download"
	}
	return `<figure class="file"><a href="` + src + `" download>` + html.EscapeString(name) + `</a>` +
		r.figcaption(b, rep) + `</figure>`
}

func (r *Renderer) renderPDF(ctx context.Context, b *notion.Block, rep *Report) string {
	src, ok := r.mediaURL(b, rep, false)
	if !ok {
		return ""
	}
	return `<figure class="pdf"><iframe src="` + src + `" loading="lazy"></iframe>` + r.figcaption(b, rep) + `</figure>`
}

func (r *Renderer) renderEmbed(ctx context.Context, b *notion.Block, rep *Report) string {
	raw := b.ContentString("url")
	safe, ok := SanitizeURL(raw)
	if !ok {
		if raw != "" {
			rep.add(Issue{BlockID: b.ID, Kind: IssueUnsafeURL, Detail: raw})
		}
		return ""
	}
	return `<figure class="embed"><iframe src="` + html.EscapeString(safe) + `" loading="lazy"></iframe>` +
		r.figcaption(b, rep) + `</figure>`
}

func (r *Renderer) renderBookmark(ctx context.Context, b *notion.Block, rep *Report) string {
	raw := b.ContentString("url")
	safe, ok := SanitizeURL(raw)
	if !ok {
		if raw != "" {
			rep.add(Issue{BlockID: b.ID, Kind: IssueUnsafeURL, Detail: raw})
		}
		return ""
	}
	escaped := html.EscapeString(safe)
	return `<figure class="bookmark"><a href="` + escaped + `" rel="noopener noreferrer">` + escaped + `</a>` +
		r.figcaption(b, rep) + `</figure>`
}

func (r *Renderer) renderLinkPreview(ctx context.Context, b *notion.Block, rep *Report) string {
	raw := b.ContentString("url")
	safe, ok := SanitizeURL(raw)
	if !ok {
		if raw != "" {
			rep.add(Issue{BlockID: b.ID, Kind: IssueUnsafeURL, Detail: raw})
		}
		return ""
	}
	escaped := html.EscapeString(safe)
	return `<div class="link-preview"><a href="` + escaped + `" rel="noopener noreferrer">` + escaped + `</a></div>`
}

func (r *Renderer) renderTable(ctx context.Context, b *notion.Block, rep *Report) string {
	var rows []notion.Block
	if b.HasChildren {
		rows, _ = r.fetchChildren(ctx, b.ID, rep)
	}

	hasColumnHeader := b.ContentBool("has_column_header")
	hasRowHeader := b.ContentBool("has_row_header")

	var thead, tbody strings.Builder
	for i := range rows {
		row := &rows[i]
		if row.Type != "table_row" {
			continue
		}
		cells, _ := row.Content["cells"].([]interface{})

		headerRow := hasColumnHeader && i == 0
		var tr strings.Builder
		tr.WriteString("<tr>")
		for j, cell := range cells {
			content := r.renderRichText(notion.RichTextsFrom(cell), rep)
			tag := "td"
			if headerRow || (hasRowHeader && j == 0) {
				tag = "th"
			}
			tr.WriteString("<" + tag + ">" + content + "</" + tag + ">")
		}
		tr.WriteString("</tr>")

		if headerRow {
			thead.WriteString(tr.String())
		} else {
			tbody.WriteString(tr.String())
		}
	}

	var sb strings.Builder
	sb.WriteString("<table>")
	if thead.Len() > 0 {
		sb.WriteString("<thead>" + thead.String() + "</thead>")
	}
	sb.WriteString("<tbody>" + tbody.String() + "</tbody></table>")
	return sb.String()
}

func (r *Renderer) renderToggle(ctx context.Context, b *notion.Block, rep *Report) string {
	inner := ""
	if b.HasChildren {
		if children, ok := r.fetchChildren(ctx, b.ID, rep); ok {
			inner = r.renderBlocks(ctx, children, rep)
		}
	}
	return "<details><summary>" + r.renderRichText(b.RichText(), rep) + "</summary>" +
		`<div class="toggle-content">` + inner + "</div></details>"
}

// renderColumnList fetches the column blocks, then renders each column's
// children concurrently. Results are reassembled in document order before
// concatenation, so output stays deterministic.
func (r *Renderer) renderColumnList(ctx context.Context, b *notion.Block, rep *Report) string {
	if !b.HasChildren {
		return `<div class="columns"></div>`
	}
	columns, ok := r.fetchChildren(ctx, b.ID, rep)
	if !ok {
		return `<div class="columns"></div>`
	}

	type columnResult struct {
		html   string
		report Report
	}

	results := make([]columnResult, len(columns))
	var wg sync.WaitGroup
	for i := range columns {
		col := &columns[i]
		if col.Type != "column" || !col.HasChildren {
			continue
		}
		wg.Add(1)
		go func(i int, col *notion.Block) {
			defer wg.Done()
			colRep := &results[i].report
			if children, ok := r.fetchChildren(ctx, col.ID, colRep); ok {
				results[i].html = r.renderBlocks(ctx, children, colRep)
			}
		}(i, col)
	}
	wg.Wait()

	var sb strings.Builder
	sb.WriteString(`<div class="columns">`)
	for i := range results {
		if columns[i].Type != "column" {
			continue
		}
		rep.merge(&results[i].report)
		sb.WriteString(`<div class="column">` + results[i].html + `</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func (r *Renderer) renderChildPage(ctx context.Context, b *notion.Block, rep *Report) string {
	title := b.ContentString("title")
	if title == "" {
		title = "Untitled"
	}
	class := "child-page"
	if b.Type == "child_database" {
		class = "child-database"
	}
	return `<div class="` + class + `"><a href="/page/` + Slugify(title) + `">` +
		`<span class="page-icon">📄</span>` + html.EscapeString(title) + `</a></div>`
}

func (r *Renderer) renderLinkToPage(ctx context.Context, b *notion.Block, rep *Report) string {
	pageID := b.ContentString("page_id")
	if pageID == "" {
		rep.add(Issue{BlockID: b.ID, Kind: IssueUnresolvedReference, Detail: "link_to_page without page_id"})
		return brokenLink()
	}

	page, err := r.src.GetPage(ctx, pageID)
	if err != nil {
		// Visible placeholder rather than silent omission: the reader
		// should see that a link used to be here.
		rep.add(Issue{BlockID: b.ID, Kind: IssueUnresolvedReference, Err: err})
		return brokenLink()
	}

	title := page.Title()
	if title == "" {
		title = "Untitled"
	}
	return `<div class="link-to-page"><a href="/page/` + Slugify(title) + `">` +
		`<span class="page-icon">📄</span>` + html.EscapeString(title) + `</a></div>`
}

func brokenLink() string {
	return `<span class="link-broken">[unavailable page]</span>`
}

func (r *Renderer) renderEquation(ctx context.Context, b *notion.Block, rep *Report) string {
	expr := html.EscapeString(b.ContentString("expression"))
	return `<div class="equation" data-expression="` + expr + `">` + expr + `</div>`
}

func (r *Renderer) renderTableOfContents(ctx context.Context, b *notion.Block, rep *Report) string {
	// Populated client-side from the page's own headings.
	return `<nav class="table-of-contents"></nav>`
}

// renderSyncedBlock substitutes the synced content in place: the wrapper
// itself contributes no markup.
func (r *Renderer) renderSyncedBlock(ctx context.Context, b *notion.Block, rep *Report) string {
	sourceID := b.ID
	if syncedFrom := b.ContentMap("synced_from"); syncedFrom != nil {
		if id, _ := syncedFrom["block_id"].(string); id != "" {
			sourceID = id
		}
	} else if !b.HasChildren {
		return ""
	}

	children, ok := r.fetchChildren(ctx, sourceID, rep)
	if !ok {
		return ""
	}
	return r.renderBlocks(ctx, children, rep)
}
