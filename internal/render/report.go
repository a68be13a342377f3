package render

import (
	"fmt"
	"log/slog"
)

// IssueKind classifies a per-block render problem.
type IssueKind string

const (
	// IssueSourceUnavailable means a child fetch failed; the container
	// rendered with empty inner content.
	IssueSourceUnavailable IssueKind = "source_unavailable"
	// IssueUnresolvedReference means a link_to_page target could not be
	// resolved; a visible broken-link placeholder was emitted.
	IssueUnresolvedReference IssueKind = "unresolved_reference"
	// IssueUnknownBlockKind means a block type had no renderer and was skipped.
	IssueUnknownBlockKind IssueKind = "unknown_block_kind"
	// IssueUnsafeURL means a URL failed the scheme policy and was dropped.
	IssueUnsafeURL IssueKind = "unsafe_url"
	// IssueTruncatedChildren means a container hit the child fetch cap.
	IssueTruncatedChildren IssueKind = "truncated_children"
)

// Issue records a single recovered render problem.
type Issue struct {
	BlockID string
	Kind    IssueKind
	Detail  string
	Err     error
}

func (i Issue) String() string {
	if i.Err != nil {
		return fmt.Sprintf("%s (block %s): %v", i.Kind, i.BlockID, i.Err)
	}
	if i.Detail != "" {
		return fmt.Sprintf("%s (block %s): %s", i.Kind, i.BlockID, i.Detail)
	}
	return fmt.Sprintf("%s (block %s)", i.Kind, i.BlockID)
}

// Report aggregates every problem recovered during a render. A render
// never fails as a whole; callers inspect the report to decide what to log.
type Report struct {
	Issues []Issue
}

func (rep *Report) add(issue Issue) {
	rep.Issues = append(rep.Issues, issue)
}

// merge appends another report's issues in order.
func (rep *Report) merge(other *Report) {
	rep.Issues = append(rep.Issues, other.Issues...)
}

// Empty reports whether the render completed without recovered problems.
func (rep *Report) Empty() bool {
	return len(rep.Issues) == 0
}

// Has reports whether any issue of the given kind was recorded.
func (rep *Report) Has(kind IssueKind) bool {
	for _, issue := range rep.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}

// Log writes every issue to the default slog logger at debug level,
// except source failures which log at warn.
func (rep *Report) Log() {
	for _, issue := range rep.Issues {
		switch issue.Kind {
		case IssueSourceUnavailable, IssueUnresolvedReference:
			slog.Warn("render issue", "kind", string(issue.Kind), "block", issue.BlockID, "error", issue.Err)
		default:
			slog.Debug("render issue", "kind", string(issue.Kind), "block", issue.BlockID, "detail", issue.Detail)
		}
	}
}
