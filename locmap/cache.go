// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package locmap translates a (line, column) position in a preprocessor's
// fully expanded output text back to the (file, line, column) position in
// the original, unexpanded source that produced it, using the
// IncludeFileInfo breadcrumb trace recorded during preprocessing.
//
// Grounded on the analogous sourceinfo package, which performs an analogous
// job for protobuf descriptors: walking a recorded trace of source spans to
// answer "what original construct produced this generated location".
package locmap

import (
	"sort"

	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/preprocess"
)

// entry maps one contiguous expanded-output line range back to a starting
// line in some original file. Entries are built once per pushed section
// (an `include or a macro expansion) from the preprocessor's trace.
type entry struct {
	expandedStart uint32
	expandedEnd   uint32

	file         ids.PathId
	originalLine uint32

	// depth is the nesting depth this entry was pushed at; deeper entries
	// take priority over shallower ones when ranges overlap, since a push
	// always narrows (never widens) the active range.
	depth int
}

// Cache is a per-file, read-only, binary-searchable index built once after
// preprocessing a file and its includes/macro expansions. It is safe for
// concurrent reads from many goroutines, matching every other pipeline
// artifact's "build once, read everywhere" shape.
type Cache struct {
	entries []entry // sorted by expandedStart
}

// Build constructs a Cache from the IncludeFileInfo trace a Preprocessor.Preprocess
// call returned. rootFile and rootFileLineCount describe the top-level file
// itself, used as the base mapping before any push narrows it.
func Build(rootFile ids.PathId, rootFileLineCount uint32, trace []preprocess.IncludeFileInfo) *Cache {
	c := &Cache{}
	c.entries = append(c.entries, entry{
		expandedStart: 1,
		expandedEnd:   rootFileLineCount,
		file:          rootFile,
		originalLine:  1,
		depth:         0,
	})

	depth := 0
	for _, e := range trace {
		if e.Action != preprocess.ActionPush {
			continue
		}
		depth++
		var target ids.PathId
		var origLine uint32
		switch e.Context {
		case preprocess.ContextInclude:
			// Included text is copied verbatim, so its own line 1 aligns
			// with the first expanded line of the pushed span.
			target = e.SectionFile
			origLine = 1
		case preprocess.ContextMacro:
			// A macro body's expansion is attributed back to the call site
			// in the invoking file, which is where a human fixing a
			// diagnostic needs to look.
			target = e.OriginalFile
			origLine = e.OriginalStartLine
		}
		c.entries = append(c.entries, entry{
			expandedStart: e.ExpandedStartLine,
			expandedEnd:   e.ExpandedEndLine,
			file:          target,
			originalLine:  origLine,
			depth:         depth,
		})
	}

	sort.SliceStable(c.entries, func(i, j int) bool {
		if c.entries[i].expandedStart != c.entries[j].expandedStart {
			return c.entries[i].expandedStart < c.entries[j].expandedStart
		}
		// Tie-break at a section boundary: the deeper (more specific) push
		// wins, so a line that is simultaneously the last line of an outer
		// section and the first line of a nested one resolves to the
		// nested section, matching how a human reads the innermost
		// enclosing `include/macro as the location responsible for a line.
		return c.entries[i].depth > c.entries[j].depth
	})
	return c
}

// MapLocation translates one (line, column) position in the expanded output
// to its (file, line, column) in original source. Column is carried through
// unchanged: the preprocessor never changes a line's column alignment for
// text it leaves active, only which file/line the line came from.
func (c *Cache) MapLocation(expandedLine, column uint32) (ids.PathId, uint32, uint32) {
	if len(c.entries) == 0 {
		return ids.BadPathId, expandedLine, column
	}
	idx := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].expandedStart > expandedLine
	}) - 1
	if idx < 0 {
		idx = 0
	}
	// Prefer the deepest entry among all entries whose range contains
	// expandedLine; entries are sorted by start then by depth descending at
	// equal starts, so scanning backward from idx for an enclosing range
	// picks the most specific one.
	best := c.entries[idx]
	found := false
	for i := idx; i >= 0; i-- {
		e := c.entries[i]
		if e.expandedStart <= expandedLine && expandedLine <= e.expandedEnd && (!found || e.depth >= best.depth) {
			best = e
			found = true
		}
	}
	originalLine := best.originalLine + (expandedLine - best.expandedStart)
	return best.file, originalLine, column
}

// MapRange translates a (startLine, startCol, endLine, endCol) expanded-output
// span into its original-source span, resolving the start and end
// independently -- a span that straddles a push/pop boundary legitimately
// has its two ends attributed to different files, which is the UHDM layer's
// signal that the span crosses an inclusion or expansion boundary.
func (c *Cache) MapRange(startLine, startCol, endLine, endCol uint32) (startFile ids.PathId, sl, sc uint32, endFile ids.PathId, el, ec uint32) {
	startFile, sl, sc = c.MapLocation(startLine, startCol)
	endFile, el, ec = c.MapLocation(endLine, endCol)
	return
}
